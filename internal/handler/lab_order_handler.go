package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// LabOrderHandler handles lab order HTTP endpoints.
type LabOrderHandler struct {
	labService *service.LabOrderService
}

// NewLabOrderHandler constructs a LabOrderHandler.
func NewLabOrderHandler(labService *service.LabOrderService) *LabOrderHandler {
	return &LabOrderHandler{labService: labService}
}

// GetOrder handles GET /v1/lab-orders/:orderNumber
func (h *LabOrderHandler) GetOrder(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		utils.Error(c, 400, "INVALID_ID", "Order number is required")
		return
	}

	order, err := h.labService.GetByOrderNumber(orderNumber)
	if err != nil {
		if err == utils.ErrLabOrderNotFound {
			utils.Error(c, 404, "LAB_ORDER_NOT_FOUND", "Lab order not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve lab order")
		return
	}

	utils.Success(c, 200, "Lab order retrieved", order)
}

// MarkDelivered handles POST /v1/lab-orders/:orderNumber/deliver
func (h *LabOrderHandler) MarkDelivered(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		utils.Error(c, 400, "INVALID_ID", "Order number is required")
		return
	}

	order, err := h.labService.MarkDelivered(orderNumber)
	if err != nil {
		switch err {
		case utils.ErrLabOrderNotFound:
			utils.Error(c, 404, "LAB_ORDER_NOT_FOUND", "Lab order not found")
		case utils.ErrLabOrderNotReady:
			utils.Error(c, 409, "NOT_READY", "Lenses have not arrived from the lab yet")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update lab order")
		}
		return
	}

	utils.Success(c, 200, "Lab order delivered", order)
}

// ListOrders handles GET /admin/v1/lab-orders
func (h *LabOrderHandler) ListOrders(c *gin.Context) {
	var filter repository.AdminLabOrderFilter

	// Parse query parameters
	if branchID := c.Query("branchId"); branchID != "" {
		if id, err := strconv.Atoi(branchID); err == nil {
			filter.BranchID = &id
		}
	}
	if saleID := c.Query("saleId"); saleID != "" {
		if id, err := strconv.Atoi(saleID); err == nil {
			filter.SaleID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if orderNumber := c.Query("orderNumber"); orderNumber != "" {
		filter.OrderNumber = &orderNumber
	}
	if startDate := c.Query("startDate"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := c.Query("endDate"); endDate != "" {
		filter.EndDate = &endDate
	}

	// Parse pagination
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	result, err := h.labService.ListAdmin(&filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve lab orders")
		return
	}

	utils.SuccessWithPagination(c, 200, "Lab orders retrieved", gin.H{
		"orders": result.Orders,
	}, result.Page, result.Limit, result.TotalItems)
}

// PingLab handles GET /admin/v1/lab/ping
func (h *LabOrderHandler) PingLab(c *gin.Context) {
	ping, err := h.labService.Ping(c.Request.Context())
	if err != nil {
		utils.Error(c, 502, "LAB_UNREACHABLE", "Optilab did not respond")
		return
	}

	utils.Success(c, 200, "Lab reachable", gin.H{
		"labName":    ping.LabName,
		"queueDepth": ping.QueueDepth,
	})
}

// Requeue handles POST /admin/v1/lab-orders/:orderNumber/requeue
func (h *LabOrderHandler) Requeue(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		utils.Error(c, 400, "INVALID_ID", "Order number is required")
		return
	}

	order, err := h.labService.Requeue(orderNumber)
	if err != nil {
		switch err {
		case utils.ErrLabOrderNotFound:
			utils.Error(c, 404, "LAB_ORDER_NOT_FOUND", "Lab order not found")
		case utils.ErrLabAlreadyQueued:
			utils.Error(c, 409, "ALREADY_QUEUED", "Order is already queued for dispatch")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to requeue lab order")
		}
		return
	}

	utils.Success(c, 200, "Lab order requeued", order)
}
