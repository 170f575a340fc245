package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/middleware"
    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// SaleHandler handles POS sale endpoints.
type SaleHandler struct {
    saleService *service.SaleService
    labService  *service.LabOrderService
}

// NewSaleHandler constructs a SaleHandler.
func NewSaleHandler(saleService *service.SaleService, labService *service.LabOrderService) *SaleHandler {
    return &SaleHandler{
        saleService: saleService,
        labService:  labService,
    }
}

// CreateSale handles POST /v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
    var req service.CreateSaleRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
        return
    }

    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }
    isTraining := middleware.IsTraining(c)

    sale, err := h.saleService.CreateSale(c.Request.Context(), &req, terminal, isTraining)
    if err != nil {
        h.handleError(c, err)
        return
    }

    message := "Sale recorded"
    if isTraining {
        message = "Training sale recorded"
    }

    utils.Success(c, 201, message, sale)
}

// GetSale handles GET /v1/sales/:saleNumber
func (h *SaleHandler) GetSale(c *gin.Context) {
    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }

    sale, err := h.saleService.GetSale(c.Param("saleNumber"), terminal, middleware.IsTraining(c))
    if err != nil {
        h.handleError(c, err)
        return
    }

    utils.Success(c, 200, "Sale retrieved", sale)
}

// CancelSale handles POST /v1/sales/:saleNumber/cancel
func (h *SaleHandler) CancelSale(c *gin.Context) {
    var req struct {
        Reason string `json:"reason" binding:"required"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Cancellation reason is required")
        return
    }

    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }

    sale, err := h.saleService.CancelSale(c.Request.Context(), c.Param("saleNumber"), req.Reason, terminal, middleware.IsTraining(c))
    if err != nil {
        h.handleError(c, err)
        return
    }

    utils.Success(c, 200, "Sale cancelled", sale)
}

// GetSaleLabOrders handles GET /v1/sales/:saleNumber/lab-orders
func (h *SaleHandler) GetSaleLabOrders(c *gin.Context) {
    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }

    sale, err := h.saleService.GetSale(c.Param("saleNumber"), terminal, middleware.IsTraining(c))
    if err != nil {
        h.handleError(c, err)
        return
    }

    orders, err := h.labService.GetBySale(sale.ID)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get lab orders")
        return
    }

    utils.Success(c, 200, "Lab orders retrieved", gin.H{
        "orders": orders,
    })
}

func (h *SaleHandler) handleError(c *gin.Context, err error) {
    switch err {
    case utils.ErrInvalidSKU:
        utils.Error(c, 400, "INVALID_SKU", "SKU code not found or inactive")
    case utils.ErrInvalidSaleItem:
        utils.Error(c, 400, "INVALID_SALE_ITEM", "Lens lines need a description, a price and lens details")
    case utils.ErrInvalidDiscount:
        utils.Error(c, 400, "INVALID_DISCOUNT", "Discount must be between zero and the subtotal")
    case utils.ErrInsufficientStock:
        utils.Error(c, 409, "INSUFFICIENT_STOCK", "Not enough stock for one of the items")
    case utils.ErrSaleNotFound:
        utils.Error(c, 404, "SALE_NOT_FOUND", "Sale not found")
    case utils.ErrSaleNotCancellable:
        utils.Error(c, 409, "SALE_NOT_CANCELLABLE", "Only completed sales can be cancelled")
    default:
        utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
    }
}
