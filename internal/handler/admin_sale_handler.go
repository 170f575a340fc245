package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// AdminSaleHandler handles admin sale HTTP endpoints.
type AdminSaleHandler struct {
	saleRepo *repository.SaleRepository
}

// NewAdminSaleHandler constructs an AdminSaleHandler.
func NewAdminSaleHandler(saleRepo *repository.SaleRepository) *AdminSaleHandler {
	return &AdminSaleHandler{saleRepo: saleRepo}
}

// ListSales handles GET /admin/v1/sales
func (h *AdminSaleHandler) ListSales(c *gin.Context) {
	var filter repository.AdminSaleFilter

	// Parse query parameters
	if branchID := c.Query("branchId"); branchID != "" {
		if id, err := strconv.Atoi(branchID); err == nil {
			filter.BranchID = &id
		}
	}
	if terminalID := c.Query("terminalId"); terminalID != "" {
		if id, err := strconv.Atoi(terminalID); err == nil {
			filter.TerminalID = &id
		}
	}
	if patientID := c.Query("patientId"); patientID != "" {
		if id, err := strconv.Atoi(patientID); err == nil {
			filter.PatientID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if payment := c.Query("payment"); payment != "" {
		filter.Payment = &payment
	}
	if saleNumber := c.Query("saleNumber"); saleNumber != "" {
		filter.SaleNumber = &saleNumber
	}
	if startDate := c.Query("startDate"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := c.Query("endDate"); endDate != "" {
		filter.EndDate = &endDate
	}
	if isTraining := c.Query("isTraining"); isTraining != "" {
		val := isTraining == "true"
		filter.IsTraining = &val
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

	result, err := h.saleRepo.GetAllAdmin(&filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sales")
		return
	}

	utils.SuccessWithPagination(c, 200, "Sales retrieved", gin.H{
		"sales": result.Sales,
	}, result.Page, result.Limit, result.TotalItems)
}

// GetSale handles GET /admin/v1/sales/:id
// Accepts either the internal id or the receipt number.
func (h *AdminSaleHandler) GetSale(c *gin.Context) {
	idOrNumber := c.Param("id")
	if idOrNumber == "" {
		utils.Error(c, 400, "INVALID_ID", "Sale ID is required")
		return
	}

	var sale *models.Sale
	var err error
	if id, convErr := strconv.Atoi(idOrNumber); convErr == nil {
		sale, err = h.saleRepo.GetByID(id)
	} else {
		sale, err = h.saleRepo.GetBySaleNumber(idOrNumber)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			utils.Error(c, 404, "SALE_NOT_FOUND", "Sale not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sale")
		return
	}

	utils.Success(c, 200, "Sale retrieved", sale)
}
