package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// ProductManagementHandler handles admin catalog CRUD HTTP endpoints.
type ProductManagementHandler struct {
	productMgmtService *service.ProductManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(productMgmtService *service.ProductManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{productMgmtService: productMgmtService}
}

// ListProducts handles GET /admin/v1/products
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	// Parse query parameters
	filter := &service.ListProductsFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Page:     1,
		Limit:    50,
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}
	if isActive := c.Query("isActive"); isActive != "" {
		active := isActive == "true"
		filter.IsActive = &active
	}

	result, err := h.productMgmtService.ListProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved", gin.H{
		"products": result.Products,
	}, result.Page, result.Limit, result.TotalItems)
}

// CreateProduct handles POST /admin/v1/products
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productMgmtService.CreateProduct(&req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// GetProduct handles GET /admin/v1/products/:id
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	product, err := h.productMgmtService.GetProduct(id)
	if err != nil {
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	utils.Success(c, 200, "Product retrieved", product)
}

// UpdateProduct handles PUT /admin/v1/products/:id
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productMgmtService.UpdateProduct(id, &req)
	if err != nil {
		if err.Error() == "product not found" {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /admin/v1/products/:id
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	if err := h.productMgmtService.DeleteProduct(id); err != nil {
		if err.Error() == "product not found" {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}

// CreateSKU handles POST /admin/v1/products/:id/skus
func (h *ProductManagementHandler) CreateSKU(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	var req service.CreateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	sku, err := h.productMgmtService.CreateSKU(productID, &req)
	if err != nil {
		if err.Error() == "product not found" {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
			return
		}
		if err.Error() == "sku_code already exists" {
			utils.Error(c, 400, "SKU_EXISTS", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create SKU")
		return
	}

	utils.Success(c, 201, "SKU created successfully", sku)
}

// GetProductSKUs handles GET /admin/v1/products/:id/skus
func (h *ProductManagementHandler) GetProductSKUs(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	skus, err := h.productMgmtService.GetProductSKUs(productID)
	if err != nil {
		if err.Error() == "product not found" {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve SKUs")
		return
	}

	utils.Success(c, 200, "SKUs retrieved", gin.H{
		"skus":  skus,
		"total": len(skus),
	})
}

// GetSKU handles GET /admin/v1/skus/:id
func (h *ProductManagementHandler) GetSKU(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid SKU ID")
		return
	}

	sku, err := h.productMgmtService.GetSKU(id)
	if err != nil {
		utils.Error(c, 404, "SKU_NOT_FOUND", "SKU not found")
		return
	}

	utils.Success(c, 200, "SKU retrieved", sku)
}

// UpdateSKU handles PUT /admin/v1/skus/:id
func (h *ProductManagementHandler) UpdateSKU(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid SKU ID")
		return
	}

	var req service.UpdateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	sku, err := h.productMgmtService.UpdateSKU(id, &req)
	if err != nil {
		if err.Error() == "sku not found" {
			utils.Error(c, 404, "SKU_NOT_FOUND", err.Error())
			return
		}
		if err.Error() == "price must be positive" {
			utils.Error(c, 400, "INVALID_PRICE", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update SKU")
		return
	}

	utils.Success(c, 200, "SKU updated successfully", sku)
}

// AdjustStock handles POST /admin/v1/skus/:id/adjust-stock
func (h *ProductManagementHandler) AdjustStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid SKU ID")
		return
	}

	var req struct {
		Delta  int    `json:"delta" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "delta and reason are required")
		return
	}

	staffID := middleware.GetStaffID(c)

	sku, err := h.productMgmtService.AdjustStock(id, req.Delta, req.Reason, staffID)
	if err != nil {
		if err == utils.ErrInsufficientStock {
			utils.Error(c, 409, "INSUFFICIENT_STOCK", "Adjustment would take stock below zero")
			return
		}
		if err.Error() == "sku not found" {
			utils.Error(c, 404, "SKU_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to adjust stock")
		return
	}

	utils.Success(c, 200, "Stock adjusted", sku)
}

// DeleteSKU handles DELETE /admin/v1/skus/:id
func (h *ProductManagementHandler) DeleteSKU(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid SKU ID")
		return
	}

	if err := h.productMgmtService.DeleteSKU(id); err != nil {
		if err.Error() == "sku not found" {
			utils.Error(c, 404, "SKU_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete SKU")
		return
	}

	utils.Success(c, 200, "SKU deleted successfully", nil)
}

// GetLowStock handles GET /admin/v1/skus/low-stock
func (h *ProductManagementHandler) GetLowStock(c *gin.Context) {
	rows, err := h.productMgmtService.GetLowStock()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve low stock variants")
		return
	}

	utils.Success(c, 200, "Low stock variants retrieved", gin.H{
		"skus":  rows,
		"total": len(rows),
	})
}
