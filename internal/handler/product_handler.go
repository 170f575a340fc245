package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// ProductHandler handles catalog browsing endpoints for POS terminals.
type ProductHandler struct {
    productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
    return &ProductHandler{productService: productService}
}

// GetProducts returns the product list with optional filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
    category := c.Query("category") // frame, sunglass, lens, etc
    brand := c.Query("brand")
    search := c.Query("search")

    // pagination
    page := 1
    limit := 50
    if v := c.Query("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            page = n
        }
    }
    if v := c.Query("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            limit = n
        }
    }

    products, total, err := h.productService.GetProducts(category, brand, search, page, limit)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
        return
    }

    utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
        "products": products,
    }, page, limit, total)
}

// GetProductDetail returns one product with its sellable variants.
func (h *ProductHandler) GetProductDetail(c *gin.Context) {
    id, err := strconv.Atoi(c.Param("id"))
    if err != nil {
        utils.Error(c, 400, "INVALID_ID", "Product id must be numeric")
        return
    }

    product, skus, err := h.productService.GetProductDetail(id)
    if err != nil {
        utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
        return
    }

    utils.Success(c, 200, "Product retrieved successfully", gin.H{
        "product": product,
        "skus":    skus,
    })
}

// GetSKU returns one sellable variant by its SKU code.
func (h *ProductHandler) GetSKU(c *gin.Context) {
    sku, err := h.productService.GetSKUByCode(c.Param("code"))
    if err != nil {
        utils.Error(c, 404, "INVALID_SKU", "SKU not found or inactive")
        return
    }

    utils.Success(c, 200, "SKU retrieved successfully", sku)
}

// GetCategories returns the product categories carried by the chain.
func (h *ProductHandler) GetCategories(c *gin.Context) {
    categories, err := h.productService.GetCategories()
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get categories")
        return
    }

    utils.Success(c, 200, "Categories retrieved successfully", gin.H{
        "categories": categories,
    })
}

// GetBrands returns brands, optionally narrowed to one category.
func (h *ProductHandler) GetBrands(c *gin.Context) {
    brands, err := h.productService.GetBrands(c.Query("category"))
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get brands")
        return
    }

    utils.Success(c, 200, "Brands retrieved successfully", gin.H{
        "brands": brands,
    })
}
