package service

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// ProductManagementService handles admin catalog CRUD and stock movements.
type ProductManagementService struct {
	productRepo *repository.ProductRepository
	skuRepo     *repository.SKURepository
}

// NewProductManagementService constructs a ProductManagementService.
func NewProductManagementService(productRepo *repository.ProductRepository, skuRepo *repository.SKURepository) *ProductManagementService {
	return &ProductManagementService{
		productRepo: productRepo,
		skuRepo:     skuRepo,
	}
}

// CreateProductRequest represents the request to create a new product.
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=frame sunglass lens contact_lens solution accessory"`
	Brand       string `json:"brand" binding:"required"`
	Description string `json:"description"`
	HSNCode     string `json:"hsnCode"`
}

// UpdateProductRequest represents the request to update a product.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category" binding:"omitempty,oneof=frame sunglass lens contact_lens solution accessory"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	HSNCode     string `json:"hsnCode"`
	IsActive    *bool  `json:"isActive"`
}

// CreateSKURequest represents the request to add a variant.
type CreateSKURequest struct {
	SKUCode      string `json:"skuCode" binding:"required"`
	VariantName  string `json:"variantName" binding:"required"`
	Price        int    `json:"price" binding:"required,min=1"`
	MRP          int    `json:"mrp"`
	CostPrice    int    `json:"costPrice"`
	Stock        int    `json:"stock" binding:"min=0"`
	ReorderLevel int    `json:"reorderLevel" binding:"min=0"`
	IsActive     bool   `json:"isActive"`
}

// UpdateSKURequest represents the request to update a variant.
type UpdateSKURequest struct {
	VariantName  string `json:"variantName"`
	Price        *int   `json:"price"`
	MRP          *int   `json:"mrp"`
	CostPrice    *int   `json:"costPrice"`
	ReorderLevel *int   `json:"reorderLevel"`
	IsActive     *bool  `json:"isActive"`
}

// CreateProduct creates a new product. Products start inactive until a
// variant is priced and stocked.
func (s *ProductManagementService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Category:    models.ProductCategory(req.Category),
		Brand:       req.Brand,
		Description: req.Description,
		HSNCode:     req.HSNCode,
		IsActive:    false,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductManagementService) GetProduct(id int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates a product.
func (s *ProductManagementService) UpdateProduct(id int, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = models.ProductCategory(req.Category)
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.HSNCode != "" {
		product.HSNCode = req.HSNCode
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its variants.
func (s *ProductManagementService) DeleteProduct(id int) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

// CreateSKU adds a variant to a product.
func (s *ProductManagementService) CreateSKU(productID int, req *CreateSKURequest) (*models.SKU, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	existing, _ := s.skuRepo.GetBySKUCode(req.SKUCode)
	if existing != nil {
		return nil, errors.New("sku_code already exists")
	}

	sku := &models.SKU{
		ProductID:    productID,
		SKUCode:      req.SKUCode,
		VariantName:  req.VariantName,
		Price:        req.Price,
		MRP:          req.MRP,
		CostPrice:    req.CostPrice,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		IsActive:     req.IsActive,
	}
	if err := s.skuRepo.Create(sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// GetSKU retrieves a variant by ID.
func (s *ProductManagementService) GetSKU(id int) (*models.SKU, error) {
	sku, err := s.skuRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("sku not found")
		}
		return nil, err
	}
	return sku, nil
}

// UpdateSKU updates a variant. Stock is not editable here; use AdjustStock so
// every movement is logged.
func (s *ProductManagementService) UpdateSKU(id int, req *UpdateSKURequest) (*models.SKU, error) {
	sku, err := s.GetSKU(id)
	if err != nil {
		return nil, err
	}

	if req.VariantName != "" {
		sku.VariantName = req.VariantName
	}
	if req.Price != nil {
		if *req.Price < 1 {
			return nil, errors.New("price must be positive")
		}
		sku.Price = *req.Price
	}
	if req.MRP != nil {
		sku.MRP = *req.MRP
	}
	if req.CostPrice != nil {
		sku.CostPrice = *req.CostPrice
	}
	if req.ReorderLevel != nil {
		sku.ReorderLevel = *req.ReorderLevel
	}
	if req.IsActive != nil {
		sku.IsActive = *req.IsActive
	}

	if err := s.skuRepo.Update(sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// AdjustStock applies a stock delta (restock positive, correction negative).
// A delta that would take stock below zero fails.
func (s *ProductManagementService) AdjustStock(id, delta int, reason string, staffID int) (*models.SKU, error) {
	if delta == 0 {
		return nil, errors.New("delta must be non-zero")
	}
	if err := s.skuRepo.AdjustStock(id, delta); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInsufficientStock
		}
		return nil, err
	}

	log.Info().
		Int("skuId", id).
		Int("delta", delta).
		Int("staffId", staffID).
		Str("reason", reason).
		Msg("stock adjusted")

	return s.GetSKU(id)
}

// DeleteSKU removes a variant.
func (s *ProductManagementService) DeleteSKU(id int) error {
	sku, err := s.GetSKU(id)
	if err != nil {
		return err
	}
	return s.skuRepo.Delete(sku.ID)
}

// GetProductSKUs lists every variant of a product, active or not.
func (s *ProductManagementService) GetProductSKUs(productID int) ([]models.SKU, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.skuRepo.GetByProductID(productID)
}

// ListProductsFilter holds admin catalog filters.
type ListProductsFilter struct {
	Category string
	Brand    string
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// ListProducts returns the admin catalog view.
func (s *ProductManagementService) ListProducts(filter *ListProductsFilter) (*repository.AdminProductResult, error) {
	repoFilter := &repository.AdminProductFilter{
		Category: filter.Category,
		Brand:    filter.Brand,
		Search:   filter.Search,
		IsActive: filter.IsActive,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	return s.productRepo.GetAllAdmin(repoFilter)
}

// GetLowStock lists variants at or below their reorder level.
func (s *ProductManagementService) GetLowStock() ([]repository.LowStockRow, error) {
	return s.skuRepo.GetLowStock()
}
