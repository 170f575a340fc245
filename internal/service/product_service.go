package service

import (
    "time"

    "github.com/NetraTech/netra_api/internal/models"
    "github.com/NetraTech/netra_api/internal/repository"
    "github.com/NetraTech/netra_api/internal/utils"
)

// ProductService provides the catalog read side used by POS terminals.
type ProductService struct {
    productRepo *repository.ProductRepository
    skuRepo     *repository.SKURepository
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository, skuRepo *repository.SKURepository) *ProductService {
    return &ProductService{productRepo: productRepo, skuRepo: skuRepo}
}

// ProductResponse is the outward-facing payload for product listing.
type ProductResponse struct {
    ID        int       `json:"id"`
    Name      string    `json:"name"`
    Category  string    `json:"category"`
    Brand     string    `json:"brand"`
    SKUCount  int       `json:"skuCount"`
    MinPrice  int       `json:"minPrice,omitempty"`
    IsActive  bool      `json:"isActive"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// GetProducts returns products with filters and pagination, enriched with the
// variant count and the lowest variant price. It also returns total items.
func (s *ProductService) GetProducts(category, brand, search string, page, limit int) ([]ProductResponse, int, error) {
    products, total, err := s.productRepo.GetAllPaged(category, brand, search, page, limit)
    if err != nil {
        return nil, 0, err
    }

    result := make([]ProductResponse, 0, len(products))
    for _, p := range products {
        minPrice := 0
        if p.MinPrice != nil {
            minPrice = *p.MinPrice
        }
        result = append(result, ProductResponse{
            ID:        p.ID,
            Name:      p.Name,
            Category:  string(p.Category),
            Brand:     p.Brand,
            SKUCount:  p.SKUCount,
            MinPrice:  minPrice,
            IsActive:  p.IsActive,
            UpdatedAt: p.UpdatedAt,
        })
    }
    return result, total, nil
}

// GetProductDetail returns one product with all of its active variants.
func (s *ProductService) GetProductDetail(productID int) (*models.Product, []models.SKU, error) {
    product, err := s.productRepo.GetByID(productID)
    if err != nil || product == nil {
        return nil, nil, utils.ErrInvalidSKU
    }
    skus, err := s.skuRepo.GetByProductID(productID)
    if err != nil {
        return nil, nil, err
    }
    active := make([]models.SKU, 0, len(skus))
    for _, sku := range skus {
        if sku.IsActive {
            active = append(active, sku)
        }
    }
    return product, active, nil
}

// GetSKUByCode returns an active SKU by its code for barcode lookups at the
// counter.
func (s *ProductService) GetSKUByCode(skuCode string) (*models.SKU, error) {
    sku, err := s.skuRepo.GetBySKUCode(skuCode)
    if err != nil || sku == nil || !sku.IsActive {
        return nil, utils.ErrInvalidSKU
    }
    return sku, nil
}

// GetCategories lists the distinct catalog categories.
func (s *ProductService) GetCategories() ([]string, error) {
    return s.productRepo.GetDistinctCategories()
}

// GetBrands lists the distinct brands, optionally scoped to a category.
func (s *ProductService) GetBrands(category string) ([]string, error) {
    return s.productRepo.GetDistinctBrands(category)
}
