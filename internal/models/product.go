package models

import "time"

// ProductCategory enumerates the catalog categories.
type ProductCategory string

const (
	CategoryFrame       ProductCategory = "frame"
	CategorySunglass    ProductCategory = "sunglass"
	CategoryLens        ProductCategory = "lens"
	CategoryContactLens ProductCategory = "contact_lens"
	CategorySolution    ProductCategory = "solution"
	CategoryAccessory   ProductCategory = "accessory"
)

// Product represents a catalog entry.
// Fields are tagged for both DB scanning and JSON serialization. Concrete
// purchasable variants (size, colour, power) live in the SKU table.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"productName"`
	Category    ProductCategory `db:"category" json:"category"`
	Brand       string          `db:"brand" json:"brand"`
	Description string          `db:"description" json:"description"`
	HSNCode     string          `db:"hsn_code" json:"hsnCode"`
	IsActive    bool            `db:"is_active" json:"productStatus"`
	CreatedAt   time.Time       `db:"created_at" json:"-"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`

	// Calculated fields populated via subquery on list endpoints.
	SKUCount int  `db:"sku_count" json:"skuCount"`
	MinPrice *int `db:"min_price" json:"minPrice,omitempty"`
}
