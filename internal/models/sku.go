package models

import "time"

// SKU represents a purchasable variant of a product. Prices are whole rupees.
type SKU struct {
	ID           int       `db:"id" json:"id"`
	ProductID    int       `db:"product_id" json:"productId"`
	SKUCode      string    `db:"sku_code" json:"skuCode"`
	VariantName  string    `db:"variant_name" json:"variantName"`
	Price        int       `db:"price" json:"price"`
	MRP          int       `db:"mrp" json:"mrp"`
	CostPrice    int       `db:"cost_price" json:"-"`
	Stock        int       `db:"stock" json:"stock"`
	ReorderLevel int       `db:"reorder_level" json:"reorderLevel"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
