package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// SKURepository handles data access for skus.
type SKURepository struct {
	db *sqlx.DB
}

// NewSKURepository creates a new SKURepository.
func NewSKURepository(db *sqlx.DB) *SKURepository {
	return &SKURepository{db: db}
}

// GetByProductID returns SKUs for a product (any status).
func (r *SKURepository) GetByProductID(productID int) ([]models.SKU, error) {
	const q = `SELECT * FROM skus WHERE product_id = $1 ORDER BY sku_code ASC`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var skus []models.SKU
	if err := stmt.Select(&skus, productID); err != nil {
		return nil, err
	}
	return skus, nil
}

// GetBySKUCode returns a single SKU by sku_code.
func (r *SKURepository) GetBySKUCode(skuCode string) (*models.SKU, error) {
	const q = `SELECT * FROM skus WHERE sku_code = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var sku models.SKU
	if err := stmt.Get(&sku, skuCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &sku, nil
}

// GetByID returns a single SKU by id.
func (r *SKURepository) GetByID(id int) (*models.SKU, error) {
	const q = `SELECT * FROM skus WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var sku models.SKU
	if err := stmt.Get(&sku, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &sku, nil
}

// Create creates a new SKU.
func (r *SKURepository) Create(sku *models.SKU) error {
	query := `INSERT INTO skus (product_id, sku_code, variant_name, price, mrp, cost_price, stock, reorder_level, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		sku.ProductID,
		sku.SKUCode,
		sku.VariantName,
		sku.Price,
		sku.MRP,
		sku.CostPrice,
		sku.Stock,
		sku.ReorderLevel,
		sku.IsActive,
	).Scan(&sku.ID, &sku.CreatedAt, &sku.UpdatedAt)
}

// Update updates an existing SKU.
func (r *SKURepository) Update(sku *models.SKU) error {
	query := `UPDATE skus
              SET sku_code = $1, variant_name = $2, price = $3, mrp = $4,
                  cost_price = $5, stock = $6, reorder_level = $7, is_active = $8
              WHERE id = $9
              RETURNING updated_at`

	return r.db.QueryRowx(query,
		sku.SKUCode,
		sku.VariantName,
		sku.Price,
		sku.MRP,
		sku.CostPrice,
		sku.Stock,
		sku.ReorderLevel,
		sku.IsActive,
		sku.ID,
	).Scan(&sku.UpdatedAt)
}

// UpdateStatus updates the active flag of a SKU.
func (r *SKURepository) UpdateStatus(id int, isActive bool) error {
	const q = `UPDATE skus SET is_active = $2, updated_at = NOW() WHERE id = $1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(id, isActive)
	return err
}

// AdjustStock applies a signed stock delta. The guard keeps stock from going
// negative under concurrent sales; callers treat sql.ErrNoRows as
// insufficient stock.
func (r *SKURepository) AdjustStock(id, delta int) error {
	const q = `
        UPDATE skus SET stock = stock + $2, updated_at = NOW()
        WHERE id = $1 AND stock + $2 >= 0
        RETURNING id`

	var updated int
	if err := r.db.Get(&updated, q, id, delta); err != nil {
		return err
	}
	return nil
}

// GetLowStock returns active SKUs at or below their reorder level, joined
// with product names for the alert email.
func (r *SKURepository) GetLowStock() ([]LowStockRow, error) {
	const q = `
        SELECT s.id, s.sku_code, s.variant_name, s.stock, s.reorder_level, p.name AS product_name
        FROM skus s
        JOIN products p ON p.id = s.product_id
        WHERE s.is_active = true AND s.stock <= s.reorder_level
        ORDER BY s.stock ASC, s.sku_code`

	var rows []LowStockRow
	if err := r.db.Select(&rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStockRow is one line of the low-stock report.
type LowStockRow struct {
	ID           int    `db:"id" json:"id"`
	SKUCode      string `db:"sku_code" json:"skuCode"`
	VariantName  string `db:"variant_name" json:"variantName"`
	Stock        int    `db:"stock" json:"stock"`
	ReorderLevel int    `db:"reorder_level" json:"reorderLevel"`
	ProductName  string `db:"product_name" json:"productName"`
}

// CountLowStock returns the number of active SKUs at or below reorder level.
func (r *SKURepository) CountLowStock() (int, error) {
	const q = `SELECT COUNT(1) FROM skus WHERE is_active = true AND stock <= reorder_level`
	var count int
	if err := r.db.Get(&count, q); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a SKU by ID.
func (r *SKURepository) Delete(id int) error {
	query := `DELETE FROM skus WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
