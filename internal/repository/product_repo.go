package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns all active products with optional filters for category and brand.
// When category or brand is an empty string, the filter is ignored respectively.
func (r *ProductRepository) GetAll(category, brand string) ([]models.Product, error) {
	const q = `
        SELECT * FROM products
        WHERE ($1 = '' OR category = $1)
        AND ($2 = '' OR brand = $2)
        AND is_active = true
        ORDER BY category, brand, name`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var products []models.Product
	if err := stmt.Select(&products, category, brand); err != nil {
		return nil, err
	}
	return products, nil
}

// GetAllPaged returns active products with filters and pagination and also returns total count.
// Filters: category, brand (exact), search (ILIKE on name). If a filter is
// empty it is ignored. Page begins at 1. Each row carries the count of active
// SKUs and the lowest in-stock price for the POS product picker.
func (r *ProductRepository) GetAllPaged(category, brand, search string, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR p.category = $1)
        AND ($2 = '' OR p.brand = $2)
        AND ($3 = '' OR p.name ILIKE '%%' || $3 || '%%')
        AND p.is_active = true`

	countQuery := `SELECT COUNT(1) FROM products p ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, category, brand, search); err != nil {
		return nil, 0, err
	}

	listQuery := `
        SELECT
            p.*,
            COALESCE(s.sku_count, 0) AS sku_count,
            s.min_price
        FROM products p
        LEFT JOIN (
            SELECT
                product_id,
                COUNT(1) AS sku_count,
                MIN(CASE WHEN price > 0 THEN price ELSE NULL END) AS min_price
            FROM skus
            WHERE is_active = true
            GROUP BY product_id
        ) s ON s.product_id = p.id ` + baseWhere + `
        ORDER BY p.category, p.brand, p.name LIMIT $4 OFFSET $5`
	var products []models.Product
	if err := r.db.Select(&products, listQuery, category, brand, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Product
	if err := stmt.Get(&p, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Create creates a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	query := `INSERT INTO products (name, category, brand, description, hsn_code, is_active)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		product.Name,
		product.Category,
		product.Brand,
		product.Description,
		product.HSNCode,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// Update updates an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	query := `UPDATE products
              SET name = $1, category = $2, brand = $3,
                  description = $4, hsn_code = $5, is_active = $6
              WHERE id = $7
              RETURNING updated_at`

	return r.db.QueryRowx(query,
		product.Name,
		product.Category,
		product.Brand,
		product.Description,
		product.HSNCode,
		product.IsActive,
		product.ID,
	).Scan(&product.UpdatedAt)
}

// UpdateStatus sets the active flag of a product.
func (r *ProductRepository) UpdateStatus(id int, isActive bool) error {
	const q = `UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(id, isActive)
	return err
}

// Delete deletes a product by ID.
func (r *ProductRepository) Delete(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// AdminProductFilter holds filters for admin product queries.
type AdminProductFilter struct {
	Category string
	Brand    string
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// AdminProductResult contains paginated product results for admin.
type AdminProductResult struct {
	Products   []models.Product
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetAllAdmin returns all products for admin with filters and pagination (includes inactive).
func (r *ProductRepository) GetAllAdmin(filter *AdminProductFilter) (*AdminProductResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	// Build dynamic WHERE clause
	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND p.category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Brand != "" {
		baseWhere += fmt.Sprintf(" AND p.brand ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Brand+"%")
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND p.name ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND p.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM products p ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	// Fetch page with SKU count and min price
	listQuery := fmt.Sprintf(`
		SELECT
			p.*,
			COALESCE(s.sku_count, 0) AS sku_count,
			s.min_price
		FROM products p
		LEFT JOIN (
			SELECT
				product_id,
				COUNT(1) AS sku_count,
				MIN(CASE WHEN price > 0 THEN price ELSE NULL END) AS min_price
			FROM skus
			WHERE is_active = true
			GROUP BY product_id
		) s ON s.product_id = p.id
		%s
		ORDER BY p.category, p.brand, p.name
		LIMIT $%d OFFSET $%d`,
		baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var products []models.Product
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, err
	}

	return &AdminProductResult{
		Products:   products,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetDistinctCategories returns all distinct categories.
func (r *ProductRepository) GetDistinctCategories() ([]string, error) {
	const q = `SELECT DISTINCT category FROM products WHERE category != '' ORDER BY category`
	var categories []string
	if err := r.db.Select(&categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetDistinctBrands returns all distinct brands, optionally filtered by category.
func (r *ProductRepository) GetDistinctBrands(category string) ([]string, error) {
	q := `SELECT DISTINCT brand FROM products WHERE brand != ''`
	args := []interface{}{}
	if category != "" {
		q += ` AND category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY brand`

	var brands []string
	if err := r.db.Select(&brands, q, args...); err != nil {
		return nil, err
	}
	return brands, nil
}
