package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// SaleRepository handles data access for sales and sale items.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// GenerateSaleNumber returns a receipt number like NTR-YYYYMMDD-NNNNNN using
// the Asia/Kolkata date. The sequence restarts daily.
func (r *SaleRepository) GenerateSaleNumber() (string, error) {
	// Determine today's date in Asia/Kolkata within the DB and compute next sequence.
	const seqQ = `
        SELECT COALESCE(MAX(
            CAST(SUBSTRING(sale_number FROM 14) AS INT)
        ), 0) + 1
        FROM sales
        WHERE sale_number LIKE 'NTR-' || TO_CHAR(NOW() AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD') || '-%'`

	stmt, err := r.db.Preparex(seqQ)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	var next int
	if err := stmt.Get(&next); err != nil {
		return "", err
	}

	// Get date string in Asia/Kolkata from DB to avoid TZ mismatches.
	const dateQ = `SELECT TO_CHAR(NOW() AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD')`
	var ymd string
	if err := r.db.Get(&ymd, dateQ); err != nil {
		return "", err
	}
	return fmt.Sprintf("NTR-%s-%06d", ymd, next), nil
}

// CreateWithItems inserts the sale and its items in one transaction and
// decrements stock for SKU-backed lines. Training sales skip stock movement.
// A failed stock guard surfaces as sql.ErrNoRows so the service can map it to
// an insufficient-stock error.
func (r *SaleRepository) CreateWithItems(sale *models.Sale) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const saleQ = `
        INSERT INTO sales (
            sale_number, client_ref, branch_id, terminal_id, staff_id, patient_id,
            eye_test_id, is_training, subtotal, discount, tax, total,
            payment_method, status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRowx(saleQ,
		sale.SaleNumber, sale.ClientRef, sale.BranchID, sale.TerminalID, sale.StaffID, sale.PatientID,
		sale.EyeTestID, sale.IsTraining, sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.Payment, sale.Status,
	).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
		return err
	}

	const itemQ = `
        INSERT INTO sale_items (sale_id, sku_id, description, quantity, unit_price, line_total, lens_details)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`

	const stockQ = `
        UPDATE skus SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND stock - $2 >= 0
        RETURNING id`

	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID
		if err := tx.QueryRowx(itemQ,
			item.SaleID, item.SKUID, item.Description, item.Quantity,
			item.UnitPrice, item.LineTotal, nullableJSON(item.LensDetails),
		).Scan(&item.ID); err != nil {
			return err
		}

		if item.SKUID != nil && !sale.IsTraining {
			var updated int
			if err := tx.Get(&updated, stockQ, *item.SKUID, item.Quantity); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetBySaleNumber returns a sale with its items.
func (r *SaleRepository) GetBySaleNumber(saleNumber string) (*models.Sale, error) {
	const q = `SELECT * FROM sales WHERE sale_number = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var s models.Sale
	if err := stmt.Get(&s, saleNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if s.Items, err = r.GetItems(s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID returns a sale with its items by internal id.
func (r *SaleRepository) GetByID(id int) (*models.Sale, error) {
	const q = `SELECT * FROM sales WHERE id = $1 LIMIT 1`
	var s models.Sale
	if err := r.db.Get(&s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	var err error
	if s.Items, err = r.GetItems(s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByClientRef returns the sale a terminal already created with this
// idempotency reference, if any.
func (r *SaleRepository) GetByClientRef(terminalID int, clientRef string) (*models.Sale, error) {
	const q = `SELECT * FROM sales WHERE terminal_id = $1 AND client_ref = $2 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var s models.Sale
	if err := stmt.Get(&s, terminalID, clientRef); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if s.Items, err = r.GetItems(s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetItems returns the line items of a sale.
func (r *SaleRepository) GetItems(saleID int) ([]models.SaleItem, error) {
	const q = `SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id`
	var items []models.SaleItem
	if err := r.db.Select(&items, q, saleID); err != nil {
		return nil, err
	}
	return items, nil
}

// Cancel marks a completed sale cancelled and restores stock for its
// SKU-backed lines. Returns sql.ErrNoRows when the sale is missing or not in
// a cancellable state.
func (r *SaleRepository) Cancel(id int, reason string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const cancelQ = `
        UPDATE sales SET status = $2, cancel_reason = $3, updated_at = NOW()
        WHERE id = $1 AND status = $4
        RETURNING is_training`

	var isTraining bool
	if err := tx.Get(&isTraining, cancelQ, id, models.SaleCancelled, reason, models.SaleCompleted); err != nil {
		return err
	}

	if !isTraining {
		const restockQ = `
            UPDATE skus s SET stock = s.stock + i.quantity, updated_at = NOW()
            FROM sale_items i
            WHERE i.sale_id = $1 AND i.sku_id = s.id`
		if _, err := tx.Exec(restockQ, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AdminSaleFilter holds filters for admin sale queries.
type AdminSaleFilter struct {
	BranchID   *int
	TerminalID *int
	PatientID  *int
	Status     *string
	Payment    *string
	SaleNumber *string
	StartDate  *string
	EndDate    *string
	IsTraining *bool
	Page       int
	Limit      int
}

// AdminSaleResult contains paginated sale results.
type AdminSaleResult struct {
	Sales      []models.Sale
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetAllAdmin returns sales for admin with filters and pagination.
func (r *SaleRepository) GetAllAdmin(filter *AdminSaleFilter) (*AdminSaleResult, error) {
	baseQ := `FROM sales s WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.BranchID != nil {
		baseQ += fmt.Sprintf(" AND s.branch_id = $%d", argIdx)
		args = append(args, *filter.BranchID)
		argIdx++
	}
	if filter.TerminalID != nil {
		baseQ += fmt.Sprintf(" AND s.terminal_id = $%d", argIdx)
		args = append(args, *filter.TerminalID)
		argIdx++
	}
	if filter.PatientID != nil {
		baseQ += fmt.Sprintf(" AND s.patient_id = $%d", argIdx)
		args = append(args, *filter.PatientID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Payment != nil && *filter.Payment != "" {
		baseQ += fmt.Sprintf(" AND s.payment_method = $%d", argIdx)
		args = append(args, *filter.Payment)
		argIdx++
	}
	if filter.SaleNumber != nil && *filter.SaleNumber != "" {
		baseQ += fmt.Sprintf(" AND s.sale_number ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.SaleNumber+"%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND s.created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND s.created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.IsTraining != nil {
		baseQ += fmt.Sprintf(" AND s.is_training = $%d", argIdx)
		args = append(args, *filter.IsTraining)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit
	totalPages := (total + filter.Limit - 1) / filter.Limit

	selectQ := fmt.Sprintf(`SELECT s.* %s ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d`,
		baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var sales []models.Sale
	if err := r.db.Select(&sales, selectQ, args...); err != nil {
		return nil, err
	}

	return &AdminSaleResult{
		Sales:      sales,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// TodayStats aggregates today's completed live sales (IST) for a branch
// scope; branchID 0 covers all branches.
func (r *SaleRepository) TodayStats(branchID int) (count, revenue int, err error) {
	const q = `
        SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue
        FROM sales
        WHERE status = 'Completed'
          AND is_training = false
          AND created_at >= DATE_TRUNC('day', NOW() AT TIME ZONE 'Asia/Kolkata') AT TIME ZONE 'Asia/Kolkata'
          AND ($1 = 0 OR branch_id = $1)`

	row := struct {
		Count   int `db:"count"`
		Revenue int `db:"revenue"`
	}{}
	if err := r.db.Get(&row, q, branchID); err != nil {
		return 0, 0, err
	}
	return row.Count, row.Revenue, nil
}

// TopSellingSKU returns today's best selling SKU code for a branch scope, or
// empty string when nothing sold yet.
func (r *SaleRepository) TopSellingSKU(branchID int) (string, error) {
	const q = `
        SELECT k.sku_code
        FROM sale_items i
        JOIN sales s ON s.id = i.sale_id
        JOIN skus k ON k.id = i.sku_id
        WHERE s.status = 'Completed'
          AND s.is_training = false
          AND s.created_at >= DATE_TRUNC('day', NOW() AT TIME ZONE 'Asia/Kolkata') AT TIME ZONE 'Asia/Kolkata'
          AND ($1 = 0 OR s.branch_id = $1)
        GROUP BY k.sku_code
        ORDER BY SUM(i.quantity) DESC
        LIMIT 1`

	var code string
	if err := r.db.Get(&code, q, branchID); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// nullableJSON maps an empty raw message to NULL so jsonb columns never
// receive an empty string.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// SalesTrend represents one day of sales statistics.
type SalesTrend struct {
	Date    string `db:"date" json:"date"`
	Count   int    `db:"count" json:"count"`
	Revenue int64  `db:"revenue" json:"revenue"`
}

// GetDailyTrend returns daily live sales statistics for the last 30 days,
// optionally scoped to a branch.
func (r *SaleRepository) GetDailyTrend(branchID int) ([]SalesTrend, error) {
	const q = `
        SELECT
            TO_CHAR(created_at AT TIME ZONE 'Asia/Kolkata', 'YYYY-MM-DD') AS date,
            COUNT(*) AS count,
            COALESCE(SUM(total) FILTER (WHERE status = 'Completed'), 0) AS revenue
        FROM sales
        WHERE is_training = false
          AND ($1 = 0 OR branch_id = $1)
        GROUP BY TO_CHAR(created_at AT TIME ZONE 'Asia/Kolkata', 'YYYY-MM-DD')
        ORDER BY date DESC
        LIMIT 30`

	var trends []SalesTrend
	if err := r.db.Select(&trends, q, branchID); err != nil {
		return nil, err
	}
	return trends, nil
}
