package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// LabOrderRepository handles data access for lens fabrication jobs.
type LabOrderRepository struct {
	db *sqlx.DB
}

// NewLabOrderRepository creates a new LabOrderRepository.
func NewLabOrderRepository(db *sqlx.DB) *LabOrderRepository {
	return &LabOrderRepository{db: db}
}

// GenerateOrderNumber returns a job number like LAB-YYYYMMDD-NNNNNN using the
// Asia/Kolkata date. The sequence restarts daily.
func (r *LabOrderRepository) GenerateOrderNumber() (string, error) {
	const seqQ = `
        SELECT COALESCE(MAX(
            CAST(SUBSTRING(order_number FROM 14) AS INT)
        ), 0) + 1
        FROM lab_orders
        WHERE order_number LIKE 'LAB-' || TO_CHAR(NOW() AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD') || '-%'`

	stmt, err := r.db.Preparex(seqQ)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	var next int
	if err := stmt.Get(&next); err != nil {
		return "", err
	}

	const dateQ = `SELECT TO_CHAR(NOW() AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD')`
	var ymd string
	if err := r.db.Get(&ymd, dateQ); err != nil {
		return "", err
	}
	return fmt.Sprintf("LAB-%s-%06d", ymd, next), nil
}

// Create inserts a new queued lab order.
func (r *LabOrderRepository) Create(order *models.LabOrder) error {
	const q = `
        INSERT INTO lab_orders (
            order_number, sale_id, eye_test_id, branch_id, is_training,
            lens_details, status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowx(
		order.OrderNumber, order.SaleID, order.EyeTestID, order.BranchID, order.IsTraining,
		nullableJSON(order.LensDetails), order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

// GetByID returns a lab order by internal id.
func (r *LabOrderRepository) GetByID(id int) (*models.LabOrder, error) {
	const q = `SELECT * FROM lab_orders WHERE id = $1 LIMIT 1`
	var o models.LabOrder
	if err := r.db.Get(&o, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetByOrderNumber returns a lab order by its job number.
func (r *LabOrderRepository) GetByOrderNumber(orderNumber string) (*models.LabOrder, error) {
	const q = `SELECT * FROM lab_orders WHERE order_number = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var o models.LabOrder
	if err := stmt.Get(&o, orderNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetBySaleID returns the lab orders created from one sale.
func (r *LabOrderRepository) GetBySaleID(saleID int) ([]models.LabOrder, error) {
	const q = `SELECT * FROM lab_orders WHERE sale_id = $1 ORDER BY id`
	var orders []models.LabOrder
	if err := r.db.Select(&orders, q, saleID); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetPendingDispatch claims queued live orders due for dispatch. SKIP LOCKED
// keeps concurrent workers from claiming the same rows.
func (r *LabOrderRepository) GetPendingDispatch(limit int) ([]models.LabOrder, error) {
	const q = `
        SELECT * FROM lab_orders
        WHERE status = 'Queued'
          AND is_training = false
          AND (next_retry_at IS NULL OR next_retry_at <= NOW())
        ORDER BY created_at ASC
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	var orders []models.LabOrder
	if err := r.db.Select(&orders, q, limit); err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkSent records a successful dispatch with the lab's reference.
func (r *LabOrderRepository) MarkSent(id int, remoteRef string) error {
	const q = `
        UPDATE lab_orders
        SET status = 'Sent', remote_ref = $2, sent_at = NOW(), failed_reason = NULL, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, remoteRef)
	return err
}

// MarkFailed moves an order to Failed with a terminal reason.
func (r *LabOrderRepository) MarkFailed(id int, reason string) error {
	const q = `
        UPDATE lab_orders
        SET status = 'Failed', failed_reason = $2, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, reason)
	return err
}

// Requeue puts a failed order back on the dispatch queue with a fresh retry
// budget. Returns sql.ErrNoRows when the order is not in Failed.
func (r *LabOrderRepository) Requeue(id int) error {
	const q = `
        UPDATE lab_orders
        SET status = 'Queued', retry_count = 0, next_retry_at = NULL, failed_reason = NULL, updated_at = NOW()
        WHERE id = $1 AND status = 'Failed'
        RETURNING id`
	var updated int
	return r.db.Get(&updated, q, id)
}

// MarkRetry records a failed dispatch attempt and schedules the next one.
// Orders past maxRetries go to Failed instead.
func (r *LabOrderRepository) MarkRetry(id int, reason string, retryAfter time.Duration, maxRetries int) error {
	const q = `
        UPDATE lab_orders
        SET retry_count = retry_count + 1,
            failed_reason = $2,
            next_retry_at = NOW() + ($3 * interval '1 second'),
            status = CASE WHEN retry_count + 1 >= $4 THEN 'Failed' ELSE status END,
            updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, reason, int(retryAfter.Seconds()), maxRetries)
	return err
}

// UpdateRemoteStatus applies a status reported by the lab, stamping the
// matching timestamp column. Returns the number of rows changed so pollers
// can tell a no-op from a transition.
func (r *LabOrderRepository) UpdateRemoteStatus(id int, status models.LabOrderStatus) (bool, error) {
	var q string
	switch status {
	case models.LabInProgress:
		q = `UPDATE lab_orders SET status = $2, updated_at = NOW() WHERE id = $1 AND status = 'Sent'`
	case models.LabReady:
		q = `UPDATE lab_orders SET status = $2, ready_at = NOW(), updated_at = NOW() WHERE id = $1 AND status IN ('Sent','InProgress')`
	case models.LabDelivered:
		q = `UPDATE lab_orders SET status = $2, delivered_at = NOW(), updated_at = NOW() WHERE id = $1 AND status = 'Ready'`
	case models.LabFailed:
		q = `UPDATE lab_orders SET status = $2, updated_at = NOW() WHERE id = $1 AND status NOT IN ('Delivered','Failed')`
	default:
		return false, fmt.Errorf("unsupported lab status transition: %s", status)
	}

	res, err := r.db.Exec(q, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetActiveRemote returns dispatched live orders whose status has not been
// refreshed for staleAfter, capped at maxAge since dispatch. The status
// poller uses this to decide what to query at the lab.
func (r *LabOrderRepository) GetActiveRemote(staleAfter, maxAge time.Duration, limit int) ([]models.LabOrder, error) {
	const q = `
        SELECT * FROM lab_orders
        WHERE status IN ('Sent', 'InProgress')
          AND is_training = false
          AND remote_ref IS NOT NULL
          AND updated_at < NOW() - ($1 * interval '1 second')
          AND sent_at > NOW() - ($2 * interval '1 second')
        ORDER BY updated_at ASC
        LIMIT $3`

	var orders []models.LabOrder
	if err := r.db.Select(&orders, q, int(staleAfter.Seconds()), int(maxAge.Seconds()), limit); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelQueuedBySaleID fails any still-queued orders of a cancelled sale so
// the dispatch worker never sends them.
func (r *LabOrderRepository) CancelQueuedBySaleID(saleID int, reason string) (int, error) {
	const q = `
        UPDATE lab_orders
        SET status = 'Failed', failed_reason = $2, updated_at = NOW()
        WHERE sale_id = $1 AND status = 'Queued'`
	res, err := r.db.Exec(q, saleID, reason)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountPending returns open lab orders (not delivered or failed) for a branch
// scope; branchID 0 covers all branches.
func (r *LabOrderRepository) CountPending(branchID int) (int, error) {
	const q = `
        SELECT COUNT(*) FROM lab_orders
        WHERE status NOT IN ('Delivered', 'Failed')
          AND is_training = false
          AND ($1 = 0 OR branch_id = $1)`
	var count int
	if err := r.db.Get(&count, q, branchID); err != nil {
		return 0, err
	}
	return count, nil
}

// AdminLabOrderFilter holds filters for admin lab order queries.
type AdminLabOrderFilter struct {
	BranchID    *int
	SaleID      *int
	Status      *string
	OrderNumber *string
	StartDate   *string
	EndDate     *string
	Page        int
	Limit       int
}

// AdminLabOrderResult contains paginated lab order results.
type AdminLabOrderResult struct {
	Orders     []models.LabOrder
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetAllAdmin returns lab orders for admin with filters and pagination.
func (r *LabOrderRepository) GetAllAdmin(filter *AdminLabOrderFilter) (*AdminLabOrderResult, error) {
	baseQ := `FROM lab_orders o WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.BranchID != nil {
		baseQ += fmt.Sprintf(" AND o.branch_id = $%d", argIdx)
		args = append(args, *filter.BranchID)
		argIdx++
	}
	if filter.SaleID != nil {
		baseQ += fmt.Sprintf(" AND o.sale_id = $%d", argIdx)
		args = append(args, *filter.SaleID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND o.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.OrderNumber != nil && *filter.OrderNumber != "" {
		baseQ += fmt.Sprintf(" AND o.order_number ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.OrderNumber+"%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND o.created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND o.created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
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

	selectQ := fmt.Sprintf(`SELECT o.* %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var orders []models.LabOrder
	if err := r.db.Select(&orders, selectQ, args...); err != nil {
		return nil, err
	}

	return &AdminLabOrderResult{
		Orders:     orders,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
