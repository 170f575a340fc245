package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// EyeTestRepository handles data access for eye tests.
type EyeTestRepository struct {
	db *sqlx.DB
}

// NewEyeTestRepository creates a new EyeTestRepository.
func NewEyeTestRepository(db *sqlx.DB) *EyeTestRepository {
	return &EyeTestRepository{db: db}
}

// Create creates a new eye test record.
func (r *EyeTestRepository) Create(test *models.EyeTest) error {
	query := `INSERT INTO eye_tests (patient_id, staff_id, branch_id,
                right_sphere, right_cylinder, right_axis, right_add,
                left_sphere, left_cylinder, left_axis, left_add,
                pd, va_right, va_left, remarks, tested_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		test.PatientID,
		test.StaffID,
		test.BranchID,
		test.RightSphere,
		test.RightCylinder,
		test.RightAxis,
		test.RightAdd,
		test.LeftSphere,
		test.LeftCylinder,
		test.LeftAxis,
		test.LeftAdd,
		test.PD,
		test.VisualAcuityRight,
		test.VisualAcuityLeft,
		test.Remarks,
		test.TestedAt,
	).Scan(&test.ID, &test.CreatedAt, &test.UpdatedAt)
}

// GetByID returns a single eye test by id.
func (r *EyeTestRepository) GetByID(id int) (*models.EyeTest, error) {
	const q = `SELECT * FROM eye_tests WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var t models.EyeTest
	if err := stmt.Get(&t, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// GetByPatient returns all tests for a patient, newest first.
func (r *EyeTestRepository) GetByPatient(patientID int) ([]models.EyeTest, error) {
	const q = `SELECT * FROM eye_tests WHERE patient_id = $1 ORDER BY tested_at DESC`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var tests []models.EyeTest
	if err := stmt.Select(&tests, patientID); err != nil {
		return nil, err
	}
	return tests, nil
}

// GetLatestByPatient returns the most recent test for a patient.
func (r *EyeTestRepository) GetLatestByPatient(patientID int) (*models.EyeTest, error) {
	const q = `SELECT * FROM eye_tests WHERE patient_id = $1 ORDER BY tested_at DESC LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var t models.EyeTest
	if err := stmt.Get(&t, patientID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// AdminEyeTestFilter holds filters for admin eye test queries.
type AdminEyeTestFilter struct {
	PatientID int
	StaffID   int
	BranchID  int
	DateFrom  string
	DateTo    string
	Page      int
	Limit     int
}

// AdminEyeTestResult contains paginated eye test results for admin.
type AdminEyeTestResult struct {
	Tests      []models.EyeTest
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetAllAdmin returns eye tests for admin with filters and pagination.
func (r *EyeTestRepository) GetAllAdmin(filter *AdminEyeTestFilter) (*AdminEyeTestResult, error) {
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

	if filter.PatientID > 0 {
		baseWhere += fmt.Sprintf(" AND patient_id = $%d", argIdx)
		args = append(args, filter.PatientID)
		argIdx++
	}
	if filter.StaffID > 0 {
		baseWhere += fmt.Sprintf(" AND staff_id = $%d", argIdx)
		args = append(args, filter.StaffID)
		argIdx++
	}
	if filter.BranchID > 0 {
		baseWhere += fmt.Sprintf(" AND branch_id = $%d", argIdx)
		args = append(args, filter.BranchID)
		argIdx++
	}
	if filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND tested_at >= $%d::date", argIdx)
		args = append(args, filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND tested_at < $%d::date + INTERVAL '1 day'", argIdx)
		args = append(args, filter.DateTo)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM eye_tests ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	listQuery := fmt.Sprintf(`SELECT * FROM eye_tests %s
        ORDER BY tested_at DESC LIMIT $%d OFFSET $%d`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var tests []models.EyeTest
	if err := r.db.Select(&tests, listQuery, args...); err != nil {
		return nil, err
	}

	return &AdminEyeTestResult{
		Tests:      tests,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// CountToday returns tests performed today (IST) for a branch scope.
func (r *EyeTestRepository) CountToday(branchID int) (int, error) {
	const q = `
        SELECT COUNT(1) FROM eye_tests
        WHERE tested_at >= DATE_TRUNC('day', NOW() AT TIME ZONE 'Asia/Kolkata') AT TIME ZONE 'Asia/Kolkata'
        AND ($1 = 0 OR branch_id = $1)`

	var count int
	if err := r.db.Get(&count, q, branchID); err != nil {
		return 0, err
	}
	return count, nil
}
