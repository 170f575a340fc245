package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// PatientRepository handles data access for patients.
type PatientRepository struct {
	db *sqlx.DB
}

// NewPatientRepository creates a new PatientRepository.
func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// GeneratePatientCode returns the next code like PT-NNNNNN. The sequence is
// derived from the table so codes stay dense across restarts.
func (r *PatientRepository) GeneratePatientCode() (string, error) {
	const seqQ = `
        SELECT COALESCE(MAX(
            CAST(SUBSTRING(patient_code FROM 4) AS INT)
        ), 0) + 1
        FROM patients
        WHERE patient_code LIKE 'PT-%'`

	stmt, err := r.db.Preparex(seqQ)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	var next int
	if err := stmt.Get(&next); err != nil {
		return "", err
	}
	return fmt.Sprintf("PT-%06d", next), nil
}

// Create creates a new patient.
func (r *PatientRepository) Create(patient *models.Patient) error {
	query := `INSERT INTO patients (patient_code, name, phone, email, gender, date_of_birth, lifestyle, address, branch_id, notes)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		patient.PatientCode,
		patient.Name,
		patient.Phone,
		patient.Email,
		patient.Gender,
		patient.DateOfBirth,
		patient.Lifestyle,
		patient.Address,
		patient.BranchID,
		patient.Notes,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

// GetByID returns a single patient by id.
func (r *PatientRepository) GetByID(id int) (*models.Patient, error) {
	const q = `SELECT * FROM patients WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Patient
	if err := stmt.Get(&p, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetByCode returns a single patient by patient code.
func (r *PatientRepository) GetByCode(code string) (*models.Patient, error) {
	const q = `SELECT * FROM patients WHERE patient_code = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Patient
	if err := stmt.Get(&p, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Search returns patients matching the query on code, name or phone, paged.
// Page begins at 1.
func (r *PatientRepository) Search(query string, branchID, page, limit int) ([]models.Patient, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR patient_code ILIKE '%%' || $1 || '%%'
            OR name ILIKE '%%' || $1 || '%%'
            OR phone LIKE '%%' || $1 || '%%')
        AND ($2 = 0 OR branch_id = $2)`

	countQuery := `SELECT COUNT(1) FROM patients ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, query, branchID); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM patients ` + baseWhere + `
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	var patients []models.Patient
	if err := r.db.Select(&patients, listQuery, query, branchID, limit, offset); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// Update updates an existing patient.
func (r *PatientRepository) Update(patient *models.Patient) error {
	query := `UPDATE patients
              SET name = $1, phone = $2, email = $3, gender = $4, date_of_birth = $5,
                  lifestyle = $6, address = $7, notes = $8
              WHERE id = $9
              RETURNING updated_at`

	return r.db.QueryRowx(query,
		patient.Name,
		patient.Phone,
		patient.Email,
		patient.Gender,
		patient.DateOfBirth,
		patient.Lifestyle,
		patient.Address,
		patient.Notes,
		patient.ID,
	).Scan(&patient.UpdatedAt)
}

// CountNewToday returns patients registered today (IST) for a branch scope.
func (r *PatientRepository) CountNewToday(branchID int) (int, error) {
	const q = `
        SELECT COUNT(1) FROM patients
        WHERE created_at >= DATE_TRUNC('day', NOW() AT TIME ZONE 'Asia/Kolkata') AT TIME ZONE 'Asia/Kolkata'
        AND ($1 = 0 OR branch_id = $1)`

	var count int
	if err := r.db.Get(&count, q, branchID); err != nil {
		return 0, err
	}
	return count, nil
}
