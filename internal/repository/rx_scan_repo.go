package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// RxScanRepository handles data access for prescription scans.
type RxScanRepository struct {
	db *sqlx.DB
}

// NewRxScanRepository creates a new RxScanRepository.
func NewRxScanRepository(db *sqlx.DB) *RxScanRepository {
	return &RxScanRepository{db: db}
}

// Create inserts a new uploaded scan.
func (r *RxScanRepository) Create(scan *models.RxScan) error {
	const q = `
        INSERT INTO rx_scans (patient_id, branch_id, image_key, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowx(
		scan.PatientID, scan.BranchID, scan.ImageKey, scan.Status,
	).Scan(&scan.ID, &scan.CreatedAt, &scan.UpdatedAt)
}

// GetByID returns a scan by id.
func (r *RxScanRepository) GetByID(id int) (*models.RxScan, error) {
	const q = `SELECT * FROM rx_scans WHERE id = $1 LIMIT 1`
	var s models.RxScan
	if err := r.db.Get(&s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &s, nil
}

// MarkParsed stores the detection output and extracted prescription.
func (r *RxScanRepository) MarkParsed(id int, rawText string, parsed []byte, confidence float64) error {
	const q = `
        UPDATE rx_scans
        SET status = 'Parsed', raw_text = $2, parsed = $3, confidence = $4, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, rawText, nullableJSON(parsed), confidence)
	return err
}

// MarkFailed records a detection failure, keeping any raw text that was read.
func (r *RxScanRepository) MarkFailed(id int, rawText *string) error {
	const q = `
        UPDATE rx_scans
        SET status = 'Failed', raw_text = COALESCE($2, raw_text), updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, rawText)
	return err
}

// GetByPatient returns a patient's scans, newest first.
func (r *RxScanRepository) GetByPatient(patientID int) ([]models.RxScan, error) {
	const q = `SELECT * FROM rx_scans WHERE patient_id = $1 ORDER BY created_at DESC`
	var scans []models.RxScan
	if err := r.db.Select(&scans, q, patientID); err != nil {
		return nil, err
	}
	return scans, nil
}
