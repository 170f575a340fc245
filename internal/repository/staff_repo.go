package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

type StaffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) GetByEmail(email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.Get(&staff, `
		SELECT id, email, password_hash, name, role, branch_id, phone, is_active, created_at, updated_at
		FROM staff
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) GetByID(id int) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.Get(&staff, `
		SELECT id, email, password_hash, name, role, branch_id, phone, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) Create(staff *models.Staff) error {
	query := `
		INSERT INTO staff (email, password_hash, name, role, branch_id, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(query,
		staff.Email, staff.PasswordHash, staff.Name, staff.Role, staff.BranchID, staff.Phone, staff.IsActive).
		Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *StaffRepository) Update(staff *models.Staff) error {
	query := `
		UPDATE staff
		SET name = $1, role = $2, branch_id = $3, phone = $4, is_active = $5
		WHERE id = $6
		RETURNING updated_at
	`
	return r.db.QueryRow(query,
		staff.Name, staff.Role, staff.BranchID, staff.Phone, staff.IsActive, staff.ID).
		Scan(&staff.UpdatedAt)
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *StaffRepository) UpdatePassword(id int, passwordHash string) error {
	const q = `UPDATE staff SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, passwordHash)
	return err
}

// List returns staff with optional role and branch filters.
func (r *StaffRepository) List(role string, branchID int) ([]models.Staff, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if role != "" {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, role)
		argIdx++
	}
	if branchID > 0 {
		where += fmt.Sprintf(" AND branch_id = $%d", argIdx)
		args = append(args, branchID)
		argIdx++
	}

	query := `SELECT id, email, password_hash, name, role, branch_id, phone, is_active, created_at, updated_at
              FROM staff ` + where + ` ORDER BY name`

	var staff []models.Staff
	if err := r.db.Select(&staff, query, args...); err != nil {
		return nil, err
	}
	return staff, nil
}
