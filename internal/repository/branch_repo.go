package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// BranchRepository handles data access for branches.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// GetAll returns branches ordered by code. When activeOnly is true, inactive
// branches are excluded.
func (r *BranchRepository) GetAll(activeOnly bool) ([]models.Branch, error) {
	const q = `
        SELECT * FROM branches
        WHERE ($1 = false OR is_active = true)
        ORDER BY code`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var branches []models.Branch
	if err := stmt.Select(&branches, activeOnly); err != nil {
		return nil, err
	}
	return branches, nil
}

// GetByID returns a single branch by id.
func (r *BranchRepository) GetByID(id int) (*models.Branch, error) {
	const q = `SELECT * FROM branches WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var b models.Branch
	if err := stmt.Get(&b, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &b, nil
}

// GetByCode returns a single branch by its short code.
func (r *BranchRepository) GetByCode(code string) (*models.Branch, error) {
	const q = `SELECT * FROM branches WHERE code = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var b models.Branch
	if err := stmt.Get(&b, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &b, nil
}

// Create creates a new branch.
func (r *BranchRepository) Create(branch *models.Branch) error {
	query := `INSERT INTO branches (code, name, address, city, state, pincode, phone, gstin, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		branch.Code,
		branch.Name,
		branch.Address,
		branch.City,
		branch.State,
		branch.Pincode,
		branch.Phone,
		branch.GSTIN,
		branch.IsActive,
	).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
}

// Update updates an existing branch.
func (r *BranchRepository) Update(branch *models.Branch) error {
	query := `UPDATE branches
              SET code = $1, name = $2, address = $3, city = $4, state = $5,
                  pincode = $6, phone = $7, gstin = $8, is_active = $9
              WHERE id = $10
              RETURNING updated_at`

	return r.db.QueryRowx(query,
		branch.Code,
		branch.Name,
		branch.Address,
		branch.City,
		branch.State,
		branch.Pincode,
		branch.Phone,
		branch.GSTIN,
		branch.IsActive,
		branch.ID,
	).Scan(&branch.UpdatedAt)
}

// UpdateStatus sets the active flag of a branch.
func (r *BranchRepository) UpdateStatus(id int, isActive bool) error {
	const q = `UPDATE branches SET is_active = $2, updated_at = NOW() WHERE id = $1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(id, isActive)
	return err
}
