package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/NetraTech/netra_api/internal/models"
)

// TerminalRepository provides data access methods for the terminals table.
type TerminalRepository struct {
	db *sqlx.DB
}

// NewTerminalRepository creates a new TerminalRepository.
func NewTerminalRepository(db *sqlx.DB) *TerminalRepository {
	return &TerminalRepository{db: db}
}

// getBy is a small helper to fetch a single terminal by a specific column
// using a prepared statement. It ensures ip_whitelist is scanned via pq.Array.
func (r *TerminalRepository) getBy(where string, arg any) (*models.Terminal, error) {
	const base = `SELECT id, terminal_id, name, branch_id, live_key, training_key,
        ip_whitelist, is_active, last_seen_at, created_at, updated_at
        FROM terminals WHERE `

	stmt, err := r.db.Preparex(base + where + " LIMIT 1")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	row := stmt.QueryRowx(arg)
	var t models.Terminal
	// Explicit scan to use pq.Array for the TEXT[] field.
	if err := row.Scan(
		&t.ID,
		&t.TerminalID,
		&t.Name,
		&t.BranchID,
		&t.LiveKey,
		&t.TrainingKey,
		pq.Array(&t.IPWhitelist),
		&t.IsActive,
		&t.LastSeenAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// GetByLiveKey finds a terminal by its live key.
func (r *TerminalRepository) GetByLiveKey(key string) (*models.Terminal, error) {
	return r.getBy("live_key = $1", key)
}

// GetByTrainingKey finds a terminal by its training key.
func (r *TerminalRepository) GetByTrainingKey(key string) (*models.Terminal, error) {
	return r.getBy("training_key = $1", key)
}

// GetByTerminalID finds a terminal by public terminal identifier.
func (r *TerminalRepository) GetByTerminalID(terminalID string) (*models.Terminal, error) {
	return r.getBy("terminal_id = $1", terminalID)
}

// GetByID finds a terminal by numeric id.
func (r *TerminalRepository) GetByID(id int) (*models.Terminal, error) {
	return r.getBy("id = $1", id)
}

// Create creates a new terminal.
func (r *TerminalRepository) Create(terminal *models.Terminal) error {
	query := `INSERT INTO terminals (terminal_id, name, branch_id, live_key, training_key, ip_whitelist, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(query,
		terminal.TerminalID,
		terminal.Name,
		terminal.BranchID,
		terminal.LiveKey,
		terminal.TrainingKey,
		pq.Array(terminal.IPWhitelist),
		terminal.IsActive,
	).Scan(&terminal.ID, &terminal.CreatedAt, &terminal.UpdatedAt)
}

// Update updates an existing terminal.
func (r *TerminalRepository) Update(terminal *models.Terminal) error {
	query := `UPDATE terminals
              SET name = $1, branch_id = $2, live_key = $3, training_key = $4,
                  ip_whitelist = $5, is_active = $6
              WHERE id = $7
              RETURNING updated_at`

	return r.db.QueryRowx(query,
		terminal.Name,
		terminal.BranchID,
		terminal.LiveKey,
		terminal.TrainingKey,
		pq.Array(terminal.IPWhitelist),
		terminal.IsActive,
		terminal.ID,
	).Scan(&terminal.UpdatedAt)
}

// TouchLastSeen records terminal activity without touching updated_at.
func (r *TerminalRepository) TouchLastSeen(id int) error {
	const q = `UPDATE terminals SET last_seen_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// List retrieves all terminals, optionally scoped to a branch.
func (r *TerminalRepository) List(branchID int) ([]*models.Terminal, error) {
	query := `SELECT id, terminal_id, name, branch_id, live_key, training_key,
                     ip_whitelist, is_active, last_seen_at, created_at, updated_at
              FROM terminals
              WHERE ($1 = 0 OR branch_id = $1)
              ORDER BY created_at DESC`

	rows, err := r.db.Queryx(query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terminals []*models.Terminal
	for rows.Next() {
		var t models.Terminal
		if err := rows.Scan(
			&t.ID,
			&t.TerminalID,
			&t.Name,
			&t.BranchID,
			&t.LiveKey,
			&t.TrainingKey,
			pq.Array(&t.IPWhitelist),
			&t.IsActive,
			&t.LastSeenAt,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		terminals = append(terminals, &t)
	}

	return terminals, rows.Err()
}
