package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// SettingRepository handles data access for admin-editable settings.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns one setting by key.
func (r *SettingRepository) Get(key string) (*models.Setting, error) {
	const q = `SELECT * FROM settings WHERE key = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var s models.Setting
	if err := stmt.Get(&s, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &s, nil
}

// GetAll returns every setting ordered by key.
func (r *SettingRepository) GetAll() ([]models.Setting, error) {
	const q = `SELECT * FROM settings ORDER BY key`
	var settings []models.Setting
	if err := r.db.Select(&settings, q); err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert creates or replaces a setting value.
func (r *SettingRepository) Upsert(setting *models.Setting) error {
	const q = `
        INSERT INTO settings (key, value, updated_by, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
        RETURNING updated_at`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowx(setting.Key, nullableJSON(setting.Value), setting.UpdatedBy).
		Scan(&setting.UpdatedAt)
}

// Delete removes a setting by key.
func (r *SettingRepository) Delete(key string) error {
	const q = `DELETE FROM settings WHERE key = $1`
	res, err := r.db.Exec(q, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
