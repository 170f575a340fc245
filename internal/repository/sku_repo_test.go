package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func skuColumns() []string {
	return []string{
		"id", "product_id", "sku_code", "variant_name", "price", "mrp",
		"cost_price", "stock", "reorder_level", "is_active", "created_at", "updated_at",
	}
}

func TestSKUGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSKURepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(skuColumns()).
		AddRow(5, 2, "RB2132-52-BLK", "New Wayfarer 52mm Black", 7490, 8990, 4200, 12, 5, true, now, now)
	mock.ExpectPrepare(`SELECT \* FROM skus WHERE id = \$1 LIMIT 1`).
		ExpectQuery().WithArgs(5).WillReturnRows(rows)

	sku, err := repo.GetByID(5)
	require.NoError(t, err)
	assert.Equal(t, "RB2132-52-BLK", sku.SKUCode)
	assert.Equal(t, 7490, sku.Price)
	assert.Equal(t, 12, sku.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSKUGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSKURepository(db)

	mock.ExpectPrepare(`SELECT \* FROM skus WHERE id = \$1 LIMIT 1`).
		ExpectQuery().WithArgs(404).WillReturnRows(sqlmock.NewRows(skuColumns()))

	_, err := repo.GetByID(404)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSKURepository(db)

	mock.ExpectQuery(`UPDATE skus SET stock = stock \+ \$2`).
		WithArgs(5, -3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	require.NoError(t, repo.AdjustStock(5, -3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockBelowZero(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSKURepository(db)

	// The guard row never matches, so RETURNING yields no rows.
	mock.ExpectQuery(`UPDATE skus SET stock = stock \+ \$2`).
		WithArgs(5, -50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.AdjustStock(5, -50)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLowStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSKURepository(db)

	rows := sqlmock.NewRows([]string{"id", "sku_code", "variant_name", "stock", "reorder_level", "product_name"}).
		AddRow(5, "CRIZAL-SAPH-150", "Crizal Sapphire 1.50", 1, 5, "Essilor Crizal").
		AddRow(9, "RENU-355", "ReNu 355ml", 3, 10, "Bausch & Lomb ReNu")
	mock.ExpectQuery(`SELECT s.id, s.sku_code, s.variant_name, s.stock, s.reorder_level, p.name AS product_name`).
		WillReturnRows(rows)

	low, err := repo.GetLowStock()
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "CRIZAL-SAPH-150", low[0].SKUCode)
	assert.Equal(t, 1, low[0].Stock)
	assert.Equal(t, "Essilor Crizal", low[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
