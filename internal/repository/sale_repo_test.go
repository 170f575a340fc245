package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetraTech/netra_api/internal/models"
)

func saleColumns() []string {
	return []string{
		"id", "sale_number", "client_ref", "branch_id", "terminal_id", "staff_id",
		"patient_id", "eye_test_id", "is_training", "subtotal", "discount", "tax",
		"total", "payment_method", "status", "cancel_reason", "created_at", "updated_at",
	}
}

func saleItemColumns() []string {
	return []string{"id", "sale_id", "sku_id", "description", "quantity", "unit_price", "line_total", "lens_details"}
}

func TestGenerateSaleNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	mock.ExpectPrepare(`SELECT COALESCE\(MAX\(`).
		ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))
	mock.ExpectQuery(`SELECT TO_CHAR\(NOW\(\) AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"to_char"}).AddRow("20260823"))

	number, err := repo.GenerateSaleNumber()
	require.NoError(t, err)
	assert.Equal(t, "NTR-20260823-000007", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateSaleNumberFirstOfDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	mock.ExpectPrepare(`SELECT COALESCE\(MAX\(`).
		ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
	mock.ExpectQuery(`SELECT TO_CHAR\(NOW\(\) AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"to_char"}).AddRow("20260824"))

	number, err := repo.GenerateSaleNumber()
	require.NoError(t, err)
	assert.Equal(t, "NTR-20260824-000001", number)
}

func TestGetBySaleNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	now := time.Now()
	saleRows := sqlmock.NewRows(saleColumns()).AddRow(
		42, "NTR-20260823-000007", "term1-req-991", 3, 11, nil,
		nil, nil, false, 9500, 500, 1080,
		10080, "upi", "Completed", nil, now, now,
	)
	mock.ExpectPrepare(`SELECT \* FROM sales WHERE sale_number = \$1 LIMIT 1`).
		ExpectQuery().WithArgs("NTR-20260823-000007").WillReturnRows(saleRows)

	itemRows := sqlmock.NewRows(saleItemColumns()).
		AddRow(7, 42, nil, "Progressive Hi-Index 1.67", 1, 9500, 9500, []byte(`{"lensType":"Progressive"}`))
	mock.ExpectQuery(`SELECT \* FROM sale_items WHERE sale_id = \$1 ORDER BY id`).
		WithArgs(42).WillReturnRows(itemRows)

	sale, err := repo.GetBySaleNumber("NTR-20260823-000007")
	require.NoError(t, err)
	assert.Equal(t, models.SaleCompleted, sale.Status)
	assert.Equal(t, 10080, sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Progressive Hi-Index 1.67", sale.Items[0].Description)
	assert.Nil(t, sale.Items[0].SKUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByClientRefNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	mock.ExpectPrepare(`SELECT \* FROM sales WHERE terminal_id = \$1 AND client_ref = \$2 LIMIT 1`).
		ExpectQuery().WithArgs(11, "term1-req-000").WillReturnRows(sqlmock.NewRows(saleColumns()))

	_, err := repo.GetByClientRef(11, "term1-req-000")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
