package utils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessEnvelope(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-123")

	Success(c, 200, "Sale created", gin.H{"saleNumber": "NTR-20260823-000001"})

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "Sale created", resp.Message)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Meta.RequestID)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NTR-20260823-000001", data["saleNumber"])

	_, err := time.Parse(time.RFC3339, resp.Meta.Timestamp)
	assert.NoError(t, err)
}

func TestSuccessGeneratesRequestID(t *testing.T) {
	c, w := newTestContext()

	Success(c, 200, "ok", nil)

	resp := decodeResponse(t, w)
	assert.Len(t, resp.Meta.RequestID, 8)
}

func TestErrorEnvelope(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-456")

	Error(c, 404, "SALE_NOT_FOUND", "Sale not found")

	assert.Equal(t, 404, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, 404, resp.Code)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SALE_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Sale not found", resp.Error.Message)
	assert.Equal(t, "req-456", resp.Meta.RequestID)
}

func TestPaginationMeta(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPagination(c, 200, "ok", gin.H{"sales": []int{}}, 2, 20, 45)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 2, resp.Meta.Pagination.Page)
	assert.Equal(t, 20, resp.Meta.Pagination.Limit)
	assert.Equal(t, 45, resp.Meta.Pagination.TotalItems)
	assert.Equal(t, 3, resp.Meta.Pagination.TotalPages)
}

func TestPaginationDefaults(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPagination(c, 200, "ok", nil, 0, 0, 10)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 1, resp.Meta.Pagination.Page)
	assert.Equal(t, 50, resp.Meta.Pagination.Limit)
	assert.Equal(t, 1, resp.Meta.Pagination.TotalPages)
}

func TestNowISOCarriesISTOffset(t *testing.T) {
	now := NowISO()
	assert.True(t, strings.HasSuffix(now, "+05:30"), "got %s", now)
	_, err := time.Parse("2006-01-02T15:04:05+05:30", now)
	assert.NoError(t, err)
}
