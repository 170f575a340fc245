package optilab

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSign(key, memberID, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(memberID + data))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSubmitOrder(t *testing.T) {
	var received SubmitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(OrderResponseWrapper{Data: OrderResponse{
			OrderRef: received.OrderRef,
			LabRef:   "OPT-4471",
			Status:   StatusReceived,
			RC:       "00",
			Message:  "Order accepted",
			EtaDays:  3,
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "NETRA001", "prod-key", "train-key")
	lens := json.RawMessage(`{"lensType":"Progressive","material":"Hi-Index 1.67"}`)

	resp, err := client.SubmitOrder(context.Background(), "LAB-20260823-000001", lens, false)
	require.NoError(t, err)

	assert.Equal(t, "NETRA001", received.MemberID)
	assert.Equal(t, "LAB-20260823-000001", received.OrderRef)
	assert.False(t, received.Training)
	assert.JSONEq(t, string(lens), string(received.Lens))
	assert.Equal(t, testSign("prod-key", "NETRA001", "LAB-20260823-000001"), received.Sign)

	assert.Equal(t, "OPT-4471", resp.LabRef)
	assert.Equal(t, StatusReceived, resp.Status)
	assert.Equal(t, "00", resp.RC)
	assert.Equal(t, 3, resp.EtaDays)
}

func TestSubmitOrderTrainingSignsWithTrainingKey(t *testing.T) {
	var received SubmitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(OrderResponseWrapper{Data: OrderResponse{RC: "00"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "NETRA001", "prod-key", "train-key")
	_, err := client.SubmitOrder(context.Background(), "LAB-20260823-000002", json.RawMessage(`{}`), true)
	require.NoError(t, err)

	assert.True(t, received.Training)
	assert.Equal(t, testSign("train-key", "NETRA001", "LAB-20260823-000002"), received.Sign)
}

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/status", r.URL.Path)
		var req StatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "OPT-4471", req.LabRef)
		json.NewEncoder(w).Encode(StatusResponseWrapper{Data: StatusResponse{
			LabRef: req.LabRef,
			Status: StatusReady,
			RC:     "00",
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "NETRA001", "prod-key", "train-key")
	resp, err := client.GetStatus(context.Background(), "OPT-4471", false)
	require.NoError(t, err)

	assert.Equal(t, StatusReady, resp.Status)
	assert.Equal(t, "00", resp.RC)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		json.NewEncoder(w).Encode(PingResponseWrapper{Data: PingResponse{
			LabName:    "Optilab Pune",
			QueueDepth: 117,
			RC:         "00",
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "NETRA001", "prod-key", "train-key")
	resp, err := client.Ping(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Optilab Pune", resp.LabName)
	assert.Equal(t, 117, resp.QueueDepth)
}

func TestRCClassification(t *testing.T) {
	assert.True(t, IsSuccess("00"))
	assert.False(t, IsSuccess("01"))

	assert.True(t, IsDuplicate("30"))

	// Fatal codes are never retryable and vice versa.
	for rc := range FatalRCs {
		assert.True(t, IsFatal(rc))
		assert.False(t, IsRetryable(rc), "rc %s classified both ways", rc)
	}
	for rc := range RetryableRCs {
		assert.True(t, IsRetryable(rc))
		assert.False(t, IsFatal(rc), "rc %s classified both ways", rc)
	}

	assert.False(t, IsFatal("00"))
	assert.False(t, IsRetryable("00"))
}
