package optilab

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the Optilab grinding lab API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	memberID      string
	keyProduction string
	keyTraining   string
	debug         bool
}

// NewClient constructs a new Optilab client with sane defaults.
func NewClient(baseURL, memberID, keyProduction, keyTraining string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       baseURL,
		memberID:      memberID,
		keyProduction: keyProduction,
		keyTraining:   keyTraining,
		debug:         os.Getenv("ENV") == "development",
	}
}

// sign generates an HMAC-SHA256 hex digest per Optilab spec.
// sign = hmac_sha256(key, member_id + data)
func (c *Client) sign(data string, training bool) string {
	key := c.keyProduction
	if training {
		key = c.keyTraining
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(c.memberID + data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SubmitOrder sends a fabrication job to the lab. The lens payload passes
// through verbatim so the stored order snapshot is exactly what the lab saw.
func (c *Client) SubmitOrder(ctx context.Context, orderRef string, lens json.RawMessage, training bool) (*OrderResponse, error) {
	req := SubmitRequest{
		MemberID: c.memberID,
		OrderRef: orderRef,
		Training: training,
		Lens:     lens,
		Sign:     c.sign(orderRef, training),
	}
	var wrapper OrderResponseWrapper
	if err := c.doRequest(ctx, "/orders", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// GetStatus queries the lab for the current state of a submitted job.
func (c *Client) GetStatus(ctx context.Context, labRef string, training bool) (*StatusResponse, error) {
	req := StatusRequest{
		MemberID: c.memberID,
		LabRef:   labRef,
		Sign:     c.sign(labRef, training),
	}
	var wrapper StatusResponseWrapper
	if err := c.doRequest(ctx, "/orders/status", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// CancelOrder asks the lab to drop a submitted job. Jobs already ground are
// refused with a fatal rc; the caller decides what to do with the lens.
func (c *Client) CancelOrder(ctx context.Context, labRef string, training bool) (*StatusResponse, error) {
	req := StatusRequest{
		MemberID: c.memberID,
		LabRef:   labRef,
		Sign:     c.sign(labRef, training),
	}
	var wrapper StatusResponseWrapper
	if err := c.doRequest(ctx, "/orders/cancel", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// Ping checks connectivity and returns the lab's current queue depth.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	req := PingRequest{
		MemberID: c.memberID,
		Sign:     c.sign("ping", false),
	}
	var wrapper PingResponseWrapper
	if err := c.doRequest(ctx, "/ping", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// doRequest performs the HTTP POST to the Optilab API with JSON payloads and
// decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[OPTILAB] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[OPTILAB] Incoming response")
	}

	// Optilab returns 200 with the outcome encapsulated in the rc field,
	// but decode regardless of status code to surface any error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
