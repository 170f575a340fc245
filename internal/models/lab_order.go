package models

import (
	"encoding/json"
	"time"
)

// LabOrderStatus enumerates the fabrication lifecycle of a lens job.
type LabOrderStatus string

const (
	LabQueued     LabOrderStatus = "Queued"
	LabSent       LabOrderStatus = "Sent"
	LabInProgress LabOrderStatus = "InProgress"
	LabReady      LabOrderStatus = "Ready"
	LabDelivered  LabOrderStatus = "Delivered"
	LabFailed     LabOrderStatus = "Failed"
)

// LabOrder is a lens fabrication job dispatched to the Optilab grinding lab.
// LensDetails carries the full lens specification and prescription snapshot
// taken from the sale line. Queued orders are picked up by the dispatch
// worker; failed dispatches are retried with RetryCount/NextRetryAt.
type LabOrder struct {
	ID           int             `db:"id" json:"id"`
	OrderNumber  string          `db:"order_number" json:"orderNumber"`
	SaleID       int             `db:"sale_id" json:"saleId"`
	EyeTestID    *int            `db:"eye_test_id" json:"eyeTestId,omitempty"`
	BranchID     int             `db:"branch_id" json:"branchId"`
	IsTraining   bool            `db:"is_training" json:"-"`
	LensDetails  json.RawMessage `db:"lens_details" json:"lensDetails"`
	RemoteRef    *string         `db:"remote_ref" json:"remoteRef,omitempty"`
	Status       LabOrderStatus  `db:"status" json:"status"`
	FailedReason *string         `db:"failed_reason" json:"failedReason,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retryCount,omitempty"`
	NextRetryAt  *time.Time      `db:"next_retry_at" json:"nextRetryAt,omitempty"`
	SentAt       *time.Time      `db:"sent_at" json:"sentAt,omitempty"`
	ReadyAt      *time.Time      `db:"ready_at" json:"readyAt,omitempty"`
	DeliveredAt  *time.Time      `db:"delivered_at" json:"deliveredAt,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"-"`
}
