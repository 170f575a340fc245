package models

import (
	"encoding/json"
	"time"
)

// RxScanStatus enumerates the lifecycle of an uploaded prescription photo.
type RxScanStatus string

const (
	ScanUploaded RxScanStatus = "Uploaded"
	ScanParsed   RxScanStatus = "Parsed"
	ScanFailed   RxScanStatus = "Failed"
)

// RxScan is a photographed paper prescription pushed through text detection.
// ImageKey is the S3 object key of the (downscaled) upload. RawText is the
// detected text, ParsedJSON the prescription values extracted from it.
type RxScan struct {
	ID         int             `db:"id" json:"id"`
	PatientID  *int            `db:"patient_id" json:"patientId,omitempty"`
	BranchID   int             `db:"branch_id" json:"branchId"`
	ImageKey   string          `db:"image_key" json:"imageKey"`
	Status     RxScanStatus    `db:"status" json:"status"`
	RawText    *string         `db:"raw_text" json:"rawText,omitempty"`
	ParsedJSON json.RawMessage `db:"parsed" json:"parsed,omitempty"`
	Confidence *float64        `db:"confidence" json:"confidence,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"-"`
}
