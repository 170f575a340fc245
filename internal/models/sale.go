package models

import (
	"encoding/json"
	"time"
)

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// SaleStatus enumerates the sale lifecycle.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "Completed"
	SaleCancelled SaleStatus = "Cancelled"
	SaleRefunded  SaleStatus = "Refunded"
)

// Sale captures one POS checkout. SaleNumber is the receipt identifier
// (NTR-YYYYMMDD-NNNNNN). ClientRef is the terminal-supplied idempotency key;
// replaying it returns the original sale instead of creating a second one.
// Training sales are recorded but excluded from revenue, stock and lab flows.
type Sale struct {
	ID           int           `db:"id" json:"-"`
	SaleNumber   string        `db:"sale_number" json:"saleNumber"`
	ClientRef    string        `db:"client_ref" json:"clientRef"`
	BranchID     int           `db:"branch_id" json:"branchId"`
	TerminalID   int           `db:"terminal_id" json:"-"`
	StaffID      *int          `db:"staff_id" json:"staffId,omitempty"`
	PatientID    *int          `db:"patient_id" json:"patientId,omitempty"`
	EyeTestID    *int          `db:"eye_test_id" json:"eyeTestId,omitempty"`
	IsTraining   bool          `db:"is_training" json:"-"`
	Subtotal     int           `db:"subtotal" json:"subtotal"`
	Discount     int           `db:"discount" json:"discount"`
	Tax          int           `db:"tax" json:"tax"`
	Total        int           `db:"total" json:"total"`
	Payment      PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Status       SaleStatus    `db:"status" json:"status"`
	CancelReason *string       `db:"cancel_reason" json:"cancelReason,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"-"`

	// Populated separately from the sale_items table.
	Items []SaleItem `db:"-" json:"items,omitempty"`
}

// SaleItem is one line on a receipt. Lens lines reference no SKU; instead
// LensDetails snapshots the configured lens (type, material, coatings, the
// prescription it was built for) as the lab and warranty record.
type SaleItem struct {
	ID          int             `db:"id" json:"id"`
	SaleID      int             `db:"sale_id" json:"-"`
	SKUID       *int            `db:"sku_id" json:"skuId,omitempty"`
	Description string          `db:"description" json:"description"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   int             `db:"unit_price" json:"unitPrice"`
	LineTotal   int             `db:"line_total" json:"lineTotal"`
	LensDetails json.RawMessage `db:"lens_details" json:"lensDetails,omitempty"`
}
