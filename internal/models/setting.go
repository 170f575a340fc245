package models

import (
	"encoding/json"
	"time"
)

// Setting is one key-value configuration row editable from the admin panel
// (tax rate, receipt footer, alert thresholds). Values are stored as JSON so
// a single table covers scalars and structured settings alike.
type Setting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedBy *int            `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
