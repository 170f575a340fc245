package optilab

import "encoding/json"

// SubmitRequest represents a fabrication job submission to Optilab.
type SubmitRequest struct {
	MemberID string          `json:"member_id"`
	OrderRef string          `json:"order_ref"`
	Training bool            `json:"training,omitempty"`
	Lens     json.RawMessage `json:"lens"`
	Sign     string          `json:"sign"`
}

// StatusRequest represents a job status query.
type StatusRequest struct {
	MemberID string `json:"member_id"`
	LabRef   string `json:"lab_ref"`
	Sign     string `json:"sign"`
}

// PingRequest represents a connectivity check.
type PingRequest struct {
	MemberID string `json:"member_id"`
	Sign     string `json:"sign"`
}
