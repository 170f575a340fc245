package optilab

// Lab status strings as reported by Optilab.
const (
	StatusReceived   = "RECEIVED"
	StatusInProgress = "IN_PROGRESS"
	StatusReady      = "READY"
	StatusCollected  = "COLLECTED"
	StatusRejected   = "REJECTED"
)

// OrderResponseWrapper wraps the submission response from Optilab.
// Optilab always wraps the response in a "data" field.
type OrderResponseWrapper struct {
	Data OrderResponse `json:"data"`
}

// OrderResponse represents the response to a job submission.
type OrderResponse struct {
	OrderRef string `json:"order_ref"`
	LabRef   string `json:"lab_ref,omitempty"`
	Status   string `json:"status"`
	RC       string `json:"rc"`
	Message  string `json:"message"`
	EtaDays  int    `json:"eta_days,omitempty"`
}

// StatusResponseWrapper wraps the status response from Optilab.
type StatusResponseWrapper struct {
	Data StatusResponse `json:"data"`
}

// StatusResponse represents the current state of a submitted job.
type StatusResponse struct {
	LabRef  string `json:"lab_ref"`
	Status  string `json:"status"`
	RC      string `json:"rc"`
	Message string `json:"message,omitempty"`
}

// PingResponseWrapper wraps the ping response from Optilab.
type PingResponseWrapper struct {
	Data PingResponse `json:"data"`
}

// PingResponse represents the lab's health report.
type PingResponse struct {
	LabName    string `json:"lab_name"`
	QueueDepth int    `json:"queue_depth"`
	RC         string `json:"rc"`
}

// CallbackPayload represents the payload Optilab posts to our webhook
// endpoint when a job changes state.
type CallbackPayload struct {
	OrderRef string `json:"order_ref"`
	LabRef   string `json:"lab_ref"`
	Status   string `json:"status"`
	RC       string `json:"rc"`
	Message  string `json:"message,omitempty"`
}
