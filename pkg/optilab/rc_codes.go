package optilab

// RC Classification

// Fatal - the job will never be accepted, mark Failed
var FatalRCs = map[string]bool{
	"10": true, // Payload error
	"11": true, // Invalid signature
	"12": true, // Unknown member
	"13": true, // Member suspended
	"14": true, // Unsupported lens type or material
	"15": true, // Prescription out of machinable range
	"16": true, // Unsupported coating combination
}

// Retryable - temporary lab-side condition, retry later
var RetryableRCs = map[string]bool{
	"01": true, // Timeout
	"20": true, // Lab at capacity
	"21": true, // Maintenance window
	"22": true, // Material out of stock
	"99": true, // Internal error
}

// Helper functions
func IsFatal(rc string) bool {
	return FatalRCs[rc]
}

func IsRetryable(rc string) bool {
	return RetryableRCs[rc]
}

func IsSuccess(rc string) bool {
	return rc == "00"
}

func IsDuplicate(rc string) bool {
	return rc == "30"
}
