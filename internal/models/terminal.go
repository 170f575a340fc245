package models

import "time"

// Terminal represents a registered POS counter in a branch. Each terminal
// carries a live key and a training key; requests authenticated with the
// training key run the full flow but are flagged so they never reach live
// stock, revenue or the lab queue.
type Terminal struct {
	ID          int        `db:"id" json:"id"`
	TerminalID  string     `db:"terminal_id" json:"terminalId"`
	Name        string     `db:"name" json:"name"`
	BranchID    int        `db:"branch_id" json:"branchId"`
	LiveKey     string     `db:"live_key" json:"liveKey,omitempty"`
	TrainingKey string     `db:"training_key" json:"trainingKey,omitempty"`
	IPWhitelist []string   `db:"ip_whitelist" json:"ipWhitelist"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	LastSeenAt  *time.Time `db:"last_seen_at" json:"lastSeenAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
