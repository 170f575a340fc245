package models

import "time"

// TaskStatus enumerates task states.
type TaskStatus string

const (
	TaskOpen TaskStatus = "Open"
	TaskDone TaskStatus = "Done"
)

// Task is a lightweight to-do item staff assign to each other (follow up a
// patient, chase a lab job, restock a shelf).
type Task struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	AssigneeID  *int       `db:"assignee_id" json:"assigneeId,omitempty"`
	BranchID    *int       `db:"branch_id" json:"branchId,omitempty"`
	CreatedBy   int        `db:"created_by" json:"createdBy"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"-"`
}
