package models

import "time"

// StaffRole enumerates staff access levels.
type StaffRole string

const (
	RoleAdmin       StaffRole = "admin"
	RoleManager     StaffRole = "manager"
	RoleOptometrist StaffRole = "optometrist"
	RoleSales       StaffRole = "sales"
)

// Staff represents an employee account with admin-panel access.
type Staff struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         StaffRole `db:"role" json:"role"`
	BranchID     *int      `db:"branch_id" json:"branchId,omitempty"`
	Phone        string    `db:"phone" json:"phone"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
