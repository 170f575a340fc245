package models

import "time"

// Patient represents a customer with a clinical record. PatientCode is the
// human-facing identifier printed on receipts and lab orders (PT-NNNNNN).
type Patient struct {
	ID          int        `db:"id" json:"id"`
	PatientCode string     `db:"patient_code" json:"patientCode"`
	Name        string     `db:"name" json:"name"`
	Phone       string     `db:"phone" json:"phone"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Lifestyle   string     `db:"lifestyle" json:"lifestyle"`
	Address     *string    `db:"address" json:"address,omitempty"`
	BranchID    int        `db:"branch_id" json:"branchId"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// AgeAt returns the patient's age in completed years at the given time, or
// nil when the date of birth is unknown.
func (p *Patient) AgeAt(t time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	age := t.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(age, 0, 0)
	if anniversary.After(t) {
		age--
	}
	return &age
}
