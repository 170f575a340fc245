package models

import "time"

// EyeTest is one refraction exam. All prescription values are optional: an
// absent value means the optometrist recorded no correction for that field.
// Sphere/cylinder/add are diopters, axis is degrees (0-180), PD millimetres.
type EyeTest struct {
	ID        int `db:"id" json:"id"`
	PatientID int `db:"patient_id" json:"patientId"`
	StaffID   int `db:"staff_id" json:"staffId"`
	BranchID  int `db:"branch_id" json:"branchId"`

	RightSphere   *float64 `db:"right_sphere" json:"rightSphere,omitempty"`
	RightCylinder *float64 `db:"right_cylinder" json:"rightCylinder,omitempty"`
	RightAxis     *int     `db:"right_axis" json:"rightAxis,omitempty"`
	RightAdd      *float64 `db:"right_add" json:"rightAdd,omitempty"`
	LeftSphere    *float64 `db:"left_sphere" json:"leftSphere,omitempty"`
	LeftCylinder  *float64 `db:"left_cylinder" json:"leftCylinder,omitempty"`
	LeftAxis      *int     `db:"left_axis" json:"leftAxis,omitempty"`
	LeftAdd       *float64 `db:"left_add" json:"leftAdd,omitempty"`

	PD                *float64 `db:"pd" json:"pd,omitempty"`
	VisualAcuityRight *string  `db:"va_right" json:"visualAcuityRight,omitempty"`
	VisualAcuityLeft  *string  `db:"va_left" json:"visualAcuityLeft,omitempty"`
	Remarks           *string  `db:"remarks" json:"remarks,omitempty"`

	TestedAt  time.Time `db:"tested_at" json:"testedAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
