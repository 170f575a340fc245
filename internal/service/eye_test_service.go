package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// EyeTestService handles refraction exam records.
type EyeTestService struct {
	eyeTestRepo *repository.EyeTestRepository
	patientRepo *repository.PatientRepository
}

// NewEyeTestService constructs an EyeTestService.
func NewEyeTestService(eyeTestRepo *repository.EyeTestRepository, patientRepo *repository.PatientRepository) *EyeTestService {
	return &EyeTestService{eyeTestRepo: eyeTestRepo, patientRepo: patientRepo}
}

// CreateEyeTestRequest represents a recorded exam. All prescription values
// are optional; present values are checked against machinable ranges.
type CreateEyeTestRequest struct {
	PatientID int `json:"patientId" binding:"required"`
	StaffID   int `json:"staffId" binding:"required"`

	RightSphere   *float64 `json:"rightSphere"`
	RightCylinder *float64 `json:"rightCylinder"`
	RightAxis     *int     `json:"rightAxis" binding:"omitempty,min=0,max=180"`
	RightAdd      *float64 `json:"rightAdd"`
	LeftSphere    *float64 `json:"leftSphere"`
	LeftCylinder  *float64 `json:"leftCylinder"`
	LeftAxis      *int     `json:"leftAxis" binding:"omitempty,min=0,max=180"`
	LeftAdd       *float64 `json:"leftAdd"`

	PD                *float64 `json:"pd"`
	VisualAcuityRight *string  `json:"visualAcuityRight"`
	VisualAcuityLeft  *string  `json:"visualAcuityLeft"`
	Remarks           *string  `json:"remarks"`
	TestedAt          *string  `json:"testedAt"`
}

// CreateEyeTest validates and stores an exam.
func (s *EyeTestService) CreateEyeTest(req *CreateEyeTestRequest, branchID int) (*models.EyeTest, error) {
	if _, err := s.patientRepo.GetByID(req.PatientID); err != nil {
		return nil, utils.ErrPatientNotFound
	}

	if err := validateRx(req); err != nil {
		return nil, err
	}

	testedAt := time.Now()
	if req.TestedAt != nil && *req.TestedAt != "" {
		t, err := time.Parse(time.RFC3339, *req.TestedAt)
		if err != nil {
			return nil, errors.New("invalid testedAt, expected RFC3339")
		}
		testedAt = t
	}

	test := &models.EyeTest{
		PatientID:         req.PatientID,
		StaffID:           req.StaffID,
		BranchID:          branchID,
		RightSphere:       req.RightSphere,
		RightCylinder:     req.RightCylinder,
		RightAxis:         req.RightAxis,
		RightAdd:          req.RightAdd,
		LeftSphere:        req.LeftSphere,
		LeftCylinder:      req.LeftCylinder,
		LeftAxis:          req.LeftAxis,
		LeftAdd:           req.LeftAdd,
		PD:                req.PD,
		VisualAcuityRight: req.VisualAcuityRight,
		VisualAcuityLeft:  req.VisualAcuityLeft,
		Remarks:           req.Remarks,
		TestedAt:          testedAt,
	}

	if err := s.eyeTestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

// GetEyeTest retrieves one exam.
func (s *EyeTestService) GetEyeTest(id int) (*models.EyeTest, error) {
	test, err := s.eyeTestRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrEyeTestNotFound
		}
		return nil, err
	}
	return test, nil
}

// GetHistory returns a patient's exams, newest first.
func (s *EyeTestService) GetHistory(patientID int) ([]models.EyeTest, error) {
	if _, err := s.patientRepo.GetByID(patientID); err != nil {
		return nil, utils.ErrPatientNotFound
	}
	return s.eyeTestRepo.GetByPatient(patientID)
}

// GetLatest returns a patient's most recent exam.
func (s *EyeTestService) GetLatest(patientID int) (*models.EyeTest, error) {
	test, err := s.eyeTestRepo.GetLatestByPatient(patientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrEyeTestNotFound
		}
		return nil, err
	}
	return test, nil
}

// ListAdmin returns filtered, paginated exams for the back office.
func (s *EyeTestService) ListAdmin(filter *repository.AdminEyeTestFilter) (*repository.AdminEyeTestResult, error) {
	return s.eyeTestRepo.GetAllAdmin(filter)
}

// validateRx checks prescription values against machinable ranges: sphere
// within -20 to +20D, cylinder within -10 to +10D, add 0 to +4D, PD 40-80mm.
func validateRx(req *CreateEyeTestRequest) error {
	ranges := []struct {
		v        *float64
		min, max float64
		field    string
	}{
		{req.RightSphere, -20, 20, "rightSphere"},
		{req.LeftSphere, -20, 20, "leftSphere"},
		{req.RightCylinder, -10, 10, "rightCylinder"},
		{req.LeftCylinder, -10, 10, "leftCylinder"},
		{req.RightAdd, 0, 4, "rightAdd"},
		{req.LeftAdd, 0, 4, "leftAdd"},
		{req.PD, 40, 80, "pd"},
	}
	for _, r := range ranges {
		if r.v != nil && (*r.v < r.min || *r.v > r.max) {
			return fmt.Errorf("%s out of range", r.field)
		}
	}
	return nil
}
