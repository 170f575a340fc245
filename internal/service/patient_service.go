package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// PatientService handles the clinical customer registry.
type PatientService struct {
	patientRepo *repository.PatientRepository
}

// NewPatientService constructs a PatientService.
func NewPatientService(patientRepo *repository.PatientRepository) *PatientService {
	return &PatientService{patientRepo: patientRepo}
}

// CreatePatientRequest represents the request to register a patient.
type CreatePatientRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       *string `json:"email"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth *string `json:"dateOfBirth"`
	Lifestyle   string  `json:"lifestyle" binding:"omitempty,oneof=STUDENT OFFICE OUTDOOR DRIVER GENERAL"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

// UpdatePatientRequest represents the request to update a patient.
type UpdatePatientRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth *string `json:"dateOfBirth"`
	Lifestyle   string  `json:"lifestyle" binding:"omitempty,oneof=STUDENT OFFICE OUTDOOR DRIVER GENERAL"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

// CreatePatient registers a patient with a generated PT-NNNNNN code.
func (s *PatientService) CreatePatient(req *CreatePatientRequest, branchID int) (*models.Patient, error) {
	code, err := s.patientRepo.GeneratePatientCode()
	if err != nil {
		return nil, err
	}

	dob, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	lifestyle := req.Lifestyle
	if lifestyle == "" {
		lifestyle = "GENERAL"
	}

	patient := &models.Patient{
		PatientCode: code,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      req.Gender,
		DateOfBirth: dob,
		Lifestyle:   lifestyle,
		Address:     req.Address,
		BranchID:    branchID,
		Notes:       req.Notes,
	}

	if err := s.patientRepo.Create(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetPatient retrieves a patient by internal ID.
func (s *PatientService) GetPatient(id int) (*models.Patient, error) {
	patient, err := s.patientRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPatientNotFound
		}
		return nil, err
	}
	return patient, nil
}

// GetPatientByCode retrieves a patient by the code printed on receipts.
func (s *PatientService) GetPatientByCode(code string) (*models.Patient, error) {
	patient, err := s.patientRepo.GetByCode(code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPatientNotFound
		}
		return nil, err
	}
	return patient, nil
}

// SearchPatients finds patients by code, name or phone fragment.
func (s *PatientService) SearchPatients(query string, branchID, page, limit int) ([]models.Patient, int, error) {
	return s.patientRepo.Search(query, branchID, page, limit)
}

// UpdatePatient updates a patient's editable fields.
func (s *PatientService) UpdatePatient(id int, req *UpdatePatientRequest) (*models.Patient, error) {
	patient, err := s.GetPatient(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		patient.Name = req.Name
	}
	if req.Phone != "" {
		patient.Phone = req.Phone
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.Gender != nil {
		patient.Gender = req.Gender
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateField(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		patient.DateOfBirth = dob
	}
	if req.Lifestyle != "" {
		patient.Lifestyle = req.Lifestyle
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.Notes != nil {
		patient.Notes = req.Notes
	}

	if err := s.patientRepo.Update(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// parseDateField parses an optional YYYY-MM-DD field.
func parseDateField(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return &t, nil
}
