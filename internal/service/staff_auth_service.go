package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

type StaffAuthService struct {
	staffRepo *repository.StaffRepository
}

func NewStaffAuthService(staffRepo *repository.StaffRepository) *StaffAuthService {
	return &StaffAuthService{staffRepo: staffRepo}
}

// Login verifies credentials and returns a signed JWT and the staff record.
func (s *StaffAuthService) Login(email, password string) (string, *models.Staff, error) {
	log.Debug().Str("email", email).Msg("Login attempt")

	staff, err := s.staffRepo.GetByEmail(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to get staff by email")
		return "", nil, errors.New("invalid credentials")
	}

	if !staff.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return "", nil, errors.New("account is inactive")
	}

	// Verify password using bcrypt
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Password verification failed")
		return "", nil, errors.New("invalid credentials")
	}

	log.Info().Str("email", email).Str("role", string(staff.Role)).Msg("Login successful")

	token, err := utils.GenerateJWT(staff.ID, staff.Email)
	if err != nil {
		return "", nil, err
	}

	return token, staff, nil
}

// CreateStaff registers a staff account with a bcrypt-hashed password.
func (s *StaffAuthService) CreateStaff(email, password, name, phone string, role models.StaffRole, branchID *int) (*models.Staff, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Phone:        phone,
		Role:         role,
		BranchID:     branchID,
		IsActive:     true,
	}

	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ChangePassword rehashes and stores a new password after verifying the old one.
func (s *StaffAuthService) ChangePassword(staffID int, oldPassword, newPassword string) error {
	staff, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(oldPassword)); err != nil {
		return utils.ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.staffRepo.UpdatePassword(staffID, string(hashed))
}
