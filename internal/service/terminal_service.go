package service

import (
	"database/sql"
	"errors"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// TerminalService handles terminal registration and key management.
type TerminalService struct {
	terminalRepo *repository.TerminalRepository
	branchRepo   *repository.BranchRepository
}

// NewTerminalService constructs a TerminalService.
func NewTerminalService(terminalRepo *repository.TerminalRepository, branchRepo *repository.BranchRepository) *TerminalService {
	return &TerminalService{terminalRepo: terminalRepo, branchRepo: branchRepo}
}

// CreateTerminalRequest represents the request to register a new terminal.
type CreateTerminalRequest struct {
	TerminalID  string   `json:"terminalId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	BranchID    int      `json:"branchId" binding:"required"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateTerminalRequest represents the request to update a terminal.
type UpdateTerminalRequest struct {
	Name        string   `json:"name"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// CreateTerminal registers a terminal with auto-generated live and training keys.
func (s *TerminalService) CreateTerminal(req *CreateTerminalRequest) (*models.Terminal, error) {
	// terminal_id must be unique
	existing, _ := s.terminalRepo.GetByTerminalID(req.TerminalID)
	if existing != nil {
		return nil, errors.New("terminal_id already exists")
	}

	if _, err := s.branchRepo.GetByID(req.BranchID); err != nil {
		return nil, utils.ErrBranchNotFound
	}

	liveKey, err := utils.GenerateLiveKey()
	if err != nil {
		return nil, err
	}
	trainingKey, err := utils.GenerateTrainingKey()
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	terminal := &models.Terminal{
		TerminalID:  req.TerminalID,
		Name:        req.Name,
		BranchID:    req.BranchID,
		LiveKey:     liveKey,
		TrainingKey: trainingKey,
		IPWhitelist: req.IPWhitelist,
		IsActive:    active,
	}

	if err := s.terminalRepo.Create(terminal); err != nil {
		return nil, err
	}

	return terminal, nil
}

// GetTerminal retrieves a terminal by internal ID.
func (s *TerminalService) GetTerminal(id int) (*models.Terminal, error) {
	terminal, err := s.terminalRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidTerminal
		}
		return nil, err
	}
	return terminal, nil
}

// ListTerminals retrieves terminals, optionally scoped to a branch.
func (s *TerminalService) ListTerminals(branchID int) ([]*models.Terminal, error) {
	return s.terminalRepo.List(branchID)
}

// UpdateTerminal updates a terminal's editable fields.
func (s *TerminalService) UpdateTerminal(id int, req *UpdateTerminalRequest) (*models.Terminal, error) {
	terminal, err := s.GetTerminal(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		terminal.Name = req.Name
	}
	if req.IPWhitelist != nil {
		terminal.IPWhitelist = req.IPWhitelist
	}
	if req.IsActive != nil {
		terminal.IsActive = *req.IsActive
	}

	if err := s.terminalRepo.Update(terminal); err != nil {
		return nil, err
	}

	return terminal, nil
}

// RegenerateKeys regenerates a terminal's live or training key. Rotating the
// live key immediately locks out anything still using the old one.
func (s *TerminalService) RegenerateKeys(id int, keyType string) (*models.Terminal, error) {
	terminal, err := s.GetTerminal(id)
	if err != nil {
		return nil, err
	}

	switch keyType {
	case "live":
		newKey, err := utils.GenerateLiveKey()
		if err != nil {
			return nil, err
		}
		terminal.LiveKey = newKey
	case "training":
		newKey, err := utils.GenerateTrainingKey()
		if err != nil {
			return nil, err
		}
		terminal.TrainingKey = newKey
	default:
		return nil, errors.New("invalid key_type: must be 'live' or 'training'")
	}

	if err := s.terminalRepo.Update(terminal); err != nil {
		return nil, err
	}

	return terminal, nil
}
