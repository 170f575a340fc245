package service

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// SettingService manages admin-editable configuration rows.
type SettingService struct {
	repo *repository.SettingRepository
}

// NewSettingService constructs a SettingService.
func NewSettingService(repo *repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetSetting returns one setting by key.
func (s *SettingService) GetSetting(key string) (*models.Setting, error) {
	setting, err := s.repo.Get(key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

// ListSettings returns all settings.
func (s *SettingService) ListSettings() ([]models.Setting, error) {
	return s.repo.GetAll()
}

// UpsertSetting creates or replaces a setting. Known keys get their value
// checked so a typo in the admin panel cannot break the POS flow.
func (s *SettingService) UpsertSetting(key string, value json.RawMessage, staffID int) (*models.Setting, error) {
	if !json.Valid(value) {
		return nil, fmt.Errorf("setting value must be valid JSON")
	}
	if err := validateKnownSetting(key, value); err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:       key,
		Value:     value,
		UpdatedBy: &staffID,
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// DeleteSetting removes a setting by key.
func (s *SettingService) DeleteSetting(key string) error {
	if err := s.repo.Delete(key); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrSettingNotFound
		}
		return err
	}
	return nil
}

// validateKnownSetting rejects malformed values for keys the application
// itself reads.
func validateKnownSetting(key string, value json.RawMessage) error {
	switch key {
	case "pos.tax_percent":
		var pct float64
		if err := json.Unmarshal(value, &pct); err != nil || pct < 0 || pct > 100 {
			return fmt.Errorf("pos.tax_percent must be a number between 0 and 100")
		}
	case "pos.receipt_footer":
		var footer string
		if err := json.Unmarshal(value, &footer); err != nil {
			return fmt.Errorf("pos.receipt_footer must be a string")
		}
	}
	return nil
}
