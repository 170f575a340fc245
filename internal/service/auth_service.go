package service

import (
    "database/sql"

    "github.com/NetraTech/netra_api/internal/models"
    "github.com/NetraTech/netra_api/internal/repository"
    "github.com/NetraTech/netra_api/internal/utils"
)

// AuthService provides methods for authenticating and authorizing terminals.
type AuthService struct {
    terminalRepo *repository.TerminalRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(terminalRepo *repository.TerminalRepository) *AuthService {
    return &AuthService{terminalRepo: terminalRepo}
}

// ValidateAPIKey verifies the provided token against live and training keys.
// Returns the terminal, a boolean indicating training mode, or an error.
func (s *AuthService) ValidateAPIKey(token string) (*models.Terminal, bool, error) {
    if token == "" {
        return nil, false, utils.ErrInvalidToken
    }

    // Try live key first
    if t, err := s.terminalRepo.GetByLiveKey(token); err == nil && t != nil {
        return t, false, nil
    } else if err != nil && err != sql.ErrNoRows {
        return nil, false, err
    }

    // Try training key
    if t, err := s.terminalRepo.GetByTrainingKey(token); err == nil && t != nil {
        return t, true, nil
    } else if err != nil && err != sql.ErrNoRows {
        return nil, false, err
    }

    return nil, false, utils.ErrInvalidToken
}

// ValidateTerminalID checks if the provided terminalID matches the terminal's registered ID.
func (s *AuthService) ValidateTerminalID(terminal *models.Terminal, terminalID string) bool {
    if terminal == nil {
        return false
    }
    return terminal.TerminalID == terminalID
}

// IsIPAllowed returns true if the provided IP is present in the terminal's whitelist.
// An empty whitelist admits any IP; branches without fixed addresses rely on it.
func (s *AuthService) IsIPAllowed(terminal *models.Terminal, ip string) bool {
    if terminal == nil {
        return false
    }
    if len(terminal.IPWhitelist) == 0 {
        return true
    }
    for _, allowed := range terminal.IPWhitelist {
        if allowed == ip {
            return true
        }
    }
    return false
}

// TouchLastSeen records terminal activity, ignoring failures.
func (s *AuthService) TouchLastSeen(terminalID int) {
    _ = s.terminalRepo.TouchLastSeen(terminalID)
}
