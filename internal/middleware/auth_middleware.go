package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/models"
    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// AuthMiddleware handles terminal API key authentication and IP checks.
type AuthMiddleware struct {
    authService *service.AuthService
    rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
    return &AuthMiddleware{
        authService: authService,
        rateLimiter: NewInvalidAuthRateLimiter(),
    }
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
    return func(c *gin.Context) {
        // 1. Extract Bearer token
        authHeader := c.GetHeader("Authorization")
        if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
            m.handleAuthError(c, "INVALID_TOKEN", "Missing or invalid authorization header")
            return
        }
        token := strings.TrimPrefix(authHeader, "Bearer ")

        // 2. Validate API key (live or training)
        terminal, isTraining, err := m.authService.ValidateAPIKey(token)
        if err != nil || terminal == nil {
            m.handleAuthError(c, "INVALID_TOKEN", "Invalid API token")
            return
        }

        // 3. Check if terminal is active
        if !terminal.IsActive {
            m.handleAuthError(c, "INVALID_TERMINAL", "Terminal is not active")
            return
        }

        // 4. Validate Terminal ID header
        terminalID := c.GetHeader("X-Terminal-Id")
        if !m.authService.ValidateTerminalID(terminal, terminalID) {
            m.handleAuthError(c, "INVALID_TERMINAL", "Terminal ID mismatch")
            return
        }

        // 5. Validate IP whitelist
        clientIP := c.ClientIP()
        if !m.authService.IsIPAllowed(terminal, clientIP) {
            m.handleAuthError(c, "INVALID_IP", "Request from unauthorized IP address")
            return
        }

        // 6. Set context values
        c.Set("terminal", terminal)
        c.Set("is_training", isTraining)
        c.Set("terminal_id", terminal.ID)

        m.authService.TouchLastSeen(terminal.ID)

        c.Next()
    }
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
    // Apply rate limit for invalid auth attempts
    ip := c.ClientIP()
    if !m.rateLimiter.Allow(ip) {
        utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
        c.Abort()
        return
    }

    utils.Error(c, 401, code, message)
    c.Abort()
}

// GetTerminal returns the authenticated terminal from context.
func GetTerminal(c *gin.Context) *models.Terminal {
    terminal, _ := c.Get("terminal")
    if terminal == nil {
        return nil
    }
    return terminal.(*models.Terminal)
}

// IsTraining indicates whether the request came in on a training key.
func IsTraining(c *gin.Context) bool {
    isTraining, _ := c.Get("is_training")
    if isTraining == nil {
        return false
    }
    return isTraining.(bool)
}
