package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// TerminalHandler handles terminal management HTTP endpoints.
type TerminalHandler struct {
	terminalService *service.TerminalService
}

// NewTerminalHandler constructs a TerminalHandler.
func NewTerminalHandler(terminalService *service.TerminalService) *TerminalHandler {
	return &TerminalHandler{terminalService: terminalService}
}

// CreateTerminal handles POST /admin/v1/terminals
func (h *TerminalHandler) CreateTerminal(c *gin.Context) {
	var req service.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	terminal, err := h.terminalService.CreateTerminal(&req)
	if err != nil {
		if err.Error() == "terminal_id already exists" {
			utils.Error(c, 400, "TERMINAL_EXISTS", err.Error())
			return
		}
		if err == utils.ErrBranchNotFound {
			utils.Error(c, 400, "BRANCH_NOT_FOUND", "Branch does not exist")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create terminal")
		return
	}

	utils.Success(c, 201, "Terminal created successfully", terminal)
}

// GetTerminal handles GET /admin/v1/terminals/:id
func (h *TerminalHandler) GetTerminal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid terminal ID")
		return
	}

	terminal, err := h.terminalService.GetTerminal(id)
	if err != nil {
		utils.Error(c, 404, "TERMINAL_NOT_FOUND", "Terminal not found")
		return
	}

	utils.Success(c, 200, "Terminal retrieved", terminal)
}

// ListTerminals handles GET /admin/v1/terminals
func (h *TerminalHandler) ListTerminals(c *gin.Context) {
	branchID := 0
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			branchID = id
		}
	}

	terminals, err := h.terminalService.ListTerminals(branchID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve terminals")
		return
	}

	utils.Success(c, 200, "Terminals retrieved", gin.H{
		"terminals": terminals,
		"total":     len(terminals),
	})
}

// UpdateTerminal handles PUT /admin/v1/terminals/:id
func (h *TerminalHandler) UpdateTerminal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid terminal ID")
		return
	}

	var req service.UpdateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	terminal, err := h.terminalService.UpdateTerminal(id, &req)
	if err != nil {
		if err == utils.ErrInvalidTerminal {
			utils.Error(c, 404, "TERMINAL_NOT_FOUND", "Terminal not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update terminal")
		return
	}

	utils.Success(c, 200, "Terminal updated successfully", terminal)
}

// RegenerateKeys handles POST /admin/v1/terminals/:id/regenerate
func (h *TerminalHandler) RegenerateKeys(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid terminal ID")
		return
	}

	var req struct {
		KeyType string `json:"key_type" binding:"required"` // "live" or "training"
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "key_type is required")
		return
	}

	terminal, err := h.terminalService.RegenerateKeys(id, req.KeyType)
	if err != nil {
		if err == utils.ErrInvalidTerminal {
			utils.Error(c, 404, "TERMINAL_NOT_FOUND", "Terminal not found")
			return
		}
		if err.Error() == "invalid key_type: must be 'live' or 'training'" {
			utils.Error(c, 400, "INVALID_KEY_TYPE", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to regenerate keys")
		return
	}

	utils.Success(c, 200, "Keys regenerated successfully", terminal)
}
