package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

type StaffAuthHandler struct {
	authService *service.StaffAuthService
}

func NewStaffAuthHandler(authService *service.StaffAuthService) *StaffAuthHandler {
	return &StaffAuthHandler{authService: authService}
}

func (h *StaffAuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, staff, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		utils.Error(c, 401, "INVALID_CREDENTIALS", err.Error())
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"staff": staff,
	})
}

func (h *StaffAuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "newPassword must be at least 8 characters")
		return
	}

	staffID := middleware.GetStaffID(c)
	if staffID == 0 {
		utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
		return
	}

	if err := h.authService.ChangePassword(staffID, req.OldPassword, req.NewPassword); err != nil {
		if err == utils.ErrInvalidCredentials {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Current password is incorrect")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to change password")
		return
	}

	utils.Success(c, 200, "Password changed", nil)
}
