package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// SettingHandler handles admin settings HTTP endpoints.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler constructs a SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// ListSettings handles GET /admin/v1/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.ListSettings()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve settings")
		return
	}

	utils.Success(c, 200, "Settings retrieved", gin.H{
		"settings": settings,
	})
}

// GetSetting handles GET /admin/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.settingService.GetSetting(key)
	if err != nil {
		if err == utils.ErrSettingNotFound {
			utils.Error(c, 404, "SETTING_NOT_FOUND", "Setting not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve setting")
		return
	}

	utils.Success(c, 200, "Setting retrieved", setting)
}

// UpsertSetting handles PUT /admin/v1/settings/:key
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value json.RawMessage `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "value is required")
		return
	}

	staffID := middleware.GetStaffID(c)

	setting, err := h.settingService.UpsertSetting(key, req.Value, staffID)
	if err != nil {
		switch err.Error() {
		case "setting value must be valid JSON",
			"pos.tax_percent must be a number between 0 and 100",
			"pos.receipt_footer must be a string":
			utils.Error(c, 400, "INVALID_VALUE", err.Error())
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save setting")
		}
		return
	}

	utils.Success(c, 200, "Setting saved", setting)
}

// DeleteSetting handles DELETE /admin/v1/settings/:key
func (h *SettingHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")

	if err := h.settingService.DeleteSetting(key); err != nil {
		if err == utils.ErrSettingNotFound {
			utils.Error(c, 404, "SETTING_NOT_FOUND", "Setting not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete setting")
		return
	}

	utils.Success(c, 200, "Setting deleted", nil)
}
