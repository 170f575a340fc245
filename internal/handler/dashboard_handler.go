package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// DashboardHandler handles admin dashboard HTTP endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles GET /admin/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	branchID := 0
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			branchID = id
		}
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), branchID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve dashboard statistics")
		return
	}

	utils.Success(c, 200, "Statistics retrieved", stats)
}

// GetTrend handles GET /admin/v1/dashboard/trend
func (h *DashboardHandler) GetTrend(c *gin.Context) {
	branchID := 0
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			branchID = id
		}
	}

	trend, err := h.dashboardService.GetSalesTrend(branchID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sales trend")
		return
	}

	utils.Success(c, 200, "Sales trend retrieved", gin.H{
		"trend": trend,
	})
}
