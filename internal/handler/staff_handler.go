package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// StaffHandler handles staff management HTTP endpoints.
type StaffHandler struct {
	authService *service.StaffAuthService
	staffRepo   *repository.StaffRepository
}

// NewStaffHandler constructs a StaffHandler.
func NewStaffHandler(authService *service.StaffAuthService, staffRepo *repository.StaffRepository) *StaffHandler {
	return &StaffHandler{authService: authService, staffRepo: staffRepo}
}

// CreateStaff handles POST /admin/v1/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone"`
		Role     string `json:"role" binding:"required,oneof=admin manager optometrist sales"`
		BranchID *int   `json:"branchId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if existing, _ := h.staffRepo.GetByEmail(req.Email); existing != nil {
		utils.Error(c, 400, "STAFF_EXISTS", "A staff account with this email already exists")
		return
	}

	staff, err := h.authService.CreateStaff(req.Email, req.Password, req.Name, req.Phone, models.StaffRole(req.Role), req.BranchID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create staff account")
		return
	}

	utils.Success(c, 201, "Staff account created", staff)
}

// ListStaff handles GET /admin/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	role := c.Query("role")

	branchID := 0
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			branchID = id
		}
	}

	staff, err := h.staffRepo.List(role, branchID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve staff")
		return
	}

	utils.Success(c, 200, "Staff retrieved", gin.H{
		"staff": staff,
		"total": len(staff),
	})
}

// GetStaff handles GET /admin/v1/staff/:id
func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid staff ID")
		return
	}

	staff, err := h.staffRepo.GetByID(id)
	if err != nil {
		utils.Error(c, 404, "STAFF_NOT_FOUND", "Staff not found")
		return
	}

	utils.Success(c, 200, "Staff retrieved", staff)
}

// UpdateStaff handles PUT /admin/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid staff ID")
		return
	}

	var req struct {
		Name     string  `json:"name"`
		Phone    *string `json:"phone"`
		Role     string  `json:"role" binding:"omitempty,oneof=admin manager optometrist sales"`
		BranchID *int    `json:"branchId"`
		IsActive *bool   `json:"isActive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	staff, err := h.staffRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.Error(c, 404, "STAFF_NOT_FOUND", "Staff not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve staff")
		return
	}

	if req.Name != "" {
		staff.Name = req.Name
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.Role != "" {
		staff.Role = models.StaffRole(req.Role)
	}
	if req.BranchID != nil {
		staff.BranchID = req.BranchID
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.staffRepo.Update(staff); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update staff")
		return
	}

	utils.Success(c, 200, "Staff updated", staff)
}
