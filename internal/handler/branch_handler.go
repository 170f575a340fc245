package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// BranchHandler handles branch management HTTP requests.
type BranchHandler struct {
	repo *repository.BranchRepository
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(repo *repository.BranchRepository) *BranchHandler {
	return &BranchHandler{repo: repo}
}

// ListBranches handles GET /admin/v1/branches
func (h *BranchHandler) ListBranches(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	branches, err := h.repo.GetAll(activeOnly)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve branches")
		return
	}

	utils.Success(c, 200, "Branches retrieved", gin.H{
		"branches": branches,
		"total":    len(branches),
	})
}

// GetDirectory handles GET /v1/branches
// POS terminals only ever see active branches.
func (h *BranchHandler) GetDirectory(c *gin.Context) {
	branches, err := h.repo.GetAll(true)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve branches")
		return
	}

	utils.Success(c, 200, "Branches retrieved", gin.H{
		"branches": branches,
		"total":    len(branches),
	})
}

// GetBranch handles GET /admin/v1/branches/:id
func (h *BranchHandler) GetBranch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid branch ID")
		return
	}

	branch, err := h.repo.GetByID(id)
	if err != nil {
		utils.Error(c, 404, "BRANCH_NOT_FOUND", "Branch not found")
		return
	}

	utils.Success(c, 200, "Branch retrieved", branch)
}

// CreateBranch handles POST /admin/v1/branches
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req struct {
		Code     string `json:"code" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Address  string `json:"address"`
		City     string `json:"city" binding:"required"`
		State    string `json:"state"`
		Pincode  string `json:"pincode"`
		Phone    string `json:"phone"`
		GSTIN    string `json:"gstin"`
		IsActive *bool  `json:"isActive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if existing, _ := h.repo.GetByCode(req.Code); existing != nil {
		utils.Error(c, 400, "BRANCH_EXISTS", "A branch with this code already exists")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	branch := &models.Branch{
		Code:     req.Code,
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		Phone:    req.Phone,
		GSTIN:    req.GSTIN,
		IsActive: active,
	}

	if err := h.repo.Create(branch); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create branch")
		return
	}

	utils.Success(c, 201, "Branch created", branch)
}

// UpdateBranch handles PUT /admin/v1/branches/:id
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid branch ID")
		return
	}

	var req struct {
		Code     string  `json:"code"`
		Name     string  `json:"name"`
		Address  *string `json:"address"`
		City     string  `json:"city"`
		State    *string `json:"state"`
		Pincode  *string `json:"pincode"`
		Phone    *string `json:"phone"`
		GSTIN    *string `json:"gstin"`
		IsActive *bool   `json:"isActive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	branch, err := h.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.Error(c, 404, "BRANCH_NOT_FOUND", "Branch not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve branch")
		return
	}

	if req.Code != "" {
		branch.Code = req.Code
	}
	if req.Name != "" {
		branch.Name = req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.City != "" {
		branch.City = req.City
	}
	if req.State != nil {
		branch.State = *req.State
	}
	if req.Pincode != nil {
		branch.Pincode = *req.Pincode
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.GSTIN != nil {
		branch.GSTIN = *req.GSTIN
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := h.repo.Update(branch); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update branch")
		return
	}

	utils.Success(c, 200, "Branch updated", branch)
}
