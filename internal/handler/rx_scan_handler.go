package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// maxScanUpload caps prescription photo uploads at 8MB.
const maxScanUpload = 8 << 20

// RxScanHandler handles prescription scan endpoints
type RxScanHandler struct {
	scanService *service.RxScanService
}

// NewRxScanHandler creates a new rx scan handler
func NewRxScanHandler(scanService *service.RxScanService) *RxScanHandler {
	return &RxScanHandler{scanService: scanService}
}

// UploadScan handles POST /v1/rx-scans (multipart: image, optional patientId)
func (h *RxScanHandler) UploadScan(c *gin.Context) {
	terminal := middleware.GetTerminal(c)
	if terminal == nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxScanUpload {
		utils.Error(c, 413, "IMAGE_TOO_LARGE", "Image must be under 8MB")
		return
	}

	imageData, err := io.ReadAll(io.LimitReader(file, maxScanUpload+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_IMAGE", "Failed to read image")
		return
	}

	var patientID *int
	if v := c.PostForm("patientId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			utils.Error(c, 400, "INVALID_ID", "patientId must be numeric")
			return
		}
		patientID = &id
	}

	scan, err := h.scanService.ProcessScan(c.Request.Context(), patientID, terminal.BranchID, imageData)
	if err != nil {
		if err == utils.ErrInvalidImage {
			utils.Error(c, 400, "INVALID_IMAGE", "Image could not be decoded")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to process scan")
		return
	}

	utils.Success(c, 201, "Scan processed", h.formatScan(scan))
}

// GetScan handles GET /v1/rx-scans/:id
func (h *RxScanHandler) GetScan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Scan id must be numeric")
		return
	}

	scan, err := h.scanService.GetScan(id)
	if err != nil {
		if err == utils.ErrScanNotFound {
			utils.Error(c, 404, "SCAN_NOT_FOUND", "Scan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get scan")
		return
	}

	utils.Success(c, 200, "Scan retrieved", h.formatScan(scan))
}

// GetPatientScans handles GET /admin/v1/patients/:id/rx-scans
func (h *RxScanHandler) GetPatientScans(c *gin.Context) {
	patientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Patient id must be numeric")
		return
	}

	scans, err := h.scanService.GetPatientScans(patientID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get scans")
		return
	}

	utils.Success(c, 200, "Scans retrieved", gin.H{
		"scans": scans,
	})
}

// formatScan attaches the image URL to the stored record.
func (h *RxScanHandler) formatScan(scan *models.RxScan) gin.H {
	return gin.H{
		"scan":     scan,
		"imageUrl": h.scanService.ImageURL(scan.ImageKey),
	}
}
