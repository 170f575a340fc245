package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/middleware"
    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// PatientHandler handles patient endpoints for POS terminals. Terminals only
// see patients through their own branch context.
type PatientHandler struct {
    patientService *service.PatientService
}

// NewPatientHandler constructs a PatientHandler.
func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
    return &PatientHandler{patientService: patientService}
}

// CreatePatient handles POST /v1/patients
func (h *PatientHandler) CreatePatient(c *gin.Context) {
    var req service.CreatePatientRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
        return
    }

    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }

    patient, err := h.patientService.CreatePatient(&req, terminal.BranchID)
    if err != nil {
        utils.Error(c, 400, "INVALID_PATIENT", err.Error())
        return
    }

    utils.Success(c, 201, "Patient registered", patient)
}

// SearchPatients handles GET /v1/patients/search?q=
func (h *PatientHandler) SearchPatients(c *gin.Context) {
    query := c.Query("q")
    if query == "" {
        utils.Error(c, 400, "MISSING_FIELD", "Search query is required")
        return
    }

    page := 1
    limit := 20
    if v := c.Query("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            page = n
        }
    }

    // Search is chain-wide: patients visit whichever branch is closest
    patients, total, err := h.patientService.SearchPatients(query, 0, page, limit)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to search patients")
        return
    }

    utils.SuccessWithPagination(c, 200, "Patients retrieved", gin.H{
        "patients": patients,
    }, page, limit, total)
}

// GetPatient handles GET /v1/patients/:code
func (h *PatientHandler) GetPatient(c *gin.Context) {
    patient, err := h.patientService.GetPatientByCode(c.Param("code"))
    if err != nil {
        utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        return
    }

    utils.Success(c, 200, "Patient retrieved", patient)
}

// ListPatients handles GET /admin/v1/patients. Unlike the POS search, the
// query is optional and results can be scoped to a branch.
func (h *PatientHandler) ListPatients(c *gin.Context) {
    query := c.Query("q")

    branchID := 0
    if v := c.Query("branchId"); v != "" {
        if id, err := strconv.Atoi(v); err == nil {
            branchID = id
        }
    }

    page := 1
    limit := 50
    if v := c.Query("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            page = n
        }
    }
    if v := c.Query("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            limit = n
        }
    }

    patients, total, err := h.patientService.SearchPatients(query, branchID, page, limit)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve patients")
        return
    }

    utils.SuccessWithPagination(c, 200, "Patients retrieved", gin.H{
        "patients": patients,
    }, page, limit, total)
}

// GetPatientByID handles GET /admin/v1/patients/:id
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
    id, err := strconv.Atoi(c.Param("id"))
    if err != nil {
        utils.Error(c, 400, "INVALID_ID", "Invalid patient ID")
        return
    }

    patient, err := h.patientService.GetPatient(id)
    if err != nil {
        utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        return
    }

    utils.Success(c, 200, "Patient retrieved", patient)
}

// UpdatePatient handles PUT /v1/patients/:code
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
    patient, err := h.patientService.GetPatientByCode(c.Param("code"))
    if err != nil {
        utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        return
    }

    var req service.UpdatePatientRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
        return
    }

    updated, err := h.patientService.UpdatePatient(patient.ID, &req)
    if err != nil {
        utils.Error(c, 400, "INVALID_PATIENT", err.Error())
        return
    }

    utils.Success(c, 200, "Patient updated", updated)
}
