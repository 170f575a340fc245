package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/middleware"
    "github.com/NetraTech/netra_api/internal/repository"
    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// EyeTestHandler handles refraction exam endpoints for POS terminals.
type EyeTestHandler struct {
    eyeTestService *service.EyeTestService
    patientService *service.PatientService
}

// NewEyeTestHandler constructs an EyeTestHandler.
func NewEyeTestHandler(eyeTestService *service.EyeTestService, patientService *service.PatientService) *EyeTestHandler {
    return &EyeTestHandler{
        eyeTestService: eyeTestService,
        patientService: patientService,
    }
}

// CreateEyeTest handles POST /v1/eye-tests
func (h *EyeTestHandler) CreateEyeTest(c *gin.Context) {
    var req service.CreateEyeTestRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
        return
    }

    terminal := middleware.GetTerminal(c)
    if terminal == nil {
        utils.Error(c, 401, "INVALID_TOKEN", "Unauthorized")
        return
    }

    test, err := h.eyeTestService.CreateEyeTest(&req, terminal.BranchID)
    if err != nil {
        switch err {
        case utils.ErrPatientNotFound:
            utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        default:
            utils.Error(c, 400, "INVALID_EYE_TEST", err.Error())
        }
        return
    }

    utils.Success(c, 201, "Eye test recorded", test)
}

// GetEyeTest handles GET /v1/eye-tests/:id
func (h *EyeTestHandler) GetEyeTest(c *gin.Context) {
    id, err := strconv.Atoi(c.Param("id"))
    if err != nil {
        utils.Error(c, 400, "INVALID_ID", "Eye test id must be numeric")
        return
    }

    test, err := h.eyeTestService.GetEyeTest(id)
    if err != nil {
        utils.Error(c, 404, "EYE_TEST_NOT_FOUND", "Eye test not found")
        return
    }

    utils.Success(c, 200, "Eye test retrieved", test)
}

// GetHistory handles GET /v1/patients/:code/eye-tests
func (h *EyeTestHandler) GetHistory(c *gin.Context) {
    patient, err := h.patientService.GetPatientByCode(c.Param("code"))
    if err != nil {
        utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        return
    }

    tests, err := h.eyeTestService.GetHistory(patient.ID)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get eye test history")
        return
    }

    utils.Success(c, 200, "Eye test history retrieved", gin.H{
        "patient": patient,
        "tests":   tests,
    })
}

// GetLatestForPatient handles GET /v1/patients/:code/eye-tests/latest
func (h *EyeTestHandler) GetLatestForPatient(c *gin.Context) {
    patient, err := h.patientService.GetPatientByCode(c.Param("code"))
    if err != nil {
        utils.Error(c, 404, "PATIENT_NOT_FOUND", "Patient not found")
        return
    }

    test, err := h.eyeTestService.GetLatest(patient.ID)
    if err != nil {
        utils.Error(c, 404, "EYE_TEST_NOT_FOUND", "Patient has no recorded eye tests")
        return
    }

    utils.Success(c, 200, "Latest eye test retrieved", test)
}

// ListEyeTests handles GET /admin/v1/eye-tests
func (h *EyeTestHandler) ListEyeTests(c *gin.Context) {
    filter := &repository.AdminEyeTestFilter{
        DateFrom: c.Query("dateFrom"),
        DateTo:   c.Query("dateTo"),
    }
    filter.PatientID, _ = strconv.Atoi(c.DefaultQuery("patientId", "0"))
    filter.StaffID, _ = strconv.Atoi(c.DefaultQuery("staffId", "0"))
    filter.BranchID, _ = strconv.Atoi(c.DefaultQuery("branchId", "0"))
    filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
    filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

    result, err := h.eyeTestService.ListAdmin(filter)
    if err != nil {
        utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve eye tests")
        return
    }

    utils.SuccessWithPagination(c, 200, "Eye tests retrieved", result.Tests,
        result.Page, result.Limit, result.TotalItems)
}
