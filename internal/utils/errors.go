package utils

import "errors"

// Common application errors used across services.
var (
    ErrInvalidToken       = errors.New("INVALID_TOKEN")
    ErrInvalidTerminal    = errors.New("INVALID_TERMINAL")
    ErrInvalidIP          = errors.New("INVALID_IP")
    ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
    ErrStaffInactive      = errors.New("STAFF_INACTIVE")
    ErrPatientNotFound    = errors.New("PATIENT_NOT_FOUND")
    ErrEyeTestNotFound    = errors.New("EYE_TEST_NOT_FOUND")
    ErrSaleNotFound       = errors.New("SALE_NOT_FOUND")
    ErrLabOrderNotFound   = errors.New("LAB_ORDER_NOT_FOUND")
    ErrInvalidSKU         = errors.New("INVALID_SKU")
    ErrInvalidSaleItem    = errors.New("INVALID_SALE_ITEM")
    ErrInvalidDiscount    = errors.New("INVALID_DISCOUNT")
    ErrInsufficientStock  = errors.New("INSUFFICIENT_STOCK")
    ErrDuplicateReference = errors.New("DUPLICATE_REFERENCE")
    ErrSaleNotCancellable = errors.New("SALE_NOT_CANCELLABLE")
    ErrLabAlreadyQueued   = errors.New("LAB_ALREADY_QUEUED")
    ErrLabOrderNotReady   = errors.New("LAB_ORDER_NOT_READY")
    ErrBranchNotFound     = errors.New("BRANCH_NOT_FOUND")
    ErrSettingNotFound    = errors.New("SETTING_NOT_FOUND")
    ErrInvalidImage       = errors.New("INVALID_IMAGE")
    ErrScanNotFound       = errors.New("SCAN_NOT_FOUND")
    ErrTaskNotFound       = errors.New("TASK_NOT_FOUND")
    ErrTaskAlreadyDone    = errors.New("TASK_ALREADY_DONE")
)
