package dto

import (
	"net/http"

	"github.com/erp/inventory/internal/domain/failure"
)

// Error codes
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	// ErrCodeInternal is used for unclassified failures
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when input is rejected
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when a record does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeStockAvailable is used when a delete is refused because stock remains
	ErrCodeStockAvailable = "ERR_STOCK_AVAILABLE"
	// ErrCodeBackendUnavailable is used when the backend cannot be reached
	ErrCodeBackendUnavailable = "ERR_BACKEND_UNAVAILABLE"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
)

var typeCodes = map[failure.Type]string{
	failure.TypeStockAvailable:    ErrCodeStockAvailable,
	failure.TypeEntityNotFound:    ErrCodeNotFound,
	failure.TypeConnectionFailure: ErrCodeBackendUnavailable,
	failure.TypeValidationFailure: ErrCodeValidation,
	failure.TypeGeneric:           ErrCodeInternal,
}

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeStockAvailable:     http.StatusConflict,
	ErrCodeBackendUnavailable: http.StatusServiceUnavailable,
	ErrCodeBadRequest:         http.StatusBadRequest,
}

// CodeFor returns the error code of an error type
func CodeFor(t failure.Type) string {
	if code, ok := typeCodes[t]; ok {
		return code
	}
	return ErrCodeInternal
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
