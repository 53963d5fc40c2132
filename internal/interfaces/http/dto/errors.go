package dto

import (
	"net/http"
	"strings"
)

// General error codes used by the HTTP layer itself. Domain error codes
// pass through unchanged.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	"NOT_FOUND": http.StatusNotFound,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_REVENUE": http.StatusUnprocessableEntity,

	"INVALID_BACKUP": http.StatusBadRequest,
	"EXPORT_FAILED":  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Codes
// describing bad field values (INVALID_NAME, INVALID_QUANTITY, ...) all
// map to 400; anything unrecognized is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "EMPTY_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
