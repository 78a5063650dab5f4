package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes not produced by the domain layer
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":         http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,

	// Bad input. Insufficient stock is a client error: the cart asked
	// for more than the shelf holds
	"BAD_REQUEST":        http.StatusBadRequest,
	"VALIDATION_ERROR":   http.StatusBadRequest,
	"INSUFFICIENT_STOCK": http.StatusBadRequest,
	"NO_ITEMS":           http.StatusBadRequest,
	"MISSING_ADDRESS":    http.StatusBadRequest,
	"WEAK_PASSWORD":      http.StatusBadRequest,

	// Conflicts
	"ALREADY_EXISTS":             http.StatusConflict,
	"EMAIL_TAKEN":                http.StatusConflict,
	"CATEGORY_IN_USE":            http.StatusConflict,
	"CONCURRENCY_CONFLICT":       http.StatusConflict,
	"TRACKING_GENERATION_FAILED": http.StatusConflict,
	"ALREADY_ACTIVE":             http.StatusConflict,
	"ALREADY_INACTIVE":           http.StatusConflict,

	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	"FORBIDDEN": http.StatusForbidden,

	// Workflow violations
	"INVALID_STATE": http.StatusUnprocessableEntity,

	"RATE_LIMITED":        http.StatusTooManyRequests,
	"SERVICE_UNAVAILABLE": http.StatusServiceUnavailable,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unlisted INVALID_* codes are validation failures; anything else
// unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
