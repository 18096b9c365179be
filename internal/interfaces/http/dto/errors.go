package dto

import (
	"net/http"
	"strings"
)

// Error codes the interface layer raises itself. Domain codes come from
// shared.DomainError and map through errorCodeStatus below.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeStatus maps domain error codes to HTTP status codes
var errorCodeStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInternal:     http.StatusInternalServerError,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"HAS_DEPENDENTS":         http.StatusUnprocessableEntity,
	"AMOUNT_EXCEEDS_BALANCE": http.StatusUnprocessableEntity,
	"TRUCK_ASSIGNED":         http.StatusUnprocessableEntity,

	"REMINDER_FAILED":      http.StatusBadGateway,
	"RENDER_FAILED":        http.StatusBadGateway,
	"RENDERER_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Validation-style
// codes (INVALID_*) fall back to 400, anything unknown to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
