package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Reason  string       `json:"reason,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Voucher rejection reasons, checked in this exact order by the validator.
const (
	ReasonVoucherNotFound    = "not_found"
	ReasonVoucherInactive    = "inactive"
	ReasonVoucherExpired     = "expired"
	ReasonVoucherMaxUses     = "max_uses_reached"
	ReasonVoucherMinSpend    = "min_spend_not_met"
	ReasonInvalidSignature   = "invalid_signature"
	ReasonGatewayUnavailable = "gateway_unavailable"
)

// Common errors
var (
	ErrNotFound         = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized     = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden        = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest       = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer   = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict         = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable    = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidSignature = &AppError{Code: http.StatusUnauthorized, Message: "Invalid notification signature", Reason: ReasonInvalidSignature}

	ErrVoucherNotFound = &AppError{Code: http.StatusNotFound, Message: "Voucher code not found", Reason: ReasonVoucherNotFound}
	ErrVoucherInactive = &AppError{Code: http.StatusUnprocessableEntity, Message: "Voucher is no longer active", Reason: ReasonVoucherInactive}
	ErrVoucherExpired  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Voucher has expired", Reason: ReasonVoucherExpired}
	ErrVoucherMaxUses  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Voucher usage limit reached", Reason: ReasonVoucherMaxUses}
	ErrVoucherMinSpend = &AppError{Code: http.StatusUnprocessableEntity, Message: "Order subtotal is below the voucher minimum", Reason: ReasonVoucherMinSpend}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewGatewayError creates an error for a failed payment gateway call
func NewGatewayError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: message,
		Reason:  ReasonGatewayUnavailable,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
