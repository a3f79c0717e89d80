// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// Application sentinel errors. Handlers never match on message strings;
// everything is mapped to a status code via errors.Is against these.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternalServer   = errors.New("internal server error")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("resource conflict")
	ErrAlreadySubmitted = errors.New("score already submitted for this game")
)

// AppError carries a stable machine-readable code and a human message on top
// of one of the sentinel errors above.
type AppError struct {
	Code    string // e.g. "ALREADY_SUBMITTED"
	Message string
	Field   string // offending field(s), when applicable
	Err     error  // wrapped sentinel (or root cause)
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail is the client-facing shape of the error.
func (e *AppError) Detail() ErrorDetail {
	return ErrorDetail{Code: e.Code, Message: e.Message, Field: e.Field}
}

// ErrorDetail is the error payload embedded in API error responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse is the JSON envelope for error responses.
type APIErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}
