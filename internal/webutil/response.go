// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"filipiknow_backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError interprets err and writes the matching JSON error response.
// This is the single funnel for error handling across all handlers.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Success: false, Error: appErr.Detail()}
	} else {
		switch {
		case errors.Is(err, model.ErrNotFound):
			errResp = model.APIErrorResponse{Success: false, Error: model.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "The requested resource was not found.",
			}}
		case errors.Is(err, model.ErrInvalidInput):
			errResp = model.APIErrorResponse{Success: false, Error: model.ErrorDetail{
				Code:    "INVALID_INPUT",
				Message: "The request was malformed or failed validation.",
			}}
		case errors.Is(err, model.ErrAlreadySubmitted):
			errResp = model.APIErrorResponse{Success: false, Error: model.ErrorDetail{
				Code:    "ALREADY_SUBMITTED",
				Message: "A score for this game has already been recorded.",
			}}
		case errors.Is(err, model.ErrConflict):
			errResp = model.APIErrorResponse{Success: false, Error: model.ErrorDetail{
				Code:    "CONFLICT",
				Message: "The resource already exists.",
			}}
		default:
			logger.Error("Unhandled error", "error", err)
			errResp = model.APIErrorResponse{Success: false, Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "An internal server error occurred.",
			}}
		}
	}

	RespondWithJSON(w, statusCode, errResp)
}

// MapErrorToStatusCode maps application errors to HTTP status codes. AppError
// is unwrapped first so the sentinel underneath decides.
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	// Resubmissions are rejected as forbidden rather than conflicting: the
	// ledger entry exists and the client may not replace it.
	case errors.Is(err, model.ErrAlreadySubmitted):
		return http.StatusForbidden
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON writes payload as a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to encode response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string

	for _, err := range errs {
		fields = append(fields, err.Field())
		messages = append(messages, err.Translate(Trans))
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}

// ValidateStruct runs the shared validator and converts failures into the
// standard validation AppError.
func ValidateStruct(dst interface{}) error {
	if err := Validator.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return NewValidationErrorResponse(validationErrs)
		}
		return fmt.Errorf("webutil.ValidateStruct: %w", err)
	}
	return nil
}
