// internal/handlers/progress_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// PostProgress starts the authenticated student's journey. Safe to call more
// than once; an existing record is returned as-is.
func (h *ProgressHandler) PostProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "No authentication information found.", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	progress, err := h.service.CreateProgress(r.Context(), userID)
	if err != nil {
		logger.Error("Error creating progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress ready", slog.String("progress_id", progress.ProgressID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, progress.ToResponse())
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgress"))

	progressID, ok := parseUUIDParam(w, r, logger, "progress_id")
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(r.Context(), progressID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, progress.ToResponse())
}

// studentInfoAndProgressResponse is the legacy client's combined envelope. The
// short-circuit variant carries only the message the client string-matches on.
type studentInfoAndProgressResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Student  *model.StudentResponse  `json:"student,omitempty"`
	Progress *model.ProgressResponse `json:"progress,omitempty"`
}

// GetStudentInfoAndProgress serves the legacy POST /getStudentInfoAndProgress
// endpoint. When the caller's cachedUpdatedAt token still matches, only
// {"success":true,"message":"No updates available"} comes back.
func (h *ProgressHandler) GetStudentInfoAndProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudentInfoAndProgress"))

	var req model.StudentInfoAndProgressRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.GetStudentInfoAndProgress(r.Context(), &req)
	if err != nil {
		logger.Error("Error getting student info and progress", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if result.NotModified {
		webutil.RespondWithJSON(w, http.StatusOK, studentInfoAndProgressResponse{
			Success: true,
			Message: "No updates available",
		})
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, studentInfoAndProgressResponse{
		Success:  true,
		Student:  result.Student,
		Progress: result.Progress,
	})
}
