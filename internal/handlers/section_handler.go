// internal/handlers/section_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SectionHandler struct {
	service service.SectionService
	logger  *slog.Logger
}

func NewSectionHandler(s service.SectionService, logger *slog.Logger) *SectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SectionHandler{
		service: s,
		logger:  logger,
	}
}

func (h *SectionHandler) PostSection(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSection"))

	teacherID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "No authentication information found.", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("teacher_id", teacherID.String()))

	var req model.CreateSectionRequest
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

	section, err := h.service.CreateSection(r.Context(), teacherID, &req)
	if err != nil {
		logger.Error("Error creating section in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Section created successfully", slog.String("section_id", section.SectionID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, section)
}

func (h *SectionHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSections"))

	teacherID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "No authentication information found.", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	sections, err := h.service.ListSections(r.Context(), teacherID)
	if err != nil {
		logger.Error("Error listing sections in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if sections == nil {
		sections = []*model.Section{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, sections)
}

func (h *SectionHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSection"))

	sectionID, ok := parseUUIDParam(w, r, logger, "section_id")
	if !ok {
		return
	}

	section, err := h.service.GetSection(r.Context(), sectionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) PatchSection(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchSection"))

	sectionID, ok := parseUUIDParam(w, r, logger, "section_id")
	if !ok {
		return
	}

	var req model.UpdateSectionRequest
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

	section, err := h.service.UpdateSection(r.Context(), sectionID, &req)
	if err != nil {
		logger.Error("Error updating section in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Section updated successfully", slog.String("section_id", sectionID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSection"))

	sectionID, ok := parseUUIDParam(w, r, logger, "section_id")
	if !ok {
		return
	}

	if err := h.service.DeleteSection(r.Context(), sectionID); err != nil {
		logger.Error("Error deleting section in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Section deleted successfully", slog.String("section_id", sectionID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// parseUUIDParam reads a UUID path parameter, answering 400 itself on failure.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid UUID in URL", slog.String("param", name), slog.String("value", raw))
		appErr := model.NewAppError("INVALID_URL_PARAM", "The "+name+" URL parameter is not a valid UUID.", name, model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return id, true
}
