// internal/handlers/chapter_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type ChapterHandler struct {
	service service.ContentService
	logger  *slog.Logger
}

func NewChapterHandler(s service.ContentService, logger *slog.Logger) *ChapterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChapterHandler{
		service: s,
		logger:  logger,
	}
}

func (h *ChapterHandler) PostChapter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostChapter"))

	var req model.CreateChapterRequest
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

	chapter, err := h.service.CreateChapter(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating chapter in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chapter created successfully", slog.String("chapter_id", chapter.ChapterID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, chapter)
}

// GetChapters lists chapter summaries for a novel (?novel=...).
func (h *ChapterHandler) GetChapters(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChapters"))

	novel := model.Novel(r.URL.Query().Get("novel"))
	summaries, err := h.service.ListChapters(r.Context(), novel)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if summaries == nil {
		summaries = []*model.ChapterSummary{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChapter"))

	chapterID, ok := parseUUIDParam(w, r, logger, "chapter_id")
	if !ok {
		return
	}

	chapter, err := h.service.GetChapter(r.Context(), chapterID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, chapter)
}

func (h *ChapterHandler) PatchChapter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchChapter"))

	chapterID, ok := parseUUIDParam(w, r, logger, "chapter_id")
	if !ok {
		return
	}

	var req model.UpdateChapterRequest
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

	chapter, err := h.service.UpdateChapter(r.Context(), chapterID, &req)
	if err != nil {
		logger.Error("Error updating chapter in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chapter updated successfully", slog.String("chapter_id", chapterID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, chapter)
}

func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteChapter"))

	chapterID, ok := parseUUIDParam(w, r, logger, "chapter_id")
	if !ok {
		return
	}

	if err := h.service.DeleteChapter(r.Context(), chapterID); err != nil {
		logger.Error("Error deleting chapter in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chapter deleted successfully", slog.String("chapter_id", chapterID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChapterHandler) GetChapterLevels(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChapterLevels"))

	chapterID, ok := parseUUIDParam(w, r, logger, "chapter_id")
	if !ok {
		return
	}

	levels, err := h.service.GetLevelsByChapter(r.Context(), chapterID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if levels == nil {
		levels = []*model.Level{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, levels)
}
