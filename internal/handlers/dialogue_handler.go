// internal/handlers/dialogue_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type DialogueHandler struct {
	service service.ContentService
	logger  *slog.Logger
}

func NewDialogueHandler(s service.ContentService, logger *slog.Logger) *DialogueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DialogueHandler{
		service: s,
		logger:  logger,
	}
}

// dialogueRequest is the legacy POST body; the GET variant carries the same
// fields as query parameters.
type dialogueRequest struct {
	Novel   model.Novel `json:"novel" validate:"required"`
	Chapter int         `json:"chapter" validate:"required,gte=1"`
	Level   *int        `json:"level,omitempty"`
}

type dialogueResponse struct {
	Success bool                  `json:"success"`
	Result  *model.DialogueResult `json:"result"`
}

// PostDialogue serves the legacy POST /getDialogue endpoint.
func (h *DialogueHandler) PostDialogue(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostDialogue"))

	var req dialogueRequest
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

	h.respondWithDialogue(w, r, logger, req.Novel, req.Chapter, req.Level)
}

// GetDialogue serves GET /getDialogue?novel=...&chapter=...&level=...
func (h *DialogueHandler) GetDialogue(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDialogue"))
	query := r.URL.Query()

	novel := model.Novel(query.Get("novel"))

	chapter, err := strconv.Atoi(query.Get("chapter"))
	if err != nil {
		logger.Warn("Invalid chapter query parameter", slog.String("value", query.Get("chapter")))
		appErr := model.NewAppError("INVALID_QUERY_PARAM", "The chapter query parameter must be a number.", "chapter", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var level *int
	if raw := query.Get("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("Invalid level query parameter", slog.String("value", raw))
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "The level query parameter must be a number.", "level", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		level = &parsed
	}

	h.respondWithDialogue(w, r, logger, novel, chapter, level)
}

func (h *DialogueHandler) respondWithDialogue(w http.ResponseWriter, r *http.Request, logger *slog.Logger, novel model.Novel, chapter int, level *int) {
	result, err := h.service.GetDialogue(r.Context(), novel, chapter, level)
	if err != nil {
		logger.Warn("Dialogue lookup failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, dialogueResponse{
		Success: true,
		Result:  result,
	})
}
