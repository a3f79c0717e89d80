// internal/handlers/score_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type ScoreHandler struct {
	service service.ScoreService
	logger  *slog.Logger
}

func NewScoreHandler(s service.ScoreService, logger *slog.Logger) *ScoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreHandler{
		service: s,
		logger:  logger,
	}
}

// recordScoreResponse is the legacy client's submission envelope. The client
// reads the snapshot from the "data" key, unlike getDialogue's "result".
type recordScoreResponse struct {
	Success bool                 `json:"success"`
	Data    *model.ScoreSnapshot `json:"data"`
}

// RecordStudentScore serves the legacy POST /recordStudentScore endpoint.
// A resubmission for the same game answers 403.
func (h *ScoreHandler) RecordStudentScore(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RecordStudentScore"))

	var req model.SubmitScoreRequest
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

	snapshot, err := h.service.SubmitScore(r.Context(), &req)
	if err != nil {
		logger.Warn("Score submission rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Score recorded successfully",
		slog.String("record_id", snapshot.RecordID.String()),
		slog.Int("next_level", snapshot.NextLevel),
	)
	webutil.RespondWithJSON(w, http.StatusOK, recordScoreResponse{
		Success: true,
		Data:    snapshot,
	})
}

// GetProgressScores lists the score ledger for one progress record.
func (h *ScoreHandler) GetProgressScores(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgressScores"))

	progressID, ok := parseUUIDParam(w, r, logger, "progress_id")
	if !ok {
		return
	}

	scores, err := h.service.ListScores(r.Context(), progressID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if scores == nil {
		scores = []*model.StudentScore{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, scores)
}
