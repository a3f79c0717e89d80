// internal/handlers/game_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"

	"github.com/google/uuid"
)

type GameHandler struct {
	service service.GameService
	logger  *slog.Logger
}

func NewGameHandler(s service.GameService, logger *slog.Logger) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		service: s,
		logger:  logger,
	}
}

func (h *GameHandler) PostGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGame"))

	teacherID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "No authentication information found.", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("teacher_id", teacherID.String()))

	var req model.CreateGameRequest
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

	game, err := h.service.CreateGame(r.Context(), teacherID, &req)
	if err != nil {
		logger.Error("Error creating game in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game created successfully", slog.String("game_id", game.GameID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, game)
}

// GetGames lists games, filtered by optional chapter_id, level_id and
// section_id query parameters.
func (h *GameHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGames"))

	filter := repository.GameFilter{}
	query := r.URL.Query()
	for param, target := range map[string]**uuid.UUID{
		"chapter_id": &filter.ChapterID,
		"level_id":   &filter.LevelID,
		"section_id": &filter.SectionID,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("Invalid UUID in query", slog.String("param", param), slog.String("value", raw))
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "The "+param+" query parameter is not a valid UUID.", param, model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		*target = &id
	}

	games, err := h.service.ListGames(r.Context(), filter)
	if err != nil {
		logger.Error("Error listing games in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if games == nil {
		games = []*model.Game{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, games)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGame"))

	gameID, ok := parseUUIDParam(w, r, logger, "game_id")
	if !ok {
		return
	}

	game, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) PatchGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchGame"))

	gameID, ok := parseUUIDParam(w, r, logger, "game_id")
	if !ok {
		return
	}

	var req model.UpdateGameRequest
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

	game, err := h.service.UpdateGame(r.Context(), gameID, &req)
	if err != nil {
		logger.Error("Error updating game in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game updated successfully", slog.String("game_id", gameID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteGame"))

	gameID, ok := parseUUIDParam(w, r, logger, "game_id")
	if !ok {
		return
	}

	if err := h.service.DeleteGame(r.Context(), gameID); err != nil {
		logger.Error("Error deleting game in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game deleted successfully", slog.String("game_id", gameID.String()))
	w.WriteHeader(http.StatusNoContent)
}
