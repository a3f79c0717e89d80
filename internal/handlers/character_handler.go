// internal/handlers/character_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type CharacterHandler struct {
	service service.CharacterService
	logger  *slog.Logger
}

func NewCharacterHandler(s service.CharacterService, logger *slog.Logger) *CharacterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CharacterHandler{
		service: s,
		logger:  logger,
	}
}

func (h *CharacterHandler) PostCharacter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostCharacter"))

	var req model.CreateCharacterRequest
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

	character, err := h.service.CreateCharacter(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating character in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Character created successfully", slog.String("character_id", character.CharacterID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, character)
}

// GetCharacters lists a novel's characters (?novel=...).
func (h *CharacterHandler) GetCharacters(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCharacters"))

	novel := model.Novel(r.URL.Query().Get("novel"))
	characters, err := h.service.ListCharacters(r.Context(), novel)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if characters == nil {
		characters = []*model.NovelCharacter{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, characters)
}

func (h *CharacterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCharacter"))

	characterID, ok := parseUUIDParam(w, r, logger, "character_id")
	if !ok {
		return
	}

	character, err := h.service.GetCharacter(r.Context(), characterID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) PatchCharacter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchCharacter"))

	characterID, ok := parseUUIDParam(w, r, logger, "character_id")
	if !ok {
		return
	}

	var req model.UpdateCharacterRequest
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

	character, err := h.service.UpdateCharacter(r.Context(), characterID, &req)
	if err != nil {
		logger.Error("Error updating character in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Character updated successfully", slog.String("character_id", characterID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCharacter"))

	characterID, ok := parseUUIDParam(w, r, logger, "character_id")
	if !ok {
		return
	}

	if err := h.service.DeleteCharacter(r.Context(), characterID); err != nil {
		logger.Error("Error deleting character in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Character deleted successfully", slog.String("character_id", characterID.String()))
	w.WriteHeader(http.StatusNoContent)
}
