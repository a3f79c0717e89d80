// internal/handlers/auth_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service: s,
		logger:  logger,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Register"))

	var req model.RegisterRequest
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

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		logger.Error("Error registering user in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User registered successfully", slog.String("user_id", user.UserID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, user.ToResponse())
}

// SignIn authenticates an account and returns an access token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SignIn"))

	var req model.SignInRequest
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

	resp, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		logger.Warn("Sign-in rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Sign-in successful")
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// GetMe returns the authenticated account.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMe"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "No authentication information found.", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting user from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, user.ToResponse())
}
