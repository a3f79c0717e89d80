// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"log"
	"net/http"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware is a development-only stand-in for JWT auth.
// It reads the user id from the X-User-ID header without any validation
// against the database.
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			log.Println("[DEV AUTH] Failed: X-User-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] Missing X-User-ID header.", "", model.ErrForbidden)
			webutil.HandleError(w, GetLogger(r.Context()), appErr)
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			log.Printf("[DEV AUTH] Failed: Invalid X-User-ID format: %s", userIDStr)
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] Invalid X-User-ID format.", "", model.ErrForbidden)
			webutil.HandleError(w, GetLogger(r.Context()), appErr)
			return
		}

		log.Printf("[DEV AUTH] User ID %s set to context (no validation)", userID)

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
