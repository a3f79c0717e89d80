// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"filipiknow_backend/internal/config"
	"filipiknow_backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// HandlerSet bundles every handler the router mounts.
type HandlerSet struct {
	Auth      *AuthHandler
	Section   *SectionHandler
	Chapter   *ChapterHandler
	Game      *GameHandler
	Character *CharacterHandler
	Student   *StudentHandler
	Progress  *ProgressHandler
	Score     *ScoreHandler
	Dialogue  *DialogueHandler
}

// NewRouter builds the full route tree. The legacy game-client endpoints
// live at the root; the management API lives under /api/v1 behind auth.
// With auth disabled (dev, tests) the X-User-ID header stands in for a JWT.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger, h *HandlerSet) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	authMiddleware := middleware.JWTAuthMiddleware(cfg)
	if !cfg.Auth.Enabled {
		logger.Warn("Authentication disabled, using X-User-ID header auth")
		authMiddleware = func(next http.Handler) http.Handler {
			return middleware.DevUserContextMiddleware(next)
		}
	}

	// Legacy game-client endpoints. The shipped client has these paths
	// baked in, verbs included.
	r.Post("/recordStudentScore", h.Score.RecordStudentScore)
	r.Post("/getStudentInfoAndProgress", h.Progress.GetStudentInfoAndProgress)
	r.Get("/getDialogue", h.Dialogue.GetDialogue)
	r.Post("/getDialogue", h.Dialogue.PostDialogue)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/signin", h.Auth.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", h.Auth.GetMe)

			r.Route("/sections", func(r chi.Router) {
				r.Post("/", h.Section.PostSection)
				r.Get("/", h.Section.GetSections)
				r.Get("/{section_id}", h.Section.GetSection)
				r.Patch("/{section_id}", h.Section.PatchSection)
				r.Delete("/{section_id}", h.Section.DeleteSection)
				r.Get("/{section_id}/students", h.Student.GetSectionStudents)
			})

			r.Route("/chapters", func(r chi.Router) {
				r.Post("/", h.Chapter.PostChapter)
				r.Get("/", h.Chapter.GetChapters)
				r.Get("/{chapter_id}", h.Chapter.GetChapter)
				r.Patch("/{chapter_id}", h.Chapter.PatchChapter)
				r.Delete("/{chapter_id}", h.Chapter.DeleteChapter)
				r.Get("/{chapter_id}/levels", h.Chapter.GetChapterLevels)
			})

			r.Route("/games", func(r chi.Router) {
				r.Post("/", h.Game.PostGame)
				r.Get("/", h.Game.GetGames)
				r.Get("/{game_id}", h.Game.GetGame)
				r.Patch("/{game_id}", h.Game.PatchGame)
				r.Delete("/{game_id}", h.Game.DeleteGame)
			})

			r.Route("/characters", func(r chi.Router) {
				r.Post("/", h.Character.PostCharacter)
				r.Get("/", h.Character.GetCharacters)
				r.Get("/{character_id}", h.Character.GetCharacter)
				r.Patch("/{character_id}", h.Character.PatchCharacter)
				r.Delete("/{character_id}", h.Character.DeleteCharacter)
			})

			r.Route("/students", func(r chi.Router) {
				r.Post("/", h.Student.PostStudent)
				r.Get("/{student_id}", h.Student.GetStudent)
			})

			r.Route("/progress", func(r chi.Router) {
				r.Post("/", h.Progress.PostProgress)
				r.Get("/{progress_id}", h.Progress.GetProgress)
				r.Get("/{progress_id}/scores", h.Score.GetProgressScores)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
