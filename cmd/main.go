// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"filipiknow_backend/internal/config"
	"filipiknow_backend/internal/handlers"
	"filipiknow_backend/internal/repository"
	"filipiknow_backend/internal/service"
)

func main() {
	// Temporary logger until the config tells us the real setup.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := repository.Migrate(db); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency injection.
	userRepo := repository.NewGormUserRepository()
	sectionRepo := repository.NewGormSectionRepository()
	studentRepo := repository.NewGormStudentRepository()
	chapterRepo := repository.NewGormChapterRepository()
	levelRepo := repository.NewGormLevelRepository()
	gameRepo := repository.NewGormGameRepository()
	characterRepo := repository.NewGormCharacterRepository()
	progressRepo := repository.NewGormProgressRepository()
	scoreRepo := repository.NewGormScoreRepository()

	mailer := service.NewMailer(&config.Cfg)

	authService := service.NewAuthService(db, userRepo, &config.Cfg)
	sectionService := service.NewSectionService(db, sectionRepo, studentRepo)
	contentService := service.NewContentService(db, chapterRepo, levelRepo, gameRepo, config.Cfg.App.ChapterPageSize)
	gameService := service.NewGameService(db, gameRepo, levelRepo, chapterRepo, sectionRepo)
	characterService := service.NewCharacterService(db, characterRepo)
	studentService := service.NewStudentService(db, studentRepo, userRepo, sectionRepo, mailer, &config.Cfg)
	progressService := service.NewProgressService(db, progressRepo, studentRepo)
	scoreService := service.NewScoreService(db, scoreRepo, progressRepo, gameRepo, levelRepo, chapterRepo)

	handlerSet := &handlers.HandlerSet{
		Auth:      handlers.NewAuthHandler(authService, logger),
		Section:   handlers.NewSectionHandler(sectionService, logger),
		Chapter:   handlers.NewChapterHandler(contentService, logger),
		Game:      handlers.NewGameHandler(gameService, logger),
		Character: handlers.NewCharacterHandler(characterService, logger),
		Student:   handlers.NewStudentHandler(studentService, logger),
		Progress:  handlers.NewProgressHandler(progressService, logger),
		Score:     handlers.NewScoreHandler(scoreService, logger),
		Dialogue:  handlers.NewDialogueHandler(contentService, logger),
	}

	r := handlers.NewRouter(&config.Cfg, db, logger, handlerSet)

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
