package service

import (
	"context"
	"errors"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameService interface {
	CreateGame(ctx context.Context, teacherID uuid.UUID, req *model.CreateGameRequest) (*model.Game, error)
	GetGame(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
	ListGames(ctx context.Context, filter repository.GameFilter) ([]*model.Game, error)
	UpdateGame(ctx context.Context, gameID uuid.UUID, req *model.UpdateGameRequest) (*model.Game, error)
	DeleteGame(ctx context.Context, gameID uuid.UUID) error
}

type gameService struct {
	db          *gorm.DB
	gameRepo    repository.GameRepository
	levelRepo   repository.LevelRepository
	chapterRepo repository.ChapterRepository
	sectionRepo repository.SectionRepository
}

func NewGameService(db *gorm.DB, gameRepo repository.GameRepository, levelRepo repository.LevelRepository, chapterRepo repository.ChapterRepository, sectionRepo repository.SectionRepository) GameService {
	return &gameService{
		db:          db,
		gameRepo:    gameRepo,
		levelRepo:   levelRepo,
		chapterRepo: chapterRepo,
		sectionRepo: sectionRepo,
	}
}

// CreateGame validates the authoring request against existing content and
// stores the game with its variant payload. Assessment-level games must carry
// a time limit; other levels may omit it.
func (s *gameService) CreateGame(ctx context.Context, teacherID uuid.UUID, req *model.CreateGameRequest) (*model.Game, error) {
	logger := middleware.GetLogger(ctx)

	spec, err := req.Spec()
	if err != nil {
		logger.Warn("Invalid game payload", "error", err)
		return nil, err
	}

	var newGame *model.Game
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		level, err := s.levelRepo.FindByID(ctx, tx, req.LevelID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level not found for game", "level_id", req.LevelID.String())
				return model.NewAppError("LEVEL_NOT_FOUND", "The level was not found.", "level_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		chapter, err := s.chapterRepo.FindByID(ctx, tx, level.ChapterID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Chapter not found for level", "chapter_id", level.ChapterID.String())
				return model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "chapter_id", model.ErrNotFound)
			}
			logger.Error("Failed to resolve chapter for level", "error", err, "chapter_id", level.ChapterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		if _, err := s.sectionRepo.FindByID(ctx, tx, req.SectionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Section not found for game", "section_id", req.SectionID.String())
				return model.NewAppError("SECTION_NOT_FOUND", "The section was not found.", "section_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		if level.IsAssessment() && req.TimeLimitSeconds == nil {
			logger.Warn("Assessment game missing time limit", "level_id", level.LevelID.String())
			return model.NewAppError("TIME_LIMIT_REQUIRED", "Assessment games require a time limit.", "time_limit_seconds", model.ErrInvalidInput)
		}

		game := &model.Game{
			GameID:           uuid.New(),
			LevelID:          level.LevelID,
			ChapterID:        chapter.ChapterID,
			Novel:            chapter.Novel,
			SectionID:        req.SectionID,
			TeacherID:        teacherID,
			GameType:         req.GameType,
			Instruction:      req.Instruction,
			Points:           req.Points,
			TimeLimitSeconds: req.TimeLimitSeconds,
			Payload:          model.GamePayload{Spec: spec},
		}

		if err := s.gameRepo.Create(ctx, tx, game); err != nil {
			logger.Error("Failed to create game", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the game.", "", err)
		}
		newGame = game
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Game created",
		"game_id", newGame.GameID,
		"game_type", string(newGame.GameType),
		"level_id", newGame.LevelID,
	)
	return newGame, nil
}

func (s *gameService) GetGame(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	logger := middleware.GetLogger(ctx)
	game, err := s.gameRepo.FindByID(ctx, s.db, gameID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Game not found", "game_id", gameID.String())
			return nil, model.NewAppError("GAME_NOT_FOUND", "The game was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding game", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter repository.GameFilter) ([]*model.Game, error) {
	logger := middleware.GetLogger(ctx)
	games, err := s.gameRepo.FindByFilter(ctx, s.db, filter)
	if err != nil {
		logger.Error("Error listing games", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, gameID uuid.UUID, req *model.UpdateGameRequest) (*model.Game, error) {
	logger := middleware.GetLogger(ctx)

	var updated *model.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := s.gameRepo.FindByID(ctx, tx, gameID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("GAME_NOT_FOUND", "The game was not found.", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		spec, err := req.Spec(game.GameType)
		if err != nil {
			logger.Warn("Invalid game payload on update", "error", err, "game_id", gameID.String())
			return err
		}

		updates := map[string]interface{}{}
		if req.Instruction != nil {
			updates["instruction"] = *req.Instruction
		}
		if req.Points != nil {
			updates["points"] = *req.Points
		}
		if req.TimeLimitSeconds != nil {
			updates["time_limit_seconds"] = *req.TimeLimitSeconds
		}
		if spec != nil {
			updates["payload"] = model.GamePayload{Spec: spec}
		}
		if len(updates) == 0 {
			return model.NewAppError("EMPTY_UPDATE", "No fields to update were provided.", "", model.ErrInvalidInput)
		}

		if err := s.gameRepo.Update(ctx, tx, gameID, updates); err != nil {
			logger.Error("Failed to update game", "error", err, "game_id", gameID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update the game.", "", err)
		}

		game, err = s.gameRepo.FindByID(ctx, tx, gameID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to reload the game.", "", err)
		}
		updated = game
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Game updated", "game_id", gameID.String())
	return updated, nil
}

// DeleteGame removes a game unconditionally. Recorded scores keep their
// ledger rows; the ledger is append-only history, not a join target.
func (s *gameService) DeleteGame(ctx context.Context, gameID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.gameRepo.Delete(ctx, tx, gameID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Game not found for deletion", "game_id", gameID.String())
			return model.NewAppError("GAME_NOT_FOUND", "The game was not found.", "", model.ErrNotFound)
		}
		logger.Error("Failed to delete game", "error", err, "game_id", gameID.String())
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the game.", "", err)
	}

	logger.Info("Game deleted", "game_id", gameID.String())
	return nil
}
