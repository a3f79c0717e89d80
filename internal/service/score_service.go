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

type ScoreService interface {
	SubmitScore(ctx context.Context, req *model.SubmitScoreRequest) (*model.ScoreSnapshot, error)
	ListScores(ctx context.Context, progressID uuid.UUID) ([]*model.StudentScore, error)
}

type scoreService struct {
	db           *gorm.DB
	scoreRepo    repository.ScoreRepository
	progressRepo repository.ProgressRepository
	gameRepo     repository.GameRepository
	levelRepo    repository.LevelRepository
	chapterRepo  repository.ChapterRepository
}

func NewScoreService(db *gorm.DB, scoreRepo repository.ScoreRepository, progressRepo repository.ProgressRepository, gameRepo repository.GameRepository, levelRepo repository.LevelRepository, chapterRepo repository.ChapterRepository) ScoreService {
	return &scoreService{
		db:           db,
		scoreRepo:    scoreRepo,
		progressRepo: progressRepo,
		gameRepo:     gameRepo,
		levelRepo:    levelRepo,
		chapterRepo:  chapterRepo,
	}
}

// SubmitScore records one game result and advances the student's progression
// in a single transaction. Each game may be scored exactly once per progress;
// a resubmission is rejected before anything is written. The rollover is
// driven by the played game's own level and chapter: completing that
// chapter's level 10 rolls the level back to 1 and, while chapters remain in
// the novel, moves to the next chapter.
func (s *scoreService) SubmitScore(ctx context.Context, req *model.SubmitScoreRequest) (*model.ScoreSnapshot, error) {
	logger := middleware.GetLogger(ctx)

	var snapshot *model.ScoreSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := s.gameRepo.FindByID(ctx, tx, *req.GameID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Game not found for score submission", "game_id", req.GameID.String())
				return model.NewAppError("GAME_NOT_FOUND", "The game was not found.", "gameId", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		level, err := s.levelRepo.FindByID(ctx, tx, game.LevelID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level missing for submitted game",
					"game_id", game.GameID.String(),
					"level_id", game.LevelID.String(),
				)
				return model.NewAppError("LEVEL_NOT_FOUND", "The game's level was not found.", "gameId", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		chapter, err := s.chapterRepo.FindByID(ctx, tx, game.ChapterID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Chapter missing for submitted game",
					"game_id", game.GameID.String(),
					"chapter_id", game.ChapterID.String(),
				)
				return model.NewAppError("CHAPTER_NOT_FOUND", "The game's chapter was not found.", "gameId", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		progress, err := s.progressRepo.FindByIDForUpdate(ctx, tx, *req.ProgressID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Progress not found for score submission", "progress_id", req.ProgressID.String())
				return model.NewAppError("PROGRESS_NOT_FOUND", "The progress record was not found.", "progressId", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		exists, err := s.scoreRepo.ExistsByProgressAndGame(ctx, tx, progress.ProgressID, *req.GameID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}
		if exists {
			logger.Warn("Duplicate score submission",
				"progress_id", progress.ProgressID,
				"game_id", req.GameID.String(),
			)
			return model.NewAppError("ALREADY_SUBMITTED", "A score for this game has already been recorded.", "gameId", model.ErrAlreadySubmitted)
		}

		score := &model.StudentScore{
			ScoreID:    uuid.New(),
			ProgressID: progress.ProgressID,
			GameID:     *req.GameID,
			Score:      *req.Score,
			TimeSpent:  *req.TimeSpent,
		}
		if err := s.scoreRepo.Create(ctx, tx, score); err != nil {
			// The unique index caught a race the check above missed.
			if errors.Is(err, model.ErrAlreadySubmitted) {
				logger.Warn("Duplicate score submission caught by index",
					"progress_id", progress.ProgressID,
					"game_id", req.GameID.String(),
				)
				return model.NewAppError("ALREADY_SUBMITTED", "A score for this game has already been recorded.", "gameId", model.ErrAlreadySubmitted)
			}
			logger.Error("Failed to create score", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record the score.", "", err)
		}

		// The played level decides the rollover, not the progress snapshot;
		// the two can disagree when a teacher assigns games out of order.
		nextLevel := level.Number + 1
		if level.Number >= model.AssessmentLevel {
			nextLevel = 1
		}
		nextChapter := progress.CurrentChapter
		if level.Number == model.AssessmentLevel && progress.CurrentChapter < chapter.Novel.ChapterLimit() {
			nextChapter = progress.CurrentChapter + 1
		}

		updates := map[string]interface{}{
			"total_points":    progress.TotalPoints + *req.Score,
			"current_level":   nextLevel,
			"current_chapter": nextChapter,
		}
		if err := s.progressRepo.Update(ctx, tx, progress.ProgressID, updates); err != nil {
			logger.Error("Failed to advance progress", "error", err, "progress_id", progress.ProgressID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update the progress record.", "", err)
		}

		// Reload for the authoritative updated_at token.
		fresh, err := s.progressRepo.FindByID(ctx, tx, progress.ProgressID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to reload the progress record.", "", err)
		}

		snapshot = &model.ScoreSnapshot{
			RecordID:       score.ScoreID,
			UpdatedPoints:  fresh.TotalPoints,
			NextLevel:      fresh.CurrentLevel,
			CurrentChapter: fresh.CurrentChapter,
			UpdatedAt:      fresh.UpdatedAtToken(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Score recorded",
		"record_id", snapshot.RecordID,
		"next_level", snapshot.NextLevel,
		"current_chapter", snapshot.CurrentChapter,
	)
	return snapshot, nil
}

func (s *scoreService) ListScores(ctx context.Context, progressID uuid.UUID) ([]*model.StudentScore, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.progressRepo.FindByID(ctx, s.db, progressID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PROGRESS_NOT_FOUND", "The progress record was not found.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	scores, err := s.scoreRepo.FindByProgress(ctx, s.db, progressID)
	if err != nil {
		logger.Error("Error listing scores", "error", err, "progress_id", progressID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return scores, nil
}
