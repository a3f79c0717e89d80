// internal/repository/score_repository.go
package repository

import (
	"context"
	"fmt"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScoreRepository interface {
	Create(ctx context.Context, tx *gorm.DB, score *model.StudentScore) error
	ExistsByProgressAndGame(ctx context.Context, db *gorm.DB, progressID, gameID uuid.UUID) (bool, error)
	FindByProgress(ctx context.Context, db *gorm.DB, progressID uuid.UUID) ([]*model.StudentScore, error)
}

type gormScoreRepository struct{}

func NewGormScoreRepository() ScoreRepository {
	return &gormScoreRepository{}
}

// Create inserts a ledger entry. A unique violation on (progress_id, game_id)
// means the student already has a score for this game, which is its own
// error so callers can answer with 403 instead of a generic conflict.
func (r *gormScoreRepository) Create(ctx context.Context, tx *gorm.DB, score *model.StudentScore) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(score)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrAlreadySubmitted
		}
		logger.Error("Error creating score in DB",
			"error", result.Error,
			"progress_id", score.ProgressID.String(),
			"game_id", score.GameID.String(),
		)
		return fmt.Errorf("gormScoreRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormScoreRepository) ExistsByProgressAndGame(ctx context.Context, db *gorm.DB, progressID, gameID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.StudentScore{}).
		Where("progress_id = ? AND game_id = ?", progressID, gameID).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking score existence in DB",
			"error", result.Error,
			"progress_id", progressID.String(),
			"game_id", gameID.String(),
		)
		return false, fmt.Errorf("gormScoreRepository.ExistsByProgressAndGame: %w", result.Error)
	}
	return count > 0, nil
}

func (r *gormScoreRepository) FindByProgress(ctx context.Context, db *gorm.DB, progressID uuid.UUID) ([]*model.StudentScore, error) {
	logger := middleware.GetLogger(ctx)
	var scores []*model.StudentScore
	result := db.WithContext(ctx).Where("progress_id = ?", progressID).Order("created_at ASC").Find(&scores)
	if result.Error != nil {
		logger.Error("Error finding scores by progress in DB", "error", result.Error, "progress_id", progressID.String())
		return nil, fmt.Errorf("gormScoreRepository.FindByProgress: %w", result.Error)
	}
	return scores, nil
}
