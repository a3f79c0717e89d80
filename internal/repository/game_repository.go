// internal/repository/game_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameFilter narrows ListGames; nil fields are ignored.
type GameFilter struct {
	ChapterID *uuid.UUID
	LevelID   *uuid.UUID
	SectionID *uuid.UUID
	TeacherID *uuid.UUID
}

type GameRepository interface {
	Create(ctx context.Context, tx *gorm.DB, game *model.Game) error
	FindByID(ctx context.Context, db *gorm.DB, gameID uuid.UUID) (*model.Game, error)
	FindByFilter(ctx context.Context, db *gorm.DB, filter GameFilter) ([]*model.Game, error)
	Update(ctx context.Context, tx *gorm.DB, gameID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) error
	CountByChapter(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) (int64, error)
}

type gormGameRepository struct{}

func NewGormGameRepository() GameRepository {
	return &gormGameRepository{}
}

func (r *gormGameRepository) Create(ctx context.Context, tx *gorm.DB, game *model.Game) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(game)
	if result.Error != nil {
		logger.Error("Error creating game in DB",
			"error", result.Error,
			"level_id", game.LevelID.String(),
			"game_type", string(game.GameType),
		)
		return fmt.Errorf("gormGameRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormGameRepository) FindByID(ctx context.Context, db *gorm.DB, gameID uuid.UUID) (*model.Game, error) {
	logger := middleware.GetLogger(ctx)
	var game model.Game
	result := db.WithContext(ctx).Where("game_id = ?", gameID).First(&game)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding game by ID in DB", "error", result.Error, "game_id", gameID.String())
		return nil, fmt.Errorf("gormGameRepository.FindByID: %w", result.Error)
	}
	return &game, nil
}

func (r *gormGameRepository) FindByFilter(ctx context.Context, db *gorm.DB, filter GameFilter) ([]*model.Game, error) {
	logger := middleware.GetLogger(ctx)
	var games []*model.Game
	query := db.WithContext(ctx).Model(&model.Game{})
	if filter.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filter.ChapterID)
	}
	if filter.LevelID != nil {
		query = query.Where("level_id = ?", *filter.LevelID)
	}
	if filter.SectionID != nil {
		query = query.Where("section_id = ?", *filter.SectionID)
	}
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	result := query.Order("created_at ASC").Find(&games)
	if result.Error != nil {
		logger.Error("Error finding games by filter in DB", "error", result.Error)
		return nil, fmt.Errorf("gormGameRepository.FindByFilter: %w", result.Error)
	}
	return games, nil
}

func (r *gormGameRepository) Update(ctx context.Context, tx *gorm.DB, gameID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Game{}).Where("game_id = ?", gameID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating game in DB", "error", result.Error, "game_id", gameID.String())
		return fmt.Errorf("gormGameRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGameRepository) Delete(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("game_id = ?", gameID).Delete(&model.Game{})
	if result.Error != nil {
		logger.Error("Error deleting game in DB", "error", result.Error, "game_id", gameID.String())
		return fmt.Errorf("gormGameRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGameRepository) CountByChapter(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Game{}).Where("chapter_id = ?", chapterID).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting games by chapter in DB", "error", result.Error, "chapter_id", chapterID.String())
		return 0, fmt.Errorf("gormGameRepository.CountByChapter: %w", result.Error)
	}
	return count, nil
}
