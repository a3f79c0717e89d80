// internal/repository/level_repository.go
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

type LevelRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, levels []*model.Level) error
	FindByID(ctx context.Context, db *gorm.DB, levelID uuid.UUID) (*model.Level, error)
	FindByChapter(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) ([]*model.Level, error)
	FindByChapterAndNumber(ctx context.Context, db *gorm.DB, chapterID uuid.UUID, number int) (*model.Level, error)
	DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error
}

type gormLevelRepository struct{}

func NewGormLevelRepository() LevelRepository {
	return &gormLevelRepository{}
}

func (r *gormLevelRepository) CreateBatch(ctx context.Context, tx *gorm.DB, levels []*model.Level) error {
	logger := middleware.GetLogger(ctx)
	if len(levels) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Create(levels)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating levels in DB", "error", result.Error, "count", len(levels))
		return fmt.Errorf("gormLevelRepository.CreateBatch: %w", result.Error)
	}
	return nil
}

func (r *gormLevelRepository) FindByID(ctx context.Context, db *gorm.DB, levelID uuid.UUID) (*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var level model.Level
	result := db.WithContext(ctx).Where("level_id = ?", levelID).First(&level)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding level by ID in DB", "error", result.Error, "level_id", levelID.String())
		return nil, fmt.Errorf("gormLevelRepository.FindByID: %w", result.Error)
	}
	return &level, nil
}

func (r *gormLevelRepository) FindByChapter(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var levels []*model.Level
	result := db.WithContext(ctx).Where("chapter_id = ?", chapterID).Order("number ASC").Find(&levels)
	if result.Error != nil {
		logger.Error("Error finding levels by chapter in DB", "error", result.Error, "chapter_id", chapterID.String())
		return nil, fmt.Errorf("gormLevelRepository.FindByChapter: %w", result.Error)
	}
	return levels, nil
}

func (r *gormLevelRepository) FindByChapterAndNumber(ctx context.Context, db *gorm.DB, chapterID uuid.UUID, number int) (*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var level model.Level
	result := db.WithContext(ctx).Where("chapter_id = ? AND number = ?", chapterID, number).First(&level)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding level by chapter and number in DB",
			"error", result.Error,
			"chapter_id", chapterID.String(),
			"number", number,
		)
		return nil, fmt.Errorf("gormLevelRepository.FindByChapterAndNumber: %w", result.Error)
	}
	return &level, nil
}

func (r *gormLevelRepository) DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("chapter_id = ?", chapterID).Delete(&model.Level{})
	if result.Error != nil {
		logger.Error("Error deleting levels by chapter in DB", "error", result.Error, "chapter_id", chapterID.String())
		return fmt.Errorf("gormLevelRepository.DeleteByChapter: %w", result.Error)
	}
	return nil
}
