// internal/repository/chapter_repository.go
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

type ChapterRepository interface {
	Create(ctx context.Context, tx *gorm.DB, chapter *model.Chapter) error
	FindByID(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) (*model.Chapter, error)
	FindByNovel(ctx context.Context, db *gorm.DB, novel model.Novel, limit int) ([]*model.Chapter, error)
	FindByNovelAndNumber(ctx context.Context, db *gorm.DB, novel model.Novel, number int) (*model.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error
	ExistsByNovelAndNumber(ctx context.Context, db *gorm.DB, novel model.Novel, number int) (bool, error)
}

type gormChapterRepository struct{}

func NewGormChapterRepository() ChapterRepository {
	return &gormChapterRepository{}
}

func (r *gormChapterRepository) Create(ctx context.Context, tx *gorm.DB, chapter *model.Chapter) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(chapter)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating chapter in DB",
			"error", result.Error,
			"novel", string(chapter.Novel),
			"chapter_number", chapter.ChapterNumber,
		)
		return fmt.Errorf("gormChapterRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormChapterRepository) FindByID(ctx context.Context, db *gorm.DB, chapterID uuid.UUID) (*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)
	var chapter model.Chapter
	result := db.WithContext(ctx).Where("chapter_id = ?", chapterID).First(&chapter)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding chapter by ID in DB", "error", result.Error, "chapter_id", chapterID.String())
		return nil, fmt.Errorf("gormChapterRepository.FindByID: %w", result.Error)
	}
	return &chapter, nil
}

func (r *gormChapterRepository) FindByNovel(ctx context.Context, db *gorm.DB, novel model.Novel, limit int) ([]*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)
	var chapters []*model.Chapter
	query := db.WithContext(ctx).Where("novel = ?", novel).Order("chapter_number ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&chapters)
	if result.Error != nil {
		logger.Error("Error finding chapters by novel in DB", "error", result.Error, "novel", string(novel))
		return nil, fmt.Errorf("gormChapterRepository.FindByNovel: %w", result.Error)
	}
	return chapters, nil
}

func (r *gormChapterRepository) FindByNovelAndNumber(ctx context.Context, db *gorm.DB, novel model.Novel, number int) (*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)
	var chapter model.Chapter
	result := db.WithContext(ctx).Where("novel = ? AND chapter_number = ?", novel, number).First(&chapter)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding chapter by novel and number in DB",
			"error", result.Error,
			"novel", string(novel),
			"chapter_number", number,
		)
		return nil, fmt.Errorf("gormChapterRepository.FindByNovelAndNumber: %w", result.Error)
	}
	return &chapter, nil
}

func (r *gormChapterRepository) Update(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Chapter{}).Where("chapter_id = ?", chapterID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating chapter in DB", "error", result.Error, "chapter_id", chapterID.String())
		return fmt.Errorf("gormChapterRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormChapterRepository) Delete(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("chapter_id = ?", chapterID).Delete(&model.Chapter{})
	if result.Error != nil {
		logger.Error("Error deleting chapter in DB", "error", result.Error, "chapter_id", chapterID.String())
		return fmt.Errorf("gormChapterRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormChapterRepository) ExistsByNovelAndNumber(ctx context.Context, db *gorm.DB, novel model.Novel, number int) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Chapter{}).
		Where("novel = ? AND chapter_number = ?", novel, number).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking chapter existence in DB", "error", result.Error, "novel", string(novel))
		return false, fmt.Errorf("gormChapterRepository.ExistsByNovelAndNumber: %w", result.Error)
	}
	return count > 0, nil
}
