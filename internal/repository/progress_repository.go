// internal/repository/progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.Progress) error
	FindByID(ctx context.Context, db *gorm.DB, progressID uuid.UUID) (*model.Progress, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) (*model.Progress, error)
	FindByStudentID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Progress, error)
	Update(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, updates map[string]interface{}) error
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.Progress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating progress in DB",
			"error", result.Error,
			"student_id", progress.StudentID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByID(ctx context.Context, db *gorm.DB, progressID uuid.UUID) (*model.Progress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.Progress
	result := db.WithContext(ctx).Where("progress_id = ?", progressID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding progress by ID in DB", "error", result.Error, "progress_id", progressID.String())
		return nil, fmt.Errorf("gormProgressRepository.FindByID: %w", result.Error)
	}
	return &progress, nil
}

// FindByIDForUpdate locks the row for the duration of the surrounding
// transaction so concurrent submissions serialize on the same progress.
func (r *gormProgressRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) (*model.Progress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.Progress
	query := tx.WithContext(ctx)
	// SQLite has no FOR UPDATE; its transactions already serialize writers.
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := query.Where("progress_id = ?", progressID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error locking progress row in DB", "error", result.Error, "progress_id", progressID.String())
		return nil, fmt.Errorf("gormProgressRepository.FindByIDForUpdate: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindByStudentID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Progress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.Progress
	result := db.WithContext(ctx).Where("student_id = ?", studentID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding progress by student ID in DB", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormProgressRepository.FindByStudentID: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Progress{}).Where("progress_id = ?", progressID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating progress in DB", "error", result.Error, "progress_id", progressID.String())
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
