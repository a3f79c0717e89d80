// internal/repository/section_repository.go
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

type SectionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, section *model.Section) error
	FindByID(ctx context.Context, db *gorm.DB, sectionID uuid.UUID) (*model.Section, error)
	FindByTeacher(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]*model.Section, error)
	Update(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) error
}

type gormSectionRepository struct{}

func NewGormSectionRepository() SectionRepository {
	return &gormSectionRepository{}
}

func (r *gormSectionRepository) Create(ctx context.Context, tx *gorm.DB, section *model.Section) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(section)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating section in DB",
			"error", result.Error,
			"teacher_id", section.TeacherID.String(),
			"name", section.Name,
		)
		return fmt.Errorf("gormSectionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSectionRepository) FindByID(ctx context.Context, db *gorm.DB, sectionID uuid.UUID) (*model.Section, error) {
	logger := middleware.GetLogger(ctx)
	var section model.Section
	result := db.WithContext(ctx).Where("section_id = ?", sectionID).First(&section)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding section by ID in DB", "error", result.Error, "section_id", sectionID.String())
		return nil, fmt.Errorf("gormSectionRepository.FindByID: %w", result.Error)
	}
	return &section, nil
}

func (r *gormSectionRepository) FindByTeacher(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]*model.Section, error) {
	logger := middleware.GetLogger(ctx)
	var sections []*model.Section
	result := db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("name ASC").Find(&sections)
	if result.Error != nil {
		logger.Error("Error finding sections by teacher in DB", "error", result.Error, "teacher_id", teacherID.String())
		return nil, fmt.Errorf("gormSectionRepository.FindByTeacher: %w", result.Error)
	}
	return sections, nil
}

func (r *gormSectionRepository) Update(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Section{}).Where("section_id = ?", sectionID).Updates(updates)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating section in DB", "error", result.Error, "section_id", sectionID.String())
		return fmt.Errorf("gormSectionRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormSectionRepository) Delete(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("section_id = ?", sectionID).Delete(&model.Section{})
	if result.Error != nil {
		logger.Error("Error deleting section in DB", "error", result.Error, "section_id", sectionID.String())
		return fmt.Errorf("gormSectionRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
