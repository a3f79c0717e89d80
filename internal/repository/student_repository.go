// internal/repository/student_repository.go
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

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *model.Student) error
	FindByID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Student, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Student, error)
	FindBySection(ctx context.Context, db *gorm.DB, sectionID uuid.UUID) ([]*model.Student, error)
}

type gormStudentRepository struct{}

func NewGormStudentRepository() StudentRepository {
	return &gormStudentRepository{}
}

func (r *gormStudentRepository) Create(ctx context.Context, tx *gorm.DB, student *model.Student) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(student)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating student in DB",
			"error", result.Error,
			"user_id", student.UserID.String(),
			"section_id", student.SectionID.String(),
		)
		return fmt.Errorf("gormStudentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormStudentRepository) FindByID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var student model.Student
	result := db.WithContext(ctx).Where("student_id = ?", studentID).First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding student by ID in DB", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormStudentRepository.FindByID: %w", result.Error)
	}
	return &student, nil
}

func (r *gormStudentRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var student model.Student
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding student by user ID in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormStudentRepository.FindByUserID: %w", result.Error)
	}
	return &student, nil
}

func (r *gormStudentRepository) FindBySection(ctx context.Context, db *gorm.DB, sectionID uuid.UUID) ([]*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var students []*model.Student
	result := db.WithContext(ctx).Where("section_id = ?", sectionID).Order("full_name ASC").Find(&students)
	if result.Error != nil {
		logger.Error("Error finding students by section in DB", "error", result.Error, "section_id", sectionID.String())
		return nil, fmt.Errorf("gormStudentRepository.FindBySection: %w", result.Error)
	}
	return students, nil
}
