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

type SectionService interface {
	CreateSection(ctx context.Context, teacherID uuid.UUID, req *model.CreateSectionRequest) (*model.Section, error)
	GetSection(ctx context.Context, sectionID uuid.UUID) (*model.Section, error)
	ListSections(ctx context.Context, teacherID uuid.UUID) ([]*model.Section, error)
	UpdateSection(ctx context.Context, sectionID uuid.UUID, req *model.UpdateSectionRequest) (*model.Section, error)
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error
}

type sectionService struct {
	db          *gorm.DB
	sectionRepo repository.SectionRepository
	studentRepo repository.StudentRepository
}

func NewSectionService(db *gorm.DB, sectionRepo repository.SectionRepository, studentRepo repository.StudentRepository) SectionService {
	return &sectionService{
		db:          db,
		sectionRepo: sectionRepo,
		studentRepo: studentRepo,
	}
}

func (s *sectionService) CreateSection(ctx context.Context, teacherID uuid.UUID, req *model.CreateSectionRequest) (*model.Section, error) {
	logger := middleware.GetLogger(ctx)

	section := &model.Section{
		SectionID:  uuid.New(),
		TeacherID:  teacherID,
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sectionRepo.Create(ctx, tx, section); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Section name already in use", "teacher_id", teacherID.String(), "name", req.Name)
				return model.NewAppError("DUPLICATE_SECTION", "A section with this name already exists.", "name", model.ErrConflict)
			}
			logger.Error("Failed to create section", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the section.", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Section created", "section_id", section.SectionID, "teacher_id", teacherID.String())
	return section, nil
}

func (s *sectionService) GetSection(ctx context.Context, sectionID uuid.UUID) (*model.Section, error) {
	logger := middleware.GetLogger(ctx)
	section, err := s.sectionRepo.FindByID(ctx, s.db, sectionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Section not found", "section_id", sectionID.String())
			return nil, model.NewAppError("SECTION_NOT_FOUND", "The section was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding section", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return section, nil
}

func (s *sectionService) ListSections(ctx context.Context, teacherID uuid.UUID) ([]*model.Section, error) {
	logger := middleware.GetLogger(ctx)
	sections, err := s.sectionRepo.FindByTeacher(ctx, s.db, teacherID)
	if err != nil {
		logger.Error("Error listing sections", "error", err, "teacher_id", teacherID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return sections, nil
}

func (s *sectionService) UpdateSection(ctx context.Context, sectionID uuid.UUID, req *model.UpdateSectionRequest) (*model.Section, error) {
	logger := middleware.GetLogger(ctx)

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.GradeLevel != nil {
		updates["grade_level"] = *req.GradeLevel
	}
	if len(updates) == 0 {
		return nil, model.NewAppError("EMPTY_UPDATE", "No fields to update were provided.", "", model.ErrInvalidInput)
	}

	var updated *model.Section
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sectionRepo.Update(ctx, tx, sectionID, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("SECTION_NOT_FOUND", "The section was not found.", "", model.ErrNotFound)
			}
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_SECTION", "A section with this name already exists.", "name", model.ErrConflict)
			}
			logger.Error("Failed to update section", "error", err, "section_id", sectionID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update the section.", "", err)
		}
		section, err := s.sectionRepo.FindByID(ctx, tx, sectionID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to reload the section.", "", err)
		}
		updated = section
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Section updated", "section_id", sectionID.String())
	return updated, nil
}

// DeleteSection refuses to remove a section that still has students assigned.
func (s *sectionService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		students, err := s.studentRepo.FindBySection(ctx, tx, sectionID)
		if err != nil {
			logger.Error("Failed to check section students", "error", err, "section_id", sectionID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}
		if len(students) > 0 {
			logger.Warn("Section deletion blocked by assigned students", "section_id", sectionID.String(), "students", len(students))
			return model.NewAppError("SECTION_IN_USE", "The section still has students assigned.", "", model.ErrConflict)
		}

		if err := s.sectionRepo.Delete(ctx, tx, sectionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("SECTION_NOT_FOUND", "The section was not found.", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete section", "error", err, "section_id", sectionID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the section.", "", err)
		}

		logger.Info("Section deleted", "section_id", sectionID.String())
		return nil
	})
}
