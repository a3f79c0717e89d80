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

// StudentInfoAndProgress is the combined snapshot the game client polls for.
// NotModified is set when the caller's cached token is still current; the
// other fields are left nil in that case.
type StudentInfoAndProgress struct {
	NotModified bool
	Student     *model.StudentResponse
	Progress    *model.ProgressResponse
}

type ProgressService interface {
	CreateProgress(ctx context.Context, userID uuid.UUID) (*model.Progress, error)
	GetProgress(ctx context.Context, progressID uuid.UUID) (*model.Progress, error)
	GetStudentInfoAndProgress(ctx context.Context, req *model.StudentInfoAndProgressRequest) (*StudentInfoAndProgress, error)
}

type progressService struct {
	db           *gorm.DB
	progressRepo repository.ProgressRepository
	studentRepo  repository.StudentRepository
}

func NewProgressService(db *gorm.DB, progressRepo repository.ProgressRepository, studentRepo repository.StudentRepository) ProgressService {
	return &progressService{
		db:           db,
		progressRepo: progressRepo,
		studentRepo:  studentRepo,
	}
}

// CreateProgress starts a student's journey at chapter 1, level 1 of the
// novel their grade level assigns. Idempotent: calling it again returns the
// existing record untouched.
func (s *progressService) CreateProgress(ctx context.Context, userID uuid.UUID) (*model.Progress, error) {
	logger := middleware.GetLogger(ctx)

	student, err := s.studentRepo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("No student record for progress creation", "user_id", userID.String())
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "No student record exists for this account.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	existing, err := s.progressRepo.FindByStudentID(ctx, s.db, student.StudentID)
	if err == nil {
		logger.Debug("Progress already exists", "progress_id", existing.ProgressID)
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	progress := &model.Progress{
		ProgressID:     uuid.New(),
		StudentID:      student.StudentID,
		Novel:          model.NovelForGradeLevel(student.GradeLevel),
		CurrentChapter: 1,
		CurrentLevel:   1,
		TotalPoints:    0,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.progressRepo.Create(ctx, tx, progress)
	})
	if err != nil {
		// Lost the race to a concurrent create; the winner's record is the
		// canonical one.
		if errors.Is(err, model.ErrConflict) {
			existing, findErr := s.progressRepo.FindByStudentID(ctx, s.db, student.StudentID)
			if findErr == nil {
				return existing, nil
			}
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", findErr)
		}
		logger.Error("Failed to create progress", "error", err, "student_id", student.StudentID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the progress record.", "", err)
	}

	logger.Info("Progress created",
		"progress_id", progress.ProgressID,
		"student_id", progress.StudentID,
		"novel", string(progress.Novel),
	)
	return progress, nil
}

func (s *progressService) GetProgress(ctx context.Context, progressID uuid.UUID) (*model.Progress, error) {
	logger := middleware.GetLogger(ctx)
	progress, err := s.progressRepo.FindByID(ctx, s.db, progressID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Progress not found", "progress_id", progressID.String())
			return nil, model.NewAppError("PROGRESS_NOT_FOUND", "The progress record was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding progress", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return progress, nil
}

// GetStudentInfoAndProgress resolves the student and progress for an account.
// When the caller supplies a cachedUpdatedAt token that still matches the
// progress record, only NotModified is returned and the payload is skipped.
func (s *progressService) GetStudentInfoAndProgress(ctx context.Context, req *model.StudentInfoAndProgressRequest) (*StudentInfoAndProgress, error) {
	logger := middleware.GetLogger(ctx)

	student, err := s.studentRepo.FindByUserID(ctx, s.db, *req.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Student not found for progress lookup", "user_id", req.UserID.String())
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "No student record exists for this account.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	progress, err := s.progressRepo.FindByStudentID(ctx, s.db, student.StudentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Progress not found for student", "student_id", student.StudentID.String())
			return nil, model.NewAppError("PROGRESS_NOT_FOUND", "The student has no progress record yet.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	if req.CachedUpdatedAt != nil && *req.CachedUpdatedAt == progress.UpdatedAtToken() {
		logger.Debug("Progress unchanged, short-circuiting", "progress_id", progress.ProgressID)
		return &StudentInfoAndProgress{NotModified: true}, nil
	}

	return &StudentInfoAndProgress{
		Student:  student.ToResponse(),
		Progress: progress.ToResponse(),
	}, nil
}
