package service

import (
	"context"
	"errors"
	"fmt"

	"filipiknow_backend/internal/config"
	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentService interface {
	RegisterStudent(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error)
	GetStudent(ctx context.Context, studentID uuid.UUID) (*model.Student, error)
	GetStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	ListStudentsBySection(ctx context.Context, sectionID uuid.UUID) ([]*model.Student, error)
}

type studentService struct {
	db          *gorm.DB
	studentRepo repository.StudentRepository
	userRepo    repository.UserRepository
	sectionRepo repository.SectionRepository
	mailer      Mailer
	cfg         *config.Config
}

func NewStudentService(db *gorm.DB, studentRepo repository.StudentRepository, userRepo repository.UserRepository, sectionRepo repository.SectionRepository, mailer Mailer, cfg *config.Config) StudentService {
	return &studentService{
		db:          db,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		sectionRepo: sectionRepo,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// RegisterStudent attaches a student record to an existing account. Each
// account gets at most one student record; the unique index on user_id backs
// up the in-transaction check.
func (s *studentService) RegisterStudent(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var newStudent *model.Student
	var userEmail string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, req.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("User not found for student registration", "user_id", req.UserID.String())
				return model.NewAppError("USER_NOT_FOUND", "The user account was not found.", "user_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}
		if user.Role != model.RoleStudent {
			logger.Warn("Non-student account in student registration", "user_id", req.UserID.String(), "role", string(user.Role))
			return model.NewAppError("INVALID_ROLE", "Only student accounts can be registered as students.", "user_id", model.ErrInvalidInput)
		}
		userEmail = user.Email

		if _, err := s.sectionRepo.FindByID(ctx, tx, req.SectionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Section not found for student registration", "section_id", req.SectionID.String())
				return model.NewAppError("SECTION_NOT_FOUND", "The section was not found.", "section_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		_, err = s.studentRepo.FindByUserID(ctx, tx, req.UserID)
		if err == nil {
			logger.Warn("Student record already exists", "user_id", req.UserID.String())
			return model.NewAppError("DUPLICATE_STUDENT", "This account already has a student record.", "user_id", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		student := &model.Student{
			StudentID:  uuid.New(),
			UserID:     req.UserID,
			SectionID:  req.SectionID,
			GradeLevel: req.GradeLevel,
			FullName:   req.FullName,
		}
		if err := s.studentRepo.Create(ctx, tx, student); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during student creation", "error", err)
				return model.NewAppError("DUPLICATE_STUDENT", "This account already has a student record.", "user_id", model.ErrConflict)
			}
			logger.Error("Failed to create student", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to register the student.", "", err)
		}
		newStudent = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best effort. Registration already committed.
	s.sendWelcomeEmail(ctx, userEmail, newStudent)

	logger.Info("Student registered", "student_id", newStudent.StudentID, "section_id", newStudent.SectionID)
	return newStudent, nil
}

func (s *studentService) sendWelcomeEmail(ctx context.Context, email string, student *model.Student) {
	logger := middleware.GetLogger(ctx)
	novel := model.NovelForGradeLevel(student.GradeLevel)
	subject := fmt.Sprintf("Welcome to %s!", s.cfg.App.Name)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour class registration is complete. Your journey starts with %s.\n\nOpen the game here: %s\n\nGood luck!",
		student.FullName, novel.Title(), s.cfg.App.FrontendURL,
	)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		logger.Error("Failed to send welcome email", "error", err, "student_id", student.StudentID)
	}
}

func (s *studentService) GetStudent(ctx context.Context, studentID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	student, err := s.studentRepo.FindByID(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Student not found", "student_id", studentID.String())
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "The student was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding student", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return student, nil
}

func (s *studentService) GetStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	student, err := s.studentRepo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Student not found for user", "user_id", userID.String())
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "No student record exists for this account.", "", model.ErrNotFound)
		}
		logger.Error("Error finding student by user", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return student, nil
}

func (s *studentService) ListStudentsBySection(ctx context.Context, sectionID uuid.UUID) ([]*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	students, err := s.studentRepo.FindBySection(ctx, s.db, sectionID)
	if err != nil {
		logger.Error("Error listing students", "error", err, "section_id", sectionID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return students, nil
}
