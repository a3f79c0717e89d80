// internal/service/student_service_test.go
package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"filipiknow_backend/internal/config"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newStudentTestEnv(t *testing.T) (StudentService, *gorm.DB, *mockMailer, *model.User) {
	t.Helper()
	db := setupTestDB(t)
	mailer := new(mockMailer)
	cfg := &config.Config{}
	cfg.App.Name = "filipiknow"
	cfg.App.FrontendURL = "https://play.example.com"

	svc := NewStudentService(
		db,
		repository.NewGormStudentRepository(),
		repository.NewGormUserRepository(),
		repository.NewGormSectionRepository(),
		mailer,
		cfg,
	)
	teacher := createTestUser(t, db, model.RoleTeacher)
	return svc, db, mailer, teacher
}

func TestStudentService_RegisterStudent(t *testing.T) {
	svc, db, mailer, teacher := newStudentTestEnv(t)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	user := createTestUser(t, db, model.RoleStudent)

	mailer.On("Send", mock.Anything, user.Email, mock.AnythingOfType("string"), mock.MatchedBy(func(body string) bool {
		// Grade 9 students are welcomed onto the first novel.
		return strings.Contains(body, "Noli Me Tangere")
	})).Return(nil).Once()

	student, err := svc.RegisterStudent(testCtx, &model.RegisterStudentRequest{
		UserID:     user.UserID,
		SectionID:  section.SectionID,
		GradeLevel: "Grade 9",
		FullName:   "Juan Dela Cruz",
	})
	require.NoError(t, err)
	require.NotNil(t, student)

	assert.Equal(t, user.UserID, student.UserID)
	assert.Equal(t, section.SectionID, student.SectionID)
	assert.Equal(t, "Juan Dela Cruz", student.FullName)
	mailer.AssertExpectations(t)
}

func TestStudentService_RegisterStudent_MailFailureDoesNotRollBack(t *testing.T) {
	svc, db, mailer, teacher := newStudentTestEnv(t)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	user := createTestUser(t, db, model.RoleStudent)

	mailer.On("Send", mock.Anything, user.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(assert.AnError).Once()

	student, err := svc.RegisterStudent(testCtx, &model.RegisterStudentRequest{
		UserID:     user.UserID,
		SectionID:  section.SectionID,
		GradeLevel: "Grade 9",
		FullName:   "Juan Dela Cruz",
	})
	require.NoError(t, err, "mail delivery is best effort")
	require.NotNil(t, student)

	var count int64
	require.NoError(t, db.Model(&model.Student{}).Where("user_id = ?", user.UserID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	mailer.AssertExpectations(t)
}

func TestStudentService_RegisterStudent_Rejections(t *testing.T) {
	svc, db, mailer, teacher := newStudentTestEnv(t)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.RegisterStudent(testCtx, &model.RegisterStudentRequest{
			UserID:     uuid.New(),
			SectionID:  section.SectionID,
			GradeLevel: "Grade 9",
			FullName:   "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("teacher account cannot become a student", func(t *testing.T) {
		_, err := svc.RegisterStudent(testCtx, &model.RegisterStudentRequest{
			UserID:     teacher.UserID,
			SectionID:  section.SectionID,
			GradeLevel: "Grade 9",
			FullName:   "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("unknown section", func(t *testing.T) {
		user := createTestUser(t, db, model.RoleStudent)
		_, err := svc.RegisterStudent(testCtx, &model.RegisterStudentRequest{
			UserID:     user.UserID,
			SectionID:  uuid.New(),
			GradeLevel: "Grade 9",
			FullName:   "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("second registration for the same account", func(t *testing.T) {
		user := createTestUser(t, db, model.RoleStudent)
		mailer.On("Send", mock.Anything, user.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(nil).Once()

		req := &model.RegisterStudentRequest{
			UserID:     user.UserID,
			SectionID:  section.SectionID,
			GradeLevel: "Grade 9",
			FullName:   "x",
		}
		_, err := svc.RegisterStudent(testCtx, req)
		require.NoError(t, err)

		_, err = svc.RegisterStudent(testCtx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	mailer.AssertExpectations(t)
}

func TestStudentService_Lookups(t *testing.T) {
	svc, db, _, teacher := newStudentTestEnv(t)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	student := createTestStudent(t, db, section.SectionID, "Grade 9")

	byID, err := svc.GetStudent(testCtx, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, student.StudentID, byID.StudentID)

	byUser, err := svc.GetStudentByUserID(testCtx, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, student.StudentID, byUser.StudentID)

	_, err = svc.GetStudent(testCtx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetStudentByUserID(testCtx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStudentService_ListStudentsBySection(t *testing.T) {
	svc, db, _, teacher := newStudentTestEnv(t)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	other := createTestSection(t, db, teacher.UserID, "Grade 10")
	createTestStudent(t, db, section.SectionID, "Grade 9")
	createTestStudent(t, db, section.SectionID, "Grade 9")
	createTestStudent(t, db, other.SectionID, "Grade 10")

	students, err := svc.ListStudentsBySection(testCtx, section.SectionID)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	empty, err := svc.ListStudentsBySection(testCtx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
