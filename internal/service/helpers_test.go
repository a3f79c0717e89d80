// internal/service/helpers_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"
)

// setupTestDB opens a fresh in-memory database and migrates the full schema.
// Each test gets its own database, so tests never see each other's rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, repository.Migrate(db), "failed to migrate test schema")
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "not-a-real-hash",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSection(t *testing.T, db *gorm.DB, teacherID uuid.UUID, gradeLevel string) *model.Section {
	t.Helper()
	section := &model.Section{
		SectionID:  uuid.New(),
		TeacherID:  teacherID,
		Name:       fmt.Sprintf("Section_%s", uuid.NewString()),
		GradeLevel: gradeLevel,
	}
	require.NoError(t, db.Create(section).Error)
	return section
}

func createTestStudent(t *testing.T, db *gorm.DB, sectionID uuid.UUID, gradeLevel string) *model.Student {
	t.Helper()
	user := createTestUser(t, db, model.RoleStudent)
	student := &model.Student{
		StudentID:  uuid.New(),
		UserID:     user.UserID,
		SectionID:  sectionID,
		GradeLevel: gradeLevel,
		FullName:   "Test Student",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func createTestChapter(t *testing.T, db *gorm.DB, novel model.Novel, number int) *model.Chapter {
	t.Helper()
	chapter := &model.Chapter{
		ChapterID:     uuid.New(),
		Novel:         novel,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Summary:       "A test chapter.",
		Scenes: model.DialogueScenes{
			{Order: 1, Speaker: "Narrator", Line: "It begins.", Narration: true},
		},
	}
	require.NoError(t, db.Create(chapter).Error)
	return chapter
}

// createTestLevels creates the full 1..10 ladder and returns it ordered.
func createTestLevels(t *testing.T, db *gorm.DB, chapterID uuid.UUID) []*model.Level {
	t.Helper()
	levels := make([]*model.Level, 0, model.AssessmentLevel)
	for n := 1; n <= model.AssessmentLevel; n++ {
		level := &model.Level{LevelID: uuid.New(), ChapterID: chapterID, Number: n}
		require.NoError(t, db.Create(level).Error)
		levels = append(levels, level)
	}
	return levels
}

func createTestGame(t *testing.T, db *gorm.DB, chapter *model.Chapter, level *model.Level, sectionID, teacherID uuid.UUID) *model.Game {
	t.Helper()
	game := &model.Game{
		GameID:    uuid.New(),
		LevelID:   level.LevelID,
		ChapterID: chapter.ChapterID,
		Novel:     chapter.Novel,
		SectionID: sectionID,
		TeacherID: teacherID,
		GameType:  model.GameMultipleChoice,
		Points:    10,
		Payload: model.GamePayload{Spec: model.MultipleChoiceSpec{
			Question: "Sino si Elias?",
			Options: []model.ChoiceOption{
				{Text: "Isang bangkero", Correct: true},
				{Text: "Isang kura"},
			},
		}},
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func createTestProgress(t *testing.T, db *gorm.DB, studentID uuid.UUID, novel model.Novel, chapter, level, points int) *model.Progress {
	t.Helper()
	progress := &model.Progress{
		ProgressID:     uuid.New(),
		StudentID:      studentID,
		Novel:          novel,
		CurrentChapter: chapter,
		CurrentLevel:   level,
		TotalPoints:    points,
	}
	require.NoError(t, db.Create(progress).Error)
	return progress
}

func intPtr(v int) *int { return &v }

var testCtx = context.Background()
