// internal/service/game_service_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"
)

type gameTestEnv struct {
	db      *gorm.DB
	service GameService
	teacher *model.User
	section *model.Section
	chapter *model.Chapter
	levels  []*model.Level
}

func newGameTestEnv(t *testing.T) *gameTestEnv {
	t.Helper()
	db := setupTestDB(t)
	teacher := createTestUser(t, db, model.RoleTeacher)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	chapter := createTestChapter(t, db, model.NovelNoliMeTangere, 1)
	levels := createTestLevels(t, db, chapter.ChapterID)

	svc := NewGameService(
		db,
		repository.NewGormGameRepository(),
		repository.NewGormLevelRepository(),
		repository.NewGormChapterRepository(),
		repository.NewGormSectionRepository(),
	)
	return &gameTestEnv{db: db, service: svc, teacher: teacher, section: section, chapter: chapter, levels: levels}
}

func multipleChoiceCreateRequest(levelID, sectionID uuid.UUID) *model.CreateGameRequest {
	return &model.CreateGameRequest{
		LevelID:     levelID,
		SectionID:   sectionID,
		GameType:    model.GameMultipleChoice,
		Instruction: "Piliin ang tamang sagot.",
		Points:      10,
		MultipleChoice: &model.MultipleChoiceSpec{
			Question: "Sino ang may-akda?",
			Options: []model.ChoiceOption{
				{Text: "Jose Rizal", Correct: true},
				{Text: "Marcelo del Pilar"},
			},
		},
	}
}

func TestGameService_CreateGame(t *testing.T) {
	env := newGameTestEnv(t)

	game, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.NoError(t, err)
	require.NotNil(t, game)

	assert.Equal(t, env.levels[0].LevelID, game.LevelID)
	assert.Equal(t, env.chapter.ChapterID, game.ChapterID, "chapter is resolved from the level")
	assert.Equal(t, model.NovelNoliMeTangere, game.Novel, "novel is denormalized from the chapter")
	assert.Equal(t, env.teacher.UserID, game.TeacherID)
	assert.Nil(t, game.TimeLimitSeconds, "non-assessment games may omit the time limit")
	require.NotNil(t, game.Payload.Spec)
	assert.Equal(t, model.GameMultipleChoice, game.Payload.Spec.GameType())
}

func TestGameService_CreateGame_AssessmentNeedsTimeLimit(t *testing.T) {
	env := newGameTestEnv(t)
	assessment := env.levels[model.AssessmentLevel-1]

	req := multipleChoiceCreateRequest(assessment.LevelID, env.section.SectionID)
	_, err := env.service.CreateGame(testCtx, env.teacher.UserID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	req.TimeLimitSeconds = intPtr(120)
	game, err := env.service.CreateGame(testCtx, env.teacher.UserID, req)
	require.NoError(t, err)
	require.NotNil(t, game.TimeLimitSeconds)
	assert.Equal(t, 120, *game.TimeLimitSeconds)
}

func TestGameService_CreateGame_MissingReferences(t *testing.T) {
	env := newGameTestEnv(t)

	_, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(uuid.New(), env.section.SectionID))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, uuid.New()))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// A level whose chapter row is gone is as absent as an unknown level.
	require.NoError(t, env.db.Delete(&model.Chapter{}, "chapter_id = ?", env.chapter.ChapterID).Error)
	_, err = env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGameService_CreateGame_BadPayload(t *testing.T) {
	env := newGameTestEnv(t)

	req := multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID)
	req.MultipleChoice = nil
	_, err := env.service.CreateGame(testCtx, env.teacher.UserID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	// Nothing may be written when the payload is rejected.
	var count int64
	require.NoError(t, env.db.Model(&model.Game{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGameService_GetGame_RoundTripsPayload(t *testing.T) {
	env := newGameTestEnv(t)
	created, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.NoError(t, err)

	fetched, err := env.service.GetGame(testCtx, created.GameID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Payload.Spec)

	spec, ok := fetched.Payload.Spec.(model.MultipleChoiceSpec)
	require.True(t, ok, "payload keeps its concrete type across the database round trip")
	assert.Equal(t, "Sino ang may-akda?", spec.Question)
	require.Len(t, spec.Options, 2)
	assert.True(t, spec.Options[0].Correct)
}

func TestGameService_ListGames_Filters(t *testing.T) {
	env := newGameTestEnv(t)
	otherSection := createTestSection(t, env.db, env.teacher.UserID, "Grade 10")

	_, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.NoError(t, err)
	_, err = env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[1].LevelID, otherSection.SectionID))
	require.NoError(t, err)

	all, err := env.service.ListGames(testCtx, repository.GameFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySection, err := env.service.ListGames(testCtx, repository.GameFilter{SectionID: &otherSection.SectionID})
	require.NoError(t, err)
	require.Len(t, bySection, 1)
	assert.Equal(t, otherSection.SectionID, bySection[0].SectionID)

	byLevel, err := env.service.ListGames(testCtx, repository.GameFilter{LevelID: &env.levels[0].LevelID})
	require.NoError(t, err)
	require.Len(t, byLevel, 1)
	assert.Equal(t, env.levels[0].LevelID, byLevel[0].LevelID)
}

func TestGameService_UpdateGame(t *testing.T) {
	env := newGameTestEnv(t)
	created, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.NoError(t, err)

	updated, err := env.service.UpdateGame(testCtx, created.GameID, &model.UpdateGameRequest{
		Points: intPtr(25),
		MultipleChoice: &model.MultipleChoiceSpec{
			Question: "Kailan nalathala ang nobela?",
			Options: []model.ChoiceOption{
				{Text: "1887", Correct: true},
				{Text: "1891"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Points)
	spec, ok := updated.Payload.Spec.(model.MultipleChoiceSpec)
	require.True(t, ok)
	assert.Equal(t, "Kailan nalathala ang nobela?", spec.Question)

	// Replacement payloads of a different variant are rejected.
	_, err = env.service.UpdateGame(testCtx, created.GameID, &model.UpdateGameRequest{
		Identification: &model.IdentificationSpec{Prompt: "p", Answer: "a"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = env.service.UpdateGame(testCtx, created.GameID, &model.UpdateGameRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = env.service.UpdateGame(testCtx, uuid.New(), &model.UpdateGameRequest{Points: intPtr(5)})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGameService_DeleteGame(t *testing.T) {
	env := newGameTestEnv(t)
	created, err := env.service.CreateGame(testCtx, env.teacher.UserID, multipleChoiceCreateRequest(env.levels[0].LevelID, env.section.SectionID))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteGame(testCtx, created.GameID))

	_, err = env.service.GetGame(testCtx, created.GameID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = env.service.DeleteGame(testCtx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
