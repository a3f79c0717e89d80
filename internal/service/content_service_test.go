// internal/service/content_service_test.go
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

func newContentService(t *testing.T) (ContentService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewContentService(
		db,
		repository.NewGormChapterRepository(),
		repository.NewGormLevelRepository(),
		repository.NewGormGameRepository(),
		100,
	)
	return svc, db
}

func TestContentService_CreateChapter(t *testing.T) {
	svc, db := newContentService(t)

	chapter, err := svc.CreateChapter(testCtx, &model.CreateChapterRequest{
		Novel:         model.NovelNoliMeTangere,
		ChapterNumber: 1,
		Title:         "Isang Handugan",
		Summary:       "The opening dinner.",
		Scenes: []model.DialogueScene{
			{Order: 1, Speaker: "Narrator", Line: "Isang gabi ng Oktubre...", Narration: true},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, chapter)
	assert.Equal(t, model.NovelNoliMeTangere, chapter.Novel)

	// Levels 1..10 come into existence with the chapter.
	var levels []*model.Level
	require.NoError(t, db.Where("chapter_id = ?", chapter.ChapterID).Order("number ASC").Find(&levels).Error)
	require.Len(t, levels, model.AssessmentLevel)
	assert.Equal(t, 1, levels[0].Number)
	assert.Equal(t, model.AssessmentLevel, levels[len(levels)-1].Number)
	assert.True(t, levels[len(levels)-1].IsAssessment())
}

func TestContentService_CreateChapter_Validation(t *testing.T) {
	svc, _ := newContentService(t)

	_, err := svc.CreateChapter(testCtx, &model.CreateChapterRequest{
		Novel:         model.Novel("ibong_adarna"),
		ChapterNumber: 1,
		Title:         "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	// 65 is beyond the 64 chapters of the first novel.
	_, err = svc.CreateChapter(testCtx, &model.CreateChapterRequest{
		Novel:         model.NovelNoliMeTangere,
		ChapterNumber: model.NovelNoliMeTangere.ChapterLimit() + 1,
		Title:         "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	// The sequel's shorter chapter count is enforced separately.
	_, err = svc.CreateChapter(testCtx, &model.CreateChapterRequest{
		Novel:         model.NovelElFilibusterismo,
		ChapterNumber: 40,
		Title:         "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestContentService_CreateChapter_Duplicate(t *testing.T) {
	svc, _ := newContentService(t)

	req := &model.CreateChapterRequest{
		Novel:         model.NovelNoliMeTangere,
		ChapterNumber: 5,
		Title:         "Kabanata 5",
	}
	_, err := svc.CreateChapter(testCtx, req)
	require.NoError(t, err)

	_, err = svc.CreateChapter(testCtx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestContentService_UpdateChapter(t *testing.T) {
	svc, db := newContentService(t)
	chapter := createTestChapter(t, db, model.NovelNoliMeTangere, 1)

	newTitle := "Ang Piging"
	updated, err := svc.UpdateChapter(testCtx, chapter.ChapterID, &model.UpdateChapterRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, chapter.Summary, updated.Summary, "untouched fields survive the update")

	_, err = svc.UpdateChapter(testCtx, chapter.ChapterID, &model.UpdateChapterRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.UpdateChapter(testCtx, uuid.New(), &model.UpdateChapterRequest{Title: &newTitle})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestContentService_DeleteChapter(t *testing.T) {
	svc, db := newContentService(t)
	chapter := createTestChapter(t, db, model.NovelNoliMeTangere, 1)
	levels := createTestLevels(t, db, chapter.ChapterID)

	teacher := createTestUser(t, db, model.RoleTeacher)
	section := createTestSection(t, db, teacher.UserID, "Grade 9")
	game := createTestGame(t, db, chapter, levels[0], section.SectionID, teacher.UserID)

	// A chapter with authored games refuses deletion.
	err := svc.DeleteChapter(testCtx, chapter.ChapterID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)

	require.NoError(t, db.Delete(&model.Game{}, "game_id = ?", game.GameID).Error)

	require.NoError(t, svc.DeleteChapter(testCtx, chapter.ChapterID))

	var chapterCount, levelCount int64
	require.NoError(t, db.Model(&model.Chapter{}).Where("chapter_id = ?", chapter.ChapterID).Count(&chapterCount).Error)
	require.NoError(t, db.Model(&model.Level{}).Where("chapter_id = ?", chapter.ChapterID).Count(&levelCount).Error)
	assert.Zero(t, chapterCount)
	assert.Zero(t, levelCount, "levels go down with their chapter")

	err = svc.DeleteChapter(testCtx, chapter.ChapterID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestContentService_ListChapters(t *testing.T) {
	svc, db := newContentService(t)
	createTestChapter(t, db, model.NovelNoliMeTangere, 2)
	createTestChapter(t, db, model.NovelNoliMeTangere, 1)
	createTestChapter(t, db, model.NovelElFilibusterismo, 1)

	summaries, err := svc.ListChapters(testCtx, model.NovelNoliMeTangere)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].ChapterNumber, "chapters come back in reading order")
	assert.Equal(t, 2, summaries[1].ChapterNumber)

	_, err = svc.ListChapters(testCtx, model.Novel("florante_at_laura"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestContentService_GetLevelsByChapter(t *testing.T) {
	svc, db := newContentService(t)
	chapter := createTestChapter(t, db, model.NovelNoliMeTangere, 1)
	createTestLevels(t, db, chapter.ChapterID)

	levels, err := svc.GetLevelsByChapter(testCtx, chapter.ChapterID)
	require.NoError(t, err)
	require.Len(t, levels, model.AssessmentLevel)
	for i, level := range levels {
		assert.Equal(t, i+1, level.Number)
	}

	_, err = svc.GetLevelsByChapter(testCtx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestContentService_GetDialogue(t *testing.T) {
	svc, db := newContentService(t)
	chapter := createTestChapter(t, db, model.NovelNoliMeTangere, 1)

	result, err := svc.GetDialogue(testCtx, model.NovelNoliMeTangere, 1, intPtr(3))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, model.NovelNoliMeTangere, result.NovelMetadata.Novel)
	assert.Equal(t, "Noli Me Tangere", result.NovelMetadata.NovelTitle)
	assert.Equal(t, chapter.Title, result.NovelMetadata.ChapterTitle)
	require.NotNil(t, result.NovelMetadata.Level)
	assert.Equal(t, 3, *result.NovelMetadata.Level)
	require.Len(t, result.Scenes, 1)
	assert.Equal(t, "It begins.", result.Scenes[0].Line)
}

func TestContentService_GetDialogue_Validation(t *testing.T) {
	svc, db := newContentService(t)
	createTestChapter(t, db, model.NovelNoliMeTangere, 1)

	tests := []struct {
		name    string
		novel   model.Novel
		chapter int
		level   *int
		wantErr error
	}{
		{name: "unknown novel", novel: model.Novel("x"), chapter: 1, wantErr: model.ErrInvalidInput},
		{name: "chapter below range", novel: model.NovelNoliMeTangere, chapter: 0, wantErr: model.ErrInvalidInput},
		{name: "chapter above range", novel: model.NovelNoliMeTangere, chapter: 65, wantErr: model.ErrInvalidInput},
		{name: "level below range", novel: model.NovelNoliMeTangere, chapter: 1, level: intPtr(0), wantErr: model.ErrInvalidInput},
		{name: "level above range", novel: model.NovelNoliMeTangere, chapter: 1, level: intPtr(11), wantErr: model.ErrInvalidInput},
		{name: "chapter not authored yet", novel: model.NovelNoliMeTangere, chapter: 2, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetDialogue(testCtx, tt.novel, tt.chapter, tt.level)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
