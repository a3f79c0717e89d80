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

// ContentService manages the narrative side: chapters, their fixed ladder of
// levels, and the dialogue scenes the game client plays back.
type ContentService interface {
	CreateChapter(ctx context.Context, req *model.CreateChapterRequest) (*model.Chapter, error)
	GetChapter(ctx context.Context, chapterID uuid.UUID) (*model.Chapter, error)
	ListChapters(ctx context.Context, novel model.Novel) ([]*model.ChapterSummary, error)
	UpdateChapter(ctx context.Context, chapterID uuid.UUID, req *model.UpdateChapterRequest) (*model.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID uuid.UUID) error
	GetLevelsByChapter(ctx context.Context, chapterID uuid.UUID) ([]*model.Level, error)
	GetDialogue(ctx context.Context, novel model.Novel, chapterNumber int, level *int) (*model.DialogueResult, error)
}

type contentService struct {
	db          *gorm.DB
	chapterRepo repository.ChapterRepository
	levelRepo   repository.LevelRepository
	gameRepo    repository.GameRepository
	pageSize    int
}

func NewContentService(db *gorm.DB, chapterRepo repository.ChapterRepository, levelRepo repository.LevelRepository, gameRepo repository.GameRepository, pageSize int) ContentService {
	return &contentService{
		db:          db,
		chapterRepo: chapterRepo,
		levelRepo:   levelRepo,
		gameRepo:    gameRepo,
		pageSize:    pageSize,
	}
}

// CreateChapter stores the chapter and its full ladder of levels 1..10 in one
// transaction, so a playable chapter never exists half-built.
func (s *contentService) CreateChapter(ctx context.Context, req *model.CreateChapterRequest) (*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)

	if !req.Novel.Valid() {
		return nil, model.NewAppError("INVALID_NOVEL", "Unknown novel.", "novel", model.ErrInvalidInput)
	}
	if req.ChapterNumber > req.Novel.ChapterLimit() {
		logger.Warn("Chapter number beyond novel limit",
			"novel", string(req.Novel),
			"chapter_number", req.ChapterNumber,
			"limit", req.Novel.ChapterLimit(),
		)
		return nil, model.NewAppError("INVALID_CHAPTER_NUMBER", "The chapter number exceeds the novel's chapter count.", "chapter_number", model.ErrInvalidInput)
	}

	var newChapter *model.Chapter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chapter := &model.Chapter{
			ChapterID:       uuid.New(),
			Novel:           req.Novel,
			ChapterNumber:   req.ChapterNumber,
			Title:           req.Title,
			Summary:         req.Summary,
			Scenes:          model.DialogueScenes(req.Scenes),
			BackgroundImage: req.BackgroundImage,
		}

		if err := s.chapterRepo.Create(ctx, tx, chapter); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Chapter already exists", "novel", string(req.Novel), "chapter_number", req.ChapterNumber)
				return model.NewAppError("DUPLICATE_CHAPTER", "This chapter already exists for the novel.", "chapter_number", model.ErrConflict)
			}
			logger.Error("Failed to create chapter", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the chapter.", "", err)
		}

		levels := make([]*model.Level, 0, model.AssessmentLevel)
		for n := 1; n <= model.AssessmentLevel; n++ {
			levels = append(levels, &model.Level{
				LevelID:   uuid.New(),
				ChapterID: chapter.ChapterID,
				Number:    n,
			})
		}
		if err := s.levelRepo.CreateBatch(ctx, tx, levels); err != nil {
			logger.Error("Failed to create chapter levels", "error", err, "chapter_id", chapter.ChapterID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the chapter's levels.", "", err)
		}

		newChapter = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Chapter created",
		"chapter_id", newChapter.ChapterID,
		"novel", string(newChapter.Novel),
		"chapter_number", newChapter.ChapterNumber,
	)
	return newChapter, nil
}

func (s *contentService) GetChapter(ctx context.Context, chapterID uuid.UUID) (*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)
	chapter, err := s.chapterRepo.FindByID(ctx, s.db, chapterID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Chapter not found", "chapter_id", chapterID.String())
			return nil, model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding chapter", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return chapter, nil
}

func (s *contentService) ListChapters(ctx context.Context, novel model.Novel) ([]*model.ChapterSummary, error) {
	logger := middleware.GetLogger(ctx)
	if !novel.Valid() {
		return nil, model.NewAppError("INVALID_NOVEL", "Unknown novel.", "novel", model.ErrInvalidInput)
	}
	chapters, err := s.chapterRepo.FindByNovel(ctx, s.db, novel, s.pageSize)
	if err != nil {
		logger.Error("Error listing chapters", "error", err, "novel", string(novel))
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	summaries := make([]*model.ChapterSummary, 0, len(chapters))
	for _, c := range chapters {
		summaries = append(summaries, c.ToSummary())
	}
	return summaries, nil
}

func (s *contentService) UpdateChapter(ctx context.Context, chapterID uuid.UUID, req *model.UpdateChapterRequest) (*model.Chapter, error) {
	logger := middleware.GetLogger(ctx)

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.Scenes != nil {
		updates["scenes"] = model.DialogueScenes(*req.Scenes)
	}
	if req.BackgroundImage != nil {
		updates["background_image"] = *req.BackgroundImage
	}
	if len(updates) == 0 {
		return nil, model.NewAppError("EMPTY_UPDATE", "No fields to update were provided.", "", model.ErrInvalidInput)
	}

	var updated *model.Chapter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.chapterRepo.Update(ctx, tx, chapterID, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "", model.ErrNotFound)
			}
			logger.Error("Failed to update chapter", "error", err, "chapter_id", chapterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update the chapter.", "", err)
		}
		chapter, err := s.chapterRepo.FindByID(ctx, tx, chapterID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to reload the chapter.", "", err)
		}
		updated = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Chapter updated", "chapter_id", chapterID.String())
	return updated, nil
}

// DeleteChapter removes the chapter and its levels. Chapters with authored
// games are kept so no game is left pointing at nothing.
func (s *contentService) DeleteChapter(ctx context.Context, chapterID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.chapterRepo.FindByID(ctx, tx, chapterID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		gameCount, err := s.gameRepo.CountByChapter(ctx, tx, chapterID)
		if err != nil {
			logger.Error("Failed to count games for chapter", "error", err, "chapter_id", chapterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}
		if gameCount > 0 {
			logger.Warn("Chapter deletion blocked by existing games", "chapter_id", chapterID.String(), "games", gameCount)
			return model.NewAppError("CHAPTER_IN_USE", "The chapter has authored games and cannot be deleted.", "", model.ErrConflict)
		}

		if err := s.levelRepo.DeleteByChapter(ctx, tx, chapterID); err != nil {
			logger.Error("Failed to delete chapter levels", "error", err, "chapter_id", chapterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the chapter's levels.", "", err)
		}
		if err := s.chapterRepo.Delete(ctx, tx, chapterID); err != nil {
			logger.Error("Failed to delete chapter", "error", err, "chapter_id", chapterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the chapter.", "", err)
		}

		logger.Info("Chapter deleted", "chapter_id", chapterID.String())
		return nil
	})
}

func (s *contentService) GetLevelsByChapter(ctx context.Context, chapterID uuid.UUID) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.chapterRepo.FindByID(ctx, s.db, chapterID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	levels, err := s.levelRepo.FindByChapter(ctx, s.db, chapterID)
	if err != nil {
		logger.Error("Error listing levels", "error", err, "chapter_id", chapterID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return levels, nil
}

// GetDialogue returns a chapter's scenes with novel metadata for the client's
// story player. The optional level is echoed back so the client can resume
// mid-chapter.
func (s *contentService) GetDialogue(ctx context.Context, novel model.Novel, chapterNumber int, level *int) (*model.DialogueResult, error) {
	logger := middleware.GetLogger(ctx)

	if !novel.Valid() {
		return nil, model.NewAppError("INVALID_NOVEL", "Unknown novel.", "novel", model.ErrInvalidInput)
	}
	if chapterNumber < 1 || chapterNumber > novel.ChapterLimit() {
		return nil, model.NewAppError("INVALID_CHAPTER_NUMBER", "The chapter number is out of range for the novel.", "chapter", model.ErrInvalidInput)
	}
	if level != nil && (*level < 1 || *level > model.AssessmentLevel) {
		return nil, model.NewAppError("INVALID_LEVEL", "The level is out of range.", "level", model.ErrInvalidInput)
	}

	chapter, err := s.chapterRepo.FindByNovelAndNumber(ctx, s.db, novel, chapterNumber)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Dialogue chapter not found", "novel", string(novel), "chapter_number", chapterNumber)
			return nil, model.NewAppError("CHAPTER_NOT_FOUND", "The chapter was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding dialogue chapter", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	return &model.DialogueResult{
		NovelMetadata: model.NovelMetadata{
			Novel:           chapter.Novel,
			NovelTitle:      chapter.Novel.Title(),
			ChapterNumber:   chapter.ChapterNumber,
			ChapterTitle:    chapter.Title,
			Summary:         chapter.Summary,
			Level:           level,
			BackgroundImage: chapter.BackgroundImage,
		},
		Scenes: []model.DialogueScene(chapter.Scenes),
	}, nil
}
