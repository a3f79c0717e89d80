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

type CharacterService interface {
	CreateCharacter(ctx context.Context, req *model.CreateCharacterRequest) (*model.NovelCharacter, error)
	GetCharacter(ctx context.Context, characterID uuid.UUID) (*model.NovelCharacter, error)
	ListCharacters(ctx context.Context, novel model.Novel) ([]*model.NovelCharacter, error)
	UpdateCharacter(ctx context.Context, characterID uuid.UUID, req *model.UpdateCharacterRequest) (*model.NovelCharacter, error)
	DeleteCharacter(ctx context.Context, characterID uuid.UUID) error
}

type characterService struct {
	db            *gorm.DB
	characterRepo repository.CharacterRepository
}

func NewCharacterService(db *gorm.DB, characterRepo repository.CharacterRepository) CharacterService {
	return &characterService{
		db:            db,
		characterRepo: characterRepo,
	}
}

func (s *characterService) CreateCharacter(ctx context.Context, req *model.CreateCharacterRequest) (*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)

	character := &model.NovelCharacter{
		CharacterID: uuid.New(),
		Novel:       req.Novel,
		Name:        req.Name,
		Description: req.Description,
		Portrait:    req.Portrait,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.characterRepo.Create(ctx, tx, character); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Character already exists", "novel", string(req.Novel), "name", req.Name)
				return model.NewAppError("DUPLICATE_CHARACTER", "This character already exists for the novel.", "name", model.ErrConflict)
			}
			logger.Error("Failed to create character", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the character.", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Character created", "character_id", character.CharacterID, "novel", string(character.Novel))
	return character, nil
}

func (s *characterService) GetCharacter(ctx context.Context, characterID uuid.UUID) (*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)
	character, err := s.characterRepo.FindByID(ctx, s.db, characterID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Character not found", "character_id", characterID.String())
			return nil, model.NewAppError("CHARACTER_NOT_FOUND", "The character was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding character", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return character, nil
}

func (s *characterService) ListCharacters(ctx context.Context, novel model.Novel) ([]*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)
	if !novel.Valid() {
		return nil, model.NewAppError("INVALID_NOVEL", "Unknown novel.", "novel", model.ErrInvalidInput)
	}
	characters, err := s.characterRepo.FindByNovel(ctx, s.db, novel)
	if err != nil {
		logger.Error("Error listing characters", "error", err, "novel", string(novel))
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return characters, nil
}

func (s *characterService) UpdateCharacter(ctx context.Context, characterID uuid.UUID, req *model.UpdateCharacterRequest) (*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Portrait != nil {
		updates["portrait"] = *req.Portrait
	}
	if len(updates) == 0 {
		return nil, model.NewAppError("EMPTY_UPDATE", "No fields to update were provided.", "", model.ErrInvalidInput)
	}

	var updated *model.NovelCharacter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.characterRepo.Update(ctx, tx, characterID, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("CHARACTER_NOT_FOUND", "The character was not found.", "", model.ErrNotFound)
			}
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_CHARACTER", "This character name is already used for the novel.", "name", model.ErrConflict)
			}
			logger.Error("Failed to update character", "error", err, "character_id", characterID.String())
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update the character.", "", err)
		}
		character, err := s.characterRepo.FindByID(ctx, tx, characterID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to reload the character.", "", err)
		}
		updated = character
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Character updated", "character_id", characterID.String())
	return updated, nil
}

func (s *characterService) DeleteCharacter(ctx context.Context, characterID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.characterRepo.Delete(ctx, tx, characterID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("CHARACTER_NOT_FOUND", "The character was not found.", "", model.ErrNotFound)
		}
		logger.Error("Failed to delete character", "error", err, "character_id", characterID.String())
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the character.", "", err)
	}

	logger.Info("Character deleted", "character_id", characterID.String())
	return nil
}
