// internal/repository/character_repository.go
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

type CharacterRepository interface {
	Create(ctx context.Context, tx *gorm.DB, character *model.NovelCharacter) error
	FindByID(ctx context.Context, db *gorm.DB, characterID uuid.UUID) (*model.NovelCharacter, error)
	FindByNovel(ctx context.Context, db *gorm.DB, novel model.Novel) ([]*model.NovelCharacter, error)
	Update(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) error
}

type gormCharacterRepository struct{}

func NewGormCharacterRepository() CharacterRepository {
	return &gormCharacterRepository{}
}

func (r *gormCharacterRepository) Create(ctx context.Context, tx *gorm.DB, character *model.NovelCharacter) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(character)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating character in DB",
			"error", result.Error,
			"novel", string(character.Novel),
			"name", character.Name,
		)
		return fmt.Errorf("gormCharacterRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCharacterRepository) FindByID(ctx context.Context, db *gorm.DB, characterID uuid.UUID) (*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)
	var character model.NovelCharacter
	result := db.WithContext(ctx).Where("character_id = ?", characterID).First(&character)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding character by ID in DB", "error", result.Error, "character_id", characterID.String())
		return nil, fmt.Errorf("gormCharacterRepository.FindByID: %w", result.Error)
	}
	return &character, nil
}

func (r *gormCharacterRepository) FindByNovel(ctx context.Context, db *gorm.DB, novel model.Novel) ([]*model.NovelCharacter, error) {
	logger := middleware.GetLogger(ctx)
	var characters []*model.NovelCharacter
	result := db.WithContext(ctx).Where("novel = ?", novel).Order("name ASC").Find(&characters)
	if result.Error != nil {
		logger.Error("Error finding characters by novel in DB", "error", result.Error, "novel", string(novel))
		return nil, fmt.Errorf("gormCharacterRepository.FindByNovel: %w", result.Error)
	}
	return characters, nil
}

func (r *gormCharacterRepository) Update(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.NovelCharacter{}).Where("character_id = ?", characterID).Updates(updates)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating character in DB", "error", result.Error, "character_id", characterID.String())
		return fmt.Errorf("gormCharacterRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCharacterRepository) Delete(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("character_id = ?", characterID).Delete(&model.NovelCharacter{})
	if result.Error != nil {
		logger.Error("Error deleting character in DB", "error", result.Error, "character_id", characterID.String())
		return fmt.Errorf("gormCharacterRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
