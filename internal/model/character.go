// internal/model/character.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NovelCharacter is a character from one of the novels, managed by content
// authors and used as the attribution pool for who-said-it games.
type NovelCharacter struct {
	CharacterID uuid.UUID      `gorm:"type:uuid;primaryKey" json:"character_id"`
	Novel       Novel          `gorm:"not null;index:idx_novel_character,unique" json:"novel"`
	Name        string         `gorm:"not null;index:idx_novel_character,unique" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Portrait    *string        `json:"portrait,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (NovelCharacter) TableName() string {
	return "novel_characters"
}

type CreateCharacterRequest struct {
	Novel       Novel   `json:"novel" validate:"required,oneof=noli_me_tangere el_filibusterismo"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description"`
	Portrait    *string `json:"portrait,omitempty"`
}

type UpdateCharacterRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Portrait    *string `json:"portrait,omitempty"`
}
