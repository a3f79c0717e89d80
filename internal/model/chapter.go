// internal/model/chapter.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DialogueScene is one beat of a chapter's story dialogue.
type DialogueScene struct {
	Order     int    `json:"order"`
	Speaker   string `json:"speaker"`
	Line      string `json:"line"`
	SceneImg  string `json:"scene_img,omitempty"`
	Narration bool   `json:"narration,omitempty"`
}

// DialogueScenes is stored as a single JSON column; scenes are always read
// and written as an ordered whole.
type DialogueScenes []DialogueScene

func (s DialogueScenes) Value() (driver.Value, error) {
	if s == nil {
		s = DialogueScenes{}
	}
	return json.Marshal(s)
}

func (s *DialogueScenes) Scan(value interface{}) error {
	if value == nil {
		*s = DialogueScenes{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("dialogue scenes: unsupported column type %T", value)
	}
	return json.Unmarshal(data, s)
}

// Chapter is one numbered unit of narrative content within a novel.
// (novel, chapter_number) is unique.
type Chapter struct {
	ChapterID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"chapter_id"`
	Novel           Novel          `gorm:"not null;index:idx_novel_chapter,unique" json:"novel"`
	ChapterNumber   int            `gorm:"not null;index:idx_novel_chapter,unique" json:"chapter_number"`
	Title           string         `gorm:"not null" json:"chapter_title"`
	Summary         string         `gorm:"type:text" json:"summary"`
	Scenes          DialogueScenes `gorm:"type:jsonb" json:"scenes"`
	BackgroundImage *string        `json:"background_image,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

type CreateChapterRequest struct {
	Novel           Novel           `json:"novel" validate:"required,oneof=noli_me_tangere el_filibusterismo"`
	ChapterNumber   int             `json:"chapter_number" validate:"required,gte=1"`
	Title           string          `json:"chapter_title" validate:"required,min=1,max=300"`
	Summary         string          `json:"summary"`
	Scenes          []DialogueScene `json:"scenes"`
	BackgroundImage *string         `json:"background_image,omitempty"`
}

type UpdateChapterRequest struct {
	Title           *string          `json:"chapter_title,omitempty" validate:"omitempty,min=1,max=300"`
	Summary         *string          `json:"summary,omitempty"`
	Scenes          *[]DialogueScene `json:"scenes,omitempty"`
	BackgroundImage *string          `json:"background_image,omitempty"`
}

// ChapterSummary is the list-view shape (no scenes payload).
type ChapterSummary struct {
	ChapterID     uuid.UUID `json:"chapter_id"`
	Novel         Novel     `json:"novel"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"chapter_title"`
	Summary       string    `json:"summary"`
}

func (c *Chapter) ToSummary() *ChapterSummary {
	return &ChapterSummary{
		ChapterID:     c.ChapterID,
		Novel:         c.Novel,
		ChapterNumber: c.ChapterNumber,
		Title:         c.Title,
		Summary:       c.Summary,
	}
}

// NovelMetadata heads a dialogue response.
type NovelMetadata struct {
	Novel           Novel   `json:"novel"`
	NovelTitle      string  `json:"novel_title"`
	ChapterNumber   int     `json:"chapter_number"`
	ChapterTitle    string  `json:"chapter_title"`
	Summary         string  `json:"summary"`
	Level           *int    `json:"level,omitempty"`
	BackgroundImage *string `json:"background_image,omitempty"`
}

// DialogueResult is the payload of the getDialogue endpoints.
type DialogueResult struct {
	NovelMetadata NovelMetadata   `json:"novel_metadata"`
	Scenes        []DialogueScene `json:"scenes"`
}
