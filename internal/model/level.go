// internal/model/level.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Level is a numbered sub-unit within a chapter, 1-10. Level 10 is the
// chapter assessment. Levels are created together with their chapter, so the
// full 1..10 range always exists for a playable chapter.
type Level struct {
	LevelID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"level_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;index:idx_chapter_level,unique" json:"chapter_id"`
	Number    int       `gorm:"not null;index:idx_chapter_level,unique" json:"number"`
	CreatedAt time.Time `json:"created_at"`

	Chapter *Chapter `gorm:"foreignKey:ChapterID;references:ChapterID" json:"-"`
}

func (Level) TableName() string {
	return "levels"
}

// IsAssessment reports whether this level is the chapter assessment.
func (l *Level) IsAssessment() bool {
	return l.Number == AssessmentLevel
}
