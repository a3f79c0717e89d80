// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Progress is the canonical progression snapshot, one record per student.
// TotalPoints only ever grows; CurrentChapter/CurrentLevel stay within the
// valid range for the assigned novel. UpdatedAt doubles as the client-side
// cache-invalidation token (compared as unix milliseconds).
type Progress struct {
	ProgressID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"progress_id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	Novel          Novel     `gorm:"not null" json:"current_novel"`
	CurrentChapter int       `gorm:"not null;default:1" json:"current_chapter"`
	CurrentLevel   int       `gorm:"not null;default:1" json:"current_level"`
	TotalPoints    int       `gorm:"not null;default:0" json:"total_points"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"-"`
}

func (Progress) TableName() string {
	return "progress"
}

// UpdatedAtToken is the opaque freshness token handed to polling clients.
func (p *Progress) UpdatedAtToken() int64 {
	return p.UpdatedAt.UnixMilli()
}

type ProgressResponse struct {
	ProgressID     uuid.UUID `json:"progress_id"`
	StudentID      uuid.UUID `json:"student_id"`
	Novel          Novel     `json:"current_novel"`
	CurrentChapter int       `json:"current_chapter"`
	CurrentLevel   int       `json:"current_level"`
	TotalPoints    int       `json:"total_points"`
	UpdatedAt      int64     `json:"updated_at"`
}

func (p *Progress) ToResponse() *ProgressResponse {
	return &ProgressResponse{
		ProgressID:     p.ProgressID,
		StudentID:      p.StudentID,
		Novel:          p.Novel,
		CurrentChapter: p.CurrentChapter,
		CurrentLevel:   p.CurrentLevel,
		TotalPoints:    p.TotalPoints,
		UpdatedAt:      p.UpdatedAtToken(),
	}
}

// StudentInfoAndProgressRequest is the body of POST /getStudentInfoAndProgress.
// CachedUpdatedAt is the token from a previous response; when it still
// matches, the endpoint short-circuits instead of resending the snapshot.
type StudentInfoAndProgressRequest struct {
	UserID          *uuid.UUID `json:"userId" validate:"required"`
	CachedUpdatedAt *int64     `json:"cachedUpdatedAt,omitempty"`
}
