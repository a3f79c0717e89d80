// internal/model/score.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentScore is one immutable ledger entry: a student's result on one game.
// The composite unique index on (progress_id, game_id) is the hard backstop
// for the one-score-per-game rule; the service checks first, the index makes
// the check race-proof.
type StudentScore struct {
	ScoreID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"score_id"`
	ProgressID uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_game,unique" json:"progress_id"`
	GameID     uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_game,unique" json:"game_id"`
	Score      int       `gorm:"not null" json:"score"`
	TimeSpent  int       `gorm:"not null" json:"time_spent"`
	CreatedAt  time.Time `json:"created_at"`
}

func (StudentScore) TableName() string {
	return "student_scores"
}

// SubmitScoreRequest is the body of POST /recordStudentScore. Numeric fields
// are pointers so that a missing field is distinguishable from zero.
type SubmitScoreRequest struct {
	ProgressID *uuid.UUID `json:"progressId" validate:"required"`
	GameID     *uuid.UUID `json:"gameId" validate:"required"`
	Score      *int       `json:"score" validate:"required,gte=0"`
	TimeSpent  *int       `json:"time_spent" validate:"required,gte=0"`
}

// ScoreSnapshot is returned after a successful submission: the ledger record
// id plus the progression state the submission produced.
type ScoreSnapshot struct {
	RecordID       uuid.UUID `json:"recordId"`
	UpdatedPoints  int       `json:"updatedPoints"`
	NextLevel      int       `json:"nextLevel"`
	CurrentChapter int       `json:"currentChapter"`
	UpdatedAt      int64     `json:"updatedAt"`
}
