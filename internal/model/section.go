// internal/model/section.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section is a class section owned by a teacher. Games are authored for a
// specific section and students are assigned to exactly one.
type Section struct {
	SectionID  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"section_id"`
	TeacherID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_teacher_section_name,unique" json:"teacher_id"`
	Name       string         `gorm:"not null;index:idx_teacher_section_name,unique" json:"name"`
	GradeLevel string         `gorm:"not null" json:"grade_level"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Section) TableName() string {
	return "sections"
}

type CreateSectionRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	GradeLevel string `json:"grade_level" validate:"required"`
}

type UpdateSectionRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	GradeLevel *string `json:"grade_level,omitempty" validate:"omitempty,min=1"`
}
