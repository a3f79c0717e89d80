// internal/model/student.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Student wraps a user account with a section assignment and grade level.
// The unique index on UserID enforces one student record per account.
type Student struct {
	StudentID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"student_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	SectionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	GradeLevel string    `gorm:"not null" json:"grade_level"`
	FullName   string    `gorm:"not null" json:"full_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

type RegisterStudentRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	SectionID  uuid.UUID `json:"section_id" validate:"required"`
	GradeLevel string    `json:"grade_level" validate:"required"`
	FullName   string    `json:"full_name" validate:"required,min=1,max=200"`
}

type StudentResponse struct {
	StudentID  uuid.UUID `json:"student_id"`
	UserID     uuid.UUID `json:"user_id"`
	SectionID  uuid.UUID `json:"section_id"`
	GradeLevel string    `json:"grade_level"`
	FullName   string    `json:"full_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Student) ToResponse() *StudentResponse {
	return &StudentResponse{
		StudentID:  s.StudentID,
		UserID:     s.UserID,
		SectionID:  s.SectionID,
		GradeLevel: s.GradeLevel,
		FullName:   s.FullName,
		CreatedAt:  s.CreatedAt,
	}
}
