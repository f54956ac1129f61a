package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseProgress holds one record per (user, course) pair. The composite
// unique index makes concurrent first-writes reconcile to a single row.
type CourseProgress struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	UserID               uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID             uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	CompletedLectures    datatypes.JSONSlice[string] `json:"completed_lectures"`
	LastPlayedLectureID  *string                     `json:"last_played_lecture_id,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

func (progress *CourseProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	return
}
