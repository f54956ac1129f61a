package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	ID          uuid.UUID                  `gorm:"type:uuid;primary_key" json:"id"`
	Title       string                     `gorm:"not null" json:"title"`
	Category    string                     `gorm:"not null" json:"category"`
	Price       int                        `gorm:"not null" json:"price"` // minor units (paise)
	Currency    string                     `gorm:"not null;default:'INR'" json:"currency"`
	Duration    string                     `json:"duration"`
	BannerURL   string                     `json:"banner_url"`
	Description string                     `json:"description"`
	Syllabus    datatypes.JSONSlice[string] `json:"syllabus"`
	Lectures    []Lecture                  `gorm:"constraint:OnDelete:CASCADE;" json:"lectures"`
	Questions   []Question                 `gorm:"constraint:OnDelete:CASCADE;" json:"questions,omitempty"`
}

func (course *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	return
}

type Lecture struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	VideoURL    string    `json:"video_url,omitempty"`
	Duration    string    `json:"duration"`
	Description string    `json:"description"`
	IsPreview   bool      `gorm:"not null;default:false" json:"is_preview"`
	NotesURL    string    `json:"notes_url,omitempty"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (lecture *Lecture) BeforeCreate(tx *gorm.DB) (err error) {
	if lecture.ID == uuid.Nil {
		lecture.ID = uuid.New()
	}
	return
}

type Question struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	CourseID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"course_id"`
	Prompt       string                      `gorm:"not null" json:"prompt"`
	Options      datatypes.JSONSlice[string] `json:"options"`
	CorrectIndex int                         `gorm:"not null" json:"correct_index"`
	Position     int                         `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (question *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	return
}
