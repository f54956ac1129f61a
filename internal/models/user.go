package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"unique;not null" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Role              string    `gorm:"not null;default:'learner'" json:"role"`
	BestAptitudeScore int       `gorm:"not null;default:0" json:"best_aptitude_score"`
	BestGeneralScore  int       `gorm:"not null;default:0" json:"best_general_score"`
	EnrolledCourses   []Course  `gorm:"many2many:user_enrollments;" json:"enrolled_courses,omitempty"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

// IsEnrolled checks the preloaded enrollment set.
func (user *User) IsEnrolled(courseID uuid.UUID) bool {
	for _, course := range user.EnrolledCourses {
		if course.ID == courseID {
			return true
		}
	}
	return false
}
