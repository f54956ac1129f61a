package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/models"
)

const (
	SkillAptitude = "aptitude"
	SkillGeneral  = "general"
)

type TestResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

func loadCourseWithQuestions(db *gorm.DB, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, created_at ASC")
	}).First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// CourseQuestions returns the course's test questions. Learners need
// full access and never see the answer key; admins get the raw records.
func CourseQuestions(db *gorm.DB, user *models.User, courseID uuid.UUID) ([]models.Question, error) {
	course, err := loadCourseWithQuestions(db, courseID)
	if err != nil {
		return nil, err
	}

	if decision := DecideAccess(user, course); !decision.HasFullAccess {
		return nil, fmt.Errorf("%w: course test requires enrollment", ErrForbidden)
	}

	if user.IsAdmin() {
		return course.Questions, nil
	}
	return RedactAnswers(course.Questions), nil
}

// ScoreTest grades a submitted answer sheet server-side. answers holds
// the selected option index per question position; missing or negative
// entries count as unanswered.
func ScoreTest(db *gorm.DB, user *models.User, courseID uuid.UUID, answers []int) (*TestResult, error) {
	course, err := loadCourseWithQuestions(db, courseID)
	if err != nil {
		return nil, err
	}

	if decision := DecideAccess(user, course); !decision.HasFullAccess {
		return nil, fmt.Errorf("%w: course test requires enrollment", ErrForbidden)
	}
	if len(course.Questions) == 0 {
		return nil, fmt.Errorf("%w: course has no test questions", ErrValidation)
	}

	result := TestResult{Total: len(course.Questions)}
	for i, question := range course.Questions {
		if i < len(answers) && answers[i] == question.CorrectIndex {
			result.Score++
		}
	}
	return &result, nil
}

// RecordSkillScore keeps the best score per skill test on the profile.
func RecordSkillScore(db *gorm.DB, user *models.User, skill string, score int) (*models.User, error) {
	if score < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", ErrValidation)
	}

	switch skill {
	case SkillAptitude:
		if score > user.BestAptitudeScore {
			if err := db.Model(user).Update("best_aptitude_score", score).Error; err != nil {
				return nil, err
			}
			user.BestAptitudeScore = score
		}
	case SkillGeneral:
		if score > user.BestGeneralScore {
			if err := db.Model(user).Update("best_general_score", score).Error; err != nil {
				return nil, err
			}
			user.BestGeneralScore = score
		}
	default:
		return nil, fmt.Errorf("%w: unknown skill %q", ErrValidation, skill)
	}
	return user, nil
}
