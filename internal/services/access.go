package services

import (
	"github.com/talentbridge/backend/internal/models"
)

type AccessDecision struct {
	HasFullAccess bool
	Lectures      []models.Lecture
}

// DecideAccess combines identity and course into a visibility decision.
// user may be nil (anonymous). Full access requires the admin role or
// membership of the course in the enrollment set; otherwise every
// non-preview lecture loses its playable references. Pure: the course's
// own lecture slice is never mutated.
func DecideAccess(user *models.User, course *models.Course) AccessDecision {
	full := user != nil && (user.IsAdmin() || user.IsEnrolled(course.ID))

	lectures := make([]models.Lecture, len(course.Lectures))
	copy(lectures, course.Lectures)

	if !full {
		for i := range lectures {
			if !lectures[i].IsPreview {
				lectures[i].VideoURL = ""
				lectures[i].NotesURL = ""
			}
		}
	}

	return AccessDecision{HasFullAccess: full, Lectures: lectures}
}

// RedactAnswers strips the answer key from question copies so learners
// can sit a test without seeing the solutions.
func RedactAnswers(questions []models.Question) []models.Question {
	redacted := make([]models.Question, len(questions))
	copy(redacted, questions)
	for i := range redacted {
		redacted[i].CorrectIndex = -1
	}
	return redacted
}
