package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentbridge/backend/internal/models"
)

// GetProgress returns the per-pair record. A user who never played
// anything gets an empty set, not an error.
func GetProgress(db *gorm.DB, user *models.User, courseID uuid.UUID) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := db.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CourseProgress{
			UserID:            user.ID,
			CourseID:          courseID,
			CompletedLectures: []string{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if progress.CompletedLectures == nil {
		progress.CompletedLectures = []string{}
	}
	return &progress, nil
}

// SetLectureStatus upserts the pair's record: membership-add or remove
// on the completed set, and the last-played pointer always moves to the
// given lecture. Creation goes through ON CONFLICT DO NOTHING on the
// (user_id, course_id) unique index so concurrent first-writes
// reconcile to one row.
func SetLectureStatus(db *gorm.DB, user *models.User, courseID, lectureID uuid.UUID, completed bool) (*models.CourseProgress, error) {
	var progress models.CourseProgress

	err := db.Transaction(func(tx *gorm.DB) error {
		seed := models.CourseProgress{
			UserID:            user.ID,
			CourseID:          courseID,
			CompletedLectures: []string{},
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&progress).Error; err != nil {
			return err
		}

		id := lectureID.String()
		completedSet := []string(progress.CompletedLectures)
		if completed {
			if !contains(completedSet, id) {
				completedSet = append(completedSet, id)
			}
		} else {
			completedSet = remove(completedSet, id)
		}

		progress.CompletedLectures = completedSet
		progress.LastPlayedLectureID = &id
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

func contains(set []string, id string) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}

func remove(set []string, id string) []string {
	kept := set[:0]
	for _, member := range set {
		if member != id {
			kept = append(kept, member)
		}
	}
	return kept
}
