package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/models"
)

type LectureRequest struct {
	Title       string `json:"title" binding:"required"`
	VideoURL    string `json:"video_url" binding:"required"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	IsPreview   bool   `json:"is_preview"`
	NotesURL    string `json:"notes_url"`
	Position    int    `json:"position"`
}

type LectureUpdateRequest struct {
	Title       *string `json:"title"`
	VideoURL    *string `json:"video_url"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
	IsPreview   *bool   `json:"is_preview"`
	NotesURL    *string `json:"notes_url"`
	Position    *int    `json:"position"`
}

// applyLectureUpdate merges the named optional fields of a partial
// update onto the lecture.
func applyLectureUpdate(lecture *models.Lecture, req *LectureUpdateRequest) {
	if req.Title != nil {
		lecture.Title = *req.Title
	}
	if req.VideoURL != nil {
		lecture.VideoURL = *req.VideoURL
	}
	if req.Duration != nil {
		lecture.Duration = *req.Duration
	}
	if req.Description != nil {
		lecture.Description = *req.Description
	}
	if req.IsPreview != nil {
		lecture.IsPreview = *req.IsPreview
	}
	if req.NotesURL != nil {
		lecture.NotesURL = *req.NotesURL
	}
	if req.Position != nil {
		lecture.Position = *req.Position
	}
}

func findCourse(c *gin.Context, gormDB *gorm.DB) (*models.Course, bool) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course ID.")
		return nil, false
	}

	var course models.Course
	if err := gormDB.First(&course, "id = ?", courseID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return nil, false
	}
	return &course, true
}

func AddLecture(c *gin.Context) {
	var req LectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Title and video URL are required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	course, ok := findCourse(c, gormDB)
	if !ok {
		return
	}

	lecture := models.Lecture{
		ID:          uuid.New(),
		CourseID:    course.ID,
		Title:       req.Title,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Description: req.Description,
		IsPreview:   req.IsPreview,
		NotesURL:    req.NotesURL,
		Position:    req.Position,
	}

	if err := gormDB.Create(&lecture).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add lecture.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lecture added successfully.",
		"lecture": lecture,
	})
}

func UpdateLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lecture ID.")
		return
	}

	var req LectureUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	course, ok := findCourse(c, gormDB)
	if !ok {
		return
	}

	var lecture models.Lecture
	if err := gormDB.Where("id = ? AND course_id = ?", lectureID, course.ID).First(&lecture).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Lecture not found.")
		return
	}

	applyLectureUpdate(&lecture, &req)

	if err := gormDB.Save(&lecture).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update lecture.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lecture updated successfully.",
		"lecture": lecture,
	})
}

func DeleteLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lecture ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	course, ok := findCourse(c, gormDB)
	if !ok {
		return
	}

	result := gormDB.Where("id = ? AND course_id = ?", lectureID, course.ID).Delete(&models.Lecture{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete lecture.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Lecture not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lecture deleted successfully."})
}
