package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/internal/services"
)

type QuestionRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2"`
	CorrectIndex *int     `json:"correct_index" binding:"required"`
	Position     int      `json:"position"`
}

type QuestionUpdateRequest struct {
	Prompt       *string   `json:"prompt"`
	Options      *[]string `json:"options"`
	CorrectIndex *int      `json:"correct_index"`
	Position     *int      `json:"position"`
}

// applyQuestionUpdate merges the named optional fields of a partial
// update onto the question. The answer-key invariant (correct index
// inside the options, at least two options) is re-checked on the result.
func applyQuestionUpdate(question *models.Question, req *QuestionUpdateRequest) bool {
	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.Options != nil {
		question.Options = *req.Options
	}
	if req.CorrectIndex != nil {
		question.CorrectIndex = *req.CorrectIndex
	}
	if req.Position != nil {
		question.Position = *req.Position
	}
	return len(question.Options) >= 2 &&
		question.CorrectIndex >= 0 && question.CorrectIndex < len(question.Options)
}

func AddQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid question data.")
		return
	}
	if *req.CorrectIndex < 0 || *req.CorrectIndex >= len(req.Options) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Correct answer must point at one of the options.")
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

	question := models.Question{
		ID:           uuid.New(),
		CourseID:     course.ID,
		Prompt:       req.Prompt,
		Options:      req.Options,
		CorrectIndex: *req.CorrectIndex,
		Position:     req.Position,
	}

	if err := gormDB.Create(&question).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add question.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Question added successfully.",
		"question": question,
	})
}

func UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid question ID.")
		return
	}

	var req QuestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid question data.")
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

	var question models.Question
	if err := gormDB.Where("id = ? AND course_id = ?", questionID, course.ID).First(&question).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Question not found.")
		return
	}

	if !applyQuestionUpdate(&question, &req) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Correct answer must point at one of the options.")
		return
	}

	if err := gormDB.Save(&question).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update question.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Question updated successfully.",
		"question": question,
	})
}

func DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid question ID.")
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

	result := gormDB.Where("id = ? AND course_id = ?", questionID, course.ID).Delete(&models.Question{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete question.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Question not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully."})
}

func ListCourseQuestions(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	user := resolveUser(c, gormDB)
	if user == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	questions, err := services.CourseQuestions(gormDB, user, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type TestSubmissionRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

func SubmitCourseTest(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course ID.")
		return
	}

	var req TestSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Answers are required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	user := resolveUser(c, gormDB)
	if user == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	result, err := services.ScoreTest(gormDB, user, courseID, req.Answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
