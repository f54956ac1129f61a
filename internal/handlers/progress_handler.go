package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/services"
)

type ProgressRequest struct {
	LectureID uuid.UUID `json:"lecture_id" binding:"required"`
	Completed bool      `json:"completed"`
}

func GetProgress(c *gin.Context) {
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

	progress, err := services.GetProgress(gormDB, user, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed_lectures":     progress.CompletedLectures,
		"last_played_lecture_id": progress.LastPlayedLectureID,
	})
}

func UpdateProgress(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course ID.")
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "lecture_id is required.")
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

	progress, err := services.SetLectureStatus(gormDB, user, courseID, req.LectureID, req.Completed)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                "Progress updated.",
		"completed_lectures":     progress.CompletedLectures,
		"last_played_lecture_id": progress.LastPlayedLectureID,
	})
}
