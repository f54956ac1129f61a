package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/services"
)

type SkillScoreRequest struct {
	Skill string `json:"skill" binding:"required"`
	Score *int   `json:"score" binding:"required"`
}

func GetProfile(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func RecordSkillScore(c *gin.Context) {
	var req SkillScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Skill and score are required.")
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

	updated, err := services.RecordSkillScore(gormDB, user, req.Skill, *req.Score)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"best_aptitude_score": updated.BestAptitudeScore,
		"best_general_score":  updated.BestGeneralScore,
	})
}
