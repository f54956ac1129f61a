package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/internal/services"
)

// resolveUser turns the token claims set by the auth middleware into a
// user record with the enrollment set preloaded. Anything malformed or
// missing resolves to nil (anonymous), never an error.
func resolveUser(c *gin.Context, gormDB *gorm.DB) *models.User {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		return nil
	}

	var user models.User
	if err := gormDB.Preload("EnrolledCourses").First(&user, "id = ?", userUUID).Error; err != nil {
		return nil
	}
	return &user
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		helpers.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrForbidden):
		helpers.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrValidation):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrVerificationFailed):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUpstream):
		helpers.RespondWithError(c, http.StatusBadGateway, err.Error())
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Something went wrong.")
	}
}
