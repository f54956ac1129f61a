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

type CourseRequest struct {
	Title       string   `json:"title" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Price       string   `json:"price" binding:"required"`
	Duration    string   `json:"duration"`
	BannerURL   string   `json:"banner_url"`
	Description string   `json:"description"`
	Syllabus    []string `json:"syllabus"`
}

type CourseUpdateRequest struct {
	Title       *string   `json:"title"`
	Category    *string   `json:"category"`
	Price       *string   `json:"price"`
	Duration    *string   `json:"duration"`
	BannerURL   *string   `json:"banner_url"`
	Description *string   `json:"description"`
	Syllabus    *[]string `json:"syllabus"`
}

// applyCourseUpdate merges the named optional fields of a partial
// update onto the course. Price strings are normalized to paise.
func applyCourseUpdate(course *models.Course, req *CourseUpdateRequest) error {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Price != nil {
		priceMinor, err := helpers.ParsePriceMinor(*req.Price)
		if err != nil {
			return err
		}
		course.Price = priceMinor
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.BannerURL != nil {
		course.BannerURL = *req.BannerURL
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Syllabus != nil {
		course.Syllabus = *req.Syllabus
	}
	return nil
}

func ListCourses(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var courses []models.Course
	if err := gormDB.Preload("Lectures", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, created_at ASC")
	}).Order("created_at DESC").Find(&courses).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch courses.")
		return
	}

	user := resolveUser(c, gormDB)
	for i := range courses {
		decision := services.DecideAccess(user, &courses[i])
		courses[i].Lectures = decision.Lectures
		courses[i].Questions = nil
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func GetCourse(c *gin.Context) {
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

	var course models.Course
	if err := gormDB.Preload("Lectures", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, created_at ASC")
	}).First(&course, "id = ?", courseID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return
	}

	user := resolveUser(c, gormDB)
	decision := services.DecideAccess(user, &course)
	course.Lectures = decision.Lectures
	course.Questions = nil

	c.JSON(http.StatusOK, gin.H{
		"course":     course,
		"has_access": decision.HasFullAccess,
	})
}

func MyCourses(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"courses": user.EnrolledCourses})
}

func CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	priceMinor, err := helpers.ParsePriceMinor(req.Price)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course price.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	course := models.Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Category:    req.Category,
		Price:       priceMinor,
		Currency:    "INR",
		Duration:    req.Duration,
		BannerURL:   req.BannerURL,
		Description: req.Description,
		Syllabus:    req.Syllabus,
	}

	if err := gormDB.Create(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create course.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Course created successfully.",
		"course_id": course.ID,
	})
}

func UpdateCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course ID.")
		return
	}

	var req CourseUpdateRequest
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

	var course models.Course
	if err := gormDB.First(&course, "id = ?", courseID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return
	}

	if err := applyCourseUpdate(&course, &req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid course price.")
		return
	}

	if err := gormDB.Save(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update course.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course updated successfully.",
		"course":  course,
	})
}

func DeleteCourse(c *gin.Context) {
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

	var course models.Course
	if err := gormDB.First(&course, "id = ?", courseID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return
	}

	if err := gormDB.Delete(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete course.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully."})
}
