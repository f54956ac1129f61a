package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/services"
)

type ManualPaymentRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
	UTR      string    `json:"utr" binding:"required"`
	Amount   string    `json:"amount" binding:"required"`
}

type CreateOrderRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}

type VerifyPaymentRequest struct {
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
	OrderID   string    `json:"order_id" binding:"required"`
	PaymentID string    `json:"payment_id" binding:"required"`
	Signature string    `json:"signature" binding:"required"`
}

func SubmitManualPayment(c *gin.Context) {
	var req ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Course, UTR and amount are required.")
		return
	}

	amountMinor, err := helpers.ParsePriceMinor(req.Amount)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment amount.")
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

	transaction, err := services.SubmitManualPayment(gormDB, middleware.GetMailer(c), user, services.ManualPaymentInput{
		CourseID: req.CourseID,
		UTR:      req.UTR,
		Amount:   amountMinor,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment submitted successfully.",
		"transaction_id": transaction.ID,
		"status":         transaction.Status,
	})
}

func PaymentStatus(c *gin.Context) {
	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "course_id is required.")
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

	transaction, err := services.LatestTransaction(gormDB, user, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if transaction == nil {
		c.JSON(http.StatusOK, gin.H{"status": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction_id": transaction.ID,
		"status":         transaction.Status,
		"payment_ref":    transaction.PaymentRef,
		"amount":         transaction.Amount,
		"decline_reason": transaction.DeclineReason,
		"updated_at":     transaction.UpdatedAt,
	})
}

func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Course is required.")
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

	gatewayClient := middleware.GetGatewayClient(c)
	if gatewayClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	order, err := services.CreateGatewayOrder(gormDB, gatewayClient, user, req.CourseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   os.Getenv("RAZORPAY_KEY_ID"),
	})
}

func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Order, payment and signature are required.")
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

	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keySecret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "RAZORPAY_KEY_SECRET not configured.")
		return
	}

	transaction, err := services.VerifyGatewayPayment(gormDB, user, req.CourseID, req.OrderID, req.PaymentID, req.Signature, keySecret)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment verified successfully.",
		"success":        true,
		"transaction_id": transaction.ID,
	})
}
