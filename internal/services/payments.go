package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/gateway"
	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/mailer"
	"github.com/talentbridge/backend/internal/models"
)

type ManualPaymentInput struct {
	CourseID uuid.UUID
	UTR      string
	Amount   int
}

type OrderDetails struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// SubmitManualPayment records a UTR claim as a pending transaction.
// At most one pending transaction may exist per (user, course): the
// check runs inside a transaction and the partial unique index on
// (user_id, course_id) WHERE status='pending' closes the race, so a
// concurrent duplicate surfaces as ErrConflict either way.
func SubmitManualPayment(db *gorm.DB, m mailer.Mailer, user *models.User, in ManualPaymentInput) (*models.Transaction, error) {
	if in.UTR == "" || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: utr and a positive amount are required", ErrValidation)
	}

	var course models.Course
	if err := db.First(&course, "id = ?", in.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, in.CourseID)
		}
		return nil, err
	}

	transaction := models.Transaction{
		UserID:     user.ID,
		CourseID:   in.CourseID,
		Amount:     in.Amount,
		PaymentRef: in.UTR,
		Status:     models.TransactionPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Transaction
		err := tx.Where("user_id = ? AND course_id = ? AND status = ?",
			user.ID, in.CourseID, models.TransactionPending).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: a payment request is already pending for this course", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&transaction).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a payment request is already pending for this course", ErrConflict)
		}
		return nil, err
	}

	dispatch("admin payment notice", func() error {
		return m.SendPaymentSubmitted(user.Name, user.Email, course.Title, in.UTR, in.Amount)
	})

	return &transaction, nil
}

// Approve flips a transaction to success and grants enrollment. The
// status flip commits on its own before enrollment is attempted: a
// crash in between leaves an approved-but-unenrolled pair, which a
// retried approval repairs; the reverse state can never occur.
func Approve(db *gorm.DB, m mailer.Mailer, actingAdmin *models.User, transactionID uuid.UUID) (*models.Transaction, error) {
	if err := requireAdmin(actingAdmin); err != nil {
		return nil, err
	}

	var transaction models.Transaction
	if err := db.Preload("User").Preload("Course").First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, transactionID)
		}
		return nil, err
	}
	if transaction.User == nil || transaction.Course == nil {
		return nil, fmt.Errorf("%w: associated user or course", ErrNotFound)
	}
	if transaction.Status == models.TransactionSuccess {
		return nil, fmt.Errorf("%w: transaction already approved", ErrConflict)
	}

	updates := map[string]interface{}{
		"status":         models.TransactionSuccess,
		"decline_reason": nil,
	}
	if err := db.Model(&transaction).Updates(updates).Error; err != nil {
		return nil, err
	}
	transaction.Status = models.TransactionSuccess
	transaction.DeclineReason = nil

	if err := Enroll(db, transaction.User, transaction.Course); err != nil {
		// The approval is durable; the grant gets repaired by re-approving.
		log.Printf("enrollment grant failed after approval of %s: %v", transaction.ID, err)
	}

	dispatch("access granted notice", func() error {
		return m.SendAccessGranted(transaction.User.Email, transaction.Course.Title)
	})

	return &transaction, nil
}

// Decline resolves a pending transaction as failed with an optional
// human-readable reason. Enrollment is never touched.
func Decline(db *gorm.DB, m mailer.Mailer, actingAdmin *models.User, transactionID uuid.UUID, reason string) (*models.Transaction, error) {
	if err := requireAdmin(actingAdmin); err != nil {
		return nil, err
	}

	var transaction models.Transaction
	if err := db.Preload("User").Preload("Course").First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, transactionID)
		}
		return nil, err
	}
	if transaction.Status != models.TransactionPending {
		return nil, fmt.Errorf("%w: only pending transactions can be declined", ErrConflict)
	}

	updates := map[string]interface{}{"status": models.TransactionFailed}
	if reason != "" {
		updates["decline_reason"] = reason
	}
	if err := db.Model(&transaction).Updates(updates).Error; err != nil {
		return nil, err
	}
	transaction.Status = models.TransactionFailed
	if reason != "" {
		transaction.DeclineReason = &reason
	}

	if transaction.User != nil && transaction.Course != nil {
		to, title := transaction.User.Email, transaction.Course.Title
		dispatch("payment declined notice", func() error {
			return m.SendPaymentDeclined(to, title, reason)
		})
	}

	return &transaction, nil
}

// CreateGatewayOrder mints a checkout order for the course's stored
// price. No ledger entry is written here; the ledger only records
// verified outcomes in the gateway flow.
func CreateGatewayOrder(db *gorm.DB, gw gateway.Client, user *models.User, courseID uuid.UUID) (*OrderDetails, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
		}
		return nil, err
	}

	if course.Price <= 0 {
		return nil, fmt.Errorf("%w: course has no payable price", ErrValidation)
	}

	receipt := fmt.Sprintf("receipt_%d_%s", time.Now().Unix(), user.ID)
	orderID, err := gw.CreateOrder(course.Price, course.Currency, receipt, map[string]interface{}{
		"course_id": course.ID.String(),
		"user_id":   user.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrUpstream, err)
	}

	return &OrderDetails{OrderID: orderID, Amount: course.Price, Currency: course.Currency}, nil
}

// VerifyGatewayPayment checks the checkout signature and, on a match,
// records a success transaction and grants enrollment. A mismatch
// changes nothing.
func VerifyGatewayPayment(db *gorm.DB, user *models.User, courseID uuid.UUID, orderID, paymentID, signature, keySecret string) (*models.Transaction, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: order id, payment id and signature are required", ErrValidation)
	}

	if !helpers.VerifyGatewaySignature(orderID, paymentID, signature, keySecret) {
		return nil, fmt.Errorf("%w: checkout signature mismatch", ErrVerificationFailed)
	}

	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
		}
		return nil, err
	}

	transaction := models.Transaction{
		UserID:     user.ID,
		CourseID:   course.ID,
		Amount:     course.Price,
		PaymentRef: paymentID,
		Status:     models.TransactionSuccess,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		return Enroll(tx, user, &course)
	})
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

// LatestTransaction returns the newest ledger entry for the pair, or
// nil when the user never attempted payment for the course.
func LatestTransaction(db *gorm.DB, user *models.User, courseID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := db.Where("user_id = ? AND course_id = ?", user.ID, courseID).
		Order("created_at DESC").First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ListTransactions returns the whole ledger for the admin dashboard,
// newest first.
func ListTransactions(db *gorm.DB, actingAdmin *models.User) ([]models.Transaction, error) {
	if err := requireAdmin(actingAdmin); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := db.Preload("User").Preload("Course").
		Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Enroll adds the course to the user's access set. Re-adding an
// already-enrolled course is a no-op.
func Enroll(db *gorm.DB, user *models.User, course *models.Course) error {
	return db.Model(user).Association("EnrolledCourses").Append(course)
}

// dispatch runs a notification send off the request path. Failures are
// logged for operator visibility and never reach the caller.
func dispatch(label string, send func() error) {
	go func() {
		if err := send(); err != nil {
			log.Printf("notification dispatch failed (%s): %v", label, err)
		}
	}()
}
