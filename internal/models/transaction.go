package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionPending = "pending"
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

// Transaction is the authoritative record of a payment attempt for a
// (user, course) pair. A partial unique index on (user_id, course_id)
// where status = 'pending' backs the single-pending invariant; see
// config.InitDatabase.
type Transaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course        *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Amount        int       `gorm:"not null" json:"amount"` // minor units (paise)
	PaymentRef    string    `gorm:"not null" json:"payment_ref"` // UTR or gateway payment id
	Status        string    `gorm:"not null;default:'pending'" json:"status"`
	DeclineReason *string   `json:"decline_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	return
}
