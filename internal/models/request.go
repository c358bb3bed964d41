package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deposit/withdrawal request types and statuses.
const (
	RequestTypeDeposit    = "deposit"
	RequestTypeWithdrawal = "withdrawal"

	RequestStatusPending    = "pending"
	RequestStatusProcessing = "processing"
	RequestStatusCompleted  = "completed"
	RequestStatusRejected   = "rejected"
)

type Request struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"column:user_id;size:36;not null;index:idx_request_user" json:"user_id"`
	Type          string          `gorm:"column:type;size:20;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Currency      string          `gorm:"column:currency;size:10;default:USD" json:"currency"`
	PaymentMethod string          `gorm:"column:payment_method;size:50;not null" json:"payment_method"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Status        string          `gorm:"column:status;size:20;default:pending" json:"status"`
	AdminNotes    string          `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string {
	return "requests"
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
