package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Referral status values, advanced by the referral consumer as referred
// users sign up and fund accounts.
const (
	ReferralStatusPending   = "pending"
	ReferralStatusDeposited = "deposited"
	ReferralStatusEarning   = "earning"
	ReferralStatusCompleted = "completed"
)

type Referral struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	UserID             string          `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_referral_user" json:"user_id"`
	ReferralCode       string          `gorm:"column:referral_code;size:20;not null;uniqueIndex:idx_referral_code" json:"referral_code"`
	ReferralLink       string          `gorm:"column:referral_link;size:500;not null" json:"referral_link"`
	IsActive           bool            `gorm:"column:is_active;default:true" json:"is_active"`
	Status             string          `gorm:"column:status;size:20;default:pending" json:"status"`
	TotalReferrals     int             `gorm:"column:total_referrals;default:0" json:"total_referrals"`
	TotalEarnings      decimal.Decimal `gorm:"column:total_earnings;type:decimal(20,2);default:0.00" json:"total_earnings"`
	YearToDateEarnings decimal.Decimal `gorm:"column:year_to_date_earnings;type:decimal(20,2);default:0.00" json:"year_to_date_earnings"`
	InitialDeposit     decimal.Decimal `gorm:"column:initial_deposit;type:decimal(20,2);default:0.00" json:"initial_deposit"`
	DepositDate        *time.Time      `gorm:"column:deposit_date" json:"deposit_date"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ReferralPayment struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	ReferralID  string          `gorm:"column:referral_id;size:36;not null;index:idx_referral_payment_referral" json:"referral_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"column:payment_date" json:"payment_date"`
	Notes       string          `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralPayment) TableName() string {
	return "referral_payments"
}

func (p *ReferralPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ReferralSignup struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	ReferralID     string          `gorm:"column:referral_id;size:36;not null;index:idx_referral_signup_referral" json:"referral_id"`
	ReferredUserID string          `gorm:"column:referred_user_id;size:36;not null" json:"referred_user_id"`
	SignupDate     time.Time       `gorm:"column:signup_date" json:"signup_date"`
	DepositAmount  decimal.Decimal `gorm:"column:deposit_amount;type:decimal(20,2);default:0.00" json:"deposit_amount"`
	DepositDate    *time.Time      `gorm:"column:deposit_date" json:"deposit_date"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralSignup) TableName() string {
	return "referral_signups"
}

func (s *ReferralSignup) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
