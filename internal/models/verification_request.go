package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification request status values. Approved and rejected are terminal.
const (
	VerificationStatusPending  = "pending"
	VerificationStatusMoreInfo = "more_info"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

type VerificationRequest struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"column:user_id;size:36;not null;index:idx_verification_user" json:"user_id"`
	Documents   DocumentList `gorm:"column:documents;type:text" json:"documents"`
	Status      string       `gorm:"column:status;size:20;default:pending" json:"status"`
	Reason      string       `gorm:"column:reason;type:text" json:"reason"`
	ReviewedBy  string       `gorm:"column:reviewed_by;size:36" json:"reviewed_by"`
	ReviewedAt  *time.Time   `gorm:"column:reviewed_at" json:"reviewed_at"`
	SubmittedAt time.Time    `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VerificationRequest) TableName() string {
	return "verification_requests"
}

func (v *VerificationRequest) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// AdminAction is the audit record written for every admin decision on a
// verification request.
type AdminAction struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	AdminID               string    `gorm:"column:admin_id;size:36;not null" json:"admin_id"`
	UserID                string    `gorm:"column:user_id;size:36;not null;index:idx_admin_action_user" json:"user_id"`
	VerificationRequestID string    `gorm:"column:verification_request_id;size:36;not null;index:idx_admin_action_request" json:"verification_request_id"`
	Action                string    `gorm:"column:action;size:50;not null" json:"action"`
	Note                  string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

func (a *AdminAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
