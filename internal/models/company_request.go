package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Overseas company request status values. Completed and rejected are
// terminal; transitions are guarded by services.CompanyTransitions.
const (
	CompanyRequestStatusPending      = "pending"
	CompanyRequestStatusProcessing   = "processing"
	CompanyRequestStatusNameSelected = "name_selected"
	CompanyRequestStatusCompleted    = "completed"
	CompanyRequestStatusRejected     = "rejected"
)

type CompanyRequest struct {
	ID                  string       `gorm:"primaryKey;size:36" json:"id"`
	UserID              string       `gorm:"column:user_id;size:36;not null;index:idx_company_request_user" json:"user_id"`
	CompanyNames        StringList   `gorm:"column:company_names;type:text" json:"company_names"`
	Jurisdiction        string       `gorm:"column:jurisdiction;size:100;not null" json:"jurisdiction"`
	BusinessType        string       `gorm:"column:business_type;size:100;not null" json:"business_type"`
	BusinessDescription string       `gorm:"column:business_description;type:text" json:"business_description"`
	ContactEmail        string       `gorm:"column:contact_email;size:255;not null" json:"contact_email"`
	Status              string       `gorm:"column:status;size:20;default:pending" json:"status"`
	SelectedCompanyName string       `gorm:"column:selected_company_name;size:255" json:"selected_company_name"`
	AdminNotes          string       `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	DocumentsRequested  StringList   `gorm:"column:documents_requested;type:text" json:"documents_requested"`
	UploadedDocuments   DocumentList `gorm:"column:uploaded_documents;type:text" json:"uploaded_documents"`
	EstimatedCompletion *time.Time   `gorm:"column:estimated_completion" json:"estimated_completion"`
	SubmittedAt         time.Time    `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt           time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CompanyRequest) TableName() string {
	return "overseas_company_requests"
}

func (r *CompanyRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
