package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusDissolved = "dissolved"
)

// Company is the incorporated entity spawned when a company request is
// approved. It has its own lifecycle after creation.
type Company struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UserID             string    `gorm:"column:user_id;size:36;not null;index:idx_company_user" json:"user_id"`
	CompanyName        string    `gorm:"column:company_name;size:255;not null" json:"company_name"`
	RegistrationNumber string    `gorm:"column:registration_number;size:100;not null" json:"registration_number"`
	IncorporationDate  string    `gorm:"column:incorporation_date;size:10;not null" json:"incorporation_date"`
	Jurisdiction       string    `gorm:"column:jurisdiction;size:100;not null" json:"jurisdiction"`
	Status             string    `gorm:"column:status;size:20;default:active" json:"status"`
	ContactEmail       string    `gorm:"column:contact_email;size:255;not null" json:"contact_email"`
	ContactPhone       string    `gorm:"column:contact_phone;size:50" json:"contact_phone"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string {
	return "overseas_companies"
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
