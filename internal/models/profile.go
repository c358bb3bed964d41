package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile status values.
const (
	ProfileStatusUnverified = "unverified"
	ProfileStatusPending    = "pending"
	ProfileStatusVerified   = "verified"
	ProfileStatusRejected   = "rejected"
	ProfileStatusBlocked    = "blocked"
)

type Profile struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	UserID               string     `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_profile_user" json:"user_id"`
	FullName             string     `gorm:"column:full_name;size:150" json:"full_name"`
	Email                string     `gorm:"column:email;size:255;index" json:"email"`
	AvatarURL            string     `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	Phone                string     `gorm:"column:phone;size:50" json:"phone"`
	Address              string     `gorm:"column:address;size:255" json:"address"`
	City                 string     `gorm:"column:city;size:100" json:"city"`
	State                string     `gorm:"column:state;size:100" json:"state"`
	ZipCode              string     `gorm:"column:zip_code;size:20" json:"zip_code"`
	EmploymentStatus     string     `gorm:"column:employment_status;size:50" json:"employment_status"`
	Employer             string     `gorm:"column:employer;size:150" json:"employer"`
	Occupation           string     `gorm:"column:occupation;size:150" json:"occupation"`
	AnnualIncome         float64    `gorm:"column:annual_income;type:decimal(20,2);default:0.00" json:"annual_income"`
	NetWorth             float64    `gorm:"column:net_worth;type:decimal(20,2);default:0.00" json:"net_worth"`
	LiquidNetWorth       float64    `gorm:"column:liquid_net_worth;type:decimal(20,2);default:0.00" json:"liquid_net_worth"`
	InvestmentExperience string     `gorm:"column:investment_experience;size:50" json:"investment_experience"`
	RiskTolerance        string     `gorm:"column:risk_tolerance;size:50" json:"risk_tolerance"`
	InvestmentGoals      StringList `gorm:"column:investment_goals;type:text" json:"investment_goals"`
	TimeHorizon          string     `gorm:"column:time_horizon;size:50" json:"time_horizon"`
	DocumentsUploaded    bool       `gorm:"column:documents_uploaded;default:false" json:"documents_uploaded"`
	HasCompletedProfile  bool       `gorm:"column:has_completed_profile;default:false" json:"has_completed_profile"`
	Role                 string     `gorm:"column:role;size:20;default:user" json:"role"`
	Status               string     `gorm:"column:status;size:20;default:unverified" json:"status"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
