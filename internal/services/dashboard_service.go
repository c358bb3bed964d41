package services

import (
	"account-service/internal/models"

	"gorm.io/gorm"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

type UserStats struct {
	TotalRequests    int64   `json:"total_requests"`
	PendingRequests  int64   `json:"pending_requests"`
	CompletedAmount  float64 `json:"completed_amount"`
	TradingBalance   float64 `json:"trading_balance"`
	TradingEquity    float64 `json:"trading_equity"`
	TotalReferrals   int     `json:"total_referrals"`
	ReferralEarnings float64 `json:"referral_earnings"`
}

// GetUserStats aggregates the figures shown on the user dashboard.
func (s *DashboardService) GetUserStats(userID string) (*UserStats, error) {
	stats := &UserStats{}

	if err := s.DB.Model(&models.Request{}).Where("user_id = ?", userID).Count(&stats.TotalRequests).Error; err != nil {
		return nil, err
	}
	s.DB.Model(&models.Request{}).
		Where("user_id = ? AND status = ?", userID, models.RequestStatusPending).
		Count(&stats.PendingRequests)
	s.DB.Model(&models.Request{}).
		Where("user_id = ? AND status = ?", userID, models.RequestStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.CompletedAmount)

	s.DB.Model(&models.TradingAccount{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").Scan(&stats.TradingBalance)
	s.DB.Model(&models.TradingAccount{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(equity), 0)").Scan(&stats.TradingEquity)

	var referral models.Referral
	if err := s.DB.Where("user_id = ?", userID).First(&referral).Error; err == nil {
		stats.TotalReferrals = referral.TotalReferrals
		stats.ReferralEarnings, _ = referral.TotalEarnings.Float64()
	}

	return stats, nil
}

type AdminSummary struct {
	TotalUsers           int64   `json:"total_users"`
	PendingVerifications int64   `json:"pending_verifications"`
	PendingDeposits      int64   `json:"pending_deposits"`
	PendingWithdrawals   int64   `json:"pending_withdrawals"`
	OpenCompanyRequests  int64   `json:"open_company_requests"`
	TotalReferrals       int64   `json:"total_referrals"`
	TotalEarningsPaid    float64 `json:"total_earnings_paid"`
}

// GetAdminSummary aggregates the admin console overview counters.
func (s *DashboardService) GetAdminSummary() (*AdminSummary, error) {
	summary := &AdminSummary{}

	if err := s.DB.Model(&models.Profile{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}
	s.DB.Model(&models.VerificationRequest{}).
		Where("status = ?", models.VerificationStatusPending).
		Count(&summary.PendingVerifications)
	s.DB.Model(&models.Request{}).
		Where("type = ? AND status = ?", models.RequestTypeDeposit, models.RequestStatusPending).
		Count(&summary.PendingDeposits)
	s.DB.Model(&models.Request{}).
		Where("type = ? AND status = ?", models.RequestTypeWithdrawal, models.RequestStatusPending).
		Count(&summary.PendingWithdrawals)
	s.DB.Model(&models.CompanyRequest{}).
		Where("status NOT IN ?", []string{models.CompanyRequestStatusCompleted, models.CompanyRequestStatusRejected}).
		Count(&summary.OpenCompanyRequests)
	s.DB.Model(&models.Referral{}).Count(&summary.TotalReferrals)
	s.DB.Model(&models.ReferralPayment{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalEarningsPaid)

	return summary, nil
}
