package consumers

import (
	"log"
	"os"
	"time"

	"account-service/internal/models"
	"account-service/internal/services"
	"account-service/pkg/common"

	"gorm.io/gorm"
)

// ReferralProcessor runs the referral bookkeeping jobs dequeued by the
// worker. All counter updates flow through here so the HTTP path never
// mutates referral totals directly.
type ReferralProcessor struct {
	DB *gorm.DB
}

func NewReferralProcessor(db *gorm.DB) *ReferralProcessor {
	return &ReferralProcessor{DB: db}
}

// ProcessSignup attributes a new signup to its referral and bumps the
// referral counter. A repeated delivery for the same referred user is a
// no-op.
func (p *ReferralProcessor) ProcessSignup(data services.SignupPayload) error {
	var referral models.Referral
	if err := p.DB.Where("referral_code = ?", data.ReferralCode).First(&referral).Error; err != nil {
		log.Printf("referral signup: code %s not found: %v", data.ReferralCode, err)
		return nil
	}

	var existing int64
	p.DB.Model(&models.ReferralSignup{}).
		Where("referral_id = ? AND referred_user_id = ?", referral.ID, data.ReferredUserID).
		Count(&existing)
	if existing > 0 {
		return nil
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		signup := models.ReferralSignup{
			ReferralID:     referral.ID,
			ReferredUserID: data.ReferredUserID,
			SignupDate:     time.Now(),
		}
		if err := tx.Create(&signup).Error; err != nil {
			return err
		}
		return tx.Model(&referral).
			Update("total_referrals", gorm.Expr("total_referrals + 1")).Error
	})
}

// ProcessPayment folds a recorded commission payment into the referral's
// running totals and advances the lifecycle on first earnings.
func (p *ReferralProcessor) ProcessPayment(data services.PaymentPayload) error {
	var referral models.Referral
	if err := p.DB.Where("id = ?", data.ReferralID).First(&referral).Error; err != nil {
		log.Printf("referral payment: referral %s not found: %v", data.ReferralID, err)
		return nil
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"total_earnings":        gorm.Expr("total_earnings + ?", data.Amount),
			"year_to_date_earnings": gorm.Expr("year_to_date_earnings + ?", data.Amount),
		}
		if services.CanTransitionReferral(referral.Status, models.ReferralStatusEarning) {
			updates["status"] = models.ReferralStatusEarning
		}
		return tx.Model(&referral).Updates(updates).Error
	})
}

// ProcessInvitation sends the referral invitation mail through the
// configured mail relay. Without a relay the invitation is logged and
// dropped.
func (p *ReferralProcessor) ProcessInvitation(data services.InvitationPayload) error {
	mailURL := os.Getenv("MAIL_SERVICE_URL")
	if mailURL == "" {
		log.Printf("invitation for %s skipped: MAIL_SERVICE_URL not set", data.ToEmail)
		return nil
	}

	headers := map[string]string{}
	if key := os.Getenv("MAIL_SERVICE_KEY"); key != "" {
		headers["Authorization"] = "Bearer " + key
	}

	_, err := common.Post(mailURL+"/send", map[string]string{
		"to":            data.ToEmail,
		"subject":       data.Subject,
		"message":       data.Message,
		"referral_code": data.ReferralCode,
		"referral_link": data.ReferralLink,
	}, headers)
	if err != nil {
		log.Printf("invitation mail to %s failed: %v", data.ToEmail, err)
		return err
	}
	return nil
}
