package consumers

import (
	"log"
	"os"
	"testing"

	"account-service/internal/models"
	"account-service/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file:consumers_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to open test database: %v", err)
		os.Exit(m.Run())
	}
	if sqlDB, err := testDB.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	testDB.AutoMigrate(&models.Referral{}, &models.ReferralPayment{}, &models.ReferralSignup{})
	os.Exit(m.Run())
}

func cleanup() {
	if testDB == nil {
		return
	}
	testDB.Exec("DELETE FROM referrals")
	testDB.Exec("DELETE FROM referral_payments")
	testDB.Exec("DELETE FROM referral_signups")
}

func seedReferral(t *testing.T, code string) models.Referral {
	t.Helper()
	referral := models.Referral{
		UserID:       "owner-" + code,
		ReferralCode: code,
		ReferralLink: "https://example.com/auth?ref=" + code,
		IsActive:     true,
		Status:       models.ReferralStatusPending,
	}
	if err := testDB.Create(&referral).Error; err != nil {
		t.Fatalf("seed referral: %v", err)
	}
	return referral
}

func TestProcessSignupIncrementsOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	p := NewReferralProcessor(testDB)
	referral := seedReferral(t, "SIGN0001")

	payload := services.SignupPayload{ReferralCode: "SIGN0001", ReferredUserID: "newbie-1"}
	if err := p.ProcessSignup(payload); err != nil {
		t.Fatalf("ProcessSignup failed: %v", err)
	}

	// Redelivery of the same job changes nothing.
	if err := p.ProcessSignup(payload); err != nil {
		t.Fatalf("redelivered ProcessSignup failed: %v", err)
	}

	var reloaded models.Referral
	testDB.First(&reloaded, "id = ?", referral.ID)
	if reloaded.TotalReferrals != 1 {
		t.Errorf("expected total_referrals 1, got %d", reloaded.TotalReferrals)
	}

	var signups int64
	testDB.Model(&models.ReferralSignup{}).Where("referral_id = ?", referral.ID).Count(&signups)
	if signups != 1 {
		t.Errorf("expected 1 signup row, got %d", signups)
	}
}

func TestProcessSignupUnknownCodeIsDropped(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	p := NewReferralProcessor(testDB)

	// Unknown codes are logged and dropped, never retried.
	if err := p.ProcessSignup(services.SignupPayload{ReferralCode: "GHOST999", ReferredUserID: "x"}); err != nil {
		t.Fatalf("expected nil for unknown code, got %v", err)
	}
}

func TestProcessPaymentAccumulatesAndAdvances(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	p := NewReferralProcessor(testDB)
	referral := seedReferral(t, "PAY00001")
	testDB.Model(&models.Referral{}).Where("id = ?", referral.ID).
		Update("status", models.ReferralStatusDeposited)

	if err := p.ProcessPayment(services.PaymentPayload{
		ReferralID: referral.ID,
		Amount:     decimal.NewFromFloat(50.25),
	}); err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}
	if err := p.ProcessPayment(services.PaymentPayload{
		ReferralID: referral.ID,
		Amount:     decimal.NewFromFloat(25.00),
	}); err != nil {
		t.Fatalf("second ProcessPayment failed: %v", err)
	}

	var reloaded models.Referral
	testDB.First(&reloaded, "id = ?", referral.ID)
	if !reloaded.TotalEarnings.Equal(decimal.NewFromFloat(75.25)) {
		t.Errorf("expected total 75.25, got %s", reloaded.TotalEarnings)
	}
	if !reloaded.YearToDateEarnings.Equal(decimal.NewFromFloat(75.25)) {
		t.Errorf("expected YTD 75.25, got %s", reloaded.YearToDateEarnings)
	}
	if reloaded.Status != models.ReferralStatusEarning {
		t.Errorf("expected earning status, got %s", reloaded.Status)
	}
}

func TestProcessPaymentDoesNotSkipLifecycleSteps(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	p := NewReferralProcessor(testDB)
	referral := seedReferral(t, "PAY00002") // still pending

	if err := p.ProcessPayment(services.PaymentPayload{
		ReferralID: referral.ID,
		Amount:     decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	var reloaded models.Referral
	testDB.First(&reloaded, "id = ?", referral.ID)
	if reloaded.Status != models.ReferralStatusPending {
		t.Errorf("pending must not jump to earning, got %s", reloaded.Status)
	}
	if !reloaded.TotalEarnings.Equal(decimal.NewFromInt(10)) {
		t.Errorf("earnings still accumulate, got %s", reloaded.TotalEarnings)
	}
}
