package services

import (
	"log"
	"os"
	"testing"

	"account-service/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func setup() {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to open test database: %v", err)
		return
	}

	// One in-memory database across the pool.
	if sqlDB, err := testDB.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	testDB.AutoMigrate(
		&models.Profile{},
		&models.VerificationRequest{},
		&models.AdminAction{},
		&models.CompanyRequest{},
		&models.Company{},
		&models.Request{},
		&models.RequestDocument{},
		&models.RequestAuditLog{},
		&models.Referral{},
		&models.ReferralPayment{},
		&models.ReferralSignup{},
		&models.TradingAccount{},
	)
}

func cleanup() {
	if testDB == nil {
		return
	}
	for _, table := range []string{
		"profiles", "verification_requests", "admin_actions",
		"overseas_company_requests", "overseas_companies",
		"requests", "request_documents", "request_audit_log",
		"referrals", "referral_payments", "referral_signups",
		"metatrader_accounts",
	} {
		testDB.Exec("DELETE FROM " + table)
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}
