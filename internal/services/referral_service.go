package services

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"account-service/internal/models"
	"account-service/pkg/common"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Forward-only referral lifecycle.
var referralTransitions = map[string][]string{
	models.ReferralStatusPending:   {models.ReferralStatusDeposited},
	models.ReferralStatusDeposited: {models.ReferralStatusEarning},
	models.ReferralStatusEarning:   {models.ReferralStatusCompleted},
	models.ReferralStatusCompleted: {},
}

func CanTransitionReferral(from, to string) bool {
	for _, next := range referralTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TaskEnqueuer is the slice of asynq.Client the service needs; tests
// substitute a recorder.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ReferralService struct {
	DB    *gorm.DB
	Queue TaskEnqueuer
}

func NewReferralService(db *gorm.DB, queue TaskEnqueuer) *ReferralService {
	return &ReferralService{DB: db, Queue: queue}
}

func referralBaseURL() string {
	base := os.Getenv("REFERRAL_BASE_URL")
	if base == "" {
		base = "https://app.peacefulinvestment.com"
	}
	return strings.TrimRight(base, "/")
}

// Generate creates the caller's referral code and link. Repeat calls
// return the existing row unchanged, so the operation is safe to retry.
func (s *ReferralService) Generate(userID string) (*models.Referral, error) {
	var existing models.Referral
	err := s.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrNotFound
	}
	firstName := profile.FullName
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}

	code := common.GenerateReferralCode(firstName)
	// Regenerate on the rare code collision.
	for i := 0; i < 3; i++ {
		var count int64
		s.DB.Model(&models.Referral{}).Where("referral_code = ?", code).Count(&count)
		if count == 0 {
			break
		}
		code = common.GenerateReferralCode(firstName)
	}

	referral := models.Referral{
		UserID:       userID,
		ReferralCode: code,
		ReferralLink: referralBaseURL() + "/auth?ref=" + code,
		IsActive:     true,
		Status:       models.ReferralStatusPending,
	}
	if err := s.DB.Create(&referral).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

type ReferralOverview struct {
	Referral models.Referral          `json:"referral"`
	Payments []models.ReferralPayment `json:"payments"`
	Signups  []models.ReferralSignup  `json:"signups"`
}

// GetOverview returns the caller's referral with its payment and signup
// history. A missing referral is a valid empty state, not an error.
func (s *ReferralService) GetOverview(userID string) (*ReferralOverview, error) {
	var referral models.Referral
	err := s.DB.Where("user_id = ?", userID).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	overview := ReferralOverview{Referral: referral}
	if err := s.DB.Where("referral_id = ?", referral.ID).Order("payment_date DESC").Find(&overview.Payments).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("referral_id = ?", referral.ID).Order("signup_date DESC").Find(&overview.Signups).Error; err != nil {
		return nil, err
	}
	return &overview, nil
}

type SignupPayload struct {
	ReferralCode   string `json:"referral_code"`
	ReferredUserID string `json:"referred_user_id"`
}

// EnqueueSignup hands signup attribution to the worker.
func (s *ReferralService) EnqueueSignup(code, referredUserID string) error {
	var referral models.Referral
	if err := s.DB.Where("referral_code = ? AND is_active = ?", code, true).First(&referral).Error; err != nil {
		return ErrNotFound
	}

	task, err := NewReferralSignupTask(SignupPayload{ReferralCode: code, ReferredUserID: referredUserID})
	if err != nil {
		return err
	}
	_, err = s.Queue.Enqueue(task)
	return err
}

type PaymentPayload struct {
	ReferralID string          `json:"referral_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// RecordPayment inserts a manual commission payment and queues the
// counter update.
func (s *ReferralService) RecordPayment(referralID string, amount decimal.Decimal, notes string) (*models.ReferralPayment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amount must be greater than zero")
	}

	var referral models.Referral
	if err := s.DB.Where("id = ?", referralID).First(&referral).Error; err != nil {
		return nil, ErrNotFound
	}

	payment := models.ReferralPayment{
		ReferralID:  referral.ID,
		Amount:      amount,
		PaymentDate: time.Now(),
		Notes:       notes,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, err
	}

	task, err := NewReferralPaymentTask(PaymentPayload{ReferralID: referral.ID, Amount: amount})
	if err != nil {
		return nil, err
	}
	if _, err := s.Queue.Enqueue(task); err != nil {
		log.Printf("referral payment %s recorded but counter update not queued: %v", payment.ID, err)
	}

	return &payment, nil
}

type InvitationPayload struct {
	ReferralCode string `json:"referral_code"`
	ReferralLink string `json:"referral_link"`
	ToEmail      string `json:"to_email"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
}

// SendInvitation queues an invitation email carrying the caller's
// referral link.
func (s *ReferralService) SendInvitation(userID, toEmail, subject, message string) error {
	var referral models.Referral
	if err := s.DB.Where("user_id = ?", userID).First(&referral).Error; err != nil {
		return ErrNotFound
	}

	task, err := NewInvitationTask(InvitationPayload{
		ReferralCode: referral.ReferralCode,
		ReferralLink: referral.ReferralLink,
		ToEmail:      toEmail,
		Subject:      subject,
		Message:      message,
	})
	if err != nil {
		return err
	}
	_, err = s.Queue.Enqueue(task)
	return err
}

// RecordDeposit attributes a referred user's first completed deposit:
// the signup row gets the deposit figures and the referral moves from
// pending to deposited. Users who were not referred are a no-op.
func (s *ReferralService) RecordDeposit(referredUserID string, amount decimal.Decimal) error {
	var signup models.ReferralSignup
	err := s.DB.Where("referred_user_id = ?", referredUserID).First(&signup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !signup.DepositAmount.IsZero() {
		return nil
	}

	now := time.Now()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&signup).Updates(map[string]interface{}{
			"deposit_amount": amount,
			"deposit_date":   &now,
		}).Error; err != nil {
			return err
		}

		var referral models.Referral
		if err := tx.Where("id = ?", signup.ReferralID).First(&referral).Error; err != nil {
			return err
		}
		if !CanTransitionReferral(referral.Status, models.ReferralStatusDeposited) {
			return nil
		}
		return tx.Model(&referral).Updates(map[string]interface{}{
			"status":          models.ReferralStatusDeposited,
			"initial_deposit": amount,
			"deposit_date":    &now,
		}).Error
	})
}

// OverviewByID is the admin view of one referral with its payment and
// signup history.
func (s *ReferralService) OverviewByID(referralID string) (*ReferralOverview, error) {
	var referral models.Referral
	if err := s.DB.Where("id = ?", referralID).First(&referral).Error; err != nil {
		return nil, ErrNotFound
	}

	overview := ReferralOverview{Referral: referral}
	if err := s.DB.Where("referral_id = ?", referral.ID).Order("payment_date DESC").Find(&overview.Payments).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("referral_id = ?", referral.ID).Order("signup_date DESC").Find(&overview.Signups).Error; err != nil {
		return nil, err
	}
	return &overview, nil
}

// UpdateStatus moves a referral forward through its lifecycle.
func (s *ReferralService) UpdateStatus(referralID, newStatus string) (*models.Referral, error) {
	var referral models.Referral
	if err := s.DB.Where("id = ?", referralID).First(&referral).Error; err != nil {
		return nil, ErrNotFound
	}

	if !CanTransitionReferral(referral.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	if err := s.DB.Model(&referral).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

type ListReferralsDTO struct {
	Status string
	Page   int
	Limit  int
}

func (s *ReferralService) ListAll(data ListReferralsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit)

	query := s.DB.Model(&models.Referral{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	query.Count(&total)

	var list []models.Referral
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(list, total, page, limit, "Referrals fetched successfully"), nil
}

// ResetYearToDate zeroes every YTD earnings counter. Scheduled for the
// first of January.
func (s *ReferralService) ResetYearToDate() error {
	return s.DB.Model(&models.Referral{}).
		Where("year_to_date_earnings > 0").
		Update("year_to_date_earnings", decimal.Zero).Error
}

// StartScheduler registers the yearly YTD rollover.
func (s *ReferralService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 0 1 1 *", func() {
		log.Println("Running scheduled year-to-date earnings reset...")
		if err := s.ResetYearToDate(); err != nil {
			log.Printf("Error in ResetYearToDate: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling YTD reset: %v", err)
		return
	}
	c.Start()
	log.Println("Referral Scheduler started (Yearly on Jan 1)")
}
