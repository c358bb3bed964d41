package services

import (
	"strings"
	"testing"
	"time"

	"account-service/internal/models"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// recordingEnqueuer captures tasks instead of talking to redis.
type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestGenerateIsIdempotent(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	queue := &recordingEnqueuer{}
	svc := NewReferralService(testDB, queue)

	testDB.Create(&models.Profile{UserID: "u-ref-1", FullName: "Grace Hopper", Email: "grace@example.com"})

	first, err := svc.Generate("u-ref-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first.ReferralCode == "" {
		t.Fatal("expected a referral code")
	}
	if !strings.Contains(first.ReferralLink, "?ref="+first.ReferralCode) {
		t.Errorf("link %q does not carry the code", first.ReferralLink)
	}
	if first.Status != models.ReferralStatusPending {
		t.Errorf("expected pending, got %s", first.Status)
	}

	second, err := svc.Generate("u-ref-1")
	if err != nil {
		t.Fatalf("repeat Generate failed: %v", err)
	}
	if second.ID != first.ID || second.ReferralCode != first.ReferralCode {
		t.Error("repeat generate must return the same referral")
	}

	var count int64
	testDB.Model(&models.Referral{}).Where("user_id = ?", "u-ref-1").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 referral row, got %d", count)
	}
}

func TestGenerateRequiresProfile(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB, &recordingEnqueuer{})
	if _, err := svc.Generate("ghost"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEnqueueSignupChecksCode(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	queue := &recordingEnqueuer{}
	svc := NewReferralService(testDB, queue)

	testDB.Create(&models.Profile{UserID: "u-ref-2", FullName: "Ada", Email: "ada@example.com"})
	referral, _ := svc.Generate("u-ref-2")

	if err := svc.EnqueueSignup("NOPE1234", "new-user"); err != ErrNotFound {
		t.Fatalf("unknown code must fail, got %v", err)
	}
	if len(queue.tasks) != 0 {
		t.Fatal("nothing should be queued for an unknown code")
	}

	if err := svc.EnqueueSignup(referral.ReferralCode, "new-user"); err != nil {
		t.Fatalf("EnqueueSignup failed: %v", err)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].Type() != TypeReferralSignup {
		t.Fatalf("expected one %s task, got %v", TypeReferralSignup, queue.tasks)
	}
}

func TestRecordPaymentQueuesCounterUpdate(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	queue := &recordingEnqueuer{}
	svc := NewReferralService(testDB, queue)

	testDB.Create(&models.Profile{UserID: "u-ref-3", FullName: "Lin", Email: "lin@example.com"})
	referral, _ := svc.Generate("u-ref-3")

	if _, err := svc.RecordPayment(referral.ID, decimal.Zero, ""); err == nil {
		t.Fatal("zero amount must be refused")
	}

	payment, err := svc.RecordPayment(referral.ID, decimal.NewFromFloat(125.50), "Q3 commission")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if payment.ReferralID != referral.ID {
		t.Error("payment not linked to referral")
	}
	if len(queue.tasks) != 1 || queue.tasks[0].Type() != TypeReferralPayment {
		t.Fatalf("expected one %s task", TypeReferralPayment)
	}
}

func TestReferralStatusLifecycle(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB, &recordingEnqueuer{})
	testDB.Create(&models.Profile{UserID: "u-ref-4", FullName: "Kay", Email: "kay@example.com"})
	referral, _ := svc.Generate("u-ref-4")

	if _, err := svc.UpdateStatus(referral.ID, models.ReferralStatusEarning); err != ErrInvalidTransition {
		t.Fatalf("pending -> earning must be illegal, got %v", err)
	}

	for _, next := range []string{
		models.ReferralStatusDeposited,
		models.ReferralStatusEarning,
		models.ReferralStatusCompleted,
	} {
		if _, err := svc.UpdateStatus(referral.ID, next); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	if _, err := svc.UpdateStatus(referral.ID, models.ReferralStatusPending); err != ErrInvalidTransition {
		t.Errorf("completed is terminal, got %v", err)
	}
}

func TestRecordDepositFlipsPendingOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB, &recordingEnqueuer{})
	testDB.Create(&models.Profile{UserID: "u-ref-6", FullName: "Mia", Email: "mia@example.com"})
	referral, _ := svc.Generate("u-ref-6")
	testDB.Create(&models.ReferralSignup{
		ReferralID:     referral.ID,
		ReferredUserID: "newbie-6",
		SignupDate:     time.Now(),
	})

	// Users without a signup row are a no-op.
	if err := svc.RecordDeposit("stranger", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("unattributed deposit must be a no-op, got %v", err)
	}

	if err := svc.RecordDeposit("newbie-6", decimal.NewFromInt(250)); err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}

	var reloaded models.Referral
	testDB.First(&reloaded, "id = ?", referral.ID)
	if reloaded.Status != models.ReferralStatusDeposited {
		t.Errorf("expected deposited status, got %s", reloaded.Status)
	}
	if !reloaded.InitialDeposit.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected initial deposit 250, got %s", reloaded.InitialDeposit)
	}

	var signup models.ReferralSignup
	testDB.First(&signup, "referred_user_id = ?", "newbie-6")
	if !signup.DepositAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected signup deposit 250, got %s", signup.DepositAmount)
	}

	// A later deposit by the same user never overwrites the first.
	if err := svc.RecordDeposit("newbie-6", decimal.NewFromInt(999)); err != nil {
		t.Fatalf("repeat RecordDeposit failed: %v", err)
	}
	testDB.First(&signup, "referred_user_id = ?", "newbie-6")
	if !signup.DepositAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("first deposit must be kept, got %s", signup.DepositAmount)
	}
}

func TestResetYearToDate(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB, &recordingEnqueuer{})
	testDB.Create(&models.Referral{
		UserID:             "u-ref-5",
		ReferralCode:       "KAYX1234",
		ReferralLink:       "https://example.com/auth?ref=KAYX1234",
		TotalEarnings:      decimal.NewFromInt(900),
		YearToDateEarnings: decimal.NewFromInt(300),
	})

	if err := svc.ResetYearToDate(); err != nil {
		t.Fatalf("ResetYearToDate failed: %v", err)
	}

	var reloaded models.Referral
	testDB.First(&reloaded, "user_id = ?", "u-ref-5")
	if !reloaded.YearToDateEarnings.IsZero() {
		t.Errorf("expected zero YTD, got %s", reloaded.YearToDateEarnings)
	}
	if !reloaded.TotalEarnings.Equal(decimal.NewFromInt(900)) {
		t.Errorf("lifetime earnings must be untouched, got %s", reloaded.TotalEarnings)
	}
}
