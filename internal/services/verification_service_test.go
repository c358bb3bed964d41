package services

import (
	"testing"

	"account-service/internal/models"
)

func seedVerification(t *testing.T, svc *VerificationService, userID string) *models.VerificationRequest {
	t.Helper()
	testDB.Create(&models.Profile{UserID: userID, Email: userID + "@example.com", Role: "user", Status: models.ProfileStatusUnverified})

	request, err := svc.Submit(userID, []models.DocumentMeta{
		{Name: "passport.jpg", Path: "verification-documents/" + userID + "/passport.jpg", Type: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	return request
}

func TestSubmitRequiresDocumentsAndSingleOpenRequest(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewVerificationService(testDB)

	if _, err := svc.Submit("u-ver-1", nil); err == nil {
		t.Fatal("expected error without documents")
	}

	seedVerification(t, svc, "u-ver-1")

	var profile models.Profile
	testDB.First(&profile, "user_id = ?", "u-ver-1")
	if profile.Status != models.ProfileStatusPending {
		t.Errorf("expected profile pending, got %s", profile.Status)
	}

	_, err := svc.Submit("u-ver-1", []models.DocumentMeta{{Name: "again.jpg"}})
	if err == nil {
		t.Fatal("second open request must be refused")
	}
}

func TestReviewApproveMirrorsProfile(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewVerificationService(testDB)
	request := seedVerification(t, svc, "u-ver-2")

	reviewed, err := svc.Review(request.ID, "admin-1", VerificationActionApprove, "documents look good")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reviewed.ReviewedBy != "admin-1" || reviewed.ReviewedAt == nil {
		t.Error("reviewer stamp missing")
	}

	var reloaded models.VerificationRequest
	testDB.First(&reloaded, "id = ?", request.ID)
	if reloaded.Status != models.VerificationStatusApproved {
		t.Errorf("expected approved, got %s", reloaded.Status)
	}

	var profile models.Profile
	testDB.First(&profile, "user_id = ?", "u-ver-2")
	if profile.Status != models.ProfileStatusVerified {
		t.Errorf("expected verified profile, got %s", profile.Status)
	}

	var action models.AdminAction
	if err := testDB.First(&action, "verification_request_id = ?", request.ID).Error; err != nil {
		t.Fatalf("no admin action recorded: %v", err)
	}
	if action.Action != VerificationActionApprove || action.AdminID != "admin-1" {
		t.Errorf("unexpected audit row: %+v", action)
	}

	// Approval is terminal.
	if _, err := svc.Review(request.ID, "admin-1", VerificationActionReject, ""); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReviewRequestInfoKeepsProfilePending(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewVerificationService(testDB)
	request := seedVerification(t, svc, "u-ver-3")

	if _, err := svc.Review(request.ID, "admin-2", VerificationActionRequestInfo, "need the back of the ID"); err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	var profile models.Profile
	testDB.First(&profile, "user_id = ?", "u-ver-3")
	if profile.Status != models.ProfileStatusPending {
		t.Errorf("profile must stay pending, got %s", profile.Status)
	}

	var reloaded models.VerificationRequest
	testDB.First(&reloaded, "id = ?", request.ID)
	if reloaded.Status != models.VerificationStatusMoreInfo {
		t.Errorf("expected more_info, got %s", reloaded.Status)
	}

	// more_info can no longer loop back to itself.
	if _, err := svc.Review(request.ID, "admin-2", VerificationActionRequestInfo, ""); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Review(request.ID, "admin-2", VerificationActionReject, "blurry"); err != nil {
		t.Fatalf("more_info -> rejected failed: %v", err)
	}
	testDB.First(&profile, "user_id = ?", "u-ver-3")
	if profile.Status != models.ProfileStatusRejected {
		t.Errorf("expected rejected profile, got %s", profile.Status)
	}
}

func TestVerificationActionsPerStatus(t *testing.T) {
	got := VerificationActions(models.VerificationStatusPending)
	if len(got) != 3 {
		t.Errorf("pending should offer 3 actions, got %v", got)
	}
	got = VerificationActions(models.VerificationStatusMoreInfo)
	if len(got) != 2 {
		t.Errorf("more_info should offer 2 actions, got %v", got)
	}
	if len(VerificationActions(models.VerificationStatusApproved)) != 0 {
		t.Error("approved offers no actions")
	}
}
