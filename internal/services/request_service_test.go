package services

import (
	"encoding/json"
	"testing"

	"account-service/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateRequestValidation(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	cases := []struct {
		name string
		dto  CreateRequestDTO
	}{
		{"unknown type", CreateRequestDTO{Type: "transfer", Amount: decimal.NewFromInt(100), PaymentMethod: "wire"}},
		{"zero amount", CreateRequestDTO{Type: models.RequestTypeDeposit, Amount: decimal.Zero, PaymentMethod: "wire"}},
		{"negative amount", CreateRequestDTO{Type: models.RequestTypeDeposit, Amount: decimal.NewFromInt(-5), PaymentMethod: "wire"}},
		{"missing payment method", CreateRequestDTO{Type: models.RequestTypeDeposit, Amount: decimal.NewFromInt(100)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateRequest("u-req-1", tc.dto); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	var count int64
	testDB.Model(&models.Request{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected requests must not be written, found %d", count)
	}
}

func TestCreateRequestWritesInsertAudit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	request, err := svc.CreateRequest("u-req-2", CreateRequestDTO{
		Type:          models.RequestTypeDeposit,
		Amount:        decimal.NewFromFloat(2500.50),
		PaymentMethod: "wire",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if request.Status != models.RequestStatusPending {
		t.Errorf("expected pending, got %s", request.Status)
	}
	if request.Currency != "USD" {
		t.Errorf("expected USD default, got %s", request.Currency)
	}

	trail, err := svc.AuditTrail(request.ID)
	if err != nil {
		t.Fatalf("AuditTrail failed: %v", err)
	}
	if len(trail) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(trail))
	}
	if trail[0].Action != models.AuditActionInsert {
		t.Errorf("expected insert action, got %s", trail[0].Action)
	}
	if trail[0].OldValues != "" {
		t.Errorf("insert entry must have no old values, got %q", trail[0].OldValues)
	}
}

func TestUpdateStatusGuardsTransitions(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	request, err := svc.CreateRequest("u-req-3", CreateRequestDTO{
		Type:          models.RequestTypeWithdrawal,
		Amount:        decimal.NewFromInt(800),
		PaymentMethod: "bank_transfer",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	updated, err := svc.UpdateStatus(request.ID, models.RequestStatusProcessing, "admin-1", "verifying funds")
	if err != nil {
		t.Fatalf("pending -> processing failed: %v", err)
	}
	if updated.Status != models.RequestStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(request.ID, models.RequestStatusPending, "admin-1", ""); err != ErrInvalidTransition {
		t.Errorf("processing -> pending must be illegal, got %v", err)
	}

	if _, err := svc.UpdateStatus(request.ID, models.RequestStatusCompleted, "admin-1", "paid out"); err != nil {
		t.Fatalf("processing -> completed failed: %v", err)
	}

	if _, err := svc.UpdateStatus(request.ID, models.RequestStatusProcessing, "admin-1", ""); err != ErrInvalidTransition {
		t.Errorf("completed is terminal, got %v", err)
	}

	if _, err := svc.UpdateStatus("no-such-id", models.RequestStatusProcessing, "admin-1", ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusAuditSnapshots(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	request, _ := svc.CreateRequest("u-req-4", CreateRequestDTO{
		Type:          models.RequestTypeDeposit,
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: "crypto",
	})

	if _, err := svc.UpdateStatus(request.ID, models.RequestStatusCompleted, "admin-2", "confirmed on chain"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	trail, _ := svc.AuditTrail(request.ID)
	if len(trail) != 2 {
		t.Fatalf("expected insert + update entries, got %d", len(trail))
	}

	var update *models.RequestAuditLog
	for i := range trail {
		if trail[i].Action == models.AuditActionUpdate {
			update = &trail[i]
		}
	}
	if update == nil {
		t.Fatal("no update entry found")
	}
	if update.ActorID != "admin-2" {
		t.Errorf("expected actor admin-2, got %q", update.ActorID)
	}
	if update.Reason != "confirmed on chain" {
		t.Errorf("unexpected reason %q", update.Reason)
	}

	var before, after models.Request
	if err := json.Unmarshal([]byte(update.OldValues), &before); err != nil {
		t.Fatalf("old values not valid JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(update.NewValues), &after); err != nil {
		t.Fatalf("new values not valid JSON: %v", err)
	}
	if before.Status != models.RequestStatusPending || after.Status != models.RequestStatusCompleted {
		t.Errorf("snapshots wrong: %s -> %s", before.Status, after.Status)
	}
}

func TestListAllRequestsFiltersAndAggregate(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	svc.CreateRequest("u-a", CreateRequestDTO{Type: models.RequestTypeDeposit, Amount: decimal.NewFromInt(100), PaymentMethod: "wire"})
	svc.CreateRequest("u-a", CreateRequestDTO{Type: models.RequestTypeWithdrawal, Amount: decimal.NewFromInt(40), PaymentMethod: "wire"})
	svc.CreateRequest("u-b", CreateRequestDTO{Type: models.RequestTypeDeposit, Amount: decimal.NewFromInt(60), PaymentMethod: "crypto"})

	res, err := svc.ListAllRequests(ListRequestsDTO{Type: models.RequestTypeDeposit, Limit: 10})
	if err != nil {
		t.Fatalf("ListAllRequests failed: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("expected 2 deposits, got %d", res.Count)
	}

	payload, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map payload, got %T", res.Data)
	}
	// The aggregate covers the date filter only; with no date filter it
	// spans every request.
	if total := payload["totalAmount"].(float64); total != 200 {
		t.Errorf("expected totalAmount 200, got %v", total)
	}

	res, err = svc.ListAllRequests(ListRequestsDTO{UserID: "u-a", Limit: 10})
	if err != nil {
		t.Fatalf("ListAllRequests by user failed: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("expected 2 requests for u-a, got %d", res.Count)
	}
}

func TestAttachAndListDocumentsScopedToOwner(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewRequestService(testDB)

	request, _ := svc.CreateRequest("u-doc-1", CreateRequestDTO{
		Type:          models.RequestTypeDeposit,
		Amount:        decimal.NewFromInt(300),
		PaymentMethod: "wire",
	})

	if _, err := svc.AttachDocument("intruder", request.ID, models.RequestDocument{Filename: "x"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign request, got %v", err)
	}

	doc, err := svc.AttachDocument("u-doc-1", request.ID, models.RequestDocument{
		Filename:     "receipt.png",
		FileURL:      "request-documents/u-doc-1/receipt.png",
		FileType:     "image/png",
		FileSize:     2048,
		DocumentType: "receipt",
	})
	if err != nil {
		t.Fatalf("AttachDocument failed: %v", err)
	}
	if doc.RequestID != request.ID || doc.UserID != "u-doc-1" {
		t.Error("document not linked to request and owner")
	}

	docs, err := svc.ListDocuments("u-doc-1", request.ID)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}
