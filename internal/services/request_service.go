package services

import (
	"encoding/json"
	"errors"
	"log"

	"account-service/internal/models"
	"account-service/pkg/common"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestTransitions is the authoritative transition table for deposit
// and withdrawal requests.
var RequestTransitions = map[string][]string{
	models.RequestStatusPending:    {models.RequestStatusProcessing, models.RequestStatusCompleted, models.RequestStatusRejected},
	models.RequestStatusProcessing: {models.RequestStatusCompleted, models.RequestStatusRejected},
	models.RequestStatusCompleted:  {},
	models.RequestStatusRejected:   {},
}

func CanTransitionRequest(from, to string) bool {
	for _, next := range RequestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type RequestService struct {
	DB *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db}
}

type CreateRequestDTO struct {
	Type          string
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Description   string
}

func (s *RequestService) CreateRequest(userID string, data CreateRequestDTO) (*models.Request, error) {
	if data.Type != models.RequestTypeDeposit && data.Type != models.RequestTypeWithdrawal {
		return nil, errors.New("type must be deposit or withdrawal")
	}
	if data.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amount must be greater than zero")
	}
	if data.PaymentMethod == "" {
		return nil, errors.New("payment method is required")
	}

	currency := data.Currency
	if currency == "" {
		currency = "USD"
	}

	request := models.Request{
		UserID:        userID,
		Type:          data.Type,
		Amount:        data.Amount,
		Currency:      currency,
		PaymentMethod: data.PaymentMethod,
		Description:   data.Description,
		Status:        models.RequestStatusPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	s.appendAudit(request.ID, models.AuditActionInsert, nil, &request, userID, "")
	return &request, nil
}

func (s *RequestService) ListUserRequests(userID, status string) ([]models.Request, error) {
	var requests []models.Request
	query := s.DB.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (s *RequestService) GetRequest(userID, requestID string) (*models.Request, error) {
	var request models.Request
	if err := s.DB.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}
	return &request, nil
}

// AttachDocument stores the descriptor of an uploaded supporting file.
func (s *RequestService) AttachDocument(userID, requestID string, doc models.RequestDocument) (*models.RequestDocument, error) {
	var request models.Request
	if err := s.DB.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	doc.RequestID = request.ID
	doc.UserID = userID
	if err := s.DB.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *RequestService) ListDocuments(userID, requestID string) ([]models.RequestDocument, error) {
	var docs []models.RequestDocument
	err := s.DB.Where("request_id = ? AND user_id = ?", requestID, userID).Order("uploaded_at DESC").Find(&docs).Error
	return docs, err
}

// AuditTrail returns the append-only mutation history of one request,
// newest first.
func (s *RequestService) AuditTrail(requestID string) ([]models.RequestAuditLog, error) {
	var entries []models.RequestAuditLog
	err := s.DB.Where("request_id = ?", requestID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

type ListRequestsDTO struct {
	Status string
	Type   string
	UserID string
	From   string
	To     string
	Page   int
	Limit  int
}

// ListAllRequests is the admin view: filtered page plus the aggregate
// amount over the date-range filter.
func (s *RequestService) ListAllRequests(data ListRequestsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit)

	query := s.DB.Model(&models.Request{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}
	if data.Type != "" {
		query = query.Where("type = ?", data.Type)
	}
	if data.UserID != "" {
		query = query.Where("user_id = ?", data.UserID)
	}
	if data.From != "" && data.To != "" {
		query = query.Where("created_at BETWEEN ? AND ?", data.From, data.To)
	}

	var total int64
	query.Count(&total)

	var list []models.Request
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	// Aggregate total over the date filter only, not the other filters.
	var totalAmount float64
	sumQuery := s.DB.Model(&models.Request{})
	if data.From != "" && data.To != "" {
		sumQuery = sumQuery.Where("created_at BETWEEN ? AND ?", data.From, data.To)
	}
	sumQuery.Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount)

	return common.PaginateResponse(map[string]interface{}{
		"data":        list,
		"totalAmount": totalAmount,
	}, total, page, limit, "Requests fetched successfully"), nil
}

// UpdateStatus advances a request through its workflow. The transition
// table is the only authority; every successful change appends an audit
// entry with before/after snapshots.
func (s *RequestService) UpdateStatus(requestID, newStatus, actorID, notes string) (*models.Request, error) {
	var request models.Request
	if err := s.DB.Where("id = ?", requestID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	if !CanTransitionRequest(request.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	before := request
	updates := map[string]interface{}{
		"status": newStatus,
	}
	if notes != "" {
		updates["admin_notes"] = notes
	}
	if err := s.DB.Model(&request).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.appendAudit(request.ID, models.AuditActionUpdate, &before, &request, actorID, notes)
	return &request, nil
}

func (s *RequestService) appendAudit(requestID, action string, oldValue, newValue *models.Request, actorID, reason string) {
	entry := models.RequestAuditLog{
		RequestID: requestID,
		Action:    action,
		ActorID:   actorID,
		Reason:    reason,
	}
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			entry.OldValues = string(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValues = string(b)
		}
	}

	// The trail must never block the mutation it describes.
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to append audit entry for request %s: %v", requestID, err)
	}
}
