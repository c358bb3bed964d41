package services

import (
	"errors"
	"time"

	"account-service/internal/models"
	"account-service/pkg/common"

	"gorm.io/gorm"
)

// Admin actions recorded against verification requests.
const (
	VerificationActionApprove     = "approve"
	VerificationActionReject      = "reject"
	VerificationActionRequestInfo = "request_info"
)

var verificationTransitions = map[string][]string{
	models.VerificationStatusPending:  {models.VerificationStatusApproved, models.VerificationStatusRejected, models.VerificationStatusMoreInfo},
	models.VerificationStatusMoreInfo: {models.VerificationStatusApproved, models.VerificationStatusRejected},
	models.VerificationStatusApproved: {},
	models.VerificationStatusRejected: {},
}

func CanTransitionVerification(from, to string) bool {
	for _, next := range verificationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type VerificationService struct {
	DB *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{DB: db}
}

// Submit opens a verification request with the uploaded document
// descriptors and marks the profile pending review. A user may only have
// one open request at a time.
func (s *VerificationService) Submit(userID string, docs []models.DocumentMeta) (*models.VerificationRequest, error) {
	if len(docs) == 0 {
		return nil, errors.New("at least one document is required")
	}

	var open int64
	s.DB.Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.VerificationStatusPending, models.VerificationStatusMoreInfo}).
		Count(&open)
	if open > 0 {
		return nil, errors.New("a verification request is already under review")
	}

	request := models.VerificationRequest{
		UserID:      userID,
		Documents:   docs,
		Status:      models.VerificationStatusPending,
		SubmittedAt: time.Now(),
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Profile{}).Where("user_id = ?", userID).
		Update("status", models.ProfileStatusPending).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// GetLatest returns the user's most recent request, nil when none exist.
func (s *VerificationService) GetLatest(userID string) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	err := s.DB.Where("user_id = ?", userID).Order("submitted_at DESC").First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

type ListVerificationsDTO struct {
	Status string
	Page   int
	Limit  int
}

func (s *VerificationService) ListAll(data ListVerificationsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit)

	query := s.DB.Model(&models.VerificationRequest{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	query.Count(&total)

	var list []models.VerificationRequest
	if err := query.Order("submitted_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(list, total, page, limit, "Verification requests fetched successfully"), nil
}

// Review applies an admin decision: the request status, the reviewer
// stamp, the mirrored profile status and the admin-action audit row are
// written together.
func (s *VerificationService) Review(requestID, adminID, action, note string) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := s.DB.Where("id = ?", requestID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	var newStatus, profileStatus string
	switch action {
	case VerificationActionApprove:
		newStatus = models.VerificationStatusApproved
		profileStatus = models.ProfileStatusVerified
	case VerificationActionReject:
		newStatus = models.VerificationStatusRejected
		profileStatus = models.ProfileStatusRejected
	case VerificationActionRequestInfo:
		newStatus = models.VerificationStatusMoreInfo
	default:
		return nil, errors.New("unknown review action")
	}

	if !CanTransitionVerification(request.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      newStatus,
			"reviewed_by": adminID,
			"reviewed_at": &now,
		}
		if note != "" {
			updates["reason"] = note
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return err
		}

		if profileStatus != "" {
			if err := tx.Model(&models.Profile{}).Where("user_id = ?", request.UserID).
				Update("status", profileStatus).Error; err != nil {
				return err
			}
		}

		audit := models.AdminAction{
			AdminID:               adminID,
			UserID:                request.UserID,
			VerificationRequestID: request.ID,
			Action:                action,
			Note:                  note,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// Actions returns the admin actions legal for a request status.
func VerificationActions(status string) []string {
	switch status {
	case models.VerificationStatusPending:
		return []string{VerificationActionApprove, VerificationActionReject, VerificationActionRequestInfo}
	case models.VerificationStatusMoreInfo:
		return []string{VerificationActionApprove, VerificationActionReject}
	default:
		return []string{}
	}
}
