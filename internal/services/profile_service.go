package services

import (
	"errors"

	"account-service/internal/models"
	"account-service/pkg/common"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// EnsureProfile returns the profile for a user, creating the unverified
// shell row on first sight (profiles are never hard-deleted afterwards).
func (s *ProfileService) EnsureProfile(userID, email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{
		UserID: userID,
		Email:  email,
		Role:   "user",
		Status: models.ProfileStatusUnverified,
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) GetByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrNotFound
	}
	return &profile, nil
}

type UpdateProfileDTO struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zip_code"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile applies the contact-detail fields a user may edit
// directly, outside the onboarding wizard.
func (s *ProfileService) UpdateProfile(userID string, data UpdateProfileDTO) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{}
	if data.FullName != nil {
		updates["full_name"] = *data.FullName
	}
	if data.Phone != nil {
		updates["phone"] = *data.Phone
	}
	if data.Address != nil {
		updates["address"] = *data.Address
	}
	if data.City != nil {
		updates["city"] = *data.City
	}
	if data.State != nil {
		updates["state"] = *data.State
	}
	if data.ZipCode != nil {
		updates["zip_code"] = *data.ZipCode
	}
	if data.AvatarURL != nil {
		updates["avatar_url"] = *data.AvatarURL
	}
	if len(updates) == 0 {
		return &profile, nil
	}

	if err := s.DB.Model(&profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

type ListProfilesDTO struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (s *ProfileService) ListAll(data ListProfilesDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit)

	query := s.DB.Model(&models.Profile{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}
	if data.Search != "" {
		query = query.Where("full_name LIKE ? OR email LIKE ?", "%"+data.Search+"%", "%"+data.Search+"%")
	}

	var total int64
	query.Count(&total)

	var list []models.Profile
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(list, total, page, limit, "Profiles fetched successfully"), nil
}

var validProfileStatuses = map[string]bool{
	models.ProfileStatusUnverified: true,
	models.ProfileStatusPending:    true,
	models.ProfileStatusVerified:   true,
	models.ProfileStatusRejected:   true,
	models.ProfileStatusBlocked:    true,
}

// SetStatus is the admin override for a profile's verification status
// (blocking a user, reinstating one).
func (s *ProfileService) SetStatus(userID, status string) (*models.Profile, error) {
	if !validProfileStatuses[status] {
		return nil, errors.New("unknown profile status")
	}

	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrNotFound
	}

	if err := s.DB.Model(&profile).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetRole grants or revokes the admin role.
func (s *ProfileService) SetRole(userID, role string) (*models.Profile, error) {
	if role != "user" && role != "admin" {
		return nil, errors.New("unknown role")
	}

	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrNotFound
	}

	if err := s.DB.Model(&profile).Update("role", role).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
