package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"account-service/internal/models"
	"account-service/pkg/common"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNameNotCandidate  = errors.New("selected name is not one of the submitted candidates")
	ErrMissingIncorpData = errors.New("registration number and incorporation date are required")
)

// Admin actions on a company request.
const (
	CompanyActionSelectName = "select_name"
	CompanyActionApprove    = "approve"
	CompanyActionReject     = "reject"
)

// CompanyTransitions is the authoritative transition table for company
// requests. Anything not listed here is illegal, regardless of which
// buttons a client chooses to render.
var CompanyTransitions = map[string][]string{
	models.CompanyRequestStatusPending:      {models.CompanyRequestStatusProcessing, models.CompanyRequestStatusNameSelected, models.CompanyRequestStatusRejected},
	models.CompanyRequestStatusProcessing:   {models.CompanyRequestStatusNameSelected, models.CompanyRequestStatusRejected},
	models.CompanyRequestStatusNameSelected: {models.CompanyRequestStatusCompleted, models.CompanyRequestStatusRejected},
	models.CompanyRequestStatusCompleted:    {},
	models.CompanyRequestStatusRejected:     {},
}

// CanTransitionCompany reports whether a company request may move from
// one status to another.
func CanTransitionCompany(from, to string) bool {
	for _, next := range CompanyTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CompanyActions lists the admin actions legal for a request in the
// given status.
func CompanyActions(status string) []string {
	switch status {
	case models.CompanyRequestStatusPending, models.CompanyRequestStatusProcessing:
		return []string{CompanyActionSelectName, CompanyActionReject}
	case models.CompanyRequestStatusNameSelected:
		return []string{CompanyActionApprove, CompanyActionReject}
	default:
		return []string{}
	}
}

type CompanyService struct {
	DB *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{DB: db}
}

type SubmitCompanyRequestDTO struct {
	CompanyNames        []string
	Jurisdiction        string
	BusinessType        string
	BusinessDescription string
	ContactEmail        string
}

func (s *CompanyService) SubmitRequest(userID string, data SubmitCompanyRequestDTO) (*models.CompanyRequest, error) {
	var names []string
	for _, n := range data.CompanyNames {
		if strings.TrimSpace(n) != "" {
			names = append(names, strings.TrimSpace(n))
		}
	}
	if len(names) == 0 {
		return nil, errors.New("at least one candidate company name is required")
	}
	if data.Jurisdiction == "" || data.BusinessType == "" || data.ContactEmail == "" {
		return nil, errors.New("jurisdiction, business type and contact email are required")
	}

	request := models.CompanyRequest{
		UserID:              userID,
		CompanyNames:        names,
		Jurisdiction:        data.Jurisdiction,
		BusinessType:        data.BusinessType,
		BusinessDescription: data.BusinessDescription,
		ContactEmail:        data.ContactEmail,
		Status:              models.CompanyRequestStatusPending,
		SubmittedAt:         time.Now(),
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *CompanyService) ListRequests(userID string) ([]models.CompanyRequest, error) {
	var requests []models.CompanyRequest
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (s *CompanyService) ListCompanies(userID string) ([]models.Company, error) {
	var companies []models.Company
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&companies).Error
	return companies, err
}

// AttachDocuments appends uploaded registration documents to the owner's
// request.
func (s *CompanyService) AttachDocuments(userID, requestID string, docs []models.DocumentMeta) (*models.CompanyRequest, error) {
	var request models.CompanyRequest
	if err := s.DB.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	request.UploadedDocuments = append(request.UploadedDocuments, docs...)
	if err := s.DB.Model(&request).Update("uploaded_documents", request.UploadedDocuments).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

type ListCompanyRequestsDTO struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (s *CompanyService) ListAllRequests(data ListCompanyRequestsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit)

	query := s.DB.Model(&models.CompanyRequest{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}
	if data.Search != "" {
		query = query.Where("contact_email LIKE ? OR jurisdiction LIKE ?", "%"+data.Search+"%", "%"+data.Search+"%")
	}

	var total int64
	query.Count(&total)

	var list []models.CompanyRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(list, total, page, limit, "Company requests fetched successfully"), nil
}

// SelectName records the admin-chosen name from the candidate list and
// moves the request to name_selected.
func (s *CompanyService) SelectName(requestID, companyName, adminNotes string) (*models.CompanyRequest, error) {
	var request models.CompanyRequest
	if err := s.DB.Where("id = ?", requestID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	if !CanTransitionCompany(request.Status, models.CompanyRequestStatusNameSelected) {
		return nil, ErrInvalidTransition
	}

	found := false
	for _, candidate := range request.CompanyNames {
		if candidate == companyName {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNameNotCandidate
	}

	updates := map[string]interface{}{
		"selected_company_name": companyName,
		"status":                models.CompanyRequestStatusNameSelected,
		"admin_notes":           adminNotes,
	}
	if err := s.DB.Model(&request).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

type ApproveCompanyRequestDTO struct {
	RegistrationNumber string
	IncorporationDate  string
	ContactPhone       string
	AdminNotes         string
}

// Approve creates the incorporated company and completes the request.
// Registration details are validated before anything is written.
//
// TODO: wrap the company insert and the request update in a single
// transaction; a failure between the two leaves a company without a
// completed request.
func (s *CompanyService) Approve(requestID string, data ApproveCompanyRequestDTO) (*models.Company, error) {
	var request models.CompanyRequest
	if err := s.DB.Where("id = ?", requestID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	if !CanTransitionCompany(request.Status, models.CompanyRequestStatusCompleted) {
		return nil, ErrInvalidTransition
	}
	if data.RegistrationNumber == "" || data.IncorporationDate == "" {
		return nil, ErrMissingIncorpData
	}

	companyName := request.SelectedCompanyName
	if companyName == "" && len(request.CompanyNames) > 0 {
		companyName = request.CompanyNames[0]
	}

	company := models.Company{
		UserID:             request.UserID,
		CompanyName:        companyName,
		RegistrationNumber: data.RegistrationNumber,
		IncorporationDate:  data.IncorporationDate,
		Jurisdiction:       request.Jurisdiction,
		Status:             models.CompanyStatusActive,
		ContactEmail:       request.ContactEmail,
		ContactPhone:       data.ContactPhone,
	}
	if err := s.DB.Create(&company).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":      models.CompanyRequestStatusCompleted,
		"admin_notes": data.AdminNotes,
	}
	if err := s.DB.Model(&request).Updates(updates).Error; err != nil {
		log.Printf("company %s created but request %s not completed: %v", company.ID, request.ID, err)
		return nil, err
	}

	return &company, nil
}

// Reject is terminal and legal from any non-terminal state.
func (s *CompanyService) Reject(requestID, adminNotes string) (*models.CompanyRequest, error) {
	var request models.CompanyRequest
	if err := s.DB.Where("id = ?", requestID).First(&request).Error; err != nil {
		return nil, ErrNotFound
	}

	if !CanTransitionCompany(request.Status, models.CompanyRequestStatusRejected) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":      models.CompanyRequestStatusRejected,
		"admin_notes": adminNotes,
	}
	if err := s.DB.Model(&request).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
