package handlers

import (
	"io"
	"net/http"
	"strconv"

	"account-service/internal/middleware"
	"account-service/internal/models"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	Companies *services.CompanyService
	Storage   *services.StorageClient
}

func NewCompanyHandler(companies *services.CompanyService, storage *services.StorageClient) *CompanyHandler {
	return &CompanyHandler{Companies: companies, Storage: storage}
}

type submitCompanyRequest struct {
	CompanyNames        []string `json:"company_names" binding:"required"`
	Jurisdiction        string   `json:"jurisdiction" binding:"required"`
	BusinessType        string   `json:"business_type" binding:"required"`
	BusinessDescription string   `json:"business_description"`
	ContactEmail        string   `json:"contact_email"`
}

func (h *CompanyHandler) Submit(c *gin.Context) {
	var req submitCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Companies.SubmitRequest(middleware.UserID(c), services.SubmitCompanyRequestDTO{
		CompanyNames:        req.CompanyNames,
		Jurisdiction:        req.Jurisdiction,
		BusinessType:        req.BusinessType,
		BusinessDescription: req.BusinessDescription,
		ContactEmail:        req.ContactEmail,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Company request submitted"))
}

func (h *CompanyHandler) ListMine(c *gin.Context) {
	requests, err := h.Companies.ListRequests(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(requests, "Company requests fetched successfully"))
}

func (h *CompanyHandler) ListMyCompanies(c *gin.Context) {
	companies, err := h.Companies.ListCompanies(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(companies, "Companies fetched successfully"))
}

// UploadDocuments attaches supporting files to the caller's request.
func (h *CompanyHandler) UploadDocuments(c *gin.Context) {
	userID := middleware.UserID(c)
	requestID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("multipart form is required", nil, http.StatusBadRequest))
		return
	}

	files := form.File["documents"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("at least one document is required", nil, http.StatusBadRequest))
		return
	}

	docs := make([]models.DocumentMeta, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("failed to open "+header.Filename, nil, http.StatusBadRequest))
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("failed to read "+header.Filename, nil, http.StatusBadRequest))
			return
		}

		key := services.ObjectKey(userID, requestID, header.Filename)
		path, err := h.Storage.Upload(services.BucketCompany, key, content, header.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
			return
		}

		docs = append(docs, models.DocumentMeta{
			Name: header.Filename,
			Path: path,
			Size: header.Size,
			Type: header.Header.Get("Content-Type"),
		})
	}

	request, err := h.Companies.AttachDocuments(userID, requestID, docs)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Company request not found"))
			return
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Documents uploaded"))
}

func (h *CompanyHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Companies.ListAllRequests(services.ListCompanyRequestsDTO{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, result)
}

type companyActionRequest struct {
	Action             string `json:"action" binding:"required"`
	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`
	IncorporationDate  string `json:"incorporation_date"`
	ContactPhone       string `json:"contact_phone"`
	AdminNotes         string `json:"admin_notes"`
}

// Act dispatches an admin decision on a company request.
func (h *CompanyHandler) Act(c *gin.Context) {
	var req companyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	requestID := c.Param("id")

	var payload interface{}
	var err error
	switch req.Action {
	case services.CompanyActionSelectName:
		payload, err = h.Companies.SelectName(requestID, req.CompanyName, req.AdminNotes)
	case services.CompanyActionApprove:
		payload, err = h.Companies.Approve(requestID, services.ApproveCompanyRequestDTO{
			RegistrationNumber: req.RegistrationNumber,
			IncorporationDate:  req.IncorporationDate,
			ContactPhone:       req.ContactPhone,
			AdminNotes:         req.AdminNotes,
		})
	case services.CompanyActionReject:
		payload, err = h.Companies.Reject(requestID, req.AdminNotes)
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("unknown action", nil, http.StatusBadRequest))
		return
	}

	if err != nil {
		switch err {
		case services.ErrNotFound:
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Company request not found"))
		case services.ErrInvalidTransition:
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error(), nil, http.StatusConflict))
		case services.ErrNameNotCandidate, services.ErrMissingIncorpData:
			c.JSON(http.StatusUnprocessableEntity, common.NewErrorResponse(err.Error(), nil, http.StatusUnprocessableEntity))
		default:
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		}
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(payload, "Company request updated"))
}

// Actions lists the admin actions legal for a given request status.
func (h *CompanyHandler) Actions(c *gin.Context) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(
		services.CompanyActions(c.Query("status")), "Available actions fetched successfully"))
}
