package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"account-service/internal/middleware"
	"account-service/internal/models"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RequestHandler struct {
	Requests  *services.RequestService
	Storage   *services.StorageClient
	Referrals *services.ReferralService
}

func NewRequestHandler(requests *services.RequestService, storage *services.StorageClient, referrals *services.ReferralService) *RequestHandler {
	return &RequestHandler{Requests: requests, Storage: storage, Referrals: referrals}
}

type createRequestBody struct {
	Type          string          `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Description   string          `json:"description"`
}

func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Requests.CreateRequest(middleware.UserID(c), services.CreateRequestDTO{
		Type:          req.Type,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Request created successfully"))
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.Requests.ListUserRequests(middleware.UserID(c), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(requests, "Requests fetched successfully"))
}

func (h *RequestHandler) GetOne(c *gin.Context) {
	request, err := h.Requests.GetRequest(middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Request not found"))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Request fetched successfully"))
}

// UploadDocument attaches a payment receipt or supporting file.
func (h *RequestHandler) UploadDocument(c *gin.Context) {
	userID := middleware.UserID(c)
	requestID := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("file is required", nil, http.StatusBadRequest))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("failed to read file", nil, http.StatusBadRequest))
		return
	}

	key := services.ObjectKey(userID, requestID, header.Filename)
	path, err := h.Storage.Upload(services.BucketRequest, key, content, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
		return
	}

	doc, err := h.Requests.AttachDocument(userID, requestID, models.RequestDocument{
		Filename:     header.Filename,
		FileURL:      path,
		FileSize:     header.Size,
		FileType:     header.Header.Get("Content-Type"),
		DocumentType: c.DefaultPostForm("document_type", "receipt"),
		Description:  c.PostForm("description"),
	})
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Request not found"))
			return
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(doc, "Document uploaded"))
}

func (h *RequestHandler) ListDocuments(c *gin.Context) {
	docs, err := h.Requests.ListDocuments(middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(docs, "Documents fetched successfully"))
}

func (h *RequestHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Requests.ListAllRequests(services.ListRequestsDTO{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		UserID: c.Query("user_id"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Requests.UpdateStatus(c.Param("id"), req.Status, middleware.UserID(c), req.Notes)
	if err != nil {
		switch err {
		case services.ErrNotFound:
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Request not found"))
		case services.ErrInvalidTransition:
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error(), nil, http.StatusConflict))
		default:
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		}
		return
	}

	// A referred user's first completed deposit advances their referrer's
	// lifecycle. Attribution failures must not undo the status change.
	if request.Type == models.RequestTypeDeposit && request.Status == models.RequestStatusCompleted {
		if err := h.Referrals.RecordDeposit(request.UserID, request.Amount); err != nil {
			log.Printf("referral deposit attribution failed for user %s: %v", request.UserID, err)
		}
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Request status updated"))
}

// AuditTrail returns the full change history of one request.
func (h *RequestHandler) AuditTrail(c *gin.Context) {
	entries, err := h.Requests.AuditTrail(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entries, "Audit trail fetched successfully"))
}
