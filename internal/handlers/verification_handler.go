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

type VerificationHandler struct {
	Verifications *services.VerificationService
	Storage       *services.StorageClient
}

func NewVerificationHandler(verifications *services.VerificationService, storage *services.StorageClient) *VerificationHandler {
	return &VerificationHandler{Verifications: verifications, Storage: storage}
}

// Submit uploads the identity documents and opens the verification
// request in one call.
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID := middleware.UserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("multipart form is required", nil, http.StatusBadRequest))
		return
	}

	files := form.File["documents"]
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

		key := services.ObjectKey(userID, "verification", header.Filename)
		path, err := h.Storage.Upload(services.BucketVerification, key, content, header.Header.Get("Content-Type"))
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

	request, err := h.Verifications.Submit(userID, docs)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Verification request submitted"))
}

func (h *VerificationHandler) GetMine(c *gin.Context) {
	request, err := h.Verifications.GetLatest(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Verification request fetched successfully"))
}

func (h *VerificationHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Verifications.ListAll(services.ListVerificationsDTO{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, result)
}

type reviewRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

func (h *VerificationHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Verifications.Review(c.Param("id"), middleware.UserID(c), req.Action, req.Note)
	if err != nil {
		switch err {
		case services.ErrNotFound:
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Verification request not found"))
		case services.ErrInvalidTransition:
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error(), nil, http.StatusConflict))
		default:
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		}
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"request": request,
		"actions": services.VerificationActions(request.Status),
	}, "Verification request reviewed"))
}
