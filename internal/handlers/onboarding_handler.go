package handlers

import (
	"io"
	"net/http"

	"account-service/internal/middleware"
	"account-service/internal/models"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	Onboarding *services.OnboardingService
	Storage    *services.StorageClient
}

func NewOnboardingHandler(onboarding *services.OnboardingService, storage *services.StorageClient) *OnboardingHandler {
	return &OnboardingHandler{Onboarding: onboarding, Storage: storage}
}

func (h *OnboardingHandler) GetState(c *gin.Context) {
	state := h.Onboarding.GetState(middleware.UserID(c))
	c.JSON(http.StatusOK, common.NewSuccessResponse(state, "Wizard state fetched successfully"))
}

func (h *OnboardingHandler) SaveDraft(c *gin.Context) {
	var draft services.OnboardingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	state := h.Onboarding.SetDraft(middleware.UserID(c), draft)
	c.JSON(http.StatusOK, common.NewSuccessResponse(state, "Draft saved"))
}

func (h *OnboardingHandler) Next(c *gin.Context) {
	state, errs := h.Onboarding.Advance(middleware.UserID(c))
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Step validation failed",
			"errors":  errs,
			"data":    state,
		})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(state, "Moved to next step"))
}

func (h *OnboardingHandler) Back(c *gin.Context) {
	state := h.Onboarding.Retreat(middleware.UserID(c))
	c.JSON(http.StatusOK, common.NewSuccessResponse(state, "Moved to previous step"))
}

// UploadDocument stores one wizard document and records its descriptor
// on the draft.
func (h *OnboardingHandler) UploadDocument(c *gin.Context) {
	userID := middleware.UserID(c)

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

	key := services.ObjectKey(userID, "onboarding", header.Filename)
	path, err := h.Storage.Upload(services.BucketVerification, key, content, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
		return
	}

	state := h.Onboarding.AddDocument(userID, models.DocumentMeta{
		Name: header.Filename,
		Path: path,
		Size: header.Size,
		Type: header.Header.Get("Content-Type"),
	})
	c.JSON(http.StatusOK, common.NewSuccessResponse(state, "Document uploaded"))
}

func (h *OnboardingHandler) Submit(c *gin.Context) {
	profile, errs, err := h.Onboarding.Submit(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Submission validation failed",
			"errors":  errs,
		})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profile, "Profile completed successfully"))
}
