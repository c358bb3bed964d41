package handlers

import (
	"net/http"
	"strconv"

	"account-service/internal/middleware"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReferralHandler struct {
	Referrals *services.ReferralService
}

func NewReferralHandler(referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{Referrals: referrals}
}

func (h *ReferralHandler) Generate(c *gin.Context) {
	referral, err := h.Referrals.Generate(middleware.UserID(c))
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(referral, "Referral code generated"))
}

func (h *ReferralHandler) Overview(c *gin.Context) {
	overview, err := h.Referrals.GetOverview(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(overview, "Referral overview fetched successfully"))
}

type inviteRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ReferralHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if err := h.Referrals.SendInvitation(middleware.UserID(c), req.Email, req.Subject, req.Message); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Referral not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusAccepted, common.NewSuccessResponse(nil, "Invitation queued"))
}

type signupRequest struct {
	ReferralCode   string `json:"referral_code" binding:"required"`
	ReferredUserID string `json:"referred_user_id" binding:"required"`
}

// Signup attributes a new registration to a referral code.
func (h *ReferralHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if err := h.Referrals.EnqueueSignup(req.ReferralCode, req.ReferredUserID); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Referral code not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusAccepted, common.NewSuccessResponse(nil, "Signup queued"))
}

func (h *ReferralHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Referrals.ListAll(services.ListReferralsDTO{
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

// GetOne is the admin view of a single referral with its history.
func (h *ReferralHandler) GetOne(c *gin.Context) {
	overview, err := h.Referrals.OverviewByID(c.Param("id"))
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Referral not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(overview, "Referral fetched successfully"))
}

type recordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

func (h *ReferralHandler) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	payment, err := h.Referrals.RecordPayment(c.Param("id"), req.Amount, req.Notes)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Referral not found"))
			return
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(payment, "Payment recorded"))
}

type referralStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ReferralHandler) UpdateStatus(c *gin.Context) {
	var req referralStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	referral, err := h.Referrals.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		switch err {
		case services.ErrNotFound:
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Referral not found"))
		case services.ErrInvalidTransition:
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error(), nil, http.StatusConflict))
		default:
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		}
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(referral, "Referral status updated"))
}
