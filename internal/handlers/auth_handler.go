package handlers

import (
	"net/http"
	"os"
	"time"

	"account-service/internal/middleware"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues service tokens. The identity provider in front of
// this service normally mints these; the endpoint exists for service to
// service calls and local development.
type AuthHandler struct {
	Profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{Profiles: profiles}
}

type issueTokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Secret string `json:"secret" binding:"required"`
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	if req.Secret != os.Getenv("SERVICE_SECRET") {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid service secret", nil, http.StatusUnauthorized))
		return
	}

	profile, err := h.Profiles.EnsureProfile(req.UserID, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	token, err := middleware.GenerateToken(profile.UserID, profile.Email, profile.Role, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token": token,
		"role":  profile.Role,
	}, "Token issued"))
}
