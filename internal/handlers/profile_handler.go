package handlers

import (
	"net/http"
	"strconv"

	"account-service/internal/middleware"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.Profiles.EnsureProfile(middleware.UserID(c), c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profile, "Profile fetched successfully"))
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	profile, err := h.Profiles.UpdateProfile(middleware.UserID(c), req)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profile, "Profile updated successfully"))
}

func (h *ProfileHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Profiles.ListAll(services.ListProfilesDTO{
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

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ProfileHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	profile, err := h.Profiles.SetStatus(c.Param("userId"), req.Status)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Profile not found"))
			return
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profile, "Profile status updated"))
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *ProfileHandler) SetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	profile, err := h.Profiles.SetRole(c.Param("userId"), req.Role)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, common.NewNotFoundResponse("Profile not found"))
			return
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profile, "Profile role updated"))
}
