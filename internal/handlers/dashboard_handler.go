package handlers

import (
	"net/http"

	"account-service/internal/middleware"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard}
}

func (h *DashboardHandler) UserStats(c *gin.Context) {
	stats, err := h.Dashboard.GetUserStats(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(stats, "Dashboard stats fetched successfully"))
}

func (h *DashboardHandler) AdminSummary(c *gin.Context) {
	summary, err := h.Dashboard.GetAdminSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Admin summary fetched successfully"))
}
