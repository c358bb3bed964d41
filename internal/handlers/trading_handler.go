package handlers

import (
	"net/http"

	"account-service/internal/middleware"
	"account-service/internal/services"
	"account-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type TradingHandler struct {
	Trading *services.TradingService
}

func NewTradingHandler(trading *services.TradingService) *TradingHandler {
	return &TradingHandler{Trading: trading}
}

func (h *TradingHandler) ListMine(c *gin.Context) {
	accounts, err := h.Trading.ListAccounts(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(accounts, "Trading accounts fetched successfully"))
}

// AdminLookup fetches a user's live bridge record and accounts by email,
// bypassing the local mirror.
func (h *TradingHandler) AdminLookup(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("email query parameter is required", nil, http.StatusBadRequest))
		return
	}

	user, err := h.Trading.Bridge.GetUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.NewNotFoundResponse("No bridge user for that email"))
		return
	}

	accounts, err := h.Trading.Bridge.GetAccountsByUser(user.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"user": user, "accounts": accounts}, "Bridge accounts fetched successfully"))
}

// Sync refreshes the caller's mirror rows from the bridge on demand.
func (h *TradingHandler) Sync(c *gin.Context) {
	synced, err := h.Trading.SyncUserAccounts(middleware.UserID(c), c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"synced": synced}, "Trading accounts synced"))
}
