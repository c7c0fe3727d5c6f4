package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// CoinHandler handles coin balance endpoints
type CoinHandler struct {
	service service.CoinService
}

// NewCoinHandler creates a new CoinHandler
func NewCoinHandler(service service.CoinService) *CoinHandler {
	return &CoinHandler{service: service}
}

// Balance handles GET /api/v1/coins/balance
// @Summary 코인 잔액
// @Tags coins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.V2Response{data=domain.BalanceResponse}
// @Router /coins/balance [get]
func (h *CoinHandler) Balance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, balance)
}

// History handles GET /api/v1/coins/history
// @Summary 코인 내역
// @Tags coins
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지"
// @Param limit query int false "페이지 크기"
// @Success 200 {object} common.V2Response{data=[]domain.CoinTransaction}
// @Router /coins/history [get]
func (h *CoinHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := pagination(c)
	rows, total, err := h.service.History(userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, rows, common.NewV2Meta(page, limit, total))
}

// Adjust handles POST /api/v1/admin/users/:id/coins
// @Summary 코인 지급/차감 (관리자)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "사용자 ID"
// @Param request body domain.AdjustCoinsRequest true "증감량"
// @Success 200 {object} common.V2Response{data=domain.CoinTransaction}
// @Router /admin/users/{id}/coins [post]
func (h *CoinHandler) Adjust(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.AdjustCoinsRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.service.Adjust(c.Request.Context(), userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, entry)
}
