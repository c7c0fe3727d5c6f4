package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// VoteHandler handles votes and the supporter page
type VoteHandler struct {
	service service.VoteService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(service service.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Vote handles POST /api/v1/campaigns/:id/votes
// @Summary 캠페인 투표 (코인 사용)
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Param request body domain.VoteRequest false "사용할 코인 (기본값: 설정된 투표 비용)"
// @Success 201 {object} common.V2Response{data=domain.SupportResponse}
// @Failure 400 {object} common.V2Response "코인 부족"
// @Failure 409 {object} common.V2Response "투표 마감"
// @Router /campaigns/{id}/votes [post]
func (h *VoteHandler) Vote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req domain.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(c, common.NewValidation("error.bad_request", err))
		return
	}

	support, err := h.service.Vote(c.Request.Context(), campaignID, userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, support)
}

// MySupports handles GET /api/v1/me/supports
// @Summary 내가 지지한 캠페인
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.V2Response{data=[]domain.SupportResponse}
// @Router /me/supports [get]
func (h *VoteHandler) MySupports(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	supports, err := h.service.MySupports(userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, supports)
}
