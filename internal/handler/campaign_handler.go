package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// CampaignHandler handles public campaign pages and admin campaign management
type CampaignHandler struct {
	campaigns service.CampaignService
	search    service.SearchService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaigns service.CampaignService, search service.SearchService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, search: search}
}

// List handles GET /api/v1/campaigns
// @Summary 캠페인 목록
// @Tags campaigns
// @Produce json
// @Param tab query string false "live | goal_reached | kickstarter | launched | archived"
// @Param page query int false "페이지"
// @Param limit query int false "페이지 크기"
// @Success 200 {object} common.V2Response{data=[]domain.CampaignSummary}
// @Router /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.campaigns.List(c.Request.Context(), c.Query("tab"), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, items, common.NewV2Meta(page, limit, total))
}

// Search handles GET /api/v1/campaigns/search
// @Summary 캠페인 검색
// @Tags campaigns
// @Produce json
// @Param q query string true "검색어"
// @Param tab query string false "탭 필터"
// @Success 200 {object} common.V2Response{data=[]domain.CampaignSummary}
// @Router /campaigns/search [get]
func (h *CampaignHandler) Search(c *gin.Context) {
	var tab lifecycle.Tab
	if raw := c.Query("tab"); raw != "" {
		parsed, ok := lifecycle.ParseTab(raw)
		if !ok {
			common.RespondError(c, common.NewValidation("error.validation", errors.New("unknown tab "+raw)))
			return
		}
		tab = parsed
	}

	page, limit := pagination(c)
	items, total, err := h.search.Search(c.Request.Context(), c.Query("q"), tab, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, items, common.NewV2Meta(page, limit, total))
}

// Get handles GET /api/v1/campaigns/:id
// @Summary 캠페인 상세
// @Tags campaigns
// @Produce json
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response{data=domain.CampaignResponse}
// @Failure 404 {object} common.V2Response
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaigns.Get(id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, campaign)
}

// Create handles POST /api/v1/admin/campaigns
// @Summary 캠페인 생성 (관리자)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateCampaignRequest true "캠페인"
// @Success 201 {object} common.V2Response{data=domain.CampaignResponse}
// @Router /admin/campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	var req domain.CreateCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaigns.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, campaign)
}

// Delete handles DELETE /api/v1/admin/campaigns/:id
// @Summary 캠페인 삭제 (관리자, 복구 불가)
// @Tags admin
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response
// @Router /admin/campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.campaigns.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2NoContent(c)
}

// Actions handles GET /api/v1/admin/campaigns/:id/actions
// @Summary 가능한 상태 전환 목록 (관리자)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response{data=domain.ActionsResponse}
// @Router /admin/campaigns/{id}/actions [get]
func (h *CampaignHandler) Actions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actions, err := h.campaigns.Actions(id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, actions)
}

// Transition returns the handler for one lifecycle action. The body, with
// the optional launch URLs, may be empty.
// @Summary 캠페인 상태 전환 (관리자)
// @Description goal-reached | kickstarter | live | launch | archive | restore
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Param request body domain.TransitionRequest false "URL"
// @Success 200 {object} common.V2Response{data=domain.CampaignResponse}
// @Failure 409 {object} common.V2Response
// @Router /admin/campaigns/{id}/archive [post]
func (h *CampaignHandler) Transition(action lifecycle.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req domain.TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			common.RespondError(c, common.NewValidation("error.bad_request", err))
			return
		}

		campaign, err := h.campaigns.Transition(c.Request.Context(), id, action, &req)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		common.V2Success(c, campaign)
	}
}
