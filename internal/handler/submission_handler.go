package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// SubmissionHandler handles idea submission endpoints
type SubmissionHandler struct {
	service service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(service service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Create handles POST /api/v1/submissions
// @Summary 아이디어 제출
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateSubmissionRequest true "아이디어"
// @Success 201 {object} common.V2Response{data=domain.Submission}
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req domain.CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.service.Create(userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, sub)
}

// ListMine handles GET /api/v1/submissions/mine
// @Summary 내 아이디어 목록
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지"
// @Param limit query int false "페이지 크기"
// @Success 200 {object} common.V2Response{data=[]domain.Submission}
// @Router /submissions/mine [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := pagination(c)
	rows, total, err := h.service.ListMine(userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, rows, common.NewV2Meta(page, limit, total))
}

// ListByStatus handles GET /api/v1/admin/submissions?status=
// @Summary 상태별 아이디어 목록 (관리자)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending | approved | rejected"
// @Success 200 {object} common.V2Response{data=[]domain.Submission}
// @Router /admin/submissions [get]
func (h *SubmissionHandler) ListByStatus(c *gin.Context) {
	page, limit := pagination(c)
	rows, total, err := h.service.ListByStatus(c.DefaultQuery("status", domain.SubmissionPending), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, rows, common.NewV2Meta(page, limit, total))
}

// Review handles POST /api/v1/admin/submissions/:id/review
// @Summary 아이디어 심사 (관리자)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "아이디어 ID"
// @Param request body domain.ReviewSubmissionRequest true "심사 결과"
// @Success 200 {object} common.V2Response{data=domain.Submission}
// @Router /admin/submissions/{id}/review [post]
func (h *SubmissionHandler) Review(c *gin.Context) {
	reviewerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.ReviewSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.service.Review(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, sub)
}
