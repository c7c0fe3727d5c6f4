package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// maxEditorBatch caps the number of files in one image drop
const maxEditorBatch = 20

// EditorHandler exposes campaign description editing sessions. The editor
// is the authenticated admin; one session exists per (campaign, admin).
type EditorHandler struct {
	editor service.EditorService
	media  *service.MediaService
}

// NewEditorHandler creates a new EditorHandler
func NewEditorHandler(editor service.EditorService, media *service.MediaService) *EditorHandler {
	return &EditorHandler{editor: editor, media: media}
}

func (h *EditorHandler) target(c *gin.Context) (campaignID, editorID uint64, ok bool) {
	if editorID, ok = currentUser(c); !ok {
		return 0, 0, false
	}
	if campaignID, ok = paramID(c, "id"); !ok {
		return 0, 0, false
	}
	return campaignID, editorID, true
}

// Open handles POST /api/v1/admin/campaigns/:id/editor
// @Summary 편집 세션 열기
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response{data=domain.EditorState}
// @Router /admin/campaigns/{id}/editor [post]
func (h *EditorHandler) Open(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}

	state, err := h.editor.Open(c.Request.Context(), campaignID, editorID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, state)
}

// State handles GET /api/v1/admin/campaigns/:id/editor
// @Summary 편집 세션 상태
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response{data=domain.EditorState}
// @Router /admin/campaigns/{id}/editor [get]
func (h *EditorHandler) State(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}

	state, err := h.editor.State(campaignID, editorID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, state)
}

// Apply handles POST /api/v1/admin/campaigns/:id/editor/ops
// @Summary 블록 편집
// @Tags editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Param request body domain.EditorOp true "편집 연산"
// @Success 200 {object} common.V2Response{data=domain.EditorState}
// @Router /admin/campaigns/{id}/editor/ops [post]
func (h *EditorHandler) Apply(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}
	var op domain.EditorOp
	if !bindJSON(c, &op) {
		return
	}

	state, err := h.editor.Apply(campaignID, editorID, &op)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, state)
}

// AddImages handles POST /api/v1/admin/campaigns/:id/editor/images.
// Placeholders are returned at once; upload results arrive over the
// WebSocket as editor.block_status events.
// @Summary 이미지 블록 추가
// @Tags editor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Param files formData file true "이미지 (여러 개)"
// @Param after_id formData string false "이 블록 뒤에 삽입"
// @Success 202 {object} common.V2Response{data=domain.EditorState}
// @Router /admin/campaigns/{id}/editor/images [post]
func (h *EditorHandler) AddImages(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, common.NewValidation("error.bad_request", err))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 || len(headers) > maxEditorBatch {
		common.RespondError(c, common.NewValidation("error.validation", errors.New("files: 1 to 20 images required")))
		return
	}

	files := make([]blocks.File, 0, len(headers))
	for _, header := range headers {
		f, err := readFormImage(h.media, header)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		files = append(files, f)
	}

	state, err := h.editor.AddImages(campaignID, editorID, c.PostForm("after_id"), files)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Accepted(c, state)
}

// Save handles POST /api/v1/admin/campaigns/:id/editor/save
// @Summary 설명 저장
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Param wait query bool false "업로드 완료까지 대기"
// @Success 200 {object} common.V2Response{data=domain.CampaignResponse}
// @Router /admin/campaigns/{id}/editor/save [post]
func (h *EditorHandler) Save(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}

	campaign, err := h.editor.Save(c.Request.Context(), campaignID, editorID, c.Query("wait") == "true")
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, campaign)
}

// Close handles DELETE /api/v1/admin/campaigns/:id/editor
// @Summary 편집 세션 닫기
// @Tags editor
// @Security BearerAuth
// @Param id path int true "캠페인 ID"
// @Success 200 {object} common.V2Response
// @Router /admin/campaigns/{id}/editor [delete]
func (h *EditorHandler) Close(c *gin.Context) {
	campaignID, editorID, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.editor.Close(campaignID, editorID); err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2NoContent(c)
}
