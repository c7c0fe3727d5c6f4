package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// MessageHandler handles private message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /api/v1/admin/messages
// @Summary 쪽지 보내기 (관리자)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.SendMessageRequest true "쪽지 내용"
// @Success 201 {object} common.V2Response{data=domain.MessageResponse}
// @Router /admin/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	senderID, ok := currentUser(c)
	if !ok {
		return
	}
	var req domain.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), senderID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, msg)
}

// Inbox handles GET /api/v1/messages
// @Summary 받은 쪽지함
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지"
// @Param limit query int false "페이지 크기"
// @Success 200 {object} common.V2Response{data=[]domain.MessageResponse}
// @Router /messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := pagination(c)
	messages, total, err := h.service.Inbox(userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, messages, common.NewV2Meta(page, limit, total))
}

// UnreadCount handles GET /api/v1/messages/unread-count
// @Summary 안 읽은 쪽지 수
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.V2Response
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, gin.H{"count": count})
}

// MarkRead handles POST /api/v1/messages/:id/read
// @Summary 쪽지 읽음 처리
// @Tags messages
// @Security BearerAuth
// @Param id path int true "쪽지 ID"
// @Success 200 {object} common.V2Response
// @Router /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2NoContent(c)
}
