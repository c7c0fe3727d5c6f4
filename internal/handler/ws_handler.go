package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ideafund/ideafund-backend/internal/ws"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// UnreadCounter reports a user's unread message count
type UnreadCounter interface {
	UnreadCount(userID uint64) (int64, error)
}

// WSHandler upgrades signed-in users to the event socket
type WSHandler struct {
	hub      *ws.Hub
	unread   UnreadCounter
	origins  map[string]bool
	upgrader websocket.Upgrader
}

// NewWSHandler builds the handler. allowedOrigins is the CORS origin list;
// empty or "*" accepts any origin. unread may be nil.
func NewWSHandler(hub *ws.Hub, allowedOrigins string, unread UnreadCounter) *WSHandler {
	h := &WSHandler{hub: hub, unread: unread}
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			h.origins = nil
			break
		}
		if o != "" {
			if h.origins == nil {
				h.origins = make(map[string]bool)
			}
			h.origins[o] = true
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.originAllowed,
	}
	return h
}

// originAllowed lets through non-browser clients, which send no Origin
func (h *WSHandler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || h.origins == nil || h.origins[origin]
}

// Connect handles GET /ws. The access token is passed as ?token=.
// Events: message.new, message.unread_count, editor.block_status, vote.recorded, pong.
// The current unread count is pushed right after the upgrade.
// @Summary 실시간 이벤트 WebSocket
// @Tags ws
// @Param token query string true "access token"
// @Router /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade가 이미 에러 응답을 씀
		pkglogger.GetLogger().Debug().Err(err).Uint64("user_id", userID).Msg("websocket upgrade failed")
		return
	}
	ws.NewClient(h.hub, conn, userID).Serve()

	if h.unread == nil {
		return
	}
	if n, err := h.unread.UnreadCount(userID); err == nil {
		h.hub.SendToUser(userID, &ws.Event{Type: ws.EventUnreadCount, Payload: map[string]int64{"count": n}})
	}
}
