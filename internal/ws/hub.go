package ws

import (
	"context"
	"encoding/json"
	"sync"

	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "ideafund:events"

// Event types pushed to clients
const (
	EventMessageNew   = "message.new"
	EventUnreadCount  = "message.unread_count"
	EventBlockStatus  = "editor.block_status"
	EventVoteRecorded = "vote.recorded"
)

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and delivers events per user
type Hub struct {
	// Registered clients grouped by user ID
	clients map[uint64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.RWMutex
	origin      string
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	Origin string `json:"origin,omitempty"`
	UserID uint64 `json:"user_id"`
	Event  *Event `json:"event"`
}

// NewHub creates a new Hub. redisClient may be nil (single instance).
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		origin:      uuid.NewString(),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client; its send channel is closed by the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop; it returns after Stop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) deliver(msg *targetedEvent) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("type", msg.Event.Type).Msg("ws event not serializable")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[msg.UserID] {
		select {
		case client.send <- data:
		default:
			// 버퍼가 가득 찬 느린 클라이언트는 끊는다
			h.remove(client)
		}
	}
}

// Connected reports how many connections a user has on this instance
func (h *Hub) Connected(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser delivers an event to every connection of a user, locally and
// through Redis to the other instances
func (h *Hub) SendToUser(userID uint64, event *Event) {
	select {
	case h.broadcast <- &targetedEvent{UserID: userID, Event: event}:
	case <-h.ctx.Done():
		return
	}

	if h.redisClient != nil {
		data, err := json.Marshal(&targetedEvent{Origin: h.origin, UserID: userID, Event: event})
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var te targetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &te); err != nil || te.Event == nil {
				continue
			}
			if te.Origin == h.origin {
				continue
			}
			// 로컬 전달만 (Redis 재발행 금지)
			select {
			case h.broadcast <- &te:
			case <-h.ctx.Done():
				return
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts the hub down and closes every client
func (h *Hub) Stop() {
	h.cancel()
}
