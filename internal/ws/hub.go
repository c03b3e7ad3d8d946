package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

const redisPubSubChannel = "whisperbox:events"

// EventMessageReceived is pushed to a receiver when a message lands in their inbox
const EventMessageReceived = "message.received"

// Event is a real-time event sent via WebSocket
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// MessageReceivedData is the payload of EventMessageReceived. Content and
// sender details stay out of the push; clients refetch the inbox.
type MessageReceivedData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub manages WebSocket clients and routes events to accounts
type Hub struct {
	// Registered clients grouped by account ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	AccountID string `json:"account_id"`
	Event     *Event `json:"event"`
}

// NewHub creates a new Hub. With a Redis client, events fan out to every
// instance through pub/sub; without one, delivery stays in-process.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
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

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.accountID] == nil {
				h.clients[client.accountID] = make(map[*Client]bool)
			}
			h.clients[client.accountID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			return
		}
	}
}

// remove drops a client; callers hold h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.accountID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.accountID)
		}
	}
}

func (h *Hub) deliver(msg *targetedEvent) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[msg.AccountID] {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.remove(client)
		}
	}
}

// SendToAccount routes an event to every connection of an account
func (h *Hub) SendToAccount(accountID string, event *Event) {
	msg := &targetedEvent{AccountID: accountID, Event: event}

	if h.redisClient != nil {
		data, err := json.Marshal(msg)
		if err == nil {
			if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, data).Err(); err == nil {
				return
			}
			pkglogger.GetLogger().Warn().Err(err).Msg("event publish failed, delivering locally")
		}
	}
	h.enqueue(msg)
}

// MessageReceived notifies the receiver of a new message
func (h *Hub) MessageReceived(receiverID string, msg *domain.Message) {
	h.SendToAccount(receiverID, &Event{
		Type: EventMessageReceived,
		Data: MessageReceivedData{ID: msg.ID, CreatedAt: msg.CreatedAt},
	})
}

func (h *Hub) enqueue(msg *targetedEvent) {
	select {
	case h.broadcast <- msg:
	default:
		pkglogger.GetLogger().Warn().Str("account_id", msg.AccountID).Msg("event queue full, dropping event")
	}
}

// ConnectionCount returns the number of open connections of an account
func (h *Hub) ConnectionCount(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

// subscribeRedis delivers events published by any instance, this one included
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
			if err := json.Unmarshal([]byte(msg.Payload), &te); err == nil {
				h.enqueue(&te)
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
