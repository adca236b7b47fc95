// Package stream fans live session snapshots out to websocket subscribers.
package stream

import (
	"context"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix = "sessions:"
	channelSuffix = ":stream"
	clientBuffer  = 16
)

// Hub tracks subscribers per session. With a redis client, broadcasts go through
// pub/sub so subscribers attached to other replicas receive them too.
type Hub struct {
	redis   *redis.Client
	logger  *zap.Logger
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// Client is one subscriber.
type Client struct {
	SessionID string
	Send      chan []byte
}

// NewHub builds a hub. redisClient may be nil.
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		redis:   redisClient,
		logger:  logger,
		clients: map[string]map[*Client]struct{}{},
	}
}

// Run relays redis pub/sub messages to local subscribers until ctx ends. It returns
// immediately when the hub has no redis client.
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.deliver(sessionIDFromChannel(msg.Channel), []byte(msg.Payload))
		}
	}
}

// Register subscribes a new client to a session.
func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

// Unregister removes the client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionClients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := sessionClients[client]; !ok {
		return
	}
	delete(sessionClients, client)
	if len(sessionClients) == 0 {
		delete(h.clients, client.SessionID)
	}
	close(client.Send)
}

// Subscribers reports how many local clients follow a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Broadcast sends payload to every subscriber of the session. Slow subscribers drop messages.
func (h *Hub) Broadcast(ctx context.Context, sessionID string, payload []byte) {
	if h.redis == nil {
		h.deliver(sessionID, payload)
		return
	}
	if err := h.redis.Publish(ctx, redisChannel(sessionID), payload).Err(); err != nil {
		h.logger.Warn("stream publish failed, delivering locally", zap.String("session_id", sessionID), zap.Error(err))
		h.deliver(sessionID, payload)
	}
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	if sessionID == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func redisChannel(sessionID string) string {
	return channelPrefix + sessionID + channelSuffix
}

func sessionIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
