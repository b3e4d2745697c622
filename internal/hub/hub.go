// Package hub is the in-process realization of the transport primitive: a
// topic-keyed subscriber registry. It also tracks presence, since a live
// subscription on a user topic is what "online" means here.
package hub

import (
	"context"
	"sync"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

type Client struct {
	UserID string
	Topics []string
	Ch     chan model.Envelope
}

type publication struct {
	topic    string
	envelope model.Envelope
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	publish    chan publication
	topics     map[string]map[*Client]struct{}
	users      map[string]int
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan publication, 64),
		topics:     make(map[string]map[*Client]struct{}),
		users:      make(map[string]int),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish hands an envelope to every subscriber of the topic. Fire-and-forget:
// the only failure mode is a saturated hub, reported as ErrTransportUnavailable
// and left to the caller to swallow.
func (h *Hub) Publish(topic string, env model.Envelope) error {
	select {
	case h.publish <- publication{topic: topic, envelope: env}:
		return nil
	default:
		return domain.ErrTransportUnavailable
	}
}

// IsOnline reports whether the user has at least one live client.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.users[userID] > 0
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case pub := <-h.publish:
			h.fanOut(pub)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range client.Topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*Client]struct{})
		}
		h.topics[topic][client] = struct{}{}
	}
	if client.UserID != "" {
		h.users[client.UserID]++
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range client.Topics {
		subscribers := h.topics[topic]
		if subscribers == nil {
			continue
		}
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.topics, topic)
		}
	}
	if client.UserID != "" {
		if h.users[client.UserID]--; h.users[client.UserID] <= 0 {
			delete(h.users, client.UserID)
		}
	}
}

func (h *Hub) fanOut(pub publication) {
	h.mu.RLock()
	subscribers := h.topics[pub.topic]
	h.mu.RUnlock()
	for client := range subscribers {
		select {
		case client.Ch <- pub.envelope:
		default:
			// Drop if the client is too slow.
		}
	}
}
