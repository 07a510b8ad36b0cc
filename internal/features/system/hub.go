package system

import (
	"sync"

	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
)

// Hub fans approval events out to connected dashboard clients. Slow
// clients are dropped rather than blocking the submission path.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan common_models.WebhookPayload]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: map[chan common_models.WebhookPayload]struct{}{},
		logger:  logger,
	}
}

func (h *Hub) Subscribe() chan common_models.WebhookPayload {
	ch := make(chan common_models.WebhookPayload, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan common_models.WebhookPayload) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Broadcast(payload common_models.WebhookPayload) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- payload:
		default:
			h.logger.Warn("dropping event for slow websocket client",
				zap.String("event", payload.Event),
			)
		}
	}
}
