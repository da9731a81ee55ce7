// File: services/relay/hub.go
package relay

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is one frame pushed to a connected client: a type discriminator plus
// an arbitrary data object.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StreamWriter is the handle the hub writes event frames through. The HTTP
// layer wraps a flushed SSE response; tests substitute an in-memory writer.
type StreamWriter interface {
	WriteEvent(eventType string, payload []byte) error
}

// Hub is the in-memory connection registry for real-time delivery. It tracks
// at most one stream per user id; delivery is fire-and-forget, at-most-once.
// Events sent while a user is disconnected are dropped, never replayed.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]StreamWriter
	logger  *zap.Logger
}

// NewHub returns an empty registry.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		streams: make(map[string]StreamWriter),
		logger:  logger,
	}
}

// Register inserts or overwrites the stream for a user. A new connection for
// the same user replaces the previous entry (last writer wins); the orphaned
// stream is not closed here, its own handler tears it down on disconnect.
func (h *Hub) Register(userID string, stream StreamWriter) {
	h.mu.Lock()
	h.streams[userID] = stream
	h.mu.Unlock()
	h.logger.Debug("relay: stream registered", zap.String("userID", userID))
}

// Unregister removes the entry unconditionally.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	delete(h.streams, userID)
	h.mu.Unlock()
	h.logger.Debug("relay: stream unregistered", zap.String("userID", userID))
}

// UnregisterStream removes the user's entry only if it still holds the given
// stream. A handler tearing down an orphaned connection must not evict the
// stream that replaced it.
func (h *Hub) UnregisterStream(userID string, stream StreamWriter) {
	h.mu.Lock()
	removed := h.streams[userID] == stream
	if removed {
		delete(h.streams, userID)
	}
	h.mu.Unlock()
	if removed {
		h.logger.Debug("relay: stream unregistered", zap.String("userID", userID))
	}
}

// Deliver writes one event frame to the user's stream, if connected. It
// reports false when the user has no stream or the write fails; a failed
// write also evicts the entry so the registry self-heals.
func (h *Hub) Deliver(userID string, event Event) bool {
	h.mu.RLock()
	stream, ok := h.streams[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	payload, err := json.Marshal(event.Data)
	if err != nil {
		h.logger.Warn("relay: failed to encode event", zap.String("userID", userID), zap.Error(err))
		return false
	}

	if err := stream.WriteEvent(event.Type, payload); err != nil {
		h.logger.Debug("relay: write failed, evicting stream",
			zap.String("userID", userID), zap.Error(err))
		// Evict only the stream that failed; a reconnect may have already
		// replaced it.
		h.UnregisterStream(userID, stream)
		return false
	}
	return true
}

// Broadcast delivers the event to each user independently and returns the
// number of successful deliveries. Delivery order across ids is unspecified.
func (h *Hub) Broadcast(userIDs []string, event Event) int {
	delivered := 0
	for _, id := range userIDs {
		if h.Deliver(id, event) {
			delivered++
		}
	}
	return delivered
}

// Connected reports whether a user currently holds a stream.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.streams[userID]
	return ok
}
