// File: services/relay/stream.go
package relay

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-contrib/sse"
)

// Event type discriminators carried on the wire.
const (
	EventMessageSent  = "message_sent"
	EventMessageRead  = "message_read"
	EventNotification = "notification"
)

// SSEStream adapts an HTTP response to the hub's StreamWriter. Writes are
// serialized with a mutex: the request goroutine and any delivering handler
// may write concurrently.
type SSEStream struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewSSEStream wraps a response writer that supports flushing.
func NewSSEStream(w http.ResponseWriter, f http.Flusher) *SSEStream {
	return &SSEStream{writer: w, flusher: f}
}

// WriteEvent encodes one SSE frame and flushes it to the client.
func (s *SSEStream) WriteEvent(eventType string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sse.Encode(s.writer, sse.Event{
		Event: eventType,
		Data:  json.RawMessage(payload),
	})
	if err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
