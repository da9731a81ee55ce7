// File: handlers/realtime.go
package handlers

import (
	"net/http"

	"stagelink/services/relay"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// StreamHandler upgrades the request to a server-sent-events stream and
// registers it with the relay hub. The handler blocks until the client
// disconnects; events delivered to this user in the meantime are written by
// whichever goroutine triggers them.
func (hb *HandlerBundle) StreamHandler(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	userID := c.GetString("userID")
	stream := relay.NewSSEStream(c.Writer, flusher)
	hb.Hub.Register(userID, stream)
	// Identity-checked removal: if the client reconnected and this entry was
	// replaced, tearing down the old connection must not evict the new stream.
	defer hb.Hub.UnregisterStream(userID, stream)

	<-c.Request.Context().Done()
}
