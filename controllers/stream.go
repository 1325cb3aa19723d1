package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/game"
	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/services"
)

type StreamController struct {
	registry *game.Registry
	hub      *services.Hub
	cfg      *config.Config
}

func NewStreamController(registry *game.Registry, hub *services.Hub, cfg *config.Config) *StreamController {
	return &StreamController{registry: registry, hub: hub, cfg: cfg}
}

// Stream handles GET /sessions/:id/stream as Server-Sent Events: an initial
// session snapshot, then every observable mutation, with comment keep-alives
// so idle proxies don't cut the connection.
func (sc *StreamController) Stream(c *gin.Context) {
	sessionID := c.Param("id")
	session, err := sc.registry.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	sub := sc.hub.Subscribe(sessionID)
	defer sc.hub.Unsubscribe(sessionID, sub.ID)

	c.SSEvent(string(models.EventSession), session)
	c.Writer.Flush()

	keepAlive := time.NewTicker(sc.cfg.KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// Session finished; final event was already delivered.
				return
			}
			c.SSEvent(string(ev.Type), ev.Data)
			c.Writer.Flush()
		case <-keepAlive.C:
			_, _ = c.Writer.Write([]byte(": keep-alive\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
