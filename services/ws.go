package services

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/game"
	"github.com/yebeniyam/bingo/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSService serves the websocket mirror of the session event stream.
type WSService struct {
	hub      *Hub
	registry *game.Registry
	cfg      *config.Config
	log      *zap.SugaredLogger
}

func NewWSService(hub *Hub, registry *game.Registry, cfg *config.Config, log *zap.SugaredLogger) *WSService {
	return &WSService{hub: hub, registry: registry, cfg: cfg, log: log}
}

// Handle upgrades the connection and pipes session events until the client
// disconnects or the session finishes.
func (s *WSService) Handle(c *gin.Context) {
	sessionID := c.Param("id")
	session, err := s.registry.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	sub := s.hub.Subscribe(sessionID)
	client := &Client{sessionID: sessionID, conn: conn, sub: sub, hub: s.hub, log: s.log}

	// Initial snapshot before live events.
	if err := conn.WriteJSON(models.Event{Type: models.EventSession, Data: session}); err != nil {
		s.hub.Unsubscribe(sessionID, sub.ID)
		conn.Close()
		return
	}

	go client.writePump(s.cfg.KeepAliveInterval)
	go client.readPump()

	s.log.Infof("session %s: websocket subscriber %s connected", sessionID, sub.ID)
}
