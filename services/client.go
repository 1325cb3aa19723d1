package services

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one websocket connection mirroring a session's event stream.
type Client struct {
	sessionID string
	conn      *websocket.Conn
	sub       *Subscriber
	hub       *Hub
	log       *zap.SugaredLogger
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c.sessionID, c.sub.ID)
		c.conn.Close()
	}()

	for {
		// Inbound messages are ignored; reading keeps the connection open
		// and detects disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debugf("session %s: subscriber %s disconnected", c.sessionID, c.sub.ID)
			} else {
				c.log.Debugf("session %s: subscriber %s read error: %v", c.sessionID, c.sub.ID, err)
			}
			return
		}
	}
}

func (c *Client) writePump(keepAlive time.Duration) {
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case ev, ok := <-c.sub.Events():
			if !ok {
				// Session finished (or unsubscribed); final event already flushed.
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session finished"))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.Debugf("session %s: subscriber %s write error: %v", c.sessionID, c.sub.ID, err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
