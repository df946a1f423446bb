package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prabalesh/paneltop/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// StreamMessage is one frame on /api/ws.
type StreamMessage struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Status    *models.StatusSnapshot `json:"status,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// handleStream upgrades to a websocket and pushes a status snapshot right away
// and then every stream interval until the client goes away.
func (s *Server) handleStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ip := c.ClientIP()
	s.logger.Info("Stream client connected", "ip", ip)
	defer s.logger.Info("Stream client disconnected", "ip", ip)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if !s.pushStatus(c, ws) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if !s.pushStatus(c, ws) {
				return
			}
		case <-ping.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) pushStatus(c *gin.Context, ws *websocket.Conn) bool {
	msg := StreamMessage{Type: "status", Timestamp: time.Now()}
	snap, err := s.source.Status(c.Request.Context())
	if err != nil {
		msg.Type = "error"
		msg.Error = err.Error()
	} else {
		msg.Status = &snap
	}

	ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			s.logger.Warn("Stream write failed", "error", err)
		}
		return false
	}
	return true
}

