package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ignatzorin/portfolio-backend/internal/goroutine"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// InboundMessage — реплика посетителя, пришедшая по WebSocket.
type InboundMessage struct {
	Content string `json:"content"`
}

// MessageHandler обрабатывает входящую реплику посетителя.
type MessageHandler func(ctx context.Context, visitorID, content string)

// Client представляет одно подключение WebSocket.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	visitorID string
	send      chan []byte
	onMessage MessageHandler
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, hub *Hub, visitorID string, onMessage MessageHandler) *Client {
	return &Client{
		conn:      conn,
		hub:       hub,
		visitorID: visitorID,
		send:      make(chan []byte, 16),
		onMessage: onMessage,
	}
}

// Run запускает обработку входящих и исходящих сообщений.
func (c *Client) Run(ctx context.Context) {
	goroutine.SafeGo(c.writePump)
	c.readPump(ctx)
}

// Close закрывает соединение.
func (c *Client) Close() {
	c.hub.Unregister(c)
	c.conn.Close()
}

func (c *Client) readPump(ctx context.Context) {
	defer c.Close()

	c.conn.SetReadLimit(64 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					if logger.Log != nil {
						logger.Log.WithField("visitor_id", c.visitorID).Debugf("ws: соединение разорвано: %v", err)
					}
				}
				return
			}

			var msg InboundMessage
			if err := json.Unmarshal(raw, &msg); err != nil || msg.Content == "" {
				continue
			}

			if c.onMessage != nil {
				visitorID, content := c.visitorID, msg.Content
				goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
					c.onMessage(ctx, visitorID, content)
				})
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
