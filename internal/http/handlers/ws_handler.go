package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/portfolio-backend/internal/service"
	"github.com/ignatzorin/portfolio-backend/internal/ws"
)

// WSHandler отвечает за WebSocket подключения чата с ассистентом.
type WSHandler struct {
	hub      *ws.Hub
	chat     *service.ChatService
	origins  map[string]bool
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, chat *service.ChatService, allowedOrigins []string) *WSHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	h := &WSHandler{hub: hub, chat: chat, origins: origins}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || h.origins[origin]
		},
	}
	return h
}

// Handle обслуживает GET /chat/ws?visitor_id=...
// Входящие реплики уходят в чат-сервис, ответ ассистента стримится
// обратно событиями delta/done на все подключения посетителя.
func (h *WSHandler) Handle(c *gin.Context) {
	visitorID := c.Query("visitor_id")
	if visitorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitor_id обязателен"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(conn, h.hub, visitorID, h.handleMessage)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}

// handleMessage обрабатывает реплику посетителя, пришедшую по WebSocket.
func (h *WSHandler) handleMessage(ctx context.Context, visitorID, content string) {
	saved, err := h.chat.StreamMessage(ctx, visitorID, content, func(chunk string) error {
		return h.hub.BroadcastToVisitor(visitorID, "delta", gin.H{"content": chunk})
	})
	if err != nil {
		_ = h.hub.BroadcastToVisitor(visitorID, "error", gin.H{"error": "ассистент недоступен"})
		return
	}

	_ = h.hub.BroadcastToVisitor(visitorID, "done", saved)
}
