package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ignatzorin/portfolio-backend/internal/goroutine"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
)

// Hub управляет всеми WebSocket подключениями чата. Посетитель может
// держать несколько вкладок, поэтому на один visitorID приходится
// несколько клиентов.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	visitorID string
	payload   []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.visitorID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToVisitor отправляет событие всем подключениям посетителя.
// Поле "type" содержит имя события, "data" — полезную нагрузку.
func (h *Hub) BroadcastToVisitor(visitorID, event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- message{visitorID: visitorID, payload: raw}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.visitorID]; !ok {
		h.clients[client.visitorID] = make(map[*Client]struct{})
	}
	h.clients[client.visitorID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.visitorID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.visitorID)
		}
	}
}

func (h *Hub) send(visitorID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[visitorID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем соединение асинхронно,
			// чтобы не блокировать рассылку остальным.
			goroutine.SafeGo(client.Close)
			if logger.Log != nil {
				logger.Log.WithField("visitor_id", visitorID).Warn("ws: буфер клиента переполнен, соединение закрыто")
			}
		}
	}
}
