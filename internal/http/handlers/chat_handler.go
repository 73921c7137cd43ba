package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// ChatHandler обслуживает чат с AI ассистентом.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler создаёт новый хэндлер.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// messageRequest — тело реплики посетителя.
type messageRequest struct {
	VisitorID string `json:"visitor_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// PublicSettings обрабатывает GET /chat/settings.
func (h *ChatHandler) PublicSettings(c *gin.Context) {
	settings, err := h.chat.GetPublicSettings(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, settings)
}

// History обрабатывает GET /chat/history?visitor_id=...
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.chat.History(c.Request.Context(), c.Query("visitor_id"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, messages)
}

// SendMessage обрабатывает POST /chat/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), req.VisitorID, req.Content)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, reply)
}

// StreamMessage обрабатывает POST /chat/messages/stream: ответ ассистента
// уходит чанками через Server-Sent Events, в конце — событие done с
// сохранённым сообщением.
func (h *ChatHandler) StreamMessage(c *gin.Context) {
	var req messageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		common.RespondError(c, http.StatusInternalServerError, "стриминг не поддерживается")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	writeEvent := func(event string, data any) {
		raw, err := json.Marshal(data)
		if err != nil {
			return
		}
		_, _ = c.Writer.WriteString("event: " + event + "\n")
		_, _ = c.Writer.WriteString("data: " + string(raw) + "\n\n")
		flusher.Flush()
	}

	saved, err := h.chat.StreamMessage(c.Request.Context(), req.VisitorID, req.Content, func(chunk string) error {
		writeEvent("delta", gin.H{"content": chunk})
		return nil
	})
	if err != nil {
		writeEvent("error", gin.H{"error": "ассистент недоступен"})
		return
	}

	writeEvent("done", saved)
}

// GetSettings обрабатывает GET /admin/chat/settings.
func (h *ChatHandler) GetSettings(c *gin.Context) {
	settings, err := h.chat.GetSettings(c.Request.Context(), common.CurrentPrincipal(c))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, settings)
}

// UpdateSettings обрабатывает PUT /admin/chat/settings.
func (h *ChatHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		AssistantName string `json:"assistant_name" binding:"required"`
		SystemPrompt  string `json:"system_prompt" binding:"required"`
		Tone          string `json:"tone"`
		Enabled       bool   `json:"enabled"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	settings := &models.ChatSettings{
		AssistantName: req.AssistantName,
		SystemPrompt:  req.SystemPrompt,
		Tone:          req.Tone,
		Enabled:       req.Enabled,
	}

	if err := h.chat.UpdateSettings(c.Request.Context(), common.CurrentPrincipal(c), settings); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, settings)
}

// ListConversations обрабатывает GET /admin/chat/conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	conversations, err := h.chat.ListConversations(c.Request.Context(), common.CurrentPrincipal(c), limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, conversations)
}

// ListMessages обрабатывает GET /admin/chat/conversations/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор диалога")
		return
	}

	messages, err := h.chat.ListMessages(c.Request.Context(), common.CurrentPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, messages)
}
