package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// ContactHandler обслуживает контактную форму.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler создаёт новый хэндлер.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit обрабатывает POST /contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req struct {
		Name    string  `json:"name" binding:"required"`
		Email   string  `json:"email" binding:"required"`
		Subject *string `json:"subject"`
		Message string  `json:"message" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	msg, err := h.contact.Submit(c.Request.Context(), service.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, gin.H{"id": msg.ID, "message": "сообщение отправлено"})
}

// List обрабатывает GET /admin/contact.
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	messages, err := h.contact.List(c.Request.Context(), common.CurrentPrincipal(c), limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, messages)
}

// Get обрабатывает GET /admin/contact/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор сообщения")
		return
	}

	msg, err := h.contact.Get(c.Request.Context(), common.CurrentPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, msg)
}

// Delete обрабатывает DELETE /admin/contact/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор сообщения")
		return
	}

	if err := h.contact.Delete(c.Request.Context(), common.CurrentPrincipal(c), id); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "сообщение удалено"})
}
