package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// ContentHandler обслуживает маршруты упорядоченных коллекций:
// навыки, опыт, услуги, сертификаты, проекты.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler создаёт новый хэндлер.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{content: contentService}
}

// collection извлекает и проверяет имя коллекции из маршрута.
func (h *ContentHandler) collection(c *gin.Context) (content.Collection, bool) {
	col, err := content.Parse(c.Param("collection"))
	if err != nil {
		common.RespondBadRequest(c, "неизвестная коллекция "+c.Param("collection"))
		return "", false
	}
	return col, true
}

// List обрабатывает GET /content/:collection.
func (h *ContentHandler) List(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	items, err := h.content.List(c.Request.Context(), col)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, items)
}

// Get обрабатывает GET /content/:collection/:id.
func (h *ContentHandler) Get(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор документа")
		return
	}

	item, err := h.content.Get(c.Request.Context(), col, id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Create обрабатывает POST /admin/content/:collection.
func (h *ContentHandler) Create(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	var payload models.Payload
	if err := common.BindAndValidate(c, &payload); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.content.Create(c.Request.Context(), common.CurrentPrincipal(c), col, payload)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, item)
}

// Update обрабатывает PATCH /admin/content/:collection/:id.
// Тело — частичный payload, поля сливаются с существующими.
func (h *ContentHandler) Update(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор документа")
		return
	}

	var partial models.Payload
	if err := common.BindAndValidate(c, &partial); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.content.Update(c.Request.Context(), common.CurrentPrincipal(c), col, id, partial)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Delete обрабатывает DELETE /admin/content/:collection/:id.
func (h *ContentHandler) Delete(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор документа")
		return
	}

	if err := h.content.Delete(c.Request.Context(), common.CurrentPrincipal(c), col, id); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "документ удалён"})
}

// Reorder обрабатывает POST /admin/content/:collection/:id/reorder.
func (h *ContentHandler) Reorder(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор документа")
		return
	}

	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.content.Reorder(c.Request.Context(), common.CurrentPrincipal(c), col, id, req.Direction); err != nil {
		common.AbortWithError(c, err)
		return
	}

	// Клиенту возвращается актуальный порядок коллекции.
	items, err := h.content.List(c.Request.Context(), col)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, items)
}

// Renumber обрабатывает POST /admin/content/:collection/renumber.
func (h *ContentHandler) Renumber(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}

	if err := h.content.Renumber(c.Request.Context(), common.CurrentPrincipal(c), col); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "коллекция перенумерована"})
}
