package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// SiteHandler обслуживает маршруты шапки и подвала сайта.
type SiteHandler struct {
	site *service.SiteService
}

// NewSiteHandler создаёт новый хэндлер.
func NewSiteHandler(site *service.SiteService) *SiteHandler {
	return &SiteHandler{site: site}
}

// Get обрабатывает GET /site/:section.
func (h *SiteHandler) Get(c *gin.Context) {
	section := c.Param("section")

	sc, err := h.site.Get(c.Request.Context(), section)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, sc)
}

// Update обрабатывает PUT /admin/site/:section.
func (h *SiteHandler) Update(c *gin.Context) {
	section := c.Param("section")

	var payload models.Payload
	if err := common.BindAndValidate(c, &payload); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	sc, err := h.site.Update(c.Request.Context(), common.CurrentPrincipal(c), section, payload)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, sc)
}
