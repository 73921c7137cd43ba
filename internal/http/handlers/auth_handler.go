package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// AuthHandler обслуживает маршруты аутентификации владельца сайта.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// requestMeta собирает метаданные запроса для сессии.
func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		// Причину отказа не раскрываем, чтобы не облегчать перебор.
		common.RespondError(c, http.StatusUnauthorized, "неверный email или пароль")
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "refresh токен невалиден")
		return
	}

	common.RespondJSON(c, http.StatusOK, pair)
}

// ListSessions обрабатывает GET /admin/sessions.
func (h *AuthHandler) ListSessions(c *gin.Context) {
	principal := common.CurrentPrincipal(c)
	if principal == nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	sessions, err := h.auth.ListSessions(c.Request.Context(), principal.ID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, sessions)
}

// DeleteSession обрабатывает DELETE /admin/sessions/:id.
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	principal := common.CurrentPrincipal(c)
	if principal == nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор сессии")
		return
	}

	if err := h.auth.DeleteSession(c.Request.Context(), id, principal.ID); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "сессия удалена"})
}
