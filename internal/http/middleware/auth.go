package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextPrincipalKey = "principal"
)

// AuthMiddleware проверяет JWT access токен и кладёт принципала в контекст.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		principal, err := tokens.ParseAccess(raw)
		if err != nil || principal == nil || principal.ID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware извлекает принципала, если токен передан, но не
// требует авторизации. Нужен публичным ручкам, которые показывают больше
// данных администратору (черновики блога).
func OptionalAuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			if principal, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer ")); err == nil && principal != nil {
				c.Set(ContextPrincipalKey, principal)
			}
		}
		c.Next()
	}
}

// AdminOnly пропускает только администраторов. Ставится после AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextPrincipalKey)
		principal, ok := raw.(*models.Principal)
		if !exists || !ok || !principal.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "операция доступна только администратору"})
			return
		}
		c.Next()
	}
}
