package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/http/handlers"
	"github.com/ignatzorin/portfolio-backend/internal/http/middleware"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	siteHandler *handlers.SiteHandler,
	blogHandler *handlers.BlogHandler,
	contactHandler *handlers.ContactHandler,
	chatHandler *handlers.ChatHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/media/*path", mediaHandler.Serve)

	api := r.Group("/api")

	// Публичные пишущие ручки прикрыты rate limit по IP.
	publicWriteLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты чтения. Опциональная авторизация: администратор
	// видит черновики блога.
	public := api.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(tokenManager))
	{
		public.GET("/content/:collection", contentHandler.List)
		public.GET("/content/:collection/:id", middleware.UUIDValidator("id"), contentHandler.Get)

		public.GET("/site/:section", siteHandler.Get)

		public.GET("/blog", blogHandler.ListPosts)
		public.GET("/blog/:slug", blogHandler.GetPost)
		public.GET("/blog/:slug/comments", blogHandler.ListComments)

		public.GET("/chat/settings", chatHandler.PublicSettings)
		public.GET("/chat/history", chatHandler.History)
		public.GET("/chat/ws", wsHandler.Handle)
	}

	// Публичные пишущие маршруты.
	api.POST("/contact", publicWriteLimit, contactHandler.Submit)
	api.POST("/blog/:slug/comments", publicWriteLimit, blogHandler.AddComment)
	api.POST("/chat/messages", publicWriteLimit, chatHandler.SendMessage)
	api.POST("/chat/messages/stream", publicWriteLimit, chatHandler.StreamMessage)

	// Администраторские маршруты.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.GET("/sessions", authHandler.ListSessions)
		admin.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)

		admin.POST("/content/:collection", contentHandler.Create)
		admin.PATCH("/content/:collection/:id", middleware.UUIDValidator("id"), contentHandler.Update)
		admin.DELETE("/content/:collection/:id", middleware.UUIDValidator("id"), contentHandler.Delete)
		admin.POST("/content/:collection/:id/reorder", middleware.UUIDValidator("id"), contentHandler.Reorder)
		admin.POST("/content/:collection/renumber", contentHandler.Renumber)

		admin.PUT("/site/:section", siteHandler.Update)

		admin.POST("/blog", blogHandler.CreatePost)
		admin.PUT("/blog/:id", middleware.UUIDValidator("id"), blogHandler.UpdatePost)
		admin.DELETE("/blog/:id", middleware.UUIDValidator("id"), blogHandler.DeletePost)
		admin.DELETE("/blog/comments/:id", middleware.UUIDValidator("id"), blogHandler.DeleteComment)

		admin.GET("/contact", contactHandler.List)
		admin.GET("/contact/:id", middleware.UUIDValidator("id"), contactHandler.Get)
		admin.DELETE("/contact/:id", middleware.UUIDValidator("id"), contactHandler.Delete)

		admin.GET("/chat/settings", chatHandler.GetSettings)
		admin.PUT("/chat/settings", chatHandler.UpdateSettings)
		admin.GET("/chat/conversations", chatHandler.ListConversations)
		admin.GET("/chat/conversations/:id/messages", middleware.UUIDValidator("id"), chatHandler.ListMessages)

		admin.POST("/media", mediaHandler.Upload)
		admin.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Delete)
	}

	return r
}
