package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/portfolio-backend/internal/ai"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/db"
	httpHandlers "github.com/ignatzorin/portfolio-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/portfolio-backend/internal/http/router"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
	"github.com/ignatzorin/portfolio-backend/internal/service"
	"github.com/ignatzorin/portfolio-backend/internal/storage"
	"github.com/ignatzorin/portfolio-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	contentRepo := repository.NewContentRepository(dbConn)
	siteRepo := repository.NewSiteRepository(dbConn)
	blogRepo := repository.NewBlogRepository(dbConn)
	contactRepo := repository.NewContactRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Шина post-commit событий: удаление документа тянет очистку медиа.
	events := service.NewEvents()
	events.Subscribe(storage.NewAssetCleaner(mediaStorage, mediaRepo))

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	contentService := service.NewContentService(contentRepo, events)
	siteService := service.NewSiteService(siteRepo)
	blogService := service.NewBlogService(blogRepo, events)
	contactService := service.NewContactService(contactRepo)

	var assistant service.AssistantClient
	if cfg.AIBaseURL != "" {
		assistant = ai.NewClient(cfg.AIBaseURL, cfg.AIModel)
	}
	chatService := service.NewChatService(chatRepo, assistant)

	// Администратор создаётся при первом запуске на пустой базе.
	if err := authService.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("main: не удалось создать администратора: %v", err)
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	contentHandler := httpHandlers.NewContentHandler(contentService)
	siteHandler := httpHandlers.NewSiteHandler(siteService)
	blogHandler := httpHandlers.NewBlogHandler(blogService)
	contactHandler := httpHandlers.NewContactHandler(contactService)
	chatHandler := httpHandlers.NewChatHandler(chatService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, mediaStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, chatService, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		authHandler, contentHandler, siteHandler, blogHandler,
		contactHandler, chatHandler, mediaHandler, wsHandler,
		healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
