package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storesync/internal/api/handlers"
	"storesync/internal/api/middleware"
	"storesync/internal/config"
	"storesync/internal/logger"
	"storesync/internal/storefront"
	"storesync/internal/worker/processors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the components the HTTP API exposes.
type Services struct {
	Sync    handlers.Syncer
	Catalog *storefront.Catalog
	Events  *processors.EventProcessor
	// Publisher is optional. When set, webhooks are queued instead of
	// processed inline.
	Publisher handlers.EventPublisher
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, svc Services) *Server {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(svc.Sync, svc.Catalog.Invalidate, logger)
	webhookHandler := handlers.NewWebhookHandler(svc.Events, svc.Publisher, logger)
	productHandler := handlers.NewProductHandler(svc.Catalog, logger)
	categoryHandler := handlers.NewCategoryHandler(svc.Catalog, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := router.Group("/api")
	{
		// Sync triggers and history
		sync := api.Group("/sync", middleware.SharedSecret(cfg.SyncSecret))
		{
			sync.POST("", syncHandler.Trigger)
			sync.GET("", syncHandler.History)
		}

		// Fulfillment webhooks
		api.POST("/webhook", webhookHandler.Handle)

		// Storefront
		api.GET("/products", productHandler.List)
		api.GET("/products/:remoteId", productHandler.Get)
		api.GET("/categories", categoryHandler.List)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	// Full syncs run inside the trigger request, so writes get a long timeout.
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless deployments and tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
