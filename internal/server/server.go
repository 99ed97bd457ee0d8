// Package server exposes the chat pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propertychat/internal/common/config"
	"propertychat/internal/common/database"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/observability"
	"propertychat/internal/models"
	"propertychat/internal/store"
)

// ChatPipeline is the request flow behind /api/chat.
type ChatPipeline interface {
	Handle(ctx context.Context, query string) (*models.ChatResponse, error)
}

type Server struct {
	config   *config.Config
	pipeline ChatPipeline
	store    store.ListingStore
	cache    *database.RedisClient
	obs      *observability.Observability
	logger   logger.Logger

	router *gin.Engine
	http   *http.Server
}

// New builds the router. cache and obs may be nil; the filter-options
// endpoint then skips caching and request metrics are not recorded.
func New(cfg *config.Config, pipeline ChatPipeline, st store.ListingStore, cache *database.RedisClient, obs *observability.Observability, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   cfg,
		pipeline: pipeline,
		store:    st,
		cache:    cache,
		obs:      obs,
		logger:   log.With(map[string]interface{}{"component": "server"}),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.requestLog())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/chat", s.handleChatGET)
		api.POST("/chat", s.handleChatPOST)
		api.GET("/chat/filters", s.handleFilterOptions)
	}

	s.router = router
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	writeTimeout := 60 * time.Second
	if t := s.config.Server.RequestTimeoutDuration(); t > 0 {
		writeTimeout = t
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{
			"port": s.config.Server.Port,
		})
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}
