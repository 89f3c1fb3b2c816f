// Package api serves a local introspection HTTP API over the GC
// session: connection state, backpack contents, schema status and
// process health. It is a debugging surface, bound to localhost by
// default and unauthenticated.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	tf2 "github.com/Gobot1234/steam-ext-tf2"
	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/health"
)

// Server exposes the session engine over HTTP.
type Server struct {
	cfg   *config.Config
	state *tf2.GCState

	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates the introspection server.
func NewServer(cfg *config.Config, state *tf2.GCState) *Server {
	if cfg.ApplicationData.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, state: state}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.router = s.buildRouter()

	apiCfg := s.cfg.ApplicationData.API
	addr := fmt.Sprintf("%s:%d", apiCfg.Bind, apiCfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("introspection API starting")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.GET("/status", s.handleStatus)
		api.GET("/backpack", s.handleBackpack)
		api.GET("/backpack/:id", s.handleBackpackItem)
		api.GET("/schema", s.handleSchema)
		api.GET("/health", s.handleHealth)
	}
	return router
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pong": time.Now().UTC()})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app_id":         s.cfg.GetGCData().AppID,
		"established":    s.state.Established(),
		"ready":          s.state.Ready(),
		"gc_version":     s.state.Version(),
		"backpack_slots": s.state.BackpackSlots(),
		"is_premium":     s.state.IsPremium(),
	})
}

func (s *Server) handleBackpack(c *gin.Context) {
	bp := s.state.Backpack()
	if bp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backpack not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(bp.Items),
		"items": bp.Items,
	})
}

func (s *Server) handleBackpackItem(c *gin.Context) {
	bp := s.state.Backpack()
	if bp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backpack not loaded yet"})
		return
	}
	var id uint64
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	item := bp.ItemByID(id)
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleSchema(c *gin.Context) {
	schema := s.state.Schema()
	if schema == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "schema not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version": schema.Version,
		"url":     schema.URL,
		"items":   schema.Len(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, health.Sample())
}
