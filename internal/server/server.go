package server

import (
	"context"
	"net/http"
	"time"

	"hyphema-tracker/internal/config"
	"hyphema-tracker/internal/logger"
	"hyphema-tracker/internal/server/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP engine and its lifecycle.
type Server struct {
	httpServer *http.Server
	cfg        config.ServerConfig
}

// New builds the router with all routes and middleware wired up.
func New(cfg config.ServerConfig, h *handlers.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "available",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	{
		api.POST("/patients", h.RegisterPatient)
		api.GET("/patients", h.ListPatients)
		api.GET("/patients/:patientId", h.GetPatient)
		api.PUT("/patients/:patientId", h.UpdatePatient)
		api.DELETE("/patients/:patientId", h.DeletePatient)

		api.POST("/patients/:patientId/injuries", h.CreateInjury)
		api.GET("/patients/:patientId/injuries", h.ListInjuries)
		api.DELETE("/injuries/:injuryId", h.DeleteInjury)
		api.GET("/injuries/:injuryId/eyes", h.ListEyesForInjury)

		api.GET("/patients/:patientId/injuries/:injuryId/eyes/:eyeSide", h.HealingCurve)

		uploads := api.Group("/patients/:patientId")
		uploads.Use(maxBodySize(cfg.MaxUploadBytes))
		uploads.POST("/analyses", h.RunAnalysis)
		uploads.POST("/results", h.SaveResult)
	}

	r.GET("/uploads/:filename", h.ServePhoto)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		cfg: cfg,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
