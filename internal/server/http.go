package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/internal/server/middlewares"
)

const (
	ProductionServer string = "prod"
	DevServer        string = "dev"
	apiV1            string = "/api/v1"
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

func NewServer(cfg config.Server, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	switch cfg.Mode {
	case ProductionServer:
		gin.SetMode(gin.ReleaseMode)
	case DevServer:
		gin.SetMode(gin.DebugMode)
	default:
		return nil, fmt.Errorf("invalid server mode %q", cfg.Mode)
	}

	engine := gin.New()
	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router := engine.Group(apiV1)
	router.Use(
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.S().Desugar(), true),
	)

	registerHandlerFn(router)

	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort),
			Handler: engine,
		},
		engine: engine,
	}, nil
}

// Handler exposes the router, mostly for tests.
func (r *Server) Handler() http.Handler {
	return r.engine
}

// Start serves until Stop is called. A stopped server returns nil.
func (r *Server) Start() error {
	zap.S().Named("http").Infow("starting http server", "addr", r.srv.Addr)
	if err := r.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Named("http").Errorw("failed to start server", "error", err)
		return err
	}
	return nil
}

func (r *Server) Stop(ctx context.Context) error {
	if err := r.srv.Shutdown(ctx); err != nil {
		zap.S().Named("http").Errorw("server shutdown", "error", err)
		return err
	}
	return nil
}
