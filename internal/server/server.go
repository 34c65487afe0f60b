package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/cache"
	"github.com/elskow/portfolio-cms/internal/config"
	"github.com/elskow/portfolio-cms/internal/database"
	"github.com/elskow/portfolio-cms/internal/middleware"
	"github.com/elskow/portfolio-cms/internal/response"
	"github.com/elskow/portfolio-cms/internal/upload"
)

const healthTimeout = 2 * time.Second

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	engine     *gin.Engine
	httpServer *http.Server
	database   *database.Manager
	cache      cache.Cache
}

type Params struct {
	fx.In

	Config     *config.AppConfig
	Logger     *zap.Logger
	Database   *database.Manager
	Cache      cache.Cache
	Store      *upload.Store
	Limiter    *middleware.APILimiter
	Registrars []api.Registrar `group:"routes"`
}

func NewServer(p Params) *Server {
	if p.Config.Env == EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(p.Logger.Named("http")),
		middleware.Recovery(p.Logger),
	)

	server := &Server{
		config:   p.Config,
		log:      p.Logger,
		engine:   engine,
		database: p.Database,
		cache:    p.Cache,
	}

	engine.Static(api.UploadsPath, p.Store.Root())

	root := engine.Group(api.Prefix, p.Limiter.Handler())
	root.GET("/health", server.health)
	for _, r := range p.Registrars {
		r.RegisterRoutes(root)
	}
	engine.NoRoute(middleware.NotFound())

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", p.Config.Server.Host, p.Config.Server.Port),
		Handler:      engine,
		ReadTimeout:  p.Config.Server.ReadTimeout,
		WriteTimeout: p.Config.Server.WriteTimeout,
	}

	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", config.Env)
		enc.AddString("database_driver", config.Database.Driver)
		enc.AddBool("cache_enabled", config.Redis.Addr != "")
		enc.AddString("upload_dir", config.Server.UploadDir)
		enc.AddInt("rate_limit_per_minute", config.RateLimit.RequestsPerMinute)
		return nil
	})
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Time     string `json:"timestamp"`
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := healthStatus{
		Status:   "ok",
		Database: "up",
		Cache:    "disabled",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := s.database.Ping(ctx); err != nil {
		s.log.Warn("health check: database unreachable", zap.Error(err))
		status.Status, status.Database = "degraded", "down"
		code = http.StatusServiceUnavailable
	}

	if _, disabled := s.cache.(cache.Noop); !disabled {
		status.Cache = "up"
		if err := s.cache.Ping(ctx); err != nil {
			// The API still serves without the cache.
			s.log.Warn("health check: cache unreachable", zap.Error(err))
			status.Cache = "down"
		}
	}

	c.JSON(code, response.Response{Success: code == http.StatusOK, Data: status})
}
