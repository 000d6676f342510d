package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railzwaylabs/featuregate/internal/config"
	featuredomain "github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServerParams struct {
	fx.In

	Engine     *gin.Engine
	Log        *zap.Logger
	FeatureSvc featuredomain.Service
}

type Server struct {
	engine     *gin.Engine
	log        *zap.Logger
	featureSvc featuredomain.Service
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(log.Named("http")))
	return engine
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Engine,
		log:        p.Log.Named("server"),
		featureSvc: p.FeatureSvc,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/features/:slug/global", s.GetGlobalFeature)
	api.GET("/users/:user_id/features/:slug", s.GetUserFeature)
	api.GET("/teams/:team_id/features/:slug", s.GetTeamFeature)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func RunHTTP(lc fx.Lifecycle, s *Server, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			s.log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.HTTP.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
				defer cancel()
			}
			return srv.Shutdown(ctx)
		},
	})
}
