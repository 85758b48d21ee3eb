package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pestdesk/internal/bootstrap"
	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/config"
	dashboarddomain "github.com/smallbiznis/pestdesk/internal/dashboard/domain"
	"github.com/smallbiznis/pestdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/pestdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pestdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/pestdesk/internal/observability/tracing"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if obsCfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	clock        clock.Clock
	handle       *db.Handle
	recordSvc    recorddomain.Service
	dashboardSvc dashboarddomain.Service
	inspector    *bootstrap.Inspector
	dashboardCfg *config.DashboardConfigHolder
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Log             *zap.Logger
	Clock           clock.Clock
	Handle          *db.Handle
	RecordSvc       recorddomain.Service
	DashboardSvc    dashboarddomain.Service
	Inspector       *bootstrap.Inspector
	DashboardConfig *config.DashboardConfigHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		log:          p.Log.Named("http.handlers"),
		clock:        p.Clock,
		handle:       p.Handle,
		recordSvc:    p.RecordSvc,
		dashboardSvc: p.DashboardSvc,
		inspector:    p.Inspector,
		dashboardCfg: p.DashboardConfig,
	}

	svc.registerHealthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.Health)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/status", s.GetStatus)
	api.GET("/catalog", s.GetCatalog)

	// -------- Records --------
	api.GET("/records", s.ListRecords)
	api.POST("/records", s.CreateRecord)
	api.GET("/records/export", s.ExportRecords)
	api.GET("/records/:id", s.GetRecordByID)
	api.PATCH("/records/:id", s.UpdateRecord)

	// -------- Dashboard --------
	api.GET("/dashboard", s.GetDashboard)
}
