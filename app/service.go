package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/granthours/api/allocations"
	"github.com/kilianp07/granthours/config"
	coremetrics "github.com/kilianp07/granthours/core/metrics"
	"github.com/kilianp07/granthours/core/monitoring"
	"github.com/kilianp07/granthours/core/planner"
	"github.com/kilianp07/granthours/core/runlog"
	"github.com/kilianp07/granthours/infra/logger"
	"github.com/kilianp07/granthours/infra/metrics"
	inframon "github.com/kilianp07/granthours/infra/monitoring"
)

// Service wires the planner to the HTTP API and the metrics endpoint.
type Service struct {
	Planner  *planner.Planner
	router   *gin.Engine
	store    runlog.LogStore
	log      logger.Logger
	apiAddr  string
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewLogStore(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}

	p := planner.New(cfg.Allocation,
		planner.WithSink(sink),
		planner.WithRunLog(store),
		planner.WithLogger(logger.New("planner")),
		planner.WithMonitor(mon),
	)
	if cfg.Logging.Level != "debug" && cfg.Logging.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := allocations.NewHandler(p, cfg.API.MaxGrants, logger.New("api"))
	return &Service{
		Planner:  p,
		router:   allocations.NewRouter(h, cfg.API.Token),
		store:    store,
		log:      logg,
		apiAddr:  cfg.API.Addr,
		promAddr: cfg.Metrics.PrometheusAddr,
	}, nil
}

// Handler returns the HTTP handler of the API.
func (s *Service) Handler() http.Handler { return s.router }

// Run serves the API, and the metrics endpoint when configured, until the
// context is cancelled or a server fails.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{Addr: s.apiAddr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error {
		defer monitoring.Recover()
		s.log.Infof("serving API on %s", s.apiAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if s.promAddr != "" {
		g.Go(func() error {
			if err := metrics.StartPromServer(gctx, s.promAddr); err != nil {
				return fmt.Errorf("prom server: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	defer monitoring.Flush(2 * time.Second)
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
