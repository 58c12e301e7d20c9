package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/nodetree-backend/internal/data/db"
	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	httpsrv "github.com/yungbote/nodetree-backend/internal/http"
	"github.com/yungbote/nodetree-backend/internal/observability"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *httpsrv.Server

	dbService    *dbpkg.Service
	clients      Clients
	otelShutdown func(context.Context) error
}

// Open loads config and connects the database, without wiring the API.
// The migrate and seed commands stop here.
func Open() (*App, error) {
	log, err := logger.New(LogMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbs, err := dbpkg.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	return &App{Log: log, DB: dbs.DB(), Cfg: cfg, dbService: dbs}, nil
}

// New opens the app, migrates and wires everything needed to serve.
func New(ctx context.Context) (*App, error) {
	a, err := Open()
	if err != nil {
		return nil, err
	}
	a.otelShutdown = observability.InitOTel(ctx, a.Log, a.Cfg.Otel)

	if err := a.Migrate(); err != nil {
		a.Close()
		return nil, err
	}

	clients, err := wireClients(a.Log, a.Cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.clients = clients

	a.Repos = wireRepos(a.DB, a.Log)
	serviceset, err := wireServices(a.DB, a.Log, a.Cfg, a.Repos, clients)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = serviceset

	handlerset := wireHandlers(a.Log, a.DB, a.Cfg, serviceset)
	middleware := wireMiddleware(a.Log, serviceset)
	a.Server = wireServer(a.Log, a.Cfg, handlerset, middleware)
	return a, nil
}

func (a *App) Migrate() error {
	if err := a.dbService.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// SeedStateCodes installs the default state codes, keeping existing rows' codes.
func (a *App) SeedStateCodes(ctx context.Context) error {
	svc := services.NewStateCodeService(a.Log, txn.NewRunner(a.DB), repos.NewStateCodeRepo(a.DB, a.Log))
	return svc.Seed(dbctx.Context{Ctx: ctx}, nil)
}

// Run serves the API and the metrics listener until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("API listening", "addr", a.Cfg.Port)
		return a.Server.Run(gctx, a.Cfg.ShutdownTimeout)
	})

	if a.Cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := &http.Server{Addr: a.Cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			a.Log.Info("Metrics listening", "addr", a.Cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	a.Log.Info("Server stopped")
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.clients.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
