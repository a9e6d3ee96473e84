// Package server wires configuration, storage, services and transports
// into the runnable marketplace backend and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/config"
	"github.com/dmitrijs2005/promptify/internal/server/metrics"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptify/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/promptify/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	metrics  *metrics.Collector
	services gs.Services
}

// NewApp opens storage, applies migrations and builds the services.
// DatabaseDSN "memory" selects a seeded in-process store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, metrics: metrics.NewCollector()}

	tx, manager, err := app.openStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app.services = gs.Services{
		Ledger:   services.NewLedgerService(tx, manager, app.metrics, logger),
		Gate:     services.NewGateService(tx, manager, logger),
		Profiles: services.NewProfileService(tx, manager, c.StartingCoins, logger),
		Catalog:  services.NewCatalogService(tx, manager, c, logger),
	}

	return app, nil
}

func (app *App) openStorage(ctx context.Context) (dbx.Transactor, repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == memstore.DSN {
		app.logger.Warn(ctx, "using in-memory store, data is lost on exit")
		store := memstore.New()
		store.Seed()
		return store, memstore.NewManager(store), nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			app.logger.Warn(ctx, "database not ready", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	app.db = db
	return dbx.NewTransactor(db), manager, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.IdentitySecret, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)

	if err := app.metrics.Serve(ctx, app.config.MetricsAddr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
