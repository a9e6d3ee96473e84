package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/config"
	"github.com/dmitrijs2005/promptify/internal/client/services"
	"github.com/dmitrijs2005/promptify/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	session services.SessionService
	unlocks services.UnlockService
	catalog services.CatalogService
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	Mode     Mode
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.CacheFile)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewMarketplaceClientService(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	logger := logging.NewConsoleLogger(os.Stderr, slog.LevelWarn)

	return &App{
		config:  c,
		session: services.NewSessionService(apiClient, db),
		unlocks: services.NewUnlockService(apiClient, db, logger),
		catalog: services.NewCatalogService(apiClient, db),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) w() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	if a.session == nil {
		return false
	}
	_, err := a.session.Current(context.Background())
	return err == nil
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.session.Ping(ctx); err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
