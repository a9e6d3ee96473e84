package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptify/internal/server/config"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = memstore.DSN
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = "127.0.0.1:0"
	return c
}

func TestNewApp_MemoryStore(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	assert.Nil(t, app.db)
	assert.NotNil(t, app.services.Ledger)
	assert.NotNil(t, app.services.Gate)
	assert.NotNil(t, app.services.Profiles)
	assert.NotNil(t, app.services.Catalog)
}

func TestNewApp_UnknownLogBackend(t *testing.T) {
	c := memoryConfig()
	c.LogBackend = "syslog"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
