package testutil

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/api"
	"github.com/dvstream/catalog/internal/config"
	"github.com/dvstream/catalog/internal/core"
)

// AdminSecret is the admin password configured on test apps.
const AdminSecret = "test-admin-secret"

// TestConfig returns a configuration with the defaults the server expects.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Admin.Secret = AdminSecret
	cfg.Settings.ActiveDomain = "https://dvstream.vercel.app"
	cfg.Catalog.SeriesOrder = "updated"
	cfg.Telegram.APIBase = "http://127.0.0.1:1"
	cfg.Notify.Workers = 1
	cfg.Notify.QueueSize = 16
	cfg.Upload.MaxBytes = 10 << 20
	cfg.CORS.AllowedOrigins = []string{"*"}
	return cfg
}

// SetupTestApp builds a core.App over an in-memory database. The websocket
// hub is running and the settings singleton exists; the notification
// dispatcher is not started so nothing leaves the process.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	app, err := core.Assemble(TestConfig(), SetupTestDB(t), zerolog.Nop(), "test")
	if err != nil {
		t.Fatalf("Failed to assemble app: %v", err)
	}
	go app.WsHub().Run()

	if _, err := app.Settings().Init(t.Context()); err != nil {
		t.Fatalf("Failed to initialise settings: %v", err)
	}
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app
}
