package core

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/catalog"
	"github.com/dvstream/catalog/internal/config"
	"github.com/dvstream/catalog/internal/db"
	"github.com/dvstream/catalog/internal/imagehost"
	"github.com/dvstream/catalog/internal/jobs"
	"github.com/dvstream/catalog/internal/logger"
	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/notify"
	"github.com/dvstream/catalog/internal/settings"
	"github.com/dvstream/catalog/internal/store"
	"github.com/dvstream/catalog/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	db         *sql.DB
	log        *logger.Logger
	logger     zerolog.Logger
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	scheduler  *gocron.Scheduler
	store      *store.Store
	catalog    *catalog.Service
	settings   *settings.Service
	dispatcher *notify.Dispatcher
	imageHost  imagehost.Host

	mu          sync.RWMutex
	adminSecret string

	Version string
}

// New sets up and returns a new App instance. It handles building the
// logger, initializing the database connection, and running migrations.
func New(cfg *config.Config, version string) (*App, error) {
	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	}
	if cfg.Log.Stderr {
		logCfg.Output = os.Stderr
	}
	log := logger.New(logCfg)

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, log.Component("db")); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		log.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := Assemble(cfg, database, log.Logger, version)
	if err != nil {
		database.Close()
		log.Close()
		return nil, err
	}
	app.log = log

	app.logger.Info().Str("version", version).Msg("Core application setup complete.")
	return app, nil
}

// Assemble wires every service on top of an open, migrated database.
func Assemble(cfg *config.Config, database *sql.DB, log zerolog.Logger, version string) (*App, error) {
	st := store.New(database, store.WithSeriesOrder(cfg.Catalog.SeriesOrder))

	hub := websocket.NewHub()
	hub.SetLogger(log)

	settingsSvc := settings.NewService(st, models.Settings{
		ActiveDomain: cfg.Settings.ActiveDomain,
		StableURL:    cfg.Settings.StableURL,
	}, log)

	telegram := notify.NewTelegram(cfg.Telegram.APIBase, &http.Client{}, settingsSvc, log)
	dispatcher := notify.NewDispatcher(telegram, notify.Options{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
		Timeout:   cfg.Notify.Timeout,
	}, log)

	app := &App{
		config:      cfg,
		db:          database,
		logger:      log,
		wsHub:       hub,
		jobManager:  jobs.NewManager(log),
		store:       st,
		catalog:     catalog.NewService(st, dispatcher, hub, log),
		settings:    settingsSvc,
		dispatcher:  dispatcher,
		adminSecret: cfg.Admin.Secret,
		Version:     version,
	}
	jobs.Register(app.jobManager)

	if cfg.Cloudinary.CloudName != "" {
		host, err := imagehost.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder, log)
		if err != nil {
			return nil, err
		}
		app.imageHost = host
	} else {
		log.Warn().Msg("Cloudinary is not configured, image uploads are disabled")
	}

	return app, nil
}

// Start runs the background parts of the app: the websocket hub, the
// notification workers and the job scheduler. The settings singleton is
// created here if it does not exist yet.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.settings.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialise settings: %w", err)
	}
	go a.wsHub.Run()
	a.dispatcher.Start()
	a.scheduler = jobs.StartJobs(a, a.jobManager, a.config.Jobs.PruneGenresInterval)
	return nil
}

// Close stops background work and closes the application's resources.
func (a *App) Close(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if err := a.dispatcher.Stop(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Notifications still pending at shutdown")
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}

func (a *App) Config() *config.Config           { return a.config }
func (a *App) DB() *sql.DB                      { return a.db }
func (a *App) Logger() zerolog.Logger           { return a.logger }
func (a *App) WsHub() *websocket.Hub            { return a.wsHub }
func (a *App) Broadcaster() jobs.Broadcaster    { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager     { return a.jobManager }
func (a *App) Store() *store.Store              { return a.store }
func (a *App) Catalog() *catalog.Service        { return a.catalog }
func (a *App) Settings() *settings.Service      { return a.settings }
func (a *App) Dispatcher() *notify.Dispatcher   { return a.dispatcher }
func (a *App) ImageHost() imagehost.Host        { return a.imageHost }
func (a *App) SetImageHost(host imagehost.Host) { a.imageHost = host }

// AdminSecret returns the current shared admin secret.
func (a *App) AdminSecret() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.adminSecret
}

// SetAdminSecret replaces the admin secret, e.g. after a config reload.
func (a *App) SetAdminSecret(secret string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adminSecret = secret
}

// ApplyConfig updates the settings that can change without a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	if cfg.Admin.Secret != "" {
		a.SetAdminSecret(cfg.Admin.Secret)
	}
	a.settings.SetDefaults(models.Settings{
		ActiveDomain: cfg.Settings.ActiveDomain,
		StableURL:    cfg.Settings.StableURL,
	})
	a.logger.Info().Msg("Configuration reloaded")
}
