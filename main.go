package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-password/password"

	"github.com/dvstream/catalog/internal/api"
	"github.com/dvstream/catalog/internal/config"
	"github.com/dvstream/catalog/internal/core"
)

var version = "dev"

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	loader := config.OSLoader()
	cfg, err := loader.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// --- Admin secret provisioning ---
	generated := false
	if cfg.Admin.Secret == "" {
		secret, err := password.Generate(24, 6, 0, false, true)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not generate an admin secret")
		}
		cfg.Admin.Secret = secret
		generated = true
	}

	// Initialize the core application components
	app, err := core.New(cfg, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error during application setup")
	}
	logger := app.Logger()

	if generated {
		logger.Warn().Msg("==================================================")
		logger.Warn().Msg("No admin secret configured. A temporary one was generated.")
		logger.Warn().Str("secret", cfg.Admin.Secret).Msg("Admin secret")
		logger.Warn().Msg("Set ADMIN_SECRET or admin.secret to keep it across restarts.")
		logger.Warn().Msg("==================================================")
	}

	if err := app.Start(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start background services")
	}

	loader.Watch(func(next *config.Config, e fsnotify.Event) {
		logger.Info().Str("file", e.Name).Msg("Config file changed")
		app.ApplyConfig(next)
	})

	// Setup the API server
	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Starting web server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Could not start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Close(ctx)

	logger.Info().Msg("Server exiting.")
}
