package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvstream/catalog/internal/config"
	"github.com/dvstream/catalog/internal/core"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "catalog-cli",
	Short: "Maintenance commands for the catalog database",
	Long: `catalog-cli - maintenance commands for the catalog database

Reads config.yml and .env from the working directory, the same way the
server does. Run the server binary to serve the API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("catalog-cli {{.Version}}\n")
}

// withApp loads the configuration, opens the app and runs fn. Background
// workers are not started.
func withApp(fn func(ctx context.Context, app *core.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// stdout carries command output.
	cfg.Log.Stderr = true
	app, err := core.New(cfg, version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Close(ctx)
	}()
	return fn(context.Background(), app)
}
