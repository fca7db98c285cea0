package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvstream/catalog/internal/config"
	"github.com/dvstream/catalog/internal/db"
	"github.com/dvstream/catalog/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	defer log.Close()

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database, log.Component("db")); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date.\n", cfg.Database.Path)
	return nil
}
