package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvstream/catalog/internal/core"
	"github.com/dvstream/catalog/internal/legacyimport"
)

var importCmd = &cobra.Command{
	Use:   "import-mongo",
	Short: "Copy movies, series and settings from a MongoDB deployment",
	Long: `Copy the catalog from the MongoDB database used by earlier deployments.

Documents keep their ids, so links already shared keep working. Running
the import again replaces the imported records.

Examples:
  catalog-cli import-mongo --uri mongodb://localhost:27017 --database movies`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("uri", "", "MongoDB connection string (defaults to mongo.uri)")
	importCmd.Flags().String("database", "", "MongoDB database name (defaults to mongo.database)")
	importCmd.Flags().Duration("timeout", 10*time.Minute, "Abort the import after this long")
}

func runImport(cmd *cobra.Command, args []string) error {
	uri, _ := cmd.Flags().GetString("uri")
	dbName, _ := cmd.Flags().GetString("database")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return withApp(func(ctx context.Context, app *core.App) error {
		if uri == "" {
			uri = app.Config().Mongo.URI
		}
		if dbName == "" {
			dbName = app.Config().Mongo.Database
		}
		if uri == "" {
			return fmt.Errorf("no MongoDB URI: pass --uri or set MONGO_URI")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		client, err := legacyimport.Connect(ctx, uri)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		im := legacyimport.New(app.Store(), app.Settings().Defaults(), app.Logger())
		res, err := im.Run(ctx, client.Database(dbName))
		if res != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies, %d series (%d episodes), settings: %t, skipped: %d\n",
				res.Movies, res.Series, res.Episodes, res.Settings, res.Skipped)
		}
		return err
	})
}
