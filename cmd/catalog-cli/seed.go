package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dvstream/catalog/internal/core"
	"github.com/dvstream/catalog/internal/models"
)

//go:embed seed.json
var sampleSeed []byte

// seedItem is one entry of a seed file. Content uses the same shape as the
// admin create endpoint.
type seedItem struct {
	Type    string              `json:"type"`
	Content models.ContentInput `json:"content"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample movies and series",
	Long: `Create sample content through the catalog service.

Without --file a small built-in set is used. A seed file is a JSON array
of {"type": "movie"|"series", "content": {...}} objects.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "Seed file to load instead of the built-in samples")
}

func loadSeed(fs afero.Fs, path string) ([]seedItem, error) {
	data := sampleSeed
	if path != "" {
		var err error
		if data, err = afero.ReadFile(fs, path); err != nil {
			return nil, err
		}
	}
	var items []seedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return items, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	items, err := loadSeed(afero.NewOsFs(), path)
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, app *core.App) error {
		for i, item := range items {
			t, ok := models.ParseContentType(item.Type)
			if !ok {
				return fmt.Errorf("item %d: unknown type %q", i, item.Type)
			}
			c, err := app.Catalog().Create(ctx, t, item.Content)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", t, c.ContentID())
		}
		return nil
	})
}
