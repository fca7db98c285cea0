package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dvstream/catalog/internal/core"
	"github.com/dvstream/catalog/internal/sitemap"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Render sitemap.xml for the active domain",
	Long: `Render the sitemap for every movie and series.

Examples:
  catalog-cli sitemap                      # Print to stdout
  catalog-cli sitemap -o public/sitemap.xml`,
	Args: cobra.NoArgs,
	RunE: runSitemap,
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
	sitemapCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	sitemapCmd.Flags().String("domain", "", "Base URL (defaults to the active domain setting)")
}

func runSitemap(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	domain, _ := cmd.Flags().GetString("domain")

	return withApp(func(ctx context.Context, app *core.App) error {
		if domain == "" {
			st, err := app.Settings().Init(ctx)
			if err != nil {
				return err
			}
			domain = st.ActiveDomain
		}
		entries, err := app.Store().SitemapEntries(ctx)
		if err != nil {
			return err
		}
		doc, err := sitemap.Build(domain, entries)
		if err != nil {
			return err
		}

		if output == "" {
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := afero.WriteFile(afero.NewOsFs(), output, doc, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", len(entries)+3, output)
		return nil
	})
}
