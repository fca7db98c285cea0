package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		cfg, err := NewLoader(afero.NewMemMapFs(), "/etc/catalog").Load()
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Port)
		assert.Equal(t, "./catalog.db", cfg.Database.Path)
		assert.Equal(t, "movie-site", cfg.Cloudinary.Folder)
		assert.Equal(t, "https://dvstream.vercel.app", cfg.Settings.ActiveDomain)
		assert.Equal(t, "updated", cfg.Catalog.SeriesOrder)
		assert.Equal(t, 15*time.Second, cfg.Notify.Timeout)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("Loads from config file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		configContent := `
port: 9999
database:
  path: "/tmp/test.db"
admin:
  secret: "hunter2"
catalog:
  series_order: created
notify:
  timeout: 3s
unknown_setting: "should be ignored"
`
		require.NoError(t, afero.WriteFile(fs, "/etc/catalog/config.yml", []byte(configContent), 0644))

		cfg, err := NewLoader(fs, "/etc/catalog").Load()
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Port)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, "hunter2", cfg.Admin.Secret)
		assert.Equal(t, "created", cfg.Catalog.SeriesOrder)
		assert.Equal(t, 3*time.Second, cfg.Notify.Timeout)
		// untouched keys keep their defaults
		assert.Equal(t, 60, cfg.Jobs.PruneGenresInterval)
	})

	t.Run("Malformed config file is an error", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/catalog/config.yml", []byte("port: [unterminated"), 0644))

		_, err := NewLoader(fs, "/etc/catalog").Load()
		assert.Error(t, err)
	})

	t.Run("Legacy environment names", func(t *testing.T) {
		t.Setenv("ADMIN_SECRET", "from-legacy-env")
		t.Setenv("PORT", "7000")

		cfg, err := NewLoader(afero.NewMemMapFs(), "/etc/catalog").Load()
		require.NoError(t, err)
		assert.Equal(t, "from-legacy-env", cfg.Admin.Secret)
		assert.Equal(t, 7000, cfg.Port)
	})

	t.Run("Prefixed environment wins over legacy name", func(t *testing.T) {
		t.Setenv("ADMIN_SECRET", "legacy")
		t.Setenv("CATALOG_ADMIN_SECRET", "prefixed")

		cfg, err := NewLoader(afero.NewMemMapFs(), "/etc/catalog").Load()
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.Admin.Secret)
	})
}
