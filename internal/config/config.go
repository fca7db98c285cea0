// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Admin struct {
		// Secret is compared against the x-admin-password header. It may be
		// stored either in plain text or as a bcrypt hash.
		Secret string `mapstructure:"secret"`
	} `mapstructure:"admin"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		APIKey    string `mapstructure:"api_key"`
		APISecret string `mapstructure:"api_secret"`
		Folder    string `mapstructure:"folder"`
	} `mapstructure:"cloudinary"`
	Upload struct {
		MaxBytes int64 `mapstructure:"max_bytes"`
		MaxWidth uint  `mapstructure:"max_width"`
	} `mapstructure:"upload"`
	Telegram struct {
		APIBase string `mapstructure:"api_base"`
	} `mapstructure:"telegram"`
	Notify struct {
		Workers   int           `mapstructure:"workers"`
		QueueSize int           `mapstructure:"queue_size"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"notify"`
	Catalog struct {
		SeriesOrder string `mapstructure:"series_order"`
	} `mapstructure:"catalog"`
	Settings struct {
		ActiveDomain string `mapstructure:"active_domain"`
		StableURL    string `mapstructure:"stable_url"`
	} `mapstructure:"settings"`
	Jobs struct {
		PruneGenresInterval int `mapstructure:"prune_genres_interval"`
	} `mapstructure:"jobs"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		Path   string `mapstructure:"path"`
		// Stderr sends console output to stderr instead of stdout.
		Stderr bool   `mapstructure:"stderr"`
	} `mapstructure:"log"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
}

// legacyEnv maps config keys to the environment variable names used by the
// previous Node deployment, so existing .env files keep working.
var legacyEnv = map[string]string{
	"port":                  "PORT",
	"admin.secret":          "ADMIN_SECRET",
	"cloudinary.cloud_name": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":    "CLOUDINARY_API_KEY",
	"cloudinary.api_secret": "CLOUDINARY_API_SECRET",
	"mongo.uri":             "MONGO_URI",
}

// Loader reads config.yml (and the environment) through a viper instance
// bound to an afero filesystem.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader that looks for config.yml in dir on fs.
func NewLoader(fs afero.Fs, dir string) *Loader {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)

	// e.g., CATALOG_DATABASE_PATH will override the `database.path` key.
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "CATALOG_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	setDefaults(v)
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 5000)
	v.SetDefault("database.path", "./catalog.db")
	v.SetDefault("cloudinary.folder", "movie-site")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.max_width", 0)
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("notify.workers", 1)
	v.SetDefault("notify.queue_size", 64)
	v.SetDefault("notify.timeout", 15*time.Second)
	v.SetDefault("catalog.series_order", "updated")
	v.SetDefault("settings.active_domain", "https://dvstream.vercel.app")
	v.SetDefault("settings.stable_url", "")
	v.SetDefault("jobs.prune_genres_interval", 60)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("mongo.database", "test")
}

// Load reads the configuration file, if any, and unmarshals it into a Config.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Watch re-reads the configuration whenever config.yml changes and passes
// the fresh value to fn. It only has an effect when a config file was found.
func (l *Loader) Watch(fn func(*Config, fsnotify.Event)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		var config Config
		if err := l.v.Unmarshal(&config); err != nil {
			return
		}
		fn(&config, e)
	})
	l.v.WatchConfig()
}

// OSLoader reads ./.env (when present) into the environment and returns a
// loader for ./config.yml on the OS filesystem.
func OSLoader() *Loader {
	_ = godotenv.Load()
	return NewLoader(afero.NewOsFs(), ".")
}

// Load reads ./.env (when present) and ./config.yml from the OS filesystem.
func Load() (*Config, error) {
	return OSLoader().Load()
}
