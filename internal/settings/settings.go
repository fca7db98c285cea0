// Package settings owns the site-wide settings singleton.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/store"
)

// DefaultActiveDomain is used when neither the stored settings nor the
// configuration name a public domain.
const DefaultActiveDomain = "https://dvstream.vercel.app"

// Service loads the settings row once at startup and serves reads and
// upserts afterwards.
type Service struct {
	store    *store.Store
	logger   zerolog.Logger
	mu       sync.RWMutex
	defaults models.Settings
}

// NewService creates a settings service. defaults seed the row when it is
// created for the first time.
func NewService(st *store.Store, defaults models.Settings, logger zerolog.Logger) *Service {
	if defaults.ActiveDomain == "" {
		defaults.ActiveDomain = DefaultActiveDomain
	}
	return &Service{
		store:    st,
		defaults: defaults,
		logger:   logger.With().Str("component", "settings").Logger(),
	}
}

// Init creates the settings row from defaults if it does not exist yet.
func (s *Service) Init(ctx context.Context) (*models.Settings, error) {
	defaults := s.Defaults()
	defaults.UpdatedAt = time.Now().UTC()
	st, err := s.store.EnsureSettings(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise settings: %w", err)
	}
	s.logger.Info().Str("active_domain", st.ActiveDomain).Msg("Settings loaded")
	return st, nil
}

// Get returns the stored settings, creating them on first use.
func (s *Service) Get(ctx context.Context) (*models.Settings, error) {
	st, err := s.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return s.Init(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return st, nil
}

// Update merges the supplied fields into the singleton.
func (s *Service) Update(ctx context.Context, in models.SettingsInput) (*models.Settings, error) {
	st, err := s.store.UpsertSettings(ctx, in, s.Defaults(), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	s.logger.Info().Str("active_domain", st.ActiveDomain).Msg("Settings updated")
	return st, nil
}

// Defaults returns the values a fresh settings row is created with.
func (s *Service) Defaults() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// SetDefaults replaces the creation defaults, e.g. after a config reload.
// Existing rows are not modified.
func (s *Service) SetDefaults(d models.Settings) {
	if d.ActiveDomain == "" {
		d.ActiveDomain = DefaultActiveDomain
	}
	s.mu.Lock()
	s.defaults = d
	s.mu.Unlock()
}

// Masked returns a copy of st safe for unauthenticated readers.
func Masked(st *models.Settings) *models.Settings {
	out := *st
	if out.TelegramBotToken != "" {
		out.TelegramBotToken = "********"
	}
	return &out
}
