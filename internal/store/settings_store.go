package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dvstream/catalog/internal/models"
)

// settingsKey is the single well-known row; the schema rejects any other key.
const settingsKey = "site"

// GetSettings reads the singleton. It returns ErrNotFound before the first
// EnsureSettings or UpsertSettings.
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT active_domain, stable_url, telegram_chat_id, telegram_bot_token, updated_at
		FROM settings WHERE key = ?`, settingsKey).
		Scan(&st.ActiveDomain, &st.StableURL, &st.TelegramChatID, &st.TelegramBotToken, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// EnsureSettings creates the singleton from defaults unless it already
// exists, then returns the stored row.
func (s *Store) EnsureSettings(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, active_domain, stable_url, telegram_chat_id, telegram_bot_token, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING`,
		settingsKey, defaults.ActiveDomain, defaults.StableURL, defaults.TelegramChatID,
		defaults.TelegramBotToken, defaults.UpdatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return s.GetSettings(ctx)
}

// UpsertSettings merges the supplied fields into the singleton, creating it
// from defaults first when absent.
func (s *Store) UpsertSettings(ctx context.Context, in models.SettingsInput, defaults models.Settings, now time.Time) (*models.Settings, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var set setClause
	if in.ActiveDomain != nil {
		set.add("active_domain", *in.ActiveDomain)
	}
	if in.StableURL != nil {
		set.add("stable_url", *in.StableURL)
	}
	if in.TelegramChatID != nil {
		set.add("telegram_chat_id", *in.TelegramChatID)
	}
	if in.TelegramBotToken != nil {
		set.add("telegram_bot_token", *in.TelegramBotToken)
	}
	set.add("updated_at", now.UTC())

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, active_domain, stable_url, telegram_chat_id, telegram_bot_token, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING`,
		settingsKey, defaults.ActiveDomain, defaults.StableURL, defaults.TelegramChatID,
		defaults.TelegramBotToken, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE settings SET "+set.sql()+" WHERE key = ?", append(set.args, settingsKey)...); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSettings(ctx)
}
