package models

import "time"

// Settings is the site-wide singleton document.
type Settings struct {
	ActiveDomain     string    `json:"activeDomain"`
	StableURL        string    `json:"stableUrl"`
	TelegramChatID   string    `json:"telegramChatId"`
	TelegramBotToken string    `json:"telegramBotToken"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SettingsInput is a partial settings update. Nil fields are left unchanged.
type SettingsInput struct {
	ActiveDomain     *string `json:"activeDomain"`
	StableURL        *string `json:"stableUrl"`
	TelegramChatID   *string `json:"telegramChatId"`
	TelegramBotToken *string `json:"telegramBotToken"`
}
