package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/settings"
)

// snippetLength is the maximum number of characters of description shown
// in a caption.
const snippetLength = 200

// SettingsSource provides the current Telegram credentials and domains.
type SettingsSource interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Telegram announces new content in a Telegram chat via the Bot API.
type Telegram struct {
	apiBase    string
	httpClient *http.Client
	settings   SettingsSource
	logger     zerolog.Logger
}

// NewTelegram creates a Telegram sender. apiBase is normally
// https://api.telegram.org.
func NewTelegram(apiBase string, httpClient *http.Client, src SettingsSource, logger zerolog.Logger) *Telegram {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Telegram{
		apiBase:    strings.TrimSuffix(apiBase, "/"),
		httpClient: httpClient,
		settings:   src,
		logger:     logger.With().Str("notifier", "telegram").Logger(),
	}
}

// summary is the part of a content item a notification needs.
type summary struct {
	ctype       models.ContentType
	id          string
	title       string
	year        *int
	genre       []string
	description string
	poster      string
}

func summarize(item models.Content) summary {
	switch v := item.(type) {
	case *models.Movie:
		return summary{models.TypeMovie, v.ID, v.Title, v.Year, v.Genre, v.Description, v.Poster}
	case *models.Series:
		return summary{models.TypeSeries, v.ID, v.Title, v.Year, v.Genre, v.Description, v.Poster}
	}
	return summary{ctype: item.ContentType(), id: item.ContentID()}
}

// Send posts one announcement. A missing bot token or chat id is not an error.
func (t *Telegram) Send(ctx context.Context, item models.Content) error {
	st, err := t.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if st.TelegramBotToken == "" || st.TelegramChatID == "" {
		t.logger.Debug().Msg("Telegram not configured, skipping notification")
		return nil
	}

	s := summarize(item)
	payload := map[string]any{
		"chat_id":    st.TelegramChatID,
		"parse_mode": "HTML",
		"reply_markup": map[string]any{
			"inline_keyboard": [][]map[string]string{{
				{"text": "📥 Download Now", "url": RedirectLink(st, s.ctype, s.id)},
			}},
		},
	}
	method := "sendMessage"
	if s.poster != "" {
		method = "sendPhoto"
		payload["photo"] = s.poster
		payload["caption"] = Caption(item)
	} else {
		payload["text"] = Caption(item)
	}

	if err := t.call(ctx, st.TelegramBotToken, method, payload); err != nil {
		return err
	}
	t.logger.Info().Str("type", string(s.ctype)).Str("id", s.id).Msg("Telegram notification sent")
	return nil
}

func (t *Telegram) call(ctx context.Context, token, method string, payload map[string]any) error {
	url := fmt.Sprintf("%s/bot%s/%s", t.apiBase, token, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result struct {
			OK          bool   `json:"ok"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Description != "" {
			return fmt.Errorf("telegram error: %s", result.Description)
		}
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// RedirectLink is the stable short link embedded in announcements. It goes
// through the redirector so the public domain can change later.
func RedirectLink(st *models.Settings, t models.ContentType, id string) string {
	base := st.StableURL
	if base == "" {
		base = st.ActiveDomain
	}
	if base == "" {
		base = settings.DefaultActiveDomain
	}
	return fmt.Sprintf("%s/go/%s/%s", strings.TrimSuffix(base, "/"), t, id)
}

// Caption formats the HTML caption for an item.
func Caption(item models.Content) string {
	s := summarize(item)
	var sb strings.Builder
	if s.ctype == models.TypeSeries {
		sb.WriteString("<b>📺 New Series Added</b>\n\n")
	} else {
		sb.WriteString("<b>🎬 New Movie Added</b>\n\n")
	}

	sb.WriteString(fmt.Sprintf("<b>%s</b>", html.EscapeString(s.title)))
	if s.year != nil && *s.year > 0 {
		sb.WriteString(fmt.Sprintf(" (%d)", *s.year))
	}
	sb.WriteString("\n")

	if len(s.genre) > 0 {
		sb.WriteString(fmt.Sprintf("🎭 %s\n", html.EscapeString(strings.Join(s.genre, ", "))))
	}

	if snippet := Snippet(s.description, snippetLength); snippet != "" {
		sb.WriteString(fmt.Sprintf("\n%s", html.EscapeString(snippet)))
	}
	return sb.String()
}

// Snippet strips markup from a description, collapses whitespace and
// truncates it to at most limit characters.
func Snippet(description string, limit int) string {
	text := description
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(description)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > limit {
		return strings.TrimSpace(string(runes[:limit-3])) + "..."
	}
	return text
}
