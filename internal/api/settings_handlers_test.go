package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/testutil"
)

func TestSettingsHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Defaults exist before any update", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/settings", nil, false)
		require.Equal(t, http.StatusOK, rr.Code)
		var st models.Settings
		decodeBody(t, rr, &st)
		assert.Equal(t, "https://dvstream.vercel.app", st.ActiveDomain)
	})

	t.Run("Update requires admin", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", "/api/settings", map[string]string{"activeDomain": "https://evil"}, false)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Partial update keeps other fields", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", "/api/settings", map[string]string{
			"activeDomain":     "https://example.com/",
			"telegramBotToken": "123:secret",
		}, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = doRequest(t, router, "PUT", "/api/settings", map[string]string{"telegramChatId": "-100"}, true)
		require.Equal(t, http.StatusOK, rr.Code)
		var st models.Settings
		decodeBody(t, rr, &st)
		assert.Equal(t, "https://example.com/", st.ActiveDomain)
		assert.Equal(t, "123:secret", st.TelegramBotToken)
		assert.Equal(t, "-100", st.TelegramChatID)
	})

	t.Run("Bot token is masked for the public", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/settings", nil, false)
		var st models.Settings
		decodeBody(t, rr, &st)
		assert.Equal(t, "********", st.TelegramBotToken)

		rr = doRequest(t, router, "GET", "/api/settings", nil, true)
		decodeBody(t, rr, &st)
		assert.Equal(t, "123:secret", st.TelegramBotToken)
	})

	t.Run("Redirect strips one trailing slash", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/go/movie/abc123", nil, false)
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "https://example.com/movie/abc123", rr.Header().Get("Location"))
	})

	t.Run("Redirect rejects unknown types", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/go/anime/abc123", nil, false)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Sitemap lists content under the active domain", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/content/series", map[string]any{"title": "Mapped"}, true)
		require.Equal(t, http.StatusOK, rr.Code)
		var series models.Series
		decodeBody(t, rr, &series)

		rr = doRequest(t, router, "GET", "/api/sitemap.xml", nil, false)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.True(t, strings.HasPrefix(body, "<?xml"))
		assert.Contains(t, body, "<loc>https://example.com/movies</loc>")
		assert.Contains(t, body, "<loc>https://example.com/series/"+series.ID+"</loc>")
	})
}
