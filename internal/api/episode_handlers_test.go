package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/testutil"
)

func TestEpisodeHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doRequest(t, router, "POST", "/api/content/series", map[string]any{"title": "Show"}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var series models.Series
	decodeBody(t, rr, &series)
	require.Empty(t, series.Episodes)

	base := "/api/content/series/" + series.ID + "/episode"

	t.Run("Add appends one episode", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", base, map[string]any{
			"title":         "Pilot",
			"episodeNumber": 1,
			"downloadLinks": []map[string]string{{"quality": "1080p", "size": "1GB", "url": "https://x/1"}},
		}, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		decodeBody(t, rr, &series)
		require.Len(t, series.Episodes, 1)
		assert.Equal(t, "Pilot", series.Episodes[0].Title)
		require.NotNil(t, series.Episodes[0].EpisodeNumber)
		assert.Equal(t, 1, *series.Episodes[0].EpisodeNumber)
	})

	t.Run("Legacy episode links are converted", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", base, map[string]any{
			"title":         "Second",
			"episodeNumber": "2",
			"downloads":     map[string]string{"p720": "https://x/720"},
		}, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		decodeBody(t, rr, &series)
		require.Len(t, series.Episodes, 2)
		assert.Equal(t, []models.DownloadLink{{Quality: "720p", Size: "N/A", URL: "https://x/720"}}, series.Episodes[1].DownloadLinks)
	})

	t.Run("Update episode", func(t *testing.T) {
		epID := series.Episodes[0].ID
		rr := doRequest(t, router, "PUT", base+"/"+epID, map[string]any{"title": "Pilot (Extended)"}, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		decodeBody(t, rr, &series)
		assert.Equal(t, "Pilot (Extended)", series.Episodes[0].Title)
		assert.Len(t, series.Episodes[0].DownloadLinks, 1)
	})

	t.Run("Update missing episode", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", base+"/missing", map[string]any{"title": "x"}, true)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Episode not found", errorMessage(t, rr))
	})

	t.Run("Add to missing series", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", "/api/content/series/missing/episode", map[string]any{"title": "x"}, true)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Series not found", errorMessage(t, rr))
	})

	t.Run("Delete missing episode is a no-op", func(t *testing.T) {
		rr := doRequest(t, router, "DELETE", base+"/missing", nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		decodeBody(t, rr, &series)
		assert.Len(t, series.Episodes, 2)
	})

	t.Run("Delete episode", func(t *testing.T) {
		rr := doRequest(t, router, "DELETE", base+"/"+series.Episodes[0].ID, nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		decodeBody(t, rr, &series)
		require.Len(t, series.Episodes, 1)
		assert.Equal(t, "Second", series.Episodes[0].Title)
	})

	t.Run("Series routes still resolve", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", "/api/content/series/"+series.ID, map[string]any{"title": "Show 2"}, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = doRequest(t, router, "GET", "/api/content/series/"+series.ID, nil, false)
		require.Equal(t, http.StatusOK, rr.Code)
		decodeBody(t, rr, &series)
		assert.Equal(t, "Show 2", series.Title)
		assert.Len(t, series.Episodes, 1)
	})
}
