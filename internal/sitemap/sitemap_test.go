package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvstream/catalog/internal/models"
)

func TestBuild(t *testing.T) {
	updated := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	out, err := Build("https://example.com/", []models.SitemapEntry{
		{Type: models.TypeMovie, ID: "m1", UpdatedAt: updated},
		{Type: models.TypeSeries, ID: "s1", UpdatedAt: updated},
	})
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)

	var parsed urlset
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.URLs, 5)
	assert.Equal(t, "https://example.com/", parsed.URLs[0].Loc)
	assert.Equal(t, "https://example.com/movies", parsed.URLs[1].Loc)
	assert.Equal(t, "https://example.com/series", parsed.URLs[2].Loc)
	assert.Empty(t, parsed.URLs[0].LastMod)
	assert.Equal(t, "https://example.com/movie/m1", parsed.URLs[3].Loc)
	assert.Equal(t, "2024-05-01T07:00:00Z", parsed.URLs[3].LastMod)
	assert.Equal(t, "https://example.com/series/s1", parsed.URLs[4].Loc)
}

func TestBuildEmptyCatalog(t *testing.T) {
	out, err := Build("https://example.com", nil)
	require.NoError(t, err)

	var parsed urlset
	require.NoError(t, xml.Unmarshal(out, &parsed))
	assert.Len(t, parsed.URLs, 3)
}
