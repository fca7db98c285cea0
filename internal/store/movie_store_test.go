package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/store"
	"github.com/dvstream/catalog/internal/testutil"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func newMovie(id, title string, created time.Time, genres ...string) *models.Movie {
	return &models.Movie{
		ID:        id,
		Title:     title,
		Genre:     genres,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestMovieStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	t.Run("Create and read back", func(t *testing.T) {
		m := newMovie("m1", "Cyberpunk: The Movie", base, "Sci-Fi", "Action")
		m.Year = intp(2077)
		m.PreviewImages = []string{"https://img/1.jpg"}
		m.DownloadLinks = []models.DownloadLink{{Quality: "720p", Size: "800MB", URL: "https://x/720"}}
		require.NoError(t, s.CreateMovie(ctx, m))

		got, err := s.GetMovie(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "Cyberpunk: The Movie", got.Title)
		assert.Equal(t, models.TypeMovie, got.Type)
		assert.Equal(t, []string{"Sci-Fi", "Action"}, got.Genre)
		assert.Equal(t, 2077, *got.Year)
		assert.Equal(t, m.DownloadLinks, got.DownloadLinks)
		assert.Equal(t, []string{"https://img/1.jpg"}, got.PreviewImages)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("Missing id", func(t *testing.T) {
		_, err := s.GetMovie(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Legacy links are presented in the dynamic shape", func(t *testing.T) {
		m := newMovie("legacy", "Old Upload", base.Add(-time.Hour))
		m.LegacyDownloads = &models.LegacyLinks{P720: "https://x/720"}
		require.NoError(t, s.ImportMovie(ctx, m))

		got, err := s.GetMovie(ctx, "legacy")
		require.NoError(t, err)
		assert.Equal(t, []models.DownloadLink{{Quality: "720p", Size: "N/A", URL: "https://x/720"}}, got.DownloadLinks)
	})

	t.Run("Partial update keeps untouched fields", func(t *testing.T) {
		title := "Cyberpunk 2"
		got, err := s.UpdateMovie(ctx, "m1", models.ContentInput{Title: &title}, base.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "Cyberpunk 2", got.Title)
		assert.Equal(t, []string{"Sci-Fi", "Action"}, got.Genre)
		assert.Equal(t, 2077, *got.Year)
		assert.True(t, base.Add(time.Minute).Equal(got.UpdatedAt))
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("Writing dynamic links replaces the legacy object", func(t *testing.T) {
		list := []models.DownloadLink{{Quality: "4K", Size: "20GB", URL: "https://x/4k"}}
		genre := models.GenreInput{"Drama"}
		got, err := s.UpdateMovie(ctx, "legacy", models.ContentInput{DownloadLinks: &list, Genre: &genre}, base)
		require.NoError(t, err)
		assert.Equal(t, list, got.DownloadLinks)
		assert.Equal(t, []string{"Drama"}, got.Genre)

		empty := []models.DownloadLink{}
		got, err = s.UpdateMovie(ctx, "legacy", models.ContentInput{DownloadLinks: &empty}, base)
		require.NoError(t, err)
		assert.Empty(t, got.DownloadLinks, "legacy entries must not reappear")
	})

	t.Run("Update of missing id", func(t *testing.T) {
		title := "x"
		_, err := s.UpdateMovie(ctx, "nope", models.ContentInput{Title: &title}, base)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.DeleteMovie(ctx, "legacy"))
		require.NoError(t, s.DeleteMovie(ctx, "legacy"))
		_, err := s.GetMovie(ctx, "legacy")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestListMovies(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	for i := 0; i < 25; i++ {
		m := newMovie(fmt.Sprintf("m%02d", i), fmt.Sprintf("Movie %02d", i), base.Add(time.Duration(i)*time.Hour))
		if i%2 == 0 {
			m.Genre = []string{"Action"}
			m.Year = intp(2020)
		}
		require.NoError(t, s.CreateMovie(ctx, m))
	}
	require.NoError(t, s.CreateMovie(ctx, newMovie("special", "100% Ünïcode_Title", base.Add(-time.Hour))))

	t.Run("Newest first with pagination", func(t *testing.T) {
		page1, err := s.ListMovies(ctx, store.Filter{}, 20, 0)
		require.NoError(t, err)
		require.Len(t, page1, 20)
		assert.Equal(t, "m24", page1[0].ID)

		page2, err := s.ListMovies(ctx, store.Filter{}, 20, 20)
		require.NoError(t, err)
		assert.Len(t, page2, 6)
		assert.Equal(t, "special", page2[5].ID)

		n, err := s.CountMovies(ctx, store.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 26, n)
	})

	t.Run("Out of range page is empty", func(t *testing.T) {
		items, err := s.ListMovies(ctx, store.Filter{}, 20, 100)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Search is case-insensitive substring", func(t *testing.T) {
		items, err := s.ListMovies(ctx, store.Filter{Search: "movie 1"}, -1, 0)
		require.NoError(t, err)
		assert.Len(t, items, 10)

		items, err = s.ListMovies(ctx, store.Filter{Search: "ÜNÏCODE"}, -1, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "special", items[0].ID)
	})

	t.Run("Wildcards in search are literal", func(t *testing.T) {
		n, err := s.CountMovies(ctx, store.Filter{Search: "100%"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = s.CountMovies(ctx, store.Filter{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = s.CountMovies(ctx, store.Filter{Search: "e_T"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Filters are ANDed", func(t *testing.T) {
		n, err := s.CountMovies(ctx, store.Filter{Genre: "Action"})
		require.NoError(t, err)
		assert.Equal(t, 13, n)

		n, err = s.CountMovies(ctx, store.Filter{Genre: "Action", Year: intp(2020), Search: "movie 2"})
		require.NoError(t, err)
		assert.Equal(t, 3, n) // 20, 22, 24

		n, err = s.CountMovies(ctx, store.Filter{Genre: "action"})
		require.NoError(t, err)
		assert.Equal(t, 0, n, "genre match is exact")
	})

	t.Run("Ties keep insertion order", func(t *testing.T) {
		tie := base.Add(1000 * time.Hour)
		require.NoError(t, s.CreateMovie(ctx, newMovie("tie-a", "Tie A", tie)))
		require.NoError(t, s.CreateMovie(ctx, newMovie("tie-b", "Tie B", tie)))
		items, err := s.ListMovies(ctx, store.Filter{Search: "tie"}, -1, 0)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "tie-a", items[0].ID)
		assert.Equal(t, "tie-b", items[1].ID)
	})
}
