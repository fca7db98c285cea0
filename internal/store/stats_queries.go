// Read-only aggregate queries used by the dashboard and the sitemap.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dvstream/catalog/internal/models"
)

// SitemapEntries returns the id and last update of every movie and series.
func (s *Store) SitemapEntries(ctx context.Context) ([]models.SitemapEntry, error) {
	entries := []models.SitemapEntry{}
	for _, src := range []struct {
		k     kind
		ctype models.ContentType
	}{
		{movieKind, models.TypeMovie},
		{seriesKind, models.TypeSeries},
	} {
		rows, err := s.db.QueryContext(ctx,
			"SELECT id, updated_at FROM "+src.k.table+" ORDER BY created_at DESC, rowid ASC")
		if err != nil {
			return nil, fmt.Errorf("sitemap %s: %w", src.k.table, err)
		}
		for rows.Next() {
			var id string
			var updated time.Time
			if err := rows.Scan(&id, &updated); err != nil {
				rows.Close()
				return nil, err
			}
			entries = append(entries, models.SitemapEntry{Type: src.ctype, ID: id, UpdatedAt: updated})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}
