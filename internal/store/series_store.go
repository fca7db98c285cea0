package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvstream/catalog/internal/links"
	"github.com/dvstream/catalog/internal/models"
)

const seriesColumns = `c.id, c.title, c.description, c.year, c.poster, c.preview_images,
	c.batch_links, c.batch_download_links, c.created_at, c.updated_at`

func scanSeries(row rowScanner) (*models.Series, error) {
	var sr models.Series
	var year sql.NullInt64
	var images, current string
	var legacy sql.NullString
	if err := row.Scan(&sr.ID, &sr.Title, &sr.Description, &year, &sr.Poster, &images,
		&legacy, &current, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
		return nil, err
	}
	sr.Type = models.TypeSeries
	sr.Year = intPtr(year)

	var err error
	if sr.PreviewImages, err = decodeStrings(images); err != nil {
		return nil, err
	}
	dynamic, err := decodeLinks(current)
	if err != nil {
		return nil, err
	}
	old, err := decodeLegacy(legacy)
	if err != nil {
		return nil, err
	}
	sr.BatchDownloadLinks = links.Resolve(dynamic, old)
	sr.Genre = []string{}
	sr.Episodes = []*models.Episode{}
	return &sr, nil
}

// querySeries runs a series SELECT and attaches genres and episodes.
func (s *Store) querySeries(ctx context.Context, query string, args ...any) ([]*models.Series, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Series{}
	ids := []string{}
	byID := map[string]*models.Series{}
	for rows.Next() {
		sr, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, sr)
		ids = append(ids, sr.ID)
		byID[sr.ID] = sr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	genres, err := loadGenres(ctx, s.db, seriesKind, ids)
	if err != nil {
		return nil, fmt.Errorf("load series genres: %w", err)
	}
	for id, g := range genres {
		byID[id].Genre = g
	}

	episodes, err := s.loadEpisodes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load episodes: %w", err)
	}
	for id, eps := range episodes {
		byID[id].Episodes = eps
	}
	return list, nil
}

// ListSeries returns series matching f in the configured order. A negative
// limit returns every match.
func (s *Store) ListSeries(ctx context.Context, f Filter, limit, offset int) ([]*models.Series, error) {
	where, args := seriesKind.where(f)
	query := "SELECT " + seriesColumns + " FROM series c" + where +
		" ORDER BY c." + s.seriesOrder + " DESC, c.rowid ASC LIMIT ? OFFSET ?"
	return s.querySeries(ctx, query, append(args, limit, offset)...)
}

// RecentSeries returns the most recently created series regardless of the
// configured list order.
func (s *Store) RecentSeries(ctx context.Context, limit int) ([]*models.Series, error) {
	query := "SELECT " + seriesColumns + " FROM series c ORDER BY c.created_at DESC, c.rowid ASC LIMIT ?"
	return s.querySeries(ctx, query, limit)
}

// CountSeries returns how many series match f.
func (s *Store) CountSeries(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, seriesKind, f)
}

// GetSeries fetches a single series with its episodes.
func (s *Store) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	list, err := s.querySeries(ctx, "SELECT "+seriesColumns+" FROM series c WHERE c.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// CreateSeries inserts sr with its genres and episodes.
func (s *Store) CreateSeries(ctx context.Context, sr *models.Series) error {
	return s.upsertSeries(ctx, sr, false)
}

// ImportSeries inserts or replaces sr and its episodes.
func (s *Store) ImportSeries(ctx context.Context, sr *models.Series) error {
	return s.upsertSeries(ctx, sr, true)
}

func (s *Store) upsertSeries(ctx context.Context, sr *models.Series, replace bool) error {
	images, err := encodeJSON(nonNilStrings(sr.PreviewImages))
	if err != nil {
		return err
	}
	current, err := encodeJSON(nonNilLinks(sr.BatchDownloadLinks))
	if err != nil {
		return err
	}
	legacy, err := encodeLegacy(sr.LegacyBatchLinks)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO series (id, title, title_fold, description, year, poster, preview_images,
			batch_links, batch_download_links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		query += `
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, title_fold = excluded.title_fold,
			description = excluded.description, year = excluded.year, poster = excluded.poster,
			preview_images = excluded.preview_images, batch_links = excluded.batch_links,
			batch_download_links = excluded.batch_download_links,
			created_at = excluded.created_at, updated_at = excluded.updated_at`
	}
	_, err = tx.ExecContext(ctx, query,
		sr.ID, sr.Title, foldTitle(sr.Title), sr.Description, nullableInt(sr.Year), sr.Poster, images,
		legacy, current, sr.CreatedAt.UTC(), sr.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert series: %w", err)
	}
	if err := setGenres(ctx, tx, seriesKind, sr.ID, sr.Genre); err != nil {
		return err
	}

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM episodes WHERE series_id = ?", sr.ID); err != nil {
			return fmt.Errorf("failed to clear episodes: %w", err)
		}
	}
	for i, ep := range sr.Episodes {
		if err := insertEpisode(ctx, tx, sr.ID, i+1, ep); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateSeries applies the supplied fields of in and returns the result.
// Episodes are managed through the episode operations only.
func (s *Store) UpdateSeries(ctx context.Context, id string, in models.ContentInput, now time.Time) (*models.Series, error) {
	var set setClause
	if err := set.applyCommon(in); err != nil {
		return nil, err
	}
	if in.BatchDownloadLinks != nil {
		current, err := encodeJSON(nonNilLinks(*in.BatchDownloadLinks))
		if err != nil {
			return nil, err
		}
		set.add("batch_download_links", current)
		set.add("batch_links", nil)
	}
	set.add("updated_at", now.UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE series SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update series: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	if in.Genre != nil {
		if err := setGenres(ctx, tx, seriesKind, id, *in.Genre); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSeries(ctx, id)
}

// DeleteSeries removes a series; its episodes and genre links cascade.
func (s *Store) DeleteSeries(ctx context.Context, id string) error {
	return s.deleteByID(ctx, seriesKind, id)
}
