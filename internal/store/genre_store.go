package store

import (
	"context"
	"database/sql"
	"fmt"
)

// setGenres replaces the ordered genre list of one movie or series. Genre
// rows are created on demand and shared across both content types.
func setGenres(ctx context.Context, tx *sql.Tx, k kind, ownerID string, names []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+k.genreTable+" WHERE "+k.ownerCol+" = ?", ownerID); err != nil {
		return fmt.Errorf("clear genres: %w", err)
	}
	for i, name := range names {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO genres (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("create genre %q: %w", name, err)
		}
		var genreID int64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM genres WHERE name = ?", name).Scan(&genreID); err != nil {
			return fmt.Errorf("lookup genre %q: %w", name, err)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+k.genreTable+" ("+k.ownerCol+", genre_id, position) VALUES (?, ?, ?)",
			ownerID, genreID, i)
		if err != nil {
			return fmt.Errorf("link genre %q: %w", name, err)
		}
	}
	return nil
}

// loadGenres returns the ordered genre names for each owner id.
func loadGenres(ctx context.Context, q queryer, k kind, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	err := inChunks(ids, func(chunk []any) error {
		query := fmt.Sprintf(`
			SELECT cg.%[1]s, g.name
			FROM %[2]s cg
			JOIN genres g ON g.id = cg.genre_id
			WHERE cg.%[1]s IN (%[3]s)
			ORDER BY cg.%[1]s, cg.position`, k.ownerCol, k.genreTable, placeholders(len(chunk)))
		rows, err := q.QueryContext(ctx, query, chunk...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var owner, name string
			if err := rows.Scan(&owner, &name); err != nil {
				return err
			}
			out[owner] = append(out[owner], name)
		}
		return rows.Err()
	})
	return out, err
}

// distinctGenres lists every genre used by at least one item of the kind,
// in ascending byte order.
func (s *Store) distinctGenres(ctx context.Context, k kind) ([]string, error) {
	query := `
		SELECT DISTINCT g.name
		FROM genres g
		JOIN ` + k.genreTable + ` cg ON cg.genre_id = g.id
		WHERE g.name <> ''
		ORDER BY g.name COLLATE BINARY ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

// distinctYears lists the non-null, non-zero years of the kind, newest first.
func (s *Store) distinctYears(ctx context.Context, k kind) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT year FROM "+k.table+" WHERE year IS NOT NULL AND year <> 0 ORDER BY year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// MovieFacets returns the distinct genres and years across all movies.
func (s *Store) MovieFacets(ctx context.Context) ([]string, []int, error) {
	return s.facets(ctx, movieKind)
}

// SeriesFacets returns the distinct genres and years across all series.
func (s *Store) SeriesFacets(ctx context.Context) ([]string, []int, error) {
	return s.facets(ctx, seriesKind)
}

func (s *Store) facets(ctx context.Context, k kind) ([]string, []int, error) {
	genres, err := s.distinctGenres(ctx, k)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct genres: %w", err)
	}
	years, err := s.distinctYears(ctx, k)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct years: %w", err)
	}
	return genres, years, nil
}

// DeleteOrphanGenres removes genre rows no longer referenced by any movie
// or series and reports how many were removed.
func (s *Store) DeleteOrphanGenres(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM genres
		WHERE id NOT IN (SELECT genre_id FROM movie_genres)
		  AND id NOT IN (SELECT genre_id FROM series_genres)`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan genres: %w", err)
	}
	return res.RowsAffected()
}
