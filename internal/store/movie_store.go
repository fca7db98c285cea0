package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvstream/catalog/internal/links"
	"github.com/dvstream/catalog/internal/models"
)

const movieColumns = `c.id, c.title, c.description, c.year, c.poster, c.preview_images,
	c.downloads, c.download_links, c.created_at, c.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var m models.Movie
	var year sql.NullInt64
	var images, current string
	var legacy sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &year, &m.Poster, &images,
		&legacy, &current, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Type = models.TypeMovie
	m.Year = intPtr(year)

	var err error
	if m.PreviewImages, err = decodeStrings(images); err != nil {
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
	m.DownloadLinks = links.Resolve(dynamic, old)
	m.Genre = []string{}
	return &m, nil
}

// queryMovies runs a movie SELECT and attaches genres.
func (s *Store) queryMovies(ctx context.Context, query string, args ...any) ([]*models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*models.Movie{}
	ids := []string{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	genres, err := loadGenres(ctx, s.db, movieKind, ids)
	if err != nil {
		return nil, fmt.Errorf("load movie genres: %w", err)
	}
	for _, m := range movies {
		if g, ok := genres[m.ID]; ok {
			m.Genre = g
		}
	}
	return movies, nil
}

// ListMovies returns movies matching f, newest first. A negative limit
// returns every match.
func (s *Store) ListMovies(ctx context.Context, f Filter, limit, offset int) ([]*models.Movie, error) {
	where, args := movieKind.where(f)
	query := "SELECT " + movieColumns + " FROM movies c" + where +
		" ORDER BY c.created_at DESC, c.rowid ASC LIMIT ? OFFSET ?"
	return s.queryMovies(ctx, query, append(args, limit, offset)...)
}

// CountMovies returns how many movies match f.
func (s *Store) CountMovies(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, movieKind, f)
}

// GetMovie fetches a single movie by id.
func (s *Store) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	movies, err := s.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies c WHERE c.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNotFound
	}
	return movies[0], nil
}

// CreateMovie inserts m with its genres. ID and timestamps must be set.
func (s *Store) CreateMovie(ctx context.Context, m *models.Movie) error {
	return s.upsertMovie(ctx, m, false)
}

// ImportMovie inserts or replaces m, keeping any legacy link object as-is.
func (s *Store) ImportMovie(ctx context.Context, m *models.Movie) error {
	return s.upsertMovie(ctx, m, true)
}

func (s *Store) upsertMovie(ctx context.Context, m *models.Movie, replace bool) error {
	images, err := encodeJSON(nonNilStrings(m.PreviewImages))
	if err != nil {
		return err
	}
	current, err := encodeJSON(nonNilLinks(m.DownloadLinks))
	if err != nil {
		return err
	}
	legacy, err := encodeLegacy(m.LegacyDownloads)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO movies (id, title, title_fold, description, year, poster, preview_images,
			downloads, download_links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		query += `
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, title_fold = excluded.title_fold,
			description = excluded.description, year = excluded.year, poster = excluded.poster,
			preview_images = excluded.preview_images, downloads = excluded.downloads,
			download_links = excluded.download_links,
			created_at = excluded.created_at, updated_at = excluded.updated_at`
	}
	_, err = tx.ExecContext(ctx, query,
		m.ID, m.Title, foldTitle(m.Title), m.Description, nullableInt(m.Year), m.Poster, images,
		legacy, current, m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	if err := setGenres(ctx, tx, movieKind, m.ID, m.Genre); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateMovie applies the supplied fields of in and returns the result.
// Writing downloadLinks clears any legacy object on the record.
func (s *Store) UpdateMovie(ctx context.Context, id string, in models.ContentInput, now time.Time) (*models.Movie, error) {
	var set setClause
	if err := set.applyCommon(in); err != nil {
		return nil, err
	}
	if in.DownloadLinks != nil {
		current, err := encodeJSON(nonNilLinks(*in.DownloadLinks))
		if err != nil {
			return nil, err
		}
		set.add("download_links", current)
		set.add("downloads", nil)
	}
	set.add("updated_at", now.UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE movies SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	if in.Genre != nil {
		if err := setGenres(ctx, tx, movieKind, id, *in.Genre); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetMovie(ctx, id)
}

// DeleteMovie removes a movie. Deleting a missing id is not an error.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	return s.deleteByID(ctx, movieKind, id)
}
