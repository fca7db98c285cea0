// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dvstream/catalog/internal/models"
)

var (
	// ErrNotFound is returned when a movie or series id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrEpisodeNotFound is returned when an episode id does not resolve
	// within an existing series.
	ErrEpisodeNotFound = errors.New("episode not found")
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
	// seriesOrder is the ORDER BY column for series listings.
	seriesOrder string
}

// Option customises a Store.
type Option func(*Store)

// WithSeriesOrder selects "updated" or "created" ordering for series lists.
func WithSeriesOrder(order string) Option {
	return func(s *Store) {
		if order == "created" {
			s.seriesOrder = "created_at"
		} else {
			s.seriesOrder = "updated_at"
		}
	}
}

// New creates a new Store instance.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, seriesOrder: "updated_at"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Filter narrows a content listing. Zero values mean "no filter".
type Filter struct {
	Search string
	Genre  string
	Year   *int
}

// kind describes the tables backing one content type.
type kind struct {
	table      string
	genreTable string
	ownerCol   string
}

var (
	movieKind  = kind{table: "movies", genreTable: "movie_genres", ownerCol: "movie_id"}
	seriesKind = kind{table: "series", genreTable: "series_genres", ownerCol: "series_id"}
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// foldTitle produces the case-folded form stored in title_fold.
func foldTitle(s string) string {
	return cases.Fold().String(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the WHERE clause for a filter against alias c.
func (k kind) where(f Filter) (string, []any) {
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `c.title_fold LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(foldTitle(f.Search))+"%")
	}
	if f.Genre != "" {
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s cg JOIN genres g ON g.id = cg.genre_id
			WHERE cg.%s = c.id AND g.name = ?)`, k.genreTable, k.ownerCol))
		args = append(args, f.Genre)
	}
	if f.Year != nil {
		conds = append(conds, "c.year = ?")
		args = append(args, *f.Year)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) count(ctx context.Context, k kind, f Filter) (int, error) {
	where, args := k.where(f)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+k.table+" c"+where, args...).Scan(&n)
	return n, err
}

func (s *Store) deleteByID(ctx context.Context, k kind, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+k.table+" WHERE id = ?", id)
	return err
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// chunkSize keeps IN lists well below SQLite's variable limit.
const chunkSize = 500

func inChunks(ids []string, fn func(chunk []any) error) error {
	for start := 0; start < len(ids); start += chunkSize {
		end := min(start+chunkSize, len(ids))
		chunk := make([]any, 0, end-start)
		for _, id := range ids[start:end] {
			chunk = append(chunk, id)
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeLinks(raw string) ([]models.DownloadLink, error) {
	links := []models.DownloadLink{}
	if raw == "" {
		return links, nil
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decode download links: %w", err)
	}
	return links, nil
}

func decodeLegacy(raw sql.NullString) (*models.LegacyLinks, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var l models.LegacyLinks
	if err := json.Unmarshal([]byte(raw.String), &l); err != nil {
		return nil, fmt.Errorf("decode legacy links: %w", err)
	}
	return &l, nil
}

func encodeLegacy(l *models.LegacyLinks) (sql.NullString, error) {
	if l.IsEmpty() {
		return sql.NullString{}, nil
	}
	s, err := encodeJSON(l)
	return sql.NullString{String: s, Valid: err == nil}, err
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	return out, nil
}

func nonNilLinks(l []models.DownloadLink) []models.DownloadLink {
	if l == nil {
		return []models.DownloadLink{}
	}
	return l
}

func nonNilStrings(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func nullableInt(y *int) sql.NullInt64 {
	if y == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*y), Valid: true}
}

func intPtr(y sql.NullInt64) *int {
	if !y.Valid {
		return nil
	}
	v := int(y.Int64)
	return &v
}

// setClause accumulates the SET list of a partial UPDATE.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) add(col string, v any) {
	c.cols = append(c.cols, col+" = ?")
	c.args = append(c.args, v)
}

func (c *setClause) sql() string { return strings.Join(c.cols, ", ") }

// applyCommon adds the columns shared by movies and series.
func (c *setClause) applyCommon(in models.ContentInput) error {
	if in.Title != nil {
		c.add("title", *in.Title)
		c.add("title_fold", foldTitle(*in.Title))
	}
	if in.Description != nil {
		c.add("description", *in.Description)
	}
	if in.Year != nil {
		c.add("year", nullableInt(in.Year.Ptr()))
	}
	if in.Poster != nil {
		c.add("poster", *in.Poster)
	}
	if in.PreviewImages != nil {
		images, err := encodeJSON(nonNilStrings(*in.PreviewImages))
		if err != nil {
			return err
		}
		c.add("preview_images", images)
	}
	return nil
}
