package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvstream/catalog/internal/links"
	"github.com/dvstream/catalog/internal/models"
)

func insertEpisode(ctx context.Context, tx *sql.Tx, seriesID string, position int, ep *models.Episode) error {
	current, err := encodeJSON(nonNilLinks(ep.DownloadLinks))
	if err != nil {
		return err
	}
	legacy, err := encodeLegacy(ep.LegacyDownloads)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO episodes (id, series_id, position, title, episode_number, downloads, download_links)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ep.ID, seriesID, position, ep.Title, nullableInt(ep.EpisodeNumber), legacy, current)
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	return nil
}

// loadEpisodes returns each series' episodes in insertion order.
func (s *Store) loadEpisodes(ctx context.Context, seriesIDs []string) (map[string][]*models.Episode, error) {
	out := make(map[string][]*models.Episode, len(seriesIDs))
	err := inChunks(seriesIDs, func(chunk []any) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT series_id, id, title, episode_number, downloads, download_links
			FROM episodes
			WHERE series_id IN (`+placeholders(len(chunk))+`)
			ORDER BY series_id, position`, chunk...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var seriesID string
			var ep models.Episode
			var number sql.NullInt64
			var legacy sql.NullString
			var current string
			if err := rows.Scan(&seriesID, &ep.ID, &ep.Title, &number, &legacy, &current); err != nil {
				return err
			}
			ep.EpisodeNumber = intPtr(number)
			dynamic, err := decodeLinks(current)
			if err != nil {
				return err
			}
			old, err := decodeLegacy(legacy)
			if err != nil {
				return err
			}
			ep.DownloadLinks = links.Resolve(dynamic, old)
			out[seriesID] = append(out[seriesID], &ep)
		}
		return rows.Err()
	})
	return out, err
}

// touchSeries bumps updated_at and doubles as the existence check for the
// parent series. It also takes the write lock before any episode read.
func touchSeries(ctx context.Context, tx *sql.Tx, seriesID string, now time.Time) error {
	res, err := tx.ExecContext(ctx, "UPDATE series SET updated_at = ? WHERE id = ?", now.UTC(), seriesID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddEpisode appends ep to the end of the series' episode list.
func (s *Store) AddEpisode(ctx context.Context, seriesID string, ep *models.Episode, now time.Time) error {
	current, err := encodeJSON(nonNilLinks(ep.DownloadLinks))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touchSeries(ctx, tx, seriesID, now); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO episodes (id, series_id, position, title, episode_number, download_links)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM episodes WHERE series_id = ?), ?, ?, ?)`,
		ep.ID, seriesID, seriesID, ep.Title, nullableInt(ep.EpisodeNumber), current)
	if err != nil {
		return fmt.Errorf("failed to add episode: %w", err)
	}
	return tx.Commit()
}

// UpdateEpisode overwrites the supplied fields of one episode, matched by
// both series and episode id in a single statement.
func (s *Store) UpdateEpisode(ctx context.Context, seriesID, episodeID string, in models.EpisodeInput, now time.Time) error {
	var set setClause
	if in.Title != nil {
		set.add("title", *in.Title)
	}
	if in.EpisodeNumber != nil {
		set.add("episode_number", nullableInt(in.EpisodeNumber.Ptr()))
	}
	if in.DownloadLinks != nil {
		current, err := encodeJSON(nonNilLinks(*in.DownloadLinks))
		if err != nil {
			return err
		}
		set.add("download_links", current)
		set.add("downloads", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touchSeries(ctx, tx, seriesID, now); err != nil {
		return err
	}

	var res sql.Result
	if len(set.cols) == 0 {
		// Nothing to change; still report a missing episode.
		res, err = tx.ExecContext(ctx, "UPDATE episodes SET id = id WHERE id = ? AND series_id = ?", episodeID, seriesID)
	} else {
		res, err = tx.ExecContext(ctx, "UPDATE episodes SET "+set.sql()+" WHERE id = ? AND series_id = ?",
			append(set.args, episodeID, seriesID)...)
	}
	if err != nil {
		return fmt.Errorf("failed to update episode: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEpisodeNotFound
	}
	return tx.Commit()
}

// DeleteEpisode removes one episode. A missing episode id is a no-op.
func (s *Store) DeleteEpisode(ctx context.Context, seriesID, episodeID string, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touchSeries(ctx, tx, seriesID, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM episodes WHERE id = ? AND series_id = ?", episodeID, seriesID); err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	return tx.Commit()
}

// CountEpisodes returns the number of episodes across all series.
func (s *Store) CountEpisodes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM episodes").Scan(&n)
	return n, err
}
