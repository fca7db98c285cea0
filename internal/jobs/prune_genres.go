package jobs

import (
	"context"
	"fmt"

	"github.com/dvstream/catalog/internal/models"
)

const PruneGenresJobID = "prune-genres"

// progressMessageType is the websocket message type for job progress.
const progressMessageType = "progress_update"

// RunPruneGenres deletes genres no longer referenced by any movie or series.
func RunPruneGenres(app JobContext) error {
	jobID := PruneGenresJobID
	sendProgress(app, jobID, "Looking for unused genres...", 0, false)

	removed, err := app.Store().DeleteOrphanGenres(context.Background())
	if err != nil {
		sendProgress(app, jobID, "Genre cleanup failed.", 100, true)
		return fmt.Errorf("failed to prune genres: %w", err)
	}

	msg := fmt.Sprintf("Genre cleanup complete. Removed %d unused genres.", removed)
	logger := app.Logger()
	logger.Info().Int64("removed", removed).Msg("Pruned unused genres")
	sendProgress(app, jobID, msg, 100, true)
	return nil
}

func sendProgress(app JobContext, jobID, message string, progress float64, done bool) {
	update := models.ProgressUpdate{
		JobID:    jobID,
		Message:  message,
		Progress: progress,
		Done:     done,
	}
	if err := app.Broadcaster().Broadcast(progressMessageType, update); err != nil {
		logger := app.Logger()
		logger.Warn().Err(err).Str("job", jobID).Msg("Dropped progress update")
	}
}
