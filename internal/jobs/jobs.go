package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
)

// Register adds every background job to the manager.
func Register(jm *JobManager) {
	jm.Register(PruneGenresJobID, "Prune Unused Genres", RunPruneGenres)
}

// StartJobs starts the background job scheduler. intervalMinutes of 0
// disables the scheduled genre cleanup.
func StartJobs(app JobContext, jm *JobManager, intervalMinutes int) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	schedulePruneGenres(s, app, jm, intervalMinutes)

	logger := app.Logger()
	logger.Info().Msg("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func schedulePruneGenres(s *gocron.Scheduler, app JobContext, jm *JobManager, interval int) {
	log := app.Logger()
	if interval <= 0 {
		log.Info().Msg("Genre cleanup interval is 0, scheduled cleanup is disabled.")
		return
	}

	jobID := PruneGenresJobID
	log.Info().Str("job", jobID).Int("minutes", interval).Msg("Scheduling job")

	_, err := s.Every(interval).Minutes().WaitForSchedule().Do(func() {
		// Go through the manager so scheduled and manual runs never overlap.
		if err := jm.RunJob(jobID, app); err != nil {
			log.Warn().Err(err).Str("job", jobID).Msg("Scheduled job could not start")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("job", jobID).Msg("Error scheduling job")
	}
}
