package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/store"
)

// Broadcaster publishes a typed message to admin clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// JobContext provides the dependencies a job needs to run.
// The core.App struct implements this interface.
type JobContext interface {
	Store() *store.Store
	Broadcaster() Broadcaster
	Logger() zerolog.Logger
}

type jobTask func(ctx JobContext) error

type JobStatus struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"` // "idle", "running", "success", "failed"
	Message   string     `json:"message"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// JobManager runs registered jobs one at a time.
type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	logger  zerolog.Logger
}

func NewManager(logger zerolog.Logger) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		logger: logger.With().Str("component", "jobs").Logger(),
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts the job in the background. Only one job runs at a time.
func (jm *JobManager) RunJob(id string, ctx JobContext) error {
	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return fmt.Errorf("a job is already running")
	}

	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("job '%s' not found", id)
	}

	jm.running = true
	status := jm.status[id]
	now := time.Now()
	status.Status = "running"
	status.StartTime = &now
	status.EndTime = nil
	status.Message = "Job started..."
	jm.mu.Unlock()

	jm.logger.Info().Str("job", id).Msg("Starting job")
	go func() {
		var taskErr error
		defer func() {
			r := recover()

			jm.mu.Lock()
			end := time.Now()
			status.EndTime = &end
			switch {
			case r != nil:
				jm.logger.Error().Str("job", id).Interface("panic", r).Msg("Job panicked")
				status.Status = "failed"
				status.Message = fmt.Sprintf("Job panicked: %v", r)
			case taskErr != nil:
				jm.logger.Error().Err(taskErr).Str("job", id).Msg("Job failed")
				status.Status = "failed"
				status.Message = taskErr.Error()
			default:
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			jm.running = false
			jm.mu.Unlock()
			jm.logger.Info().Str("job", id).Msg("Finished job")
		}()

		taskErr = task(ctx)
	}()
	return nil
}

// GetStatus returns a snapshot of every job's status ordered by id.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
