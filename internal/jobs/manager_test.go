package jobs_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvstream/catalog/internal/jobs"
	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/store"
	"github.com/dvstream/catalog/internal/testutil"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []models.ProgressUpdate
}

func (r *recordingBroadcaster) Broadcast(msgType string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if update, ok := payload.(models.ProgressUpdate); ok && msgType == "progress_update" {
		r.messages = append(r.messages, update)
	}
	return nil
}

func (r *recordingBroadcaster) updates() []models.ProgressUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ProgressUpdate(nil), r.messages...)
}

type fakeJobContext struct {
	store *store.Store
	bc    *recordingBroadcaster
}

func (f *fakeJobContext) Store() *store.Store           { return f.store }
func (f *fakeJobContext) Broadcaster() jobs.Broadcaster { return f.bc }
func (f *fakeJobContext) Logger() zerolog.Logger        { return zerolog.Nop() }

func newFakeContext(t *testing.T) *fakeJobContext {
	t.Helper()
	return &fakeJobContext{
		store: store.New(testutil.SetupTestDB(t)),
		bc:    &recordingBroadcaster{},
	}
}

func statusOf(mgr *jobs.JobManager, id string) jobs.JobStatus {
	for _, s := range mgr.GetStatus() {
		if s.ID == id {
			return s
		}
	}
	return jobs.JobStatus{}
}

func TestManager_RegisterAndGetStatus(t *testing.T) {
	mgr := jobs.NewManager(zerolog.Nop())
	assert.Empty(t, mgr.GetStatus())

	mgr.Register("jobB", "Job B", func(jobs.JobContext) error { return nil })
	mgr.Register("jobA", "Job A", func(jobs.JobContext) error { return nil })
	statuses := mgr.GetStatus()
	require.Len(t, statuses, 2)
	assert.Equal(t, "jobA", statuses[0].ID)
	assert.Equal(t, "idle", statuses[1].Status)
}

func TestManager_RunJob(t *testing.T) {
	ctx := newFakeContext(t)

	t.Run("Success", func(t *testing.T) {
		mgr := jobs.NewManager(zerolog.Nop())
		mgr.Register("jobX", "Job X", func(jobs.JobContext) error { return nil })
		require.NoError(t, mgr.RunJob("jobX", ctx))
		require.Eventually(t, func() bool { return statusOf(mgr, "jobX").Status == "success" }, time.Second, 10*time.Millisecond)
		assert.NotNil(t, statusOf(mgr, "jobX").EndTime)
	})

	t.Run("Error marks failed", func(t *testing.T) {
		mgr := jobs.NewManager(zerolog.Nop())
		mgr.Register("jobE", "Job E", func(jobs.JobContext) error { return errors.New("disk full") })
		require.NoError(t, mgr.RunJob("jobE", ctx))
		require.Eventually(t, func() bool { return statusOf(mgr, "jobE").Status == "failed" }, time.Second, 10*time.Millisecond)
		assert.Equal(t, "disk full", statusOf(mgr, "jobE").Message)
	})

	t.Run("Panic marks failed", func(t *testing.T) {
		mgr := jobs.NewManager(zerolog.Nop())
		mgr.Register("panicJob", "Panic Job", func(jobs.JobContext) error { panic("fail") })
		require.NoError(t, mgr.RunJob("panicJob", ctx))
		require.Eventually(t, func() bool { return statusOf(mgr, "panicJob").Status == "failed" }, time.Second, 10*time.Millisecond)
		assert.Contains(t, statusOf(mgr, "panicJob").Message, "panicked")
	})

	t.Run("Already running", func(t *testing.T) {
		mgr := jobs.NewManager(zerolog.Nop())
		block := make(chan struct{})
		mgr.Register("jobY", "Job Y", func(jobs.JobContext) error { <-block; return nil })
		require.NoError(t, mgr.RunJob("jobY", ctx))
		assert.Error(t, mgr.RunJob("jobY", ctx))
		close(block)
		require.Eventually(t, func() bool { return statusOf(mgr, "jobY").Status == "success" }, time.Second, 10*time.Millisecond)
		assert.NoError(t, mgr.RunJob("jobY", ctx), "a finished job can run again")
	})

	t.Run("Not found", func(t *testing.T) {
		mgr := jobs.NewManager(zerolog.Nop())
		assert.Error(t, mgr.RunJob("nojob", ctx))
	})
}

func TestManager_Concurrency(t *testing.T) {
	ctx := newFakeContext(t)
	mgr := jobs.NewManager(zerolog.Nop())

	var mu sync.Mutex
	var count int
	release := make(chan struct{})
	mgr.Register("jobC", "Job C", func(jobs.JobContext) error {
		mu.Lock()
		count++
		mu.Unlock()
		<-release
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.RunJob("jobC", ctx)
		}()
	}
	wg.Wait()
	close(release)

	require.Eventually(t, func() bool { return statusOf(mgr, "jobC").Status == "success" }, time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count, "job should only run once concurrently")
}
