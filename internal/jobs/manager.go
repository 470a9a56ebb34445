package jobs

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/isayev/coinstack-sub001/internal/client"
	"github.com/isayev/coinstack-sub001/internal/config"
	"github.com/isayev/coinstack-sub001/internal/persist"
	"github.com/isayev/coinstack-sub001/internal/websocket"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job is already running")
)

// JobContext is an interface that provides the necessary dependencies for a job to run.
// The core.App struct will implement this interface.
type JobContext interface {
	Config() *config.Config
	Logger() *zap.Logger
	Flusher() *persist.Flusher
	Client() *client.Client
	WsHub() *websocket.Hub
	JobManager() *JobManager
}

// A task reports failure by returning an error; the message ends up in the
// job status.
type jobTask func(ctx JobContext) error

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running map[string]bool
	appCtx  JobContext // Store the app context for scheduled jobs
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:    make(map[string]jobTask),
		status:  make(map[string]*JobStatus),
		running: make(map[string]bool),
		appCtx:  appCtx,
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts the job in the background. A job never runs twice at once,
// but different jobs may overlap.
func (jm *JobManager) RunJob(id string, ctx JobContext) error {
	if ctx == nil {
		ctx = jm.appCtx
	}
	jm.mu.Lock()
	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("%w: '%s'", ErrJobNotFound, id)
	}
	if jm.running[id] {
		jm.mu.Unlock()
		return fmt.Errorf("%w: '%s'", ErrJobRunning, id)
	}

	jm.running[id] = true
	status := jm.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.mu.Unlock()

	log := ctx.Logger().With(zap.String("job", id))
	log.Debug("Starting job")
	go func() {
		var taskErr error
		defer func() {
			// Ensure we always update the status and release the job
			if r := recover(); r != nil {
				log.Error("Job panicked", zap.Any("panic", r))
				taskErr = fmt.Errorf("job panicked: %v", r)
			}

			jm.mu.Lock()
			status.EndTime = time.Now()
			if taskErr != nil {
				status.Status = "failed"
				status.Message = taskErr.Error()
			} else {
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			jm.running[id] = false
			snapshot := *status
			jm.mu.Unlock()

			if hub := ctx.WsHub(); hub != nil {
				hub.Publish("job", snapshot)
			}
			log.Debug("Finished job", zap.String("status", snapshot.Status))
		}()

		taskErr = task(ctx)
	}()
	return nil
}

// GetStatus returns a copy of every job's status ordered by ID.
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
