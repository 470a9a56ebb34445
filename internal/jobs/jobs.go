package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/isayev/coinstack-sub001/internal/metrics"
	"go.uber.org/zap"
)

const (
	StateFlushJobID   = "state-flush"
	BackendCheckJobID = "backend-check"
)

// RegisterDefaultJobs adds the built-in jobs to the manager.
func RegisterDefaultJobs(jm *JobManager) {
	jm.Register(StateFlushJobID, "Flush view state", RunStateFlush)
	jm.Register(BackendCheckJobID, "Check backend version", RunBackendCheck)
}

// StartJobs starts the background job scheduler. The caller stops it.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	cfg := app.Config()
	schedule(s, app, StateFlushJobID, cfg.State.FlushInterval, time.Second)
	schedule(s, app, BackendCheckJobID, cfg.BackendCheckInterval, time.Minute)

	app.Logger().Info("Starting background job scheduler")
	s.StartAsync()
	return s
}

func schedule(s *gocron.Scheduler, app JobContext, jobID string, every int, unit time.Duration) {
	log := app.Logger().With(zap.String("job", jobID))
	if every <= 0 {
		log.Info("Interval is 0, scheduled run is disabled")
		return
	}

	interval := time.Duration(every) * unit
	log.Info("Scheduling job", zap.Duration("every", interval))
	_, err := s.Every(interval).Do(func() {
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		if err := app.JobManager().RunJob(jobID, app); err != nil {
			log.Debug("Scheduled job could not start", zap.Error(err))
		}
	})
	if err != nil {
		log.Error("Error scheduling job", zap.Error(err))
	}
}

// RunStateFlush writes every dirty state slot to storage.
func RunStateFlush(app JobContext) error {
	failed := app.Flusher().FlushAll()
	metrics.AddFlushFailures(failed)
	if failed > 0 {
		return fmt.Errorf("%d state slot(s) could not be written", failed)
	}
	return nil
}

// RunBackendCheck verifies that the backend version satisfies the
// configured constraint.
func RunBackendCheck(app JobContext) error {
	timeout := app.Config().Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	version, err := app.Client().CheckCompatible(ctx, app.Config().API.MinVersion)
	if err != nil {
		app.Logger().Warn("Backend check failed", zap.Error(err))
		return err
	}
	app.Logger().Info("Backend is compatible", zap.String("version", version))
	return nil
}
