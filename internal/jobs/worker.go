package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
)

const pollInterval = time.Second

// Worker drains the job queue one job at a time. Bulk crawls and publishes
// hammer the source site, so jobs deliberately never run concurrently.
type Worker struct {
	storage   interfaces.JobStorage
	executors map[string]interfaces.JobExecutor
	logger    arbor.ILogger
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewWorker creates a worker with the given executor per job type
func NewWorker(storage interfaces.JobStorage, executors map[string]interfaces.JobExecutor, logger arbor.ILogger) *Worker {
	return &Worker{
		storage:   storage,
		executors: executors,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins polling for queued jobs
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.run(ctx)
	w.logger.Info().Msg("Job worker started")
}

// Stop halts polling and waits for the in-flight job to finish
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.logger.Info().Msg("Job worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain runs queued jobs until the queue is empty or the context ends
func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.storage.NextQueued()
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to poll job queue")
			return
		}
		if job == nil {
			return
		}

		w.execute(ctx, job)
	}
}

// execute runs one job through its registered executor and finalizes status
func (w *Worker) execute(ctx context.Context, job *models.Job) {
	now := time.Now()
	job.Status = models.JobStatusRunning
	job.StartedAt = &now
	if err := w.storage.Save(job); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to mark job running")
		return
	}

	w.logger.Info().
		Str("job_id", job.ID).
		Str("type", job.Type).
		Msg("Job started")

	executor, ok := w.executors[job.Type]
	var err error
	if !ok {
		err = fmt.Errorf("no executor registered for job type %q", job.Type)
	} else {
		err = executor(ctx, job)
	}

	finished := time.Now()
	job.CompletedAt = &finished
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Job failed")
	} else {
		job.Status = models.JobStatusCompleted
		w.logger.Info().
			Str("job_id", job.ID).
			Int("succeeded", job.Counts.Succeeded).
			Int("skipped", job.Counts.Skipped).
			Int("failed", job.Counts.Failed).
			Msg("Job completed")
	}

	if err := w.storage.Save(job); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to persist job result")
	}
}
