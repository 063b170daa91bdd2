package interfaces

import (
	"context"

	"github.com/ternarybob/vendo/internal/models"
)

// JobExecutor performs the work for one job type. Executors update the job's
// counts/message in place; the worker persists and finalizes status.
type JobExecutor func(ctx context.Context, job *models.Job) error

// JobManager enqueues background jobs and exposes status lookup
type JobManager interface {
	Enqueue(jobType string, payload map[string]string) (*models.Job, error)
	Get(id string) (*models.Job, error)
	List(limit int) ([]*models.Job, error)
}
