// Package jobs runs bulk operations in the background. HTTP handlers enqueue
// a job and return its ID immediately; a single worker drains the queue and
// records per-item tallies on the job record.
package jobs

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
)

// Manager enqueues persisted jobs and exposes status lookup
type Manager struct {
	storage interfaces.JobStorage
	logger  arbor.ILogger
}

// NewManager creates a job manager
func NewManager(storage interfaces.JobStorage, logger arbor.ILogger) *Manager {
	return &Manager{storage: storage, logger: logger}
}

// Enqueue persists a new queued job and returns it
func (m *Manager) Enqueue(jobType string, payload map[string]string) (*models.Job, error) {
	job := models.NewJob(jobType, payload)
	if err := m.storage.Save(job); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("job_id", job.ID).
		Str("type", jobType).
		Msg("Job enqueued")

	return job, nil
}

// Get returns a job by ID
func (m *Manager) Get(id string) (*models.Job, error) {
	return m.storage.Get(id)
}

// List returns the most recent jobs
func (m *Manager) List(limit int) ([]*models.Job, error) {
	return m.storage.ListRecent(limit)
}
