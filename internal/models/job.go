package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a background job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job types executed by the background worker
const (
	JobTypeCrawlCategory    = "crawl_category"
	JobTypePublishCategory  = "publish_category"
	JobTypeReparseResources = "reparse_resources"
)

// JobCounts tallies per-item outcomes inside a batch job
type JobCounts struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Job is a persisted background work item. Bulk HTTP endpoints enqueue one
// and return its ID immediately; progress is observable via status lookup.
type Job struct {
	ID      string            `json:"id" badgerhold:"key"`
	Type    string            `json:"type"`
	Payload map[string]string `json:"payload"`

	Status  JobStatus `json:"status" badgerhold:"index"`
	Message string    `json:"message,omitempty"`
	Counts  JobCounts `json:"counts"`
	Error   string    `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewJob creates a queued job with a fresh ID
func NewJob(jobType string, payload map[string]string) *Job {
	now := time.Now()
	return &Job{
		ID:        "job_" + uuid.New().String(),
		Type:      jobType,
		Payload:   payload,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
