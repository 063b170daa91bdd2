package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// JobStorage implements the JobStorage interface for Badger
type JobStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJobStorage creates a new JobStorage instance
func NewJobStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JobStorage {
	return &JobStorage{db: db, logger: logger}
}

func (s *JobStorage) Save(job *models.Job) error {
	job.UpdatedAt = time.Now()
	if err := s.db.Store().Upsert(job.ID, job); err != nil {
		return &common.PersistenceError{Op: "save job", Err: err}
	}
	return nil
}

func (s *JobStorage) Get(id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.Store().Get(id, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, common.NewNotFound("job", id)
		}
		return nil, &common.PersistenceError{Op: "get job", Err: err}
	}
	return &job, nil
}

// NextQueued returns the oldest queued job, or nil when none is pending
func (s *JobStorage) NextQueued() (*models.Job, error) {
	var jobs []models.Job
	err := s.db.Store().Find(&jobs,
		badgerhold.Where("Status").Eq(models.JobStatusQueued).SortBy("CreatedAt").Limit(1))
	if err != nil {
		return nil, &common.PersistenceError{Op: "next queued job", Err: err}
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return &jobs[0], nil
}

func (s *JobStorage) ListRecent(limit int) ([]*models.Job, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var jobs []models.Job
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, &common.PersistenceError{Op: "list jobs", Err: err}
	}

	result := make([]*models.Job, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result, nil
}
