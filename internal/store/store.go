// Package store defines the persistence contracts for jobs, dockets and
// named counters. Backends live in the postgres, mongo and memory
// subpackages.
package store

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/xelth-com/docketgo/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("store: not found")

// Sequencer atomically increments a named counter and returns the new value.
// A missing counter starts at 1.
type Sequencer interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// JobFilter selects a page of jobs.
type JobFilter struct {
	Status models.JobStatus // empty means any
	Page   int              // 1-based
	Limit  int
}

// Offset returns the number of records to skip. It saturates at
// math.MaxInt instead of overflowing.
func (f JobFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// JobRepository persists jobs.
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	// ListJobs returns a page ordered by creation time descending, plus the
	// total number of jobs matching the filter.
	ListJobs(ctx context.Context, filter JobFilter) ([]models.Job, int64, error)
	SetJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error)
}

// DocketFilter selects dockets of a job. From and To are inclusive.
type DocketFilter struct {
	JobID          string
	From           *time.Time
	To             *time.Time
	SupervisorName string // case-insensitive substring
}

// DocketRepository persists dockets.
type DocketRepository interface {
	CreateDocket(ctx context.Context, docket *models.Docket) error
	// ListDockets returns matching dockets ordered by date descending.
	ListDockets(ctx context.Context, filter DocketFilter) ([]models.Docket, error)
	DocketSummary(ctx context.Context) (*models.DocketSummary, error)
}

// Store bundles every repository of a backend.
type Store interface {
	Sequencer
	JobRepository
	DocketRepository

	// RunInTx runs fn against a store bound to one unit of work. Backends
	// without multi-document transactions run fn directly.
	RunInTx(ctx context.Context, fn func(tx Store) error) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
