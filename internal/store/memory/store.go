// Package memory is an in-memory Store. Safe for concurrent access.
// Intended for unit testing and development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is a fully in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	jobs     map[string]*models.Job
	dockets  map[string]*models.Docket
	counters map[string]int64

	// insertion order, used as a tie-breaker when sort keys are equal
	jobOrder    map[string]int
	docketOrder map[string]int
	next        int
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		jobs:        make(map[string]*models.Job),
		dockets:     make(map[string]*models.Docket),
		counters:    make(map[string]int64),
		jobOrder:    make(map[string]int),
		docketOrder: make(map[string]int),
	}
}

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// RunInTx runs fn directly; the memory store has no rollback.
func (m *Store) RunInTx(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

// NextSequence increments the named counter under the store lock.
func (m *Store) NextSequence(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name]++
	return m.counters[name], nil
}

// ──────────────────────────────────────────────────
// Jobs
// ──────────────────────────────────────────────────

func (m *Store) CreateJob(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.jobs {
		if existing.JobNumber == job.JobNumber {
			return errDuplicate("jobNumber", job.JobNumber)
		}
	}

	cp := *job
	m.jobs[job.ID] = &cp
	m.jobOrder[job.ID] = m.next
	m.next++
	return nil
}

func (m *Store) GetJob(_ context.Context, id string) (*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *Store) ListJobs(_ context.Context, filter store.JobFilter) ([]models.Job, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		matched = append(matched, *job)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return m.jobOrder[a.ID] > m.jobOrder[b.ID]
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Limit < end-start {
		end = start + filter.Limit
	}

	page := make([]models.Job, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (m *Store) SetJobStatus(_ context.Context, id string, status models.JobStatus) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	job.Status = status
	cp := *job
	return &cp, nil
}

// ──────────────────────────────────────────────────
// Dockets
// ──────────────────────────────────────────────────

func (m *Store) CreateDocket(_ context.Context, docket *models.Docket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[docket.JobID]; !ok {
		return store.ErrNotFound
	}

	cp := *docket
	cp.LabourItems = append(cp.LabourItems[:0:0], docket.LabourItems...)
	m.dockets[docket.ID] = &cp
	m.docketOrder[docket.ID] = m.next
	m.next++
	return nil
}

func (m *Store) ListDockets(_ context.Context, filter store.DocketFilter) ([]models.Docket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(filter.SupervisorName)
	out := make([]models.Docket, 0)
	for _, d := range m.dockets {
		if filter.JobID != "" && d.JobID != filter.JobID {
			continue
		}
		if filter.From != nil && d.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && d.Date.After(*filter.To) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.SupervisorName), needle) {
			continue
		}
		cp := *d
		cp.LabourItems = append(cp.LabourItems[:0:0], d.LabourItems...)
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return m.docketOrder[a.ID] > m.docketOrder[b.ID]
	})
	return out, nil
}

func (m *Store) DocketSummary(_ context.Context) (*models.DocketSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Docket, 0, len(m.dockets))
	for _, d := range m.dockets {
		all = append(all, *d)
	}

	return &models.DocketSummary{
		TotalDockets:     int64(len(all)),
		TotalHoursByRole: models.HoursByRole(all),
	}, nil
}
