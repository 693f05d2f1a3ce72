// Package dockets holds the business rules for labour dockets.
package dockets

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xelth-com/docketgo/internal/apperr"
	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/services/export"
	"github.com/xelth-com/docketgo/internal/store"
	"github.com/xelth-com/docketgo/internal/utils"
)

const EventDocketCreated = "docket.created"

const (
	MsgJobNotFound = "Job not found"
	MsgJobClosed   = "Job is closed, cannot create docket"
)

// Notifier receives domain events
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// CreateInput is the sanitized body of a create request
type CreateInput struct {
	SupervisorName string              `json:"supervisorName"`
	Date           string              `json:"date"` // DD-MM-YYYY
	LabourItems    []models.LabourItem `json:"labourItems"`
	Notes          string              `json:"notes"`
}

// Query holds the optional list filters, dates as DD-MM-YYYY
type Query struct {
	From           string
	To             string
	SupervisorName string
}

type Service struct {
	store    store.Store
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a docket against an open job. The job is checked before
// bind runs, so a closed job is reported even when the body is invalid.
// bind decodes and validates the request body into the input.
func (s *Service) Create(ctx context.Context, jobID string, bind func(*CreateInput) error) (*models.Docket, error) {
	job, err := s.job(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsClosed() {
		return nil, apperr.Conflict(MsgJobClosed)
	}

	var in CreateInput
	if err := bind(&in); err != nil {
		return nil, err
	}

	date, err := utils.ParseDDMMYYYY(in.Date)
	if err != nil {
		return nil, apperr.Validation("date must be a valid calendar date")
	}

	docket := &models.Docket{
		ID:             models.NewID(),
		JobID:          job.ID,
		SupervisorName: strings.TrimSpace(in.SupervisorName),
		Date:           date,
		LabourItems:    in.LabourItems,
		Notes:          in.Notes,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateDocket(ctx, docket); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(MsgJobNotFound)
		}
		return nil, apperr.Internal(err, "create docket")
	}

	s.logger.WithFields(logrus.Fields{
		"job_number": job.JobNumber,
		"docket_id":  docket.ID,
		"items":      len(docket.LabourItems),
	}).Info("📝 Docket created")
	if s.notifier != nil {
		s.notifier.Broadcast(EventDocketCreated, docket)
	}
	return docket, nil
}

// ListByJob returns the dockets of a job, newest date first. An unknown job
// yields an empty list.
func (s *Service) ListByJob(ctx context.Context, jobID string, q Query) ([]models.Docket, error) {
	filter, err := q.filter(jobID)
	if err != nil {
		return nil, err
	}
	dockets, err := s.store.ListDockets(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err, "list dockets")
	}
	if dockets == nil {
		dockets = []models.Docket{}
	}
	return dockets, nil
}

// Summary aggregates every docket in the system
func (s *Service) Summary(ctx context.Context) (*models.DocketSummary, error) {
	summary, err := s.store.DocketSummary(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "docket summary")
	}
	if summary.TotalHoursByRole == nil {
		summary.TotalHoursByRole = map[string]float64{}
	}
	return summary, nil
}

// Export renders the filtered dockets of a job as an XLSX workbook
func (s *Service) Export(ctx context.Context, jobID string, q Query) ([]byte, *models.Job, error) {
	job, err := s.job(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	dockets, err := s.ListByJob(ctx, jobID, q)
	if err != nil {
		return nil, nil, err
	}
	data, err := export.DocketsXLSX(job, dockets)
	if err != nil {
		return nil, nil, apperr.Internal(err, "export dockets")
	}
	return data, job, nil
}

func (s *Service) job(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(MsgJobNotFound)
		}
		return nil, apperr.Internal(err, "get job")
	}
	return job, nil
}

func (q Query) filter(jobID string) (store.DocketFilter, error) {
	f := store.DocketFilter{JobID: jobID, SupervisorName: strings.TrimSpace(q.SupervisorName)}
	if q.From != "" {
		from, err := utils.ParseDDMMYYYY(q.From)
		if err != nil {
			return f, apperr.Validation("from must be a valid calendar date")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := utils.ParseDDMMYYYY(q.To)
		if err != nil {
			return f, apperr.Validation("to must be a valid calendar date")
		}
		f.To = &to
	}
	return f, nil
}
