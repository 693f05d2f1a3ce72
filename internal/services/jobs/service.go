// Package jobs holds the business rules for jobs: numbering, listing,
// detail view, closing and the printable report.
package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xelth-com/docketgo/internal/apperr"
	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/sequence"
	"github.com/xelth-com/docketgo/internal/services/printer"
	"github.com/xelth-com/docketgo/internal/store"
)

// Event names published to the notifier
const (
	EventJobCreated = "job.created"
	EventJobClosed  = "job.closed"
)

// MsgNotFound is returned for any lookup of an unknown job id
const MsgNotFound = "Job not found"

// Notifier receives domain events. The websocket hub implements it.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// CreateInput is the sanitized body of a create request
type CreateInput struct {
	ClientName   string `json:"clientName"`
	SiteLocation string `json:"siteLocation"`
}

type Service struct {
	store    store.Store
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
	report   printer.ReportConfig
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithReportConfig(cfg printer.ReportConfig) Option {
	return func(s *Service) { s.report = cfg }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: logrus.StandardLogger(),
		now:    time.Now,
		report: printer.DefaultReportConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates the next job number and stores an open job. The counter
// increment and the insert share one unit of work where the backend allows it.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Job, error) {
	job := &models.Job{
		ID:           models.NewID(),
		ClientName:   strings.TrimSpace(in.ClientName),
		SiteLocation: strings.TrimSpace(in.SiteLocation),
		Status:       models.JobStatusOpen,
		CreatedAt:    s.now().UTC(),
	}

	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		number, err := sequence.NewGenerator(tx).NextJobNumber(ctx)
		if err != nil {
			return err
		}
		job.JobNumber = number
		return errors.Wrap(tx.CreateJob(ctx, job), "insert job")
	})
	if err != nil {
		return nil, apperr.Internal(err, "create job")
	}

	s.logger.WithFields(logrus.Fields{"job_id": job.ID, "job_number": job.JobNumber}).Info("📋 Job created")
	s.publish(EventJobCreated, job)
	return job, nil
}

// List returns one page of jobs and the total count for the filter
func (s *Service) List(ctx context.Context, filter store.JobFilter) ([]models.Job, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Validation("status must be either 'open' or 'closed'")
	}
	jobs, total, err := s.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list jobs")
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, total, nil
}

// Get returns the job with all of its dockets, newest date first
func (s *Service) Get(ctx context.Context, id string) (*models.JobWithDockets, error) {
	job, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	dockets, err := s.store.ListDockets(ctx, store.DocketFilter{JobID: job.ID})
	if err != nil {
		return nil, apperr.Internal(err, "list job dockets")
	}
	if dockets == nil {
		dockets = []models.Docket{}
	}
	return &models.JobWithDockets{Job: job, Dockets: dockets}, nil
}

// Close marks the job closed. Closing a closed job returns it unchanged.
func (s *Service) Close(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.IsClosed() {
		return job, nil
	}

	job, err = s.store.SetJobStatus(ctx, id, models.JobStatusClosed)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, apperr.Internal(err, "close job")
	}

	s.logger.WithField("job_number", job.JobNumber).Info("🔒 Job closed")
	s.publish(EventJobClosed, job)
	return job, nil
}

// Report renders the job and its dockets as a PDF
func (s *Service) Report(ctx context.Context, id string) ([]byte, *models.Job, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := printer.GenerateJobReportPDF(s.report, detail.Job, detail.Dockets)
	if err != nil {
		return nil, nil, apperr.Internal(err, "render job report")
	}
	return pdf, detail.Job, nil
}

func (s *Service) lookup(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, apperr.Internal(err, "get job")
	}
	return job, nil
}

func (s *Service) publish(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Broadcast(event, payload)
	}
}
