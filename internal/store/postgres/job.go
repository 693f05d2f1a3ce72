package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return errors.Wrap(err, "postgres: create job")
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if notFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "postgres: get job")
	}
	return &job, nil
}

func (s *Store) ListJobs(ctx context.Context, filter store.JobFilter) ([]models.Job, int64, error) {
	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Job{})
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "postgres: count jobs")
	}

	jobs := make([]models.Job, 0)
	err := query().Order("created_at DESC").
		Order("job_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "postgres: list jobs")
	}
	return jobs, total, nil
}

func (s *Store) SetJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	res := s.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "postgres: set job status")
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetJob(ctx, id)
}
