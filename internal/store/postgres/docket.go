package postgres

import (
	"context"

	"github.com/pkg/errors"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

func (s *Store) CreateDocket(ctx context.Context, docket *models.Docket) error {
	if err := s.db.WithContext(ctx).Omit("Job").Create(docket).Error; err != nil {
		return errors.Wrap(err, "postgres: create docket")
	}
	return nil
}

func (s *Store) ListDockets(ctx context.Context, filter store.DocketFilter) ([]models.Docket, error) {
	q := s.db.WithContext(ctx).Model(&models.Docket{})
	if filter.JobID != "" {
		q = q.Where("job_id = ?", filter.JobID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.SupervisorName != "" {
		q = q.Where("supervisor_name ILIKE ?", likePattern(filter.SupervisorName))
	}

	dockets := make([]models.Docket, 0)
	if err := q.Order("date DESC").Order("created_at DESC").Find(&dockets).Error; err != nil {
		return nil, errors.Wrap(err, "postgres: list dockets")
	}
	return dockets, nil
}

type roleHours struct {
	Role       string
	TotalHours float64
}

func (s *Store) DocketSummary(ctx context.Context) (*models.DocketSummary, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Docket{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "postgres: count dockets")
	}

	var rows []roleHours
	err := db.Raw(
		`SELECT item->>'role' AS role, COALESCE(SUM((item->>'hoursWorked')::numeric), 0) AS total_hours
		 FROM dockets, jsonb_array_elements(dockets.labour_items) AS item
		 GROUP BY item->>'role'`,
	).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "postgres: aggregate hours by role")
	}

	byRole := make(map[string]float64, len(rows))
	for _, r := range rows {
		byRole[r.Role] = r.TotalHours
	}

	return &models.DocketSummary{TotalDockets: total, TotalHoursByRole: byRole}, nil
}
