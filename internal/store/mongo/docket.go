package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

func (s *Store) CreateDocket(ctx context.Context, docket *models.Docket) error {
	if _, err := s.db.Collection(colDockets).InsertOne(ctx, docket); err != nil {
		return errors.Wrap(err, "mongo: create docket")
	}
	return nil
}

func (s *Store) ListDockets(ctx context.Context, filter store.DocketFilter) ([]models.Docket, error) {
	q := bson.M{}
	if filter.JobID != "" {
		q["jobId"] = filter.JobID
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		q["date"] = dateRange
	}
	if filter.SupervisorName != "" {
		q["supervisorName"] = containsFold(filter.SupervisorName)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(colDockets).Find(ctx, q, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo: list dockets")
	}

	dockets := make([]models.Docket, 0)
	if err := cursor.All(ctx, &dockets); err != nil {
		return nil, errors.Wrap(err, "mongo: decode dockets")
	}
	return dockets, nil
}

type roleHours struct {
	Role       string  `bson:"_id"`
	TotalHours float64 `bson:"totalHours"`
}

func (s *Store) DocketSummary(ctx context.Context) (*models.DocketSummary, error) {
	col := s.db.Collection(colDockets)

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "mongo: count dockets")
	}

	pipeline := mongod.Pipeline{
		{{Key: "$unwind", Value: "$labourItems"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$labourItems.role"},
			{Key: "totalHours", Value: bson.D{{Key: "$sum", Value: "$labourItems.hoursWorked"}}},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "mongo: aggregate hours by role")
	}

	var rows []roleHours
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "mongo: decode hours by role")
	}

	byRole := make(map[string]float64, len(rows))
	for _, r := range rows {
		byRole[r.Role] = r.TotalHours
	}

	return &models.DocketSummary{TotalDockets: total, TotalHoursByRole: byRole}, nil
}
