package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	if _, err := s.db.Collection(colJobs).InsertOne(ctx, job); err != nil {
		return errors.Wrap(err, "mongo: create job")
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.Collection(colJobs).FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "mongo: get job")
	}
	return &job, nil
}

func (s *Store) ListJobs(ctx context.Context, filter store.JobFilter) ([]models.Job, int64, error) {
	col := s.db.Collection(colJobs)

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	total, err := col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, errors.Wrap(err, "mongo: count jobs")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "jobNumber", Value: -1}}).
		SetSkip(int64(filter.Offset()))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := col.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "mongo: list jobs")
	}

	jobs := make([]models.Job, 0)
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, 0, errors.Wrap(err, "mongo: decode jobs")
	}
	return jobs, total, nil
}

func (s *Store) SetJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job models.Job
	err := s.db.Collection(colJobs).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
		opts,
	).Decode(&job)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "mongo: set job status")
	}
	return &job, nil
}
