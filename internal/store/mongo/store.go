// Package mongo implements store.Store on MongoDB using the official v2 driver.
package mongo

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xelth-com/docketgo/internal/store"
)

// Collection name constants.
const (
	colJobs     = "jobs"
	colDockets  = "dockets"
	colCounters = "counters"
)

var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of store.Store.
// The caller owns the *mongo.Client lifecycle unless WithDisconnect is set.
type Store struct {
	client     *mongod.Client
	db         *mongod.Database
	disconnect bool
}

// Option configures the Store.
type Option func(*Store)

// WithDisconnect makes Close disconnect the underlying client.
func WithDisconnect() Option {
	return func(s *Store) {
		s.disconnect = true
	}
}

// New creates a new MongoDB store on the named database.
func New(client *mongod.Client, database string, opts ...Option) *Store {
	s := &Store{
		client: client,
		db:     client.Database(database),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "mongo: migrate %s indexes", col)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client when the store owns it.
func (s *Store) Close() error {
	if !s.disconnect {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// RunInTx runs fn directly. Job creation only needs single-document
// atomicity, and a burned counter value is acceptable.
func (s *Store) RunInTx(_ context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

type counterDoc struct {
	Name string `bson:"name"`
	Seq  int64  `bson:"seq"`
}

// NextSequence atomically increments the named counter, creating it on first use.
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{
		"$inc":         bson.M{"seq": 1},
		"$currentDate": bson.M{"updatedAt": true},
	}

	var c counterDoc
	err := s.db.Collection(colCounters).FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&c)
	if err != nil {
		return 0, errors.Wrapf(err, "mongo: next sequence %s", name)
	}
	return c.Seq, nil
}

// ── helpers ──────────────────────────────────────────────────────

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// containsFold builds a case-insensitive literal substring match.
func containsFold(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// migrationIndexes returns the index definitions for all collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colCounters: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colJobs: {
			{
				Keys:    bson.D{{Key: "jobNumber", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colDockets: {
			{Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "labourItems.role", Value: 1}}},
		},
	}
}
