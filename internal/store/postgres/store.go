// Package postgres implements store.Store on PostgreSQL through gorm.
package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is a gorm-backed store. The caller owns the *gorm.DB lifecycle
// unless a closer is supplied through WithCloser.
type Store struct {
	db     *gorm.DB
	closer func() error
}

// Option configures the Store.
type Option func(*Store)

// WithCloser registers the function used by Close.
func WithCloser(fn func() error) Option {
	return func(s *Store) {
		s.closer = fn
	}
}

// New creates a new PostgreSQL store.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate synchronizes the schema for jobs, dockets and counters.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Counter{}, &models.Job{}, &models.Docket{}); err != nil {
		return errors.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database if a closer was registered.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// RunInTx runs fn inside a database transaction. Counter increments made
// by fn roll back together with the rest of the unit of work.
func (s *Store) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// NextSequence upserts the counter row and increments it in one statement.
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, seq, updated_at) VALUES (?, 1, NOW())
		 ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1, updated_at = NOW()
		 RETURNING seq`,
		name,
	).Scan(&seq).Error
	if err != nil {
		return 0, errors.Wrapf(err, "postgres: next sequence %s", name)
	}
	return seq, nil
}

// likePattern turns a literal substring into an ILIKE pattern.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
