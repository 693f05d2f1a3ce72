// Package database opens the configured store backend. PostgreSQL runs
// either against an external server or an embedded instance started on
// demand for local development.
package database

import (
	"fmt"
	"strconv"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/docketgo/internal/config"
)

const (
	embeddedDataPath = "./db_data"
	embeddedPort     = 5433
	embeddedPassword = "postgres"
)

// DB wraps gorm.DB and the embedded process when one was started
type DB struct {
	*gorm.DB
	embedded *embeddedpostgres.EmbeddedPostgres
	log      logrus.FieldLogger
}

// useEmbedded reports whether cfg asks for the zero-config local database:
// localhost without a password.
func useEmbedded(cfg config.DatabaseConfig) bool {
	return cfg.Host == "localhost" && cfg.Password == ""
}

func dsn(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database,
	)
}

// Connect opens PostgreSQL, starting the embedded instance first when
// useEmbedded holds.
func Connect(cfg config.DatabaseConfig, log logrus.FieldLogger) (*DB, error) {
	var embedded *embeddedpostgres.EmbeddedPostgres

	if useEmbedded(cfg) {
		log.Infof("📦 Starting embedded PostgreSQL on port %d", embeddedPort)
		embedded = embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
			DataPath(embeddedDataPath).
			Port(uint32(embeddedPort)).
			Database(cfg.Database).
			Username(cfg.Username).
			Password(embeddedPassword))
		if err := embedded.Start(); err != nil {
			return nil, errors.Wrap(err, "failed to start embedded database")
		}
		cfg.Port = strconv.Itoa(embeddedPort)
		cfg.Password = embeddedPassword
	} else {
		log.Infof("🌐 Connecting to PostgreSQL at %s:%s", cfg.Host, cfg.Port)
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger:  gormLogger(log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("✅ Database connection established")
	return &DB{DB: db, embedded: embedded, log: log}, nil
}

// Close closes the pool and stops the embedded process, if any
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if db.embedded != nil {
		db.log.Info("🛑 Stopping embedded PostgreSQL")
		if stopErr := db.embedded.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}

// gormLogger routes gorm's SQL log through logrus. SQL statements are only
// traced at debug level.
func gormLogger(log logrus.FieldLogger) logger.Interface {
	level := logger.Warn
	if l, ok := log.(*logrus.Logger); ok {
		switch {
		case l.IsLevelEnabled(logrus.DebugLevel):
			level = logger.Info
		case !l.IsLevelEnabled(logrus.WarnLevel):
			level = logger.Silent
		}
	}
	return logger.New(gormWriter{log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	log logrus.FieldLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithField("component", "gorm").Infof(format, args...)
}
