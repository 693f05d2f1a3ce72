package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xelth-com/docketgo/internal/config"
	"github.com/xelth-com/docketgo/internal/store"
	"github.com/xelth-com/docketgo/internal/store/memory"
	mongostore "github.com/xelth-com/docketgo/internal/store/mongo"
	"github.com/xelth-com/docketgo/internal/store/postgres"
)

// OpenStore connects the backend selected by STORE_DRIVER. Closing the
// returned store releases the connection and any embedded database.
func OpenStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("🧪 Mode: [Memory] - Data is lost on restart")
		return memory.New(), nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, cfg.Mongo.Database, mongostore.WithDisconnect()), nil

	case config.DriverPostgres:
		db, err := Connect(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		return postgres.New(db.DB, postgres.WithCloser(db.Close)), nil

	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
