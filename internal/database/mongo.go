package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/xelth-com/docketgo/internal/config"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongo opens a client for the document store backend and verifies
// the primary is reachable.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig, log logrus.FieldLogger) (*mongo.Client, error) {
	log.Infof("🍃 Mode: [MongoDB] - Connecting to database %s", cfg.Database)

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(mongoConnectTimeout))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mongo client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed to reach mongo")
	}

	log.Info("✅ MongoDB connection established")
	return client, nil
}
