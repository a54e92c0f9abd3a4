package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/config"
)

// Mongo owns the process-wide document store connection. It is created once
// at startup and handed to the repositories; callers must Close it on shutdown.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.MongoConfig
}

// NewMongo connects to the document store and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{client: client, db: client.Database(cfg.Database), cfg: cfg}, nil
}

// Bachelors returns the collection of bachelor (subject) records.
func (m *Mongo) Bachelors() *mongo.Collection {
	return m.db.Collection(m.cfg.BachelorCollection)
}

// MissingInformation returns the collection of missing-information submissions.
func (m *Mongo) MissingInformation() *mongo.Collection {
	return m.db.Collection(m.cfg.MissingInformationCollection)
}

// Users returns the collection of provisioned identities.
func (m *Mongo) Users() *mongo.Collection {
	return m.db.Collection(m.cfg.UserCollection)
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
