package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// connectRetryDelay is the fixed backoff between initial connect attempts.
const connectRetryDelay = 5 * time.Second

type DB struct {
	client *mongo.Client
	name   string
}

// Connect dials MongoDB and verifies the connection with a ping. Failed
// attempts are retried every 5 seconds until ctx is cancelled.
func Connect(ctx context.Context, url string, name string) (*DB, error) {
	for {
		db, err := dial(ctx, url, name)
		if err == nil {
			slog.Info("database connected", "database", name)
			return db, nil
		}

		slog.Warn("database connection failed, retrying", "error", err, "delay", connectRetryDelay)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect database: %w", ctx.Err())
		case <-time.After(connectRetryDelay):
		}
	}
}

func dial(ctx context.Context, url string, name string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &DB{client: client, name: name}, nil
}

func (db *DB) Database() *mongo.Database {
	return db.client.Database(db.name)
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) Health(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}
