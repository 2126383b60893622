package config

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Database owns the mongo client for the lifetime of the process
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectDatabase opens the client and pings the primary before returning
func ConnectDatabase(ctx context.Context, cfg *Config) (*Database, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("dressmaker-orders-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infow("database_connected", "database", cfg.MongoDatabase)
	return &Database{
		Client: client,
		DB:     client.Database(cfg.MongoDatabase),
	}, nil
}

// Ping checks that the primary is still reachable
func (d *Database) Ping(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return fmt.Errorf("database not connected")
	}
	return d.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (d *Database) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	if err := d.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect database: %w", err)
	}
	logger.Infow("database_disconnected")
	return nil
}
