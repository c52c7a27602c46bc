package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hdbaza/helpdesk-api/internal/config"
)

// NewMongoDatabase connects to MongoDB, validates the connection and returns
// the configured database. Close it with db.Client().Disconnect.
func NewMongoDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURL).
		SetMaxPoolSize(uint64(cfg.MaxDBConns))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().
		Str("database", cfg.DBName).
		Uint64("max_pool", uint64(cfg.MaxDBConns)).
		Msg("MongoDB connected")

	return client.Database(cfg.DBName), nil
}
