package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens the document database that holds live game state.
// The database name is taken from the URI path.
func ConnectMongo() (*mongo.Database, context.CancelFunc, error) {
	mongoURI := os.Getenv("MONGODB_URI")

	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid MONGODB_URI: %w", err)
	}

	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(dbName), cancel, nil
}

// EnsureGameIndexes creates the lookup indexes the game store relies
// on: players by room, hand and board cards by owner.
func EnsureGameIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		"players": {Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: 1}}},
		"hands":   {Keys: bson.D{{Key: "room_player_id", Value: 1}}},
		"boards":  {Keys: bson.D{{Key: "room_player_id", Value: 1}, {Key: "position", Value: 1}}},
	}

	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}
