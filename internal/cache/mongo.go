package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripweaver/internal/types"
)

const routesCollection = "routes"

// StoredRoute is the persistent cache row. Geometry is stored as raw
// [lng, lat] pairs so rows stay readable without orb in the loop.
type StoredRoute struct {
	Key             string      `bson:"_id"`
	Geometry        [][]float64 `bson:"geometry"`
	DistanceMeters  float64     `bson:"distance_meters"`
	DurationSeconds float64     `bson:"duration_seconds"`
	Provider        string      `bson:"provider"`
	CreatedAt       time.Time   `bson:"created_at"`
}

// MongoLayer is the persistent second cache layer.
type MongoLayer struct {
	collection *mongo.Collection
}

func NewMongoLayer(db *mongo.Database) *MongoLayer {
	return &MongoLayer{collection: db.Collection(routesCollection)}
}

func (m *MongoLayer) Get(ctx context.Context, key string) (*StoredRoute, error) {
	var row StoredRoute
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading persisted route: %w", err)
	}
	return &row, nil
}

func (m *MongoLayer) Upsert(ctx context.Context, key string, route *types.RouteResult, createdAt time.Time) error {
	row := storedFromResult(key, route, createdAt)
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, row, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("persisting route: %w", err)
	}
	return nil
}
