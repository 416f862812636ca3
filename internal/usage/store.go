// Package usage tracks monthly per-provider call counts for quota
// enforcement. Increments are atomic at the persistence layer ($inc upsert),
// never read-modify-write in application code, so concurrent requests cannot
// undercount.
package usage

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

const usageCollection = "provider_usage"

// Store is the usage counter interface consumed by the quota gate.
type Store interface {
	Increment(ctx context.Context, month string, provider types.Provider) error
	Get(ctx context.Context, month string, provider types.Provider) (int64, error)
}

// MonthKey formats a time as the "YYYY-MM" counter key. Month rollover is
// implicit: the first increment of a new month upserts a fresh row.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

type counterRow struct {
	Month    string `bson:"month"`
	Provider string `bson:"provider"`
	Count    int64  `bson:"count"`
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(usageCollection)}
}

func (s *MongoStore) Increment(ctx context.Context, month string, provider types.Provider) error {
	filter := bson.M{"month": month, "provider": string(provider)}
	update := bson.M{"$inc": bson.M{"count": 1}}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("incrementing usage counter: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, month string, provider types.Provider) (int64, error) {
	var row counterRow
	err := s.collection.FindOne(ctx, bson.M{"month": month, "provider": string(provider)}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading usage counter: %w", err)
	}
	return row.Count, nil
}
