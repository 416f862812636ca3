// Package cache layers a fast short-TTL store over a persistent 30-day store
// for computed routes. Cache writes are best-effort: a write failure is
// logged and never fails the route request that produced the result.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/paulmach/orb"

	"tripweaver/internal/types"
)

const (
	// DefaultLayer1TTL keeps hot routes in the fast layer briefly; the
	// persistent layer carries the long tail.
	DefaultLayer1TTL = 15 * time.Minute

	// DefaultFreshness is the persistent layer's staleness horizon. Older
	// rows are treated as absent.
	DefaultFreshness = 30 * 24 * time.Hour
)

// Layer1 is the fast key/value store (Redis).
type Layer1 interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Layer2 is the persistent store (MongoDB).
type Layer2 interface {
	Get(ctx context.Context, key string) (*StoredRoute, error)
	Upsert(ctx context.Context, key string, route *types.RouteResult, createdAt time.Time) error
}

type DualLayer struct {
	layer1    Layer1
	layer2    Layer2
	layer1TTL time.Duration
	freshness time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewDualLayer(logger *slog.Logger, layer1 Layer1, layer2 Layer2) *DualLayer {
	return NewDualLayerWithHorizons(logger, layer1, layer2, DefaultLayer1TTL, DefaultFreshness)
}

// NewDualLayerWithHorizons creates a dual-layer cache with explicit fast-layer
// TTL and persistent-layer freshness horizon.
func NewDualLayerWithHorizons(logger *slog.Logger, layer1 Layer1, layer2 Layer2, layer1TTL, freshness time.Duration) *DualLayer {
	return &DualLayer{
		layer1:    layer1,
		layer2:    layer2,
		layer1TTL: layer1TTL,
		freshness: freshness,
		now:       time.Now,
		logger:    logger.With("component", "route-cache"),
	}
}

// GetOrCompute returns the cached route for key, or calls compute and writes
// the result through both layers. bust bypasses both reads but still writes
// through, so subsequent requests benefit. The returned bool reports whether
// the result came from cache.
func (c *DualLayer) GetOrCompute(ctx context.Context, key string, bust bool, compute func(context.Context) (*types.RouteResult, error)) (*types.RouteResult, bool, error) {
	if !bust {
		if route, ok := c.lookup(ctx, key); ok {
			return route, true, nil
		}
	}

	route, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	c.writeThrough(ctx, key, route)
	return route, false, nil
}

func (c *DualLayer) lookup(ctx context.Context, key string) (*types.RouteResult, bool) {
	if data, ok, err := c.layer1.Get(ctx, key); err != nil {
		c.logger.Warn("layer 1 read failed", "key", key, "error", err)
	} else if ok {
		var route types.RouteResult
		if err := json.Unmarshal(data, &route); err == nil {
			return &route, true
		}
		c.logger.Warn("discarding corrupt layer 1 entry", "key", key)
	}

	row, err := c.layer2.Get(ctx, key)
	if err != nil {
		c.logger.Warn("layer 2 read failed", "key", key, "error", err)
		return nil, false
	}
	if row == nil || c.now().Sub(row.CreatedAt) > c.freshness {
		return nil, false
	}

	route := resultFromStored(row)
	if err := route.Validate(); err != nil {
		c.logger.Warn("discarding invalid layer 2 entry", "key", key, "error", err)
		return nil, false
	}

	// Backfill the fast layer so the next hit skips the persistent store.
	if data, err := json.Marshal(route); err == nil {
		if err := c.layer1.Set(ctx, key, data, c.layer1TTL); err != nil {
			c.logger.Warn("layer 1 backfill failed", "key", key, "error", err)
		}
	}
	return route, true
}

func (c *DualLayer) writeThrough(ctx context.Context, key string, route *types.RouteResult) {
	if data, err := json.Marshal(route); err == nil {
		if err := c.layer1.Set(ctx, key, data, c.layer1TTL); err != nil {
			c.logger.Warn("layer 1 write failed", "key", key, "error", err)
		}
	}
	if err := c.layer2.Upsert(ctx, key, route, c.now()); err != nil {
		c.logger.Warn("layer 2 write failed", "key", key, "error", err)
	}
}

func storedFromResult(key string, route *types.RouteResult, createdAt time.Time) *StoredRoute {
	geometry := make([][]float64, 0, len(route.Geometry))
	for _, p := range route.Geometry {
		geometry = append(geometry, []float64{p[0], p[1]})
	}
	return &StoredRoute{
		Key:             key,
		Geometry:        geometry,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Provider:        string(route.Provider),
		CreatedAt:       createdAt,
	}
}

func resultFromStored(row *StoredRoute) *types.RouteResult {
	geometry := make(orb.LineString, 0, len(row.Geometry))
	for _, p := range row.Geometry {
		if len(p) == 2 {
			geometry = append(geometry, orb.Point{p[0], p[1]})
		}
	}
	return &types.RouteResult{
		Geometry:        geometry,
		DistanceMeters:  row.DistanceMeters,
		DurationSeconds: row.DurationSeconds,
		Provider:        types.Provider(row.Provider),
	}
}
