// Package country resolves coordinates to ISO country codes. Resolution is a
// soft constraint: any failure degrades to Unknown instead of surfacing an
// error, because callers use country codes only to keep scenic detours from
// silently crossing a border.
package country

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"tripweaver/internal/providers/nominatim"
)

// Unknown is returned whenever a coordinate cannot be resolved.
const Unknown = "unknown"

// memoSize bounds the in-process memo cache. Keys are coordinates rounded to
// 4 decimal places (~11m), so real-world query diversity stays well under
// this in practice.
const memoSize = 4096

// ReverseGeocoder is the boundary query a resolver runs on cache misses.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*nominatim.ReverseAPIResponse, error)
}

type Resolver struct {
	provider ReverseGeocoder
	memo     *lru.Cache[string, string]
	logger   *slog.Logger
}

// NewResolver creates a resolver backed by the public Nominatim service.
func NewResolver(logger *slog.Logger) *Resolver {
	return NewResolverWithProvider(logger, nominatim.NewClient(logger))
}

// NewResolverWithProvider creates a resolver with a custom boundary provider.
// This is useful for testing with mock providers.
func NewResolverWithProvider(logger *slog.Logger, provider ReverseGeocoder) *Resolver {
	memo, _ := lru.New[string, string](memoSize)
	return &Resolver{
		provider: provider,
		memo:     memo,
		logger:   logger.With("component", "country-resolver"),
	}
}

// Resolve returns the lowercase ISO 3166-1 alpha-2 code for the coordinate,
// or Unknown. Successful lookups are memoized for the resolver's lifetime.
func (r *Resolver) Resolve(ctx context.Context, latitude, longitude float64) string {
	key := memoKey(latitude, longitude)
	if code, ok := r.memo.Get(key); ok {
		return code
	}

	resp, err := r.provider.ReverseGeocode(ctx, latitude, longitude)
	if err != nil {
		r.logger.Debug("country resolution failed",
			"latitude", latitude,
			"longitude", longitude,
			"error", err,
		)
		return Unknown
	}

	code := strings.ToLower(resp.Address.CountryCode)
	if code == "" {
		return Unknown
	}

	// Only successful resolutions are memoized, so a transient provider
	// outage does not pin Unknown for the process lifetime.
	r.memo.Add(key, code)
	return code
}

func memoKey(latitude, longitude float64) string {
	return fmt.Sprintf("%.4f,%.4f", latitude, longitude)
}
