// Package routing orchestrates the route planning engine: cache lookup,
// country resolution, waypoint biasing for scenic and longest styles, and the
// ordered provider chain with quota-aware fallback.
package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"tripweaver/internal/cache"
	"tripweaver/internal/country"
	"tripweaver/internal/geo"
	"tripweaver/internal/poi"
	"tripweaver/internal/types"
)

const (
	maxScenicWaypoints = 2

	// maxDetourPercent caps how far off the direct line a POI-rich waypoint
	// may pull a longest-style route.
	maxDetourPercent = 50
)

// Service is the sole entry point trip-planning callers consume.
type Service interface {
	// GetRoute computes or retrieves a route for the request.
	GetRoute(ctx context.Context, req types.RouteRequest) (*types.RouteResult, error)

	// ScoreRoute computes the advisory scenic density score for a geometry.
	// Expensive (one external call per sample point); callers treat it as
	// optional enrichment, never a precondition.
	ScoreRoute(ctx context.Context, geometry orb.LineString, countryCode string) poi.DensityScore
}

// RouteCache is the dual-layer cache surface the service reads through.
type RouteCache interface {
	GetOrCompute(ctx context.Context, key string, bust bool, compute func(context.Context) (*types.RouteResult, error)) (*types.RouteResult, bool, error)
}

// CountryResolver resolves endpoints for waypoint constraints.
type CountryResolver interface {
	Resolve(ctx context.Context, latitude, longitude float64) string
}

// WaypointSelector supplies the scenic and longest waypoint strategies.
type WaypointSelector interface {
	FindScenicWaypoints(ctx context.Context, start, end types.Coordinate, maxWaypoints int) []types.ScenicFeature
	SelectPOIRichWaypoint(ctx context.Context, start, end types.Coordinate, countryCode string, maxDetourPercent float64) (types.Coordinate, bool)
}

// RouteScorer computes the advisory feature density score.
type RouteScorer interface {
	ScoreRouteByFeatureDensity(ctx context.Context, geometry orb.LineString, countryCode string) poi.DensityScore
}

// Deps bundles the injected collaborators. Hosted and SelfHosted may be nil
// when the deployment has no Valhalla endpoint configured; Fallback must not
// be.
type Deps struct {
	Cache      RouteCache
	Countries  CountryResolver
	Waypoints  WaypointSelector
	Scorer     RouteScorer
	Gate       *Gate
	Hosted     Adapter
	SelfHosted Adapter
	Fallback   Adapter
}

type routingService struct {
	deps   Deps
	logger *slog.Logger
}

// NewService creates the routing service with injected collaborators. This
// is also the test seam: every dependency is an interface.
func NewService(logger *slog.Logger, deps Deps) Service {
	return &routingService{
		deps:   deps,
		logger: logger.With("component", "routing-service"),
	}
}

func (s *routingService) GetRoute(ctx context.Context, req types.RouteRequest) (*types.RouteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	key := cache.Key(req.Profile, req.Preference, req.Coordinates)
	route, cached, err := s.deps.Cache.GetOrCompute(ctx, key, req.BustCache, func(ctx context.Context) (*types.RouteResult, error) {
		return s.compute(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("route served",
		"profile", string(req.Profile),
		"preference", string(req.Preference),
		"provider", string(route.Provider),
		"distance_m", route.DistanceMeters,
		"cached", cached,
	)
	return route, nil
}

func (s *routingService) ScoreRoute(ctx context.Context, geometry orb.LineString, countryCode string) poi.DensityScore {
	return s.deps.Scorer.ScoreRouteByFeatureDensity(ctx, geometry, countryCode)
}

// compute runs the full chain on a cache miss.
func (s *routingService) compute(ctx context.Context, req types.RouteRequest) (*types.RouteResult, error) {
	start := req.Coordinates[0]
	end := req.Coordinates[len(req.Coordinates)-1]
	directKm := geo.HaversineKm(start.Point(), end.Point())

	locations := s.biasLocations(ctx, req, start, end)

	adapterReq := AdapterRequest{
		Locations:  locations,
		Profile:    req.Profile,
		Preference: req.Preference,
		DirectKm:   directKm,
	}

	var lastErr error
	for _, adapter := range s.chain(ctx, req.Preference) {
		result, err := adapter.Route(ctx, adapterReq)
		if err != nil {
			s.logger.Warn("provider failed, advancing chain",
				"provider", string(adapter.Provider()),
				"error", err,
			)
			lastErr = err
			continue
		}

		if adapter.Provider() == types.ProviderValhallaHosted {
			s.deps.Gate.RecordUse(ctx, adapter.Provider())
		}
		return result, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: last provider error: %w", ErrRoutingUnavailable, lastErr)
	}
	return nil, ErrRoutingUnavailable
}

// biasLocations inserts scenic or POI-rich waypoints between the endpoints.
// Only two-coordinate requests are biased: a caller supplying via points has
// already chosen its corridor.
func (s *routingService) biasLocations(ctx context.Context, req types.RouteRequest, start, end types.Coordinate) []types.Coordinate {
	if len(req.Coordinates) != 2 {
		return req.Coordinates
	}

	switch req.Preference {
	case types.StyleScenic:
		waypoints := s.deps.Waypoints.FindScenicWaypoints(ctx, start, end, maxScenicWaypoints)
		if len(waypoints) == 0 {
			return req.Coordinates
		}
		locations := []types.Coordinate{start}
		for _, w := range waypoints {
			locations = append(locations, w.Coordinate)
		}
		return append(locations, end)

	case types.StyleLongest:
		code := s.deps.Countries.Resolve(ctx, start.Latitude, start.Longitude)
		if code == country.Unknown {
			code = s.deps.Countries.Resolve(ctx, end.Latitude, end.Longitude)
		}
		waypoint, ok := s.deps.Waypoints.SelectPOIRichWaypoint(ctx, start, end, code, maxDetourPercent)
		if !ok {
			// No synthetic waypoint is invented; the direct route stands.
			return req.Coordinates
		}
		return []types.Coordinate{start, waypoint, end}

	default:
		return req.Coordinates
	}
}

// chain returns the ordered adapters for a style preference. Scenic and
// longest prefer the engine with per-class costing knobs and native
// alternates; shortest and fastest go straight to the keyless engine and
// only fall back to Valhalla if it errors.
func (s *routingService) chain(ctx context.Context, preference types.StylePreference) []Adapter {
	var ordered []Adapter
	appendIf := func(adapters ...Adapter) {
		for _, a := range adapters {
			if a != nil {
				ordered = append(ordered, a)
			}
		}
	}

	hosted := s.deps.Hosted
	if hosted != nil && !s.deps.Gate.AllowHosted(ctx) {
		hosted = nil
	}

	switch preference {
	case types.StyleScenic, types.StyleLongest:
		appendIf(hosted, s.deps.SelfHosted, s.deps.Fallback)
	default:
		appendIf(s.deps.Fallback, hosted, s.deps.SelfHosted)
	}
	return ordered
}
