package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"tripweaver/internal/polyline"
	"tripweaver/internal/providers/osrm"
	"tripweaver/internal/providers/valhalla"
	"tripweaver/internal/types"
)

// AdapterRequest is the provider-independent request every adapter
// translates into its backend's wire format.
type AdapterRequest struct {
	Locations  []types.Coordinate
	Profile    types.TransportProfile
	Preference types.StylePreference
	DirectKm   float64
}

// Adapter computes a route on one backend. Adapter-specific response fields
// never leak past the common RouteResult shape.
type Adapter interface {
	Provider() types.Provider
	Route(ctx context.Context, req AdapterRequest) (*types.RouteResult, error)
}

// ValhallaRouter is the client surface the Valhalla adapter needs.
type ValhallaRouter interface {
	Route(ctx context.Context, req valhalla.RouteRequest) (*valhalla.RouteAPIResponse, error)
}

// ValhallaAdapter serves both the hosted and the self-hosted instance; they
// share a wire format and differ only in base URL and credentials.
type ValhallaAdapter struct {
	provider types.Provider
	client   ValhallaRouter
	codec    polyline.Codec
	logger   *slog.Logger
}

func NewValhallaAdapter(logger *slog.Logger, provider types.Provider, client ValhallaRouter) *ValhallaAdapter {
	return &ValhallaAdapter{
		provider: provider,
		client:   client,
		codec:    polyline.NewCodec(polyline.Scale6),
		logger:   logger.With("component", "valhalla-adapter", "provider", string(provider)),
	}
}

func (a *ValhallaAdapter) Provider() types.Provider {
	return a.provider
}

func (a *ValhallaAdapter) Route(ctx context.Context, req AdapterRequest) (*types.RouteResult, error) {
	locations := make([]valhalla.Location, 0, len(req.Locations))
	for _, c := range req.Locations {
		locations = append(locations, valhalla.Location{Lat: c.Latitude, Lon: c.Longitude})
	}

	routeReq := valhalla.RouteRequest{
		Locations: locations,
		Costing:   valhallaCosting(req.Profile),
		Units:     "kilometers",
	}

	if req.Preference == types.StyleScenic || req.Preference == types.StyleLongest {
		routeReq.CostingOptions = map[valhalla.Costing]valhalla.CostingOptions{
			routeReq.Costing: scenicCostingOptions(req.DirectKm),
		}
		// Only longest-route selection inspects alternates, and the engine
		// only produces them for two-location requests.
		if req.Preference == types.StyleLongest && len(locations) == 2 {
			routeReq.Alternates = ptr(3)
		}
	}

	if req.Profile == types.ProfileWheelchair {
		// Wheelchair is a sub-mode of the pedestrian costing, not a costing
		// of its own.
		if routeReq.CostingOptions == nil {
			routeReq.CostingOptions = map[valhalla.Costing]valhalla.CostingOptions{}
		}
		opts := routeReq.CostingOptions[routeReq.Costing]
		opts.Type = valhalla.PedestrianTypeWheelchair
		routeReq.CostingOptions[routeReq.Costing] = opts
	}

	resp, err := a.client.Route(ctx, routeReq)
	if err != nil {
		return nil, fmt.Errorf("valhalla route: %w", err)
	}

	chosen := resp.Trip
	if req.Preference == types.StyleLongest {
		for _, alternate := range resp.Alternates {
			if alternate.Trip.Summary.Length > chosen.Summary.Length {
				chosen = alternate.Trip
			}
		}
	}

	return a.tripToResult(chosen)
}

func (a *ValhallaAdapter) tripToResult(trip valhalla.Trip) (*types.RouteResult, error) {
	var geometry orb.LineString
	for _, leg := range trip.Legs {
		shape, err := a.codec.Decode(leg.Shape)
		if err != nil {
			// Malformed payload: the provider is treated as failed and the
			// chain advances.
			return nil, fmt.Errorf("decoding leg shape: %w", err)
		}
		// Consecutive legs share their boundary vertex.
		if len(geometry) > 0 && len(shape) > 0 && geometry[len(geometry)-1] == shape[0] {
			shape = shape[1:]
		}
		geometry = append(geometry, shape...)
	}

	result := &types.RouteResult{
		Geometry:        geometry,
		DistanceMeters:  trip.Summary.Length * 1000,
		DurationSeconds: trip.Summary.Time,
		Provider:        a.provider,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("valhalla response invalid: %w", err)
	}
	return result, nil
}

// OSRMRouter is the client surface the OSRM adapter needs.
type OSRMRouter interface {
	Route(ctx context.Context, profile string, coordinates [][2]float64, alternatives int) (*osrm.RouteAPIResponse, error)
}

// OSRMAdapter wraps the keyless fallback engine. For shortest and fastest it
// requests alternates and picks the minimum-distance or minimum-duration one.
type OSRMAdapter struct {
	client OSRMRouter
	logger *slog.Logger
}

func NewOSRMAdapter(logger *slog.Logger, client OSRMRouter) *OSRMAdapter {
	return &OSRMAdapter{
		client: client,
		logger: logger.With("component", "osrm-adapter"),
	}
}

func (a *OSRMAdapter) Provider() types.Provider {
	return types.ProviderOSRM
}

func (a *OSRMAdapter) Route(ctx context.Context, req AdapterRequest) (*types.RouteResult, error) {
	coordinates := make([][2]float64, 0, len(req.Locations))
	for _, c := range req.Locations {
		coordinates = append(coordinates, [2]float64{c.Longitude, c.Latitude})
	}

	// Scenic keeps the primary route (no costing knobs to rank alternates
	// with), so requesting them would be wasted work.
	alternatives := 0
	if len(coordinates) == 2 && req.Preference != types.StyleScenic {
		alternatives = 3
	}

	resp, err := a.client.Route(ctx, osrmProfile(req.Profile), coordinates, alternatives)
	if err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	chosen := resp.Routes[0]
	switch req.Preference {
	case types.StyleShortest:
		for _, route := range resp.Routes[1:] {
			if route.Distance < chosen.Distance {
				chosen = route
			}
		}
	case types.StyleLongest:
		for _, route := range resp.Routes[1:] {
			if route.Distance > chosen.Distance {
				chosen = route
			}
		}
	case types.StyleScenic:
		// Fallback role only: OSRM has no costing knobs, keep the primary.
	default: // fastest
		for _, route := range resp.Routes[1:] {
			if route.Duration < chosen.Duration {
				chosen = route
			}
		}
	}

	if chosen.Geometry == nil {
		return nil, fmt.Errorf("osrm response missing geometry")
	}
	geometry, ok := chosen.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("osrm geometry is %T, want LineString", chosen.Geometry.Geometry())
	}

	result := &types.RouteResult{
		Geometry:        geometry,
		DistanceMeters:  chosen.Distance,
		DurationSeconds: chosen.Duration,
		Provider:        types.ProviderOSRM,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("osrm response invalid: %w", err)
	}
	return result, nil
}
