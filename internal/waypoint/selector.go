// Package waypoint picks the intermediate coordinates that bias a route
// toward scenic or longest variants. The scoring constants are hand-tuned
// from empirical testing; which waypoints get chosen is a visible product
// property, so the relative weights must be preserved exactly.
package waypoint

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"tripweaver/internal/country"
	"tripweaver/internal/geo"
	"tripweaver/internal/poi"
	"tripweaver/internal/types"
)

const (
	// Corridor scoring: reward genuine detours, reject both on-path and
	// wildly-off-path candidates.
	corridorMinKm       = 20
	corridorMaxKm       = 150
	corridorBonus       = 100
	midpointRadiusKm    = 100
	midpointBonus       = 50
	detourPenalty       = -100
	maxDetourRatio      = 1.5
	skiBonus            = 30
	nationalParkBonus   = 20
	secondPickMinScore  = 50
	secondPickMinDistKm = 50

	// POI-rich waypoint search for longest routes.
	lateralFractions  = 3 // 30%, 50%, 70% of the lateral vector
	richRadiusKm      = 10
	richMinDensity    = 5
	sampleConcurrency = 5

	// Scenic corridor gathering.
	corridorSamples  = 5
	corridorRadiusKm = 30
)

// ScoredWaypoint is a feature plus the numbers its score was computed from.
// It exists only inside the selection algorithm.
type ScoredWaypoint struct {
	Feature             types.ScenicFeature
	Score               float64
	DistanceFromRouteKm float64
	DistanceFromStartKm float64
}

// SelectWaypoints scores the candidate features against the direct start→end
// corridor and greedily picks at most two well-separated waypoints, ordered
// by distance from start so the resulting route visits them in sequence.
// Deterministic for a fixed input set.
func SelectWaypoints(start, end types.Coordinate, features []types.ScenicFeature, maxWaypoints int) []types.ScenicFeature {
	if len(features) == 0 || maxWaypoints < 1 {
		return nil
	}

	directKm := geo.HaversineKm(start.Point(), end.Point())
	mid := geo.Midpoint(start.Point(), end.Point())

	scored := make([]ScoredWaypoint, 0, len(features))
	for _, feature := range features {
		p := feature.Coordinate.Point()
		perpKm := geo.DistanceToSegmentKm(p, start.Point(), end.Point())
		fromStartKm := geo.HaversineKm(start.Point(), p)

		var score float64
		if perpKm >= corridorMinKm && perpKm <= corridorMaxKm {
			score += corridorBonus
		}
		if geo.HaversineKm(p, mid) <= midpointRadiusKm {
			score += midpointBonus
		}
		detourKm := fromStartKm + geo.HaversineKm(p, end.Point())
		if directKm > 0 && detourKm > maxDetourRatio*directKm {
			score += detourPenalty
		}
		switch feature.Type {
		case types.FeatureSkiResort:
			score += skiBonus
		case types.FeatureNationalPark:
			score += nationalParkBonus
		}

		scored = append(scored, ScoredWaypoint{
			Feature:             feature,
			Score:               score,
			DistanceFromRouteKm: perpKm,
			DistanceFromStartKm: fromStartKm,
		})
	}

	// Highest score first; name breaks ties so repeated calls stay stable.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Feature.Name < scored[j].Feature.Name
	})

	selected := []ScoredWaypoint{scored[0]}
	if maxWaypoints > 1 {
		for _, candidate := range scored[1:] {
			if candidate.Score <= secondPickMinScore {
				break
			}
			separationKm := geo.HaversineKm(candidate.Feature.Coordinate.Point(), selected[0].Feature.Coordinate.Point())
			if separationKm > secondPickMinDistKm {
				selected = append(selected, candidate)
				break
			}
		}
	}

	// Final route ordering is by distance from start.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].DistanceFromStartKm < selected[j].DistanceFromStartKm
	})

	result := make([]types.ScenicFeature, 0, len(selected))
	for _, s := range selected {
		result = append(result, s.Feature)
	}
	return result
}

// DensityFinder supplies the scenic features the selector chooses between.
type DensityFinder interface {
	FindFeaturesNear(ctx context.Context, latitude, longitude float64, countryCode string, radiusKm float64) []types.ScenicFeature
}

// CountryResolver validates candidate waypoints against the route's country.
type CountryResolver interface {
	Resolve(ctx context.Context, latitude, longitude float64) string
}

type Selector struct {
	finder    DensityFinder
	countries CountryResolver
	logger    *slog.Logger
}

// NewSelector creates a selector backed by the real POI finder and country
// resolver.
func NewSelector(logger *slog.Logger) *Selector {
	return NewSelectorWithProviders(logger, poi.NewFinder(logger), country.NewResolver(logger))
}

// NewSelectorWithProviders creates a selector with custom providers. This is
// useful for testing with mock providers.
func NewSelectorWithProviders(logger *slog.Logger, finder DensityFinder, countries CountryResolver) *Selector {
	return &Selector{
		finder:    finder,
		countries: countries,
		logger:    logger.With("component", "waypoint-selector"),
	}
}

// FindScenicWaypoints gathers features along the direct corridor and selects
// up to maxWaypoints of them. If start and end resolve to different
// countries, no waypoints are proposed: a scenic variant must never turn a
// domestic route into an international one.
func (s *Selector) FindScenicWaypoints(ctx context.Context, start, end types.Coordinate, maxWaypoints int) []types.ScenicFeature {
	startCode := s.countries.Resolve(ctx, start.Latitude, start.Longitude)
	endCode := s.countries.Resolve(ctx, end.Latitude, end.Longitude)
	if startCode != country.Unknown && endCode != country.Unknown && startCode != endCode {
		s.logger.Debug("cross-border route, skipping scenic waypoints",
			"start_country", startCode,
			"end_country", endCode,
		)
		return nil
	}

	countryCode := startCode
	if countryCode == country.Unknown {
		countryCode = endCode
	}

	// Sample the direct line and gather candidates around each point.
	samples := make([]types.Coordinate, 0, corridorSamples)
	for i := 0; i < corridorSamples; i++ {
		t := float64(i+1) / float64(corridorSamples+1)
		samples = append(samples, types.NewCoordinate(
			start.Latitude+(end.Latitude-start.Latitude)*t,
			start.Longitude+(end.Longitude-start.Longitude)*t,
		))
	}

	results := make([][]types.ScenicFeature, len(samples))
	p := pool.New().WithMaxGoroutines(sampleConcurrency)
	for i, sample := range samples {
		p.Go(func() {
			results[i] = s.finder.FindFeaturesNear(ctx, sample.Latitude, sample.Longitude, countryCode, corridorRadiusKm)
		})
	}
	p.Wait()

	seen := make(map[string]bool)
	var features []types.ScenicFeature
	for _, batch := range results {
		for _, feature := range batch {
			if seen[feature.Name] {
				continue
			}
			seen[feature.Name] = true
			features = append(features, feature)
		}
	}

	return SelectWaypoints(start, end, features, maxWaypoints)
}

// SelectPOIRichWaypoint searches perpendicular to the direct route for the
// single densest POI area to pull a longest-style route through. Six
// candidates are generated (30%, 50% and 70% of the lateral vector, both
// sides), country-validated, capped by maxDetourPercent and evaluated for
// POI density in parallel. Returns false when no candidate exceeds the
// density threshold; the caller then falls back to the direct route rather
// than inventing a synthetic waypoint.
func (s *Selector) SelectPOIRichWaypoint(ctx context.Context, start, end types.Coordinate, countryCode string, maxDetourPercent float64) (types.Coordinate, bool) {
	directKm := geo.HaversineKm(start.Point(), end.Point())
	if directKm == 0 {
		return types.Coordinate{}, false
	}

	fractions := [lateralFractions]float64{0.3, 0.5, 0.7}
	type candidate struct {
		coord   types.Coordinate
		density int
	}
	candidates := make([]*candidate, 0, lateralFractions*2)
	for _, fraction := range fractions {
		for _, side := range []int{1, -1} {
			p := geo.PerpendicularPoint(start.Point(), end.Point(), fraction, side)
			coord := types.CoordinateFromPoint(p)

			detourKm := geo.HaversineKm(start.Point(), p) + geo.HaversineKm(p, end.Point())
			detourPercent := (detourKm - directKm) / directKm * 100
			if maxDetourPercent > 0 && detourPercent > maxDetourPercent {
				continue
			}

			if countryCode != "" && countryCode != country.Unknown {
				resolved := s.countries.Resolve(ctx, coord.Latitude, coord.Longitude)
				if resolved != country.Unknown && resolved != countryCode {
					continue
				}
			}

			candidates = append(candidates, &candidate{coord: coord})
		}
	}

	p := pool.New().WithMaxGoroutines(sampleConcurrency)
	for _, c := range candidates {
		p.Go(func() {
			c.density = len(s.finder.FindFeaturesNear(ctx, c.coord.Latitude, c.coord.Longitude, countryCode, richRadiusKm))
		})
	}
	p.Wait()

	var best *candidate
	for _, c := range candidates {
		if best == nil || c.density > best.density {
			best = c
		}
	}
	if best == nil || best.density <= richMinDensity {
		return types.Coordinate{}, false
	}

	s.logger.Debug("selected POI-rich waypoint",
		"latitude", best.coord.Latitude,
		"longitude", best.coord.Longitude,
		"density", best.density,
	)
	return best.coord, true
}
