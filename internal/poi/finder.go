// Package poi discovers and scores scenic features near a route. All lookups
// are enrichment: network or parse failures degrade to empty results so a
// missing scenic waypoint never fails the route request itself.
package poi

import (
	"context"
	"log/slog"
	"sort"

	"github.com/paulmach/orb"
	"github.com/sourcegraph/conc/pool"

	"tripweaver/internal/country"
	"tripweaver/internal/geo"
	"tripweaver/internal/providers/overpass"
	"tripweaver/internal/types"
)

const (
	// densitySamples is the number of evenly spaced points scored along a
	// route; each one issues an external feature query, so this is also the
	// call budget of ScoreRouteByFeatureDensity.
	densitySamples = 10

	// sampleRadiusKm is the search radius around each sample point.
	sampleRadiusKm = 10

	// searchConcurrency bounds parallel feature queries to respect
	// third-party rate limits.
	searchConcurrency = 5

	// diversityThreshold is the number of distinct feature types that earns
	// the diversity bonus.
	diversityThreshold = 5
	diversityBonus     = 1.2

	topFeatureLimit = 5
)

// featureWeights are hand-tuned scoring constants; the relative ordering is a
// visible product property and must not be re-derived.
var featureWeights = map[types.FeatureType]float64{
	types.FeatureNationalPark: 10,
	types.FeatureAttraction:   9,
	types.FeatureTown:         8,
	types.FeatureCity:         8,
	types.FeatureViewpoint:    7,
	types.FeatureSkiResort:    6,
	types.FeatureLake:         5,
}

// FeatureProvider is the external spatial-tag index queried for candidates.
type FeatureProvider interface {
	SearchScenic(ctx context.Context, latitude, longitude, radiusKm float64) (*overpass.SearchAPIResponse, error)
}

// CountryResolver re-validates candidate coordinates against the requested
// country.
type CountryResolver interface {
	Resolve(ctx context.Context, latitude, longitude float64) string
}

type Finder struct {
	provider  FeatureProvider
	countries CountryResolver
	logger    *slog.Logger
}

// NewFinder creates a finder backed by the public Overpass and Nominatim
// services.
func NewFinder(logger *slog.Logger) *Finder {
	return NewFinderWithProviders(logger, overpass.NewClient(logger), country.NewResolver(logger))
}

// NewFinderWithProviders creates a finder with custom providers. This is
// useful for testing with mock providers.
func NewFinderWithProviders(logger *slog.Logger, provider FeatureProvider, countries CountryResolver) *Finder {
	return &Finder{
		provider:  provider,
		countries: countries,
		logger:    logger.With("component", "poi-finder"),
	}
}

// FindFeaturesNear returns classified, deduplicated scenic features within
// radiusKm of the point. Candidates that definitively resolve to a different
// country than countryCode are discarded; this is what keeps scenic detours
// from crossing a border the caller did not ask for. Failures return an
// empty list.
func (f *Finder) FindFeaturesNear(ctx context.Context, latitude, longitude float64, countryCode string, radiusKm float64) []types.ScenicFeature {
	resp, err := f.provider.SearchScenic(ctx, latitude, longitude, radiusKm)
	if err != nil {
		f.logger.Debug("feature search failed",
			"latitude", latitude,
			"longitude", longitude,
			"error", err,
		)
		return nil
	}

	seen := make(map[string]bool)
	var features []types.ScenicFeature
	for _, element := range resp.Elements {
		name := element.Name()
		if name == "" || seen[name] {
			continue
		}

		lat, lon, ok := element.Position()
		if !ok {
			continue
		}

		featureType := classify(element.Tags)
		if featureType == types.FeatureOther {
			continue
		}

		if countryCode != "" && countryCode != country.Unknown {
			resolved := f.countries.Resolve(ctx, lat, lon)
			if resolved != country.Unknown && resolved != countryCode {
				continue
			}
		}

		seen[name] = true
		features = append(features, types.ScenicFeature{
			Type:       featureType,
			Name:       name,
			Coordinate: types.NewCoordinate(lat, lon),
			Source:     "overpass",
		})
	}

	return features
}

// DensityScore summarizes the scenic feature density along a route. It is
// advisory: callers use it for ranking and logging, never as a precondition
// for returning a route.
type DensityScore struct {
	Score        float64                   `json:"score"`
	FeatureCount int                       `json:"feature_count"`
	TypeCounts   map[types.FeatureType]int `json:"feature_type_counts"`
	TopFeatures  []types.ScenicFeature     `json:"top_features"`
}

// ScoreRouteByFeatureDensity samples evenly spaced points along the geometry,
// queries each for nearby features in bounded parallel batches, deduplicates
// by name and computes the weighted density score.
func (f *Finder) ScoreRouteByFeatureDensity(ctx context.Context, geometry orb.LineString, countryCode string) DensityScore {
	samples := geo.SamplePoints(geometry, densitySamples)

	results := make([][]types.ScenicFeature, len(samples))
	p := pool.New().WithMaxGoroutines(searchConcurrency)
	for i, sample := range samples {
		p.Go(func() {
			results[i] = f.FindFeaturesNear(ctx, sample.Lat(), sample.Lon(), countryCode, sampleRadiusKm)
		})
	}
	p.Wait()

	seen := make(map[string]bool)
	score := DensityScore{TypeCounts: make(map[types.FeatureType]int)}
	var distinct []types.ScenicFeature
	for _, batch := range results {
		for _, feature := range batch {
			if seen[feature.Name] {
				continue
			}
			seen[feature.Name] = true
			distinct = append(distinct, feature)
			score.TypeCounts[feature.Type]++
			score.Score += featureWeights[feature.Type]
		}
	}
	score.FeatureCount = len(distinct)

	if len(score.TypeCounts) >= diversityThreshold {
		score.Score *= diversityBonus
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		return featureWeights[distinct[i].Type] > featureWeights[distinct[j].Type]
	})
	if len(distinct) > topFeatureLimit {
		distinct = distinct[:topFeatureLimit]
	}
	score.TopFeatures = distinct

	return score
}

// classify maps OSM tags to a feature type.
func classify(tags map[string]string) types.FeatureType {
	switch {
	case tags["place"] == "city":
		return types.FeatureCity
	case tags["place"] == "town":
		return types.FeatureTown
	case tags["tourism"] == "viewpoint":
		return types.FeatureViewpoint
	case tags["tourism"] == "attraction":
		return types.FeatureAttraction
	case tags["boundary"] == "national_park":
		return types.FeatureNationalPark
	case tags["landuse"] == "winter_sports":
		return types.FeatureSkiResort
	case tags["natural"] == "water" && tags["water"] == "lake":
		return types.FeatureLake
	default:
		return types.FeatureOther
	}
}
