package waypoint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"tripweaver/internal/geo"
	"tripweaver/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func feature(name string, featureType types.FeatureType, lat, lon float64) types.ScenicFeature {
	return types.ScenicFeature{
		Type:       featureType,
		Name:       name,
		Coordinate: types.NewCoordinate(lat, lon),
		Source:     "test",
	}
}

var (
	selStart = types.NewCoordinate(45.0, 2.0)
	selEnd   = types.NewCoordinate(45.0, 6.0) // ~315 km east of start
)

func TestSelectWaypoints_Deterministic(t *testing.T) {
	features := []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
		feature("La Grave", types.FeatureSkiResort, 45.6, 4.1),
		feature("Aubenas", types.FeatureTown, 44.4, 4.0),
		feature("Roadside Lake", types.FeatureLake, 45.0, 4.5),
	}

	first := SelectWaypoints(selStart, selEnd, features, 2)
	for i := 0; i < 10; i++ {
		again := SelectWaypoints(selStart, selEnd, features, 2)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, again, first)
		}
	}
}

func TestSelectWaypoints_PrefersCorridorDetour(t *testing.T) {
	features := []types.ScenicFeature{
		// On the direct path: no corridor bonus, midpoint bonus only.
		feature("On Path", types.FeatureTown, 45.0, 4.0),
		// ~67 km off-path: corridor bonus + midpoint bonus + park bonus.
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
	}

	selected := SelectWaypoints(selStart, selEnd, features, 2)
	if len(selected) == 0 || selected[0].Name != "Vanoise" {
		t.Errorf("selected = %v, want Vanoise first", selected)
	}
}

func TestSelectWaypoints_NearDuplicateSecondRejected(t *testing.T) {
	features := []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
		// ~8 km from Vanoise; scores high but is too close to keep.
		feature("La Grave", types.FeatureSkiResort, 45.6, 4.1),
	}

	selected := SelectWaypoints(selStart, selEnd, features, 2)
	if len(selected) != 1 {
		t.Errorf("selected %d waypoints, want 1 (near-duplicates collapse)", len(selected))
	}
}

func TestSelectWaypoints_WellSeparatedSecondKept(t *testing.T) {
	features := []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
		feature("La Grave", types.FeatureSkiResort, 45.6, 4.1),
		// ~130 km south of the first pick and still scoring > 50.
		feature("Aubenas", types.FeatureTown, 44.4, 4.0),
	}

	selected := SelectWaypoints(selStart, selEnd, features, 2)
	if len(selected) != 2 {
		t.Fatalf("selected %d waypoints, want 2", len(selected))
	}

	// Output must be ordered by distance from start.
	d0 := geo.HaversineKm(selStart.Point(), selected[0].Coordinate.Point())
	d1 := geo.HaversineKm(selStart.Point(), selected[1].Coordinate.Point())
	if d0 > d1 {
		t.Errorf("waypoints not ordered by distance from start: %v then %v", d0, d1)
	}
}

func TestSelectWaypoints_LowScoringSecondDropped(t *testing.T) {
	features := []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
		// Far from the corridor and the midpoint: scores 0.
		feature("Distant Lake", types.FeatureLake, 48.5, 2.0),
	}

	selected := SelectWaypoints(selStart, selEnd, features, 2)
	if len(selected) != 1 {
		t.Errorf("selected %d waypoints, want 1 (second must score > 50)", len(selected))
	}
}

func TestSelectWaypoints_Empty(t *testing.T) {
	if selected := SelectWaypoints(selStart, selEnd, nil, 2); selected != nil {
		t.Errorf("selected = %v, want nil for empty candidate set", selected)
	}
}

// stubFinder returns a fixed feature set for every query.
type stubFinder struct {
	features []types.ScenicFeature
}

func (s *stubFinder) FindFeaturesNear(_ context.Context, _, _ float64, _ string, _ float64) []types.ScenicFeature {
	return s.features
}

// stubResolver returns a fixed country code per rounded coordinate, with a
// default for everything else.
type stubResolver struct {
	byCoord     map[string]string
	defaultCode string
}

func (s *stubResolver) Resolve(_ context.Context, lat, lon float64) string {
	if code, ok := s.byCoord[fmt.Sprintf("%.1f,%.1f", lat, lon)]; ok {
		return code
	}
	if s.defaultCode != "" {
		return s.defaultCode
	}
	return "unknown"
}

func TestFindScenicWaypoints_CrossBorderReturnsEmpty(t *testing.T) {
	finder := &stubFinder{features: []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
	}}
	resolver := &stubResolver{byCoord: map[string]string{
		"45.0,2.0": "fr",
		"45.0,6.0": "it",
	}}
	selector := NewSelectorWithProviders(testLogger(), finder, resolver)

	selected := selector.FindScenicWaypoints(context.Background(), selStart, selEnd, 2)
	if len(selected) != 0 {
		t.Errorf("cross-border scenic waypoints = %v, want none", selected)
	}
}

func TestFindScenicWaypoints_SameCountry(t *testing.T) {
	finder := &stubFinder{features: []types.ScenicFeature{
		feature("Vanoise", types.FeatureNationalPark, 45.6, 4.0),
	}}
	resolver := &stubResolver{defaultCode: "fr"}
	selector := NewSelectorWithProviders(testLogger(), finder, resolver)

	selected := selector.FindScenicWaypoints(context.Background(), selStart, selEnd, 2)
	if len(selected) != 1 || selected[0].Name != "Vanoise" {
		t.Errorf("selected = %v, want Vanoise", selected)
	}
}

func denseFeatures(n int) []types.ScenicFeature {
	features := make([]types.ScenicFeature, 0, n)
	for i := 0; i < n; i++ {
		features = append(features, feature(fmt.Sprintf("Spot %d", i), types.FeatureAttraction, 45.2, 4.0))
	}
	return features
}

func TestSelectPOIRichWaypoint_FoundAboveThreshold(t *testing.T) {
	selector := NewSelectorWithProviders(testLogger(), &stubFinder{features: denseFeatures(8)}, &stubResolver{defaultCode: "fr"})

	coord, ok := selector.SelectPOIRichWaypoint(context.Background(), selStart, selEnd, "fr", 70)
	if !ok {
		t.Fatal("expected a POI-rich waypoint, got none")
	}
	if coord == (types.Coordinate{}) {
		t.Error("returned zero coordinate")
	}
}

func TestSelectPOIRichWaypoint_BelowThreshold(t *testing.T) {
	selector := NewSelectorWithProviders(testLogger(), &stubFinder{features: denseFeatures(5)}, &stubResolver{defaultCode: "fr"})

	if _, ok := selector.SelectPOIRichWaypoint(context.Background(), selStart, selEnd, "fr", 70); ok {
		t.Error("density of 5 must not produce a waypoint (threshold is > 5)")
	}
}

func TestSelectPOIRichWaypoint_WrongCountryCandidatesFiltered(t *testing.T) {
	// All perpendicular candidates resolve to a different country.
	selector := NewSelectorWithProviders(testLogger(), &stubFinder{features: denseFeatures(8)}, &stubResolver{defaultCode: "it"})

	if _, ok := selector.SelectPOIRichWaypoint(context.Background(), selStart, selEnd, "fr", 70); ok {
		t.Error("candidates in a different country must be filtered out")
	}
}

func TestSelectPOIRichWaypoint_SamePointRoute(t *testing.T) {
	selector := NewSelectorWithProviders(testLogger(), &stubFinder{}, &stubResolver{defaultCode: "fr"})

	if _, ok := selector.SelectPOIRichWaypoint(context.Background(), selStart, selStart, "fr", 70); ok {
		t.Error("zero-length route must not produce a waypoint")
	}
}
