package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"tripweaver/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type memLayer1 struct {
	data map[string][]byte
	gets int
	sets int
	fail bool
}

func newMemLayer1() *memLayer1 {
	return &memLayer1{data: map[string][]byte{}}
}

func (m *memLayer1) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.gets++
	if m.fail {
		return nil, false, errors.New("connection refused")
	}
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *memLayer1) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.sets++
	if m.fail {
		return errors.New("connection refused")
	}
	m.data[key] = value
	return nil
}

type memLayer2 struct {
	data    map[string]*StoredRoute
	upserts int
	fail    bool
}

func newMemLayer2() *memLayer2 {
	return &memLayer2{data: map[string]*StoredRoute{}}
}

func (m *memLayer2) Get(_ context.Context, key string) (*StoredRoute, error) {
	if m.fail {
		return nil, errors.New("server selection timeout")
	}
	return m.data[key], nil
}

func (m *memLayer2) Upsert(_ context.Context, key string, route *types.RouteResult, createdAt time.Time) error {
	m.upserts++
	if m.fail {
		return errors.New("server selection timeout")
	}
	m.data[key] = storedFromResult(key, route, createdAt)
	return nil
}

func testRoute() *types.RouteResult {
	return &types.RouteResult{
		Geometry:        orb.LineString{{2.3522, 48.8566}, {12.4964, 41.9028}},
		DistanceMeters:  1420000,
		DurationSeconds: 52000,
		Provider:        types.ProviderOSRM,
	}
}

func alwaysCompute(route *types.RouteResult, counter *int) func(context.Context) (*types.RouteResult, error) {
	return func(context.Context) (*types.RouteResult, error) {
		*counter++
		return route, nil
	}
}

func TestKey_Canonical(t *testing.T) {
	coords := []types.Coordinate{
		types.NewCoordinate(48.8566, 2.3522),
		types.NewCoordinate(41.9028, 12.4964),
	}

	key := Key(types.ProfileDriving, types.StyleScenic, coords)
	want := "route:driving:scenic:48.8566,2.3522;41.9028,12.4964"
	if key != want {
		t.Errorf("Key = %q, want %q", key, want)
	}
}

func TestKey_RoundsJitter(t *testing.T) {
	a := []types.Coordinate{types.NewCoordinate(48.85660001, 2.35219999), types.NewCoordinate(41.9028, 12.4964)}
	b := []types.Coordinate{types.NewCoordinate(48.8566, 2.3522), types.NewCoordinate(41.9028, 12.4964)}

	if Key(types.ProfileDriving, types.StyleScenic, a) != Key(types.ProfileDriving, types.StyleScenic, b) {
		t.Error("keys differ for coordinates within rounding tolerance")
	}
}

func TestKey_EmptyPreferenceNormalizesToFastest(t *testing.T) {
	coords := []types.Coordinate{types.NewCoordinate(48.8566, 2.3522), types.NewCoordinate(41.9028, 12.4964)}

	if Key(types.ProfileDriving, "", coords) != Key(types.ProfileDriving, types.StyleFastest, coords) {
		t.Error("empty preference should collide with fastest")
	}
}

func TestGetOrCompute_MissComputesAndWritesThrough(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	c := NewDualLayer(testLogger(), l1, l2)

	computes := 0
	route, cached, err := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if cached {
		t.Error("first call reported a cache hit")
	}
	if computes != 1 {
		t.Errorf("compute called %d times, want 1", computes)
	}
	if route.Provider != types.ProviderOSRM {
		t.Errorf("route provider = %q", route.Provider)
	}
	if len(l1.data) != 1 || len(l2.data) != 1 {
		t.Errorf("write-through incomplete: l1=%d l2=%d entries", len(l1.data), len(l2.data))
	}
}

func TestGetOrCompute_SecondCallHitsLayer1(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	c := NewDualLayer(testLogger(), l1, l2)

	computes := 0
	first, _, _ := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	second, cached, err := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if !cached {
		t.Error("second call missed the cache")
	}
	if computes != 1 {
		t.Errorf("compute called %d times, want 1", computes)
	}

	// Bit-identical result.
	if second.DistanceMeters != first.DistanceMeters ||
		second.DurationSeconds != first.DurationSeconds ||
		second.Provider != first.Provider ||
		len(second.Geometry) != len(first.Geometry) {
		t.Errorf("cached route differs from computed route")
	}
}

func TestGetOrCompute_Layer2HitBackfillsLayer1(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	c := NewDualLayer(testLogger(), l1, l2)

	// Seed only the persistent layer, as if the fast layer expired.
	l2.data["k"] = storedFromResult("k", testRoute(), time.Now().Add(-time.Hour))

	computes := 0
	_, cached, err := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if !cached || computes != 0 {
		t.Errorf("expected a layer 2 hit without compute, cached=%v computes=%d", cached, computes)
	}
	if _, ok := l1.data["k"]; !ok {
		t.Error("layer 1 was not backfilled from layer 2")
	}
}

func TestGetOrCompute_StaleLayer2Recomputes(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	c := NewDualLayer(testLogger(), l1, l2)

	l2.data["k"] = storedFromResult("k", testRoute(), time.Now().Add(-31*24*time.Hour))

	computes := 0
	_, cached, err := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if cached || computes != 1 {
		t.Errorf("stale entry must be treated as absent, cached=%v computes=%d", cached, computes)
	}
}

func TestGetOrCompute_BustBypassesReadsButWrites(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	c := NewDualLayer(testLogger(), l1, l2)

	computes := 0
	c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	c.GetOrCompute(context.Background(), "k", true, alwaysCompute(testRoute(), &computes))

	if computes != 2 {
		t.Errorf("compute called %d times, want 2 (bust bypasses reads)", computes)
	}
	if l2.upserts != 2 {
		t.Errorf("layer 2 upserts = %d, want 2 (bust still writes through)", l2.upserts)
	}
}

func TestGetOrCompute_CacheFailureNeverFailsRequest(t *testing.T) {
	l1, l2 := newMemLayer1(), newMemLayer2()
	l1.fail = true
	l2.fail = true
	c := NewDualLayer(testLogger(), l1, l2)

	computes := 0
	route, _, err := c.GetOrCompute(context.Background(), "k", false, alwaysCompute(testRoute(), &computes))
	if err != nil {
		t.Fatalf("cache failures must not fail the request: %v", err)
	}
	if route == nil || computes != 1 {
		t.Errorf("expected computed route despite cache outage")
	}
}

func TestGetOrCompute_ComputeErrorPropagates(t *testing.T) {
	c := NewDualLayer(testLogger(), newMemLayer1(), newMemLayer2())

	wantErr := errors.New("all providers exhausted")
	_, _, err := c.GetOrCompute(context.Background(), "k", false, func(context.Context) (*types.RouteResult, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestStoredRouteRoundTrip(t *testing.T) {
	route := testRoute()
	row := storedFromResult("k", route, time.Now())
	back := resultFromStored(row)

	if len(back.Geometry) != len(route.Geometry) {
		t.Fatalf("geometry length %d, want %d", len(back.Geometry), len(route.Geometry))
	}
	for i := range route.Geometry {
		if back.Geometry[i] != route.Geometry[i] {
			t.Errorf("geometry[%d] = %v, want %v", i, back.Geometry[i], route.Geometry[i])
		}
	}
	if back.Provider != route.Provider {
		t.Errorf("provider = %q, want %q", back.Provider, route.Provider)
	}
}
