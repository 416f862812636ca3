package cache

import (
	"fmt"
	"strings"

	"tripweaver/internal/types"
)

// Key builds the canonical cache key for a route request. It is a pure
// function of (profile, preference, rounded coordinate sequence): coordinates
// are rounded to 4 decimal places (~11m) so floating-point jitter between
// semantically identical requests still collides, and an absent preference
// normalizes to fastest.
func Key(profile types.TransportProfile, preference types.StylePreference, coordinates []types.Coordinate) string {
	if preference == "" {
		preference = types.StyleFastest
	}

	points := make([]string, 0, len(coordinates))
	for _, c := range coordinates {
		points = append(points, fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude))
	}

	return fmt.Sprintf("route:%s:%s:%s", profile, preference, strings.Join(points, ";"))
}
