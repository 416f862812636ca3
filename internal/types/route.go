package types

import (
	"errors"

	"github.com/paulmach/orb"
)

// TransportProfile selects the travel mode a route is computed for.
type TransportProfile string

const (
	ProfileDriving    TransportProfile = "driving"
	ProfileCycling    TransportProfile = "cycling"
	ProfileWalking    TransportProfile = "walking"
	ProfileWheelchair TransportProfile = "wheelchair"
)

func (p TransportProfile) IsValid() bool {
	switch p {
	case ProfileDriving, ProfileCycling, ProfileWalking, ProfileWheelchair:
		return true
	default:
		return false
	}
}

// StylePreference selects the desired character of a route. The zero value
// means "no preference" and is treated as fastest.
type StylePreference string

const (
	StyleFastest  StylePreference = "fastest"
	StyleShortest StylePreference = "shortest"
	StyleScenic   StylePreference = "scenic"
	StyleLongest  StylePreference = "longest"
)

func (s StylePreference) IsValid() bool {
	switch s {
	case "", StyleFastest, StyleShortest, StyleScenic, StyleLongest:
		return true
	default:
		return false
	}
}

// Provider identifies which routing backend produced a result.
type Provider string

const (
	ProviderValhallaHosted     Provider = "valhalla-hosted"
	ProviderValhallaSelfHosted Provider = "valhalla-selfhosted"
	ProviderOSRM               Provider = "osrm"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderValhallaHosted, ProviderValhallaSelfHosted, ProviderOSRM:
		return true
	default:
		return false
	}
}

// RouteRequest describes a single route computation.
type RouteRequest struct {
	Coordinates []Coordinate
	Profile     TransportProfile
	Preference  StylePreference
	BustCache   bool
}

var ErrTooFewCoordinates = errors.New("route request requires at least two coordinates")

func (r RouteRequest) Validate() error {
	if len(r.Coordinates) < 2 {
		return ErrTooFewCoordinates
	}
	if !r.Profile.IsValid() {
		return errors.New("invalid transport profile")
	}
	if !r.Preference.IsValid() {
		return errors.New("invalid style preference")
	}
	return nil
}

// RouteResult is the common result shape every routing backend is parsed
// into. Geometry is a GeoJSON-ordered line string ([lng, lat] pairs). A
// result always carries a geometry of at least two points; distance and
// duration are never fabricated without one.
type RouteResult struct {
	Geometry        orb.LineString `json:"geometry"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Provider        Provider       `json:"provider"`
}

func (r *RouteResult) Validate() error {
	if len(r.Geometry) < 2 {
		return errors.New("route geometry must contain at least two points")
	}
	if r.DistanceMeters < 0 || r.DurationSeconds < 0 {
		return errors.New("route distance and duration must be non-negative")
	}
	return nil
}
