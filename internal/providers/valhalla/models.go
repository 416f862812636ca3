package valhalla

import "errors"

type RouteRequest struct {
	Locations      []Location                 `json:"locations"`
	Costing        Costing                    `json:"costing"`
	CostingOptions map[Costing]CostingOptions `json:"costing_options,omitempty"`
	Alternates     *int                       `json:"alternates,omitempty"`
	Units          string                     `json:"units,omitempty"`
}

func (r RouteRequest) Validate() error {
	if len(r.Locations) < 2 {
		return errors.New("at least 2 locations must be provided")
	}
	if !r.Costing.IsValid() {
		return errors.New("invalid costing model")
	}
	return nil
}

type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type,omitempty"` // break, through, via, break_through
}

type Costing string

const (
	CostingAuto       Costing = "auto"
	CostingBicycle    Costing = "bicycle"
	CostingPedestrian Costing = "pedestrian"
)

func (c Costing) IsValid() bool {
	switch c {
	case CostingAuto, CostingBicycle, CostingPedestrian:
		return true
	default:
		return false
	}
}

// PedestrianTypeWheelchair selects the wheelchair sub-mode of the pedestrian
// costing model; wheelchair is not a top-level costing.
const PedestrianTypeWheelchair = "wheelchair"

// CostingOptions are the per-costing weighting knobs. Use* values are ratios
// in [0, 1]; ManeuverPenalty is in seconds. Type selects a sub-mode of the
// costing model (pedestrian only).
type CostingOptions struct {
	Type             string   `json:"type,omitempty"`
	UseHighways      *float64 `json:"use_highways,omitempty"`
	UseTolls         *float64 `json:"use_tolls,omitempty"`
	UseLivingStreets *float64 `json:"use_living_streets,omitempty"`
	ManeuverPenalty  *float64 `json:"maneuver_penalty,omitempty"`
}

type RouteAPIResponse struct {
	Trip       Trip        `json:"trip"`
	Alternates []Alternate `json:"alternates,omitempty"`
}

type Alternate struct {
	Trip Trip `json:"trip"`
}

type Trip struct {
	Status        int     `json:"status"`
	StatusMessage string  `json:"status_message"`
	Legs          []Leg   `json:"legs"`
	Summary       Summary `json:"summary"`
	Units         string  `json:"units"`
}

type Leg struct {
	// Shape is a polyline encoded at precision 1e6, not the usual 1e5.
	Shape   string  `json:"shape"`
	Summary Summary `json:"summary"`
}

// Summary carries time in seconds and length in the requested units
// (kilometers for every request this module issues).
type Summary struct {
	Time   float64 `json:"time"`
	Length float64 `json:"length"`
}
