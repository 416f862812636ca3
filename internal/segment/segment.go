// Package segment splits a computed route into daily driving legs bounded by
// a maximum hours-per-day limit, with local-time departures and overnight
// stops between legs.
package segment

import (
	"log/slog"
	"math"
	"time"

	"github.com/paulmach/orb"

	"tripweaver/internal/geo"
	"tripweaver/internal/timezone"
	"tripweaver/internal/types"
)

// nextDayDepartureHour is the local hour every day after the first starts at.
const nextDayDepartureHour = 9

// RouteSegment is one day of driving.
type RouteSegment struct {
	Day              int              `json:"day"`
	Geometry         orb.LineString   `json:"geometry"`
	StartLocation    types.Coordinate `json:"start_location"`
	EndLocation      types.Coordinate `json:"end_location"`
	DistanceKm       float64          `json:"distance_km"`
	DrivingTimeHours float64          `json:"driving_time_hours"`
	Departure        time.Time        `json:"departure"`
	Arrival          time.Time        `json:"arrival"`
}

// OvernightStop is where the traveller sleeps between two segments.
type OvernightStop struct {
	Location  types.Coordinate `json:"location"`
	Arrival   time.Time        `json:"arrival"`
	Departure time.Time        `json:"departure"`
}

// Plan is the full segmentation of a route.
type Plan struct {
	Segments       []RouteSegment  `json:"segments"`
	OvernightStops []OvernightStop `json:"overnight_stops"`
}

// TimezoneLookup resolves a coordinate to an IANA timezone name.
type TimezoneLookup interface {
	Lookup(latitude, longitude float64) (string, error)
}

// Planner segments route geometries into daily legs.
type Planner struct {
	timezones TimezoneLookup
	logger    *slog.Logger
}

func NewPlanner(logger *slog.Logger) (*Planner, error) {
	tz, err := timezone.NewService()
	if err != nil {
		return nil, err
	}
	return NewPlannerWithTimezones(logger, tz), nil
}

// NewPlannerWithTimezones creates a planner with an injected timezone lookup
// for testing.
func NewPlannerWithTimezones(logger *slog.Logger, timezones TimezoneLookup) *Planner {
	return &Planner{
		timezones: timezones,
		logger:    logger.With("component", "segment-planner"),
	}
}

// SegmentByDrivingTime splits geometry into daily segments of at most
// maxHoursPerDay driving each. A route within the daily cap yields a single
// segment. Longer routes are divided into ceil(totalHours/maxHoursPerDay)
// equal-time targets, each mapped to the geometry vertex with the closest
// cumulative distance; adjacent segments share their boundary vertex. The
// first day departs at the given start time; every later day departs at
// 09:00 local time at that day's start location.
func (p *Planner) SegmentByDrivingTime(geometry orb.LineString, totalKm, totalHours, maxHoursPerDay float64, start time.Time) Plan {
	if len(geometry) < 2 || totalHours <= 0 || maxHoursPerDay <= 0 {
		return Plan{}
	}

	if totalHours <= maxHoursPerDay {
		single := p.buildSegment(1, geometry, totalKm, totalHours, start)
		return Plan{Segments: []RouteSegment{single}}
	}

	numSegments := int(math.Ceil(totalHours / maxHoursPerDay))
	segmentHours := totalHours / float64(numSegments)
	cumulative := geo.CumulativeDistancesKm(geometry)
	lineKm := cumulative[len(cumulative)-1]
	if lineKm <= 0 {
		single := p.buildSegment(1, geometry, totalKm, totalHours, start)
		return Plan{Segments: []RouteSegment{single}}
	}

	// Cut indices in vertex space, one per equal-time target. Time fractions
	// map to distance fractions under the constant-speed assumption. Clamping
	// keeps cuts strictly increasing even on sparse geometries.
	cuts := make([]int, numSegments+1)
	cuts[numSegments] = len(geometry) - 1
	for i := 1; i < numSegments; i++ {
		targetKm := lineKm * float64(i) / float64(numSegments)
		idx := geo.ClosestIndex(cumulative, targetKm)
		if idx <= cuts[i-1] {
			idx = cuts[i-1] + 1
		}
		if upper := len(geometry) - 1 - (numSegments - i); idx > upper {
			idx = upper
		}
		cuts[i] = idx
	}

	plan := Plan{Segments: make([]RouteSegment, 0, numSegments)}
	departure := start
	for day := 1; day <= numSegments; day++ {
		from, to := cuts[day-1], cuts[day]
		slice := geometry[from : to+1]
		// Reported distance is the slice's share of the caller's total, so
		// segment distances sum to totalKm even when the geometry's own
		// vertex-to-vertex length differs slightly from the engine's figure.
		distanceKm := totalKm * (cumulative[to] - cumulative[from]) / lineKm

		if day > 1 {
			departure = p.localMorning(start, day, slice[0])
		}
		seg := p.buildSegment(day, slice, distanceKm, segmentHours, departure)
		plan.Segments = append(plan.Segments, seg)
	}

	for i := 0; i < len(plan.Segments)-1; i++ {
		plan.OvernightStops = append(plan.OvernightStops, OvernightStop{
			Location:  plan.Segments[i].EndLocation,
			Arrival:   plan.Segments[i].Arrival,
			Departure: plan.Segments[i+1].Departure,
		})
	}
	return plan
}

func (p *Planner) buildSegment(day int, slice orb.LineString, distanceKm, hours float64, departure time.Time) RouteSegment {
	geometry := append(orb.LineString(nil), slice...)
	return RouteSegment{
		Day:              day,
		Geometry:         geometry,
		StartLocation:    types.CoordinateFromPoint(geometry[0]),
		EndLocation:      types.CoordinateFromPoint(geometry[len(geometry)-1]),
		DistanceKm:       distanceKm,
		DrivingTimeHours: hours,
		Departure:        departure,
		Arrival:          departure.Add(time.Duration(hours * float64(time.Hour))),
	}
}

// localMorning returns 09:00 local time on start's date plus (day-1) days, in
// the timezone of the segment's first vertex. An unresolvable timezone falls
// back to the start time's own location.
func (p *Planner) localMorning(start time.Time, day int, at orb.Point) time.Time {
	loc := start.Location()
	name, err := p.timezones.Lookup(at.Lat(), at.Lon())
	if err == nil {
		if resolved, loadErr := time.LoadLocation(name); loadErr == nil {
			loc = resolved
		} else {
			p.logger.Warn("unknown timezone name, using start timezone", "timezone", name, "error", loadErr)
		}
	} else {
		p.logger.Warn("timezone lookup failed, using start timezone", "error", err)
	}

	date := start.In(loc).AddDate(0, 0, day-1)
	return time.Date(date.Year(), date.Month(), date.Day(), nextDayDepartureHour, 0, 0, 0, loc)
}
