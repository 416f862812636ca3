package types

import "github.com/paulmach/orb"

// Coordinate is an immutable geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewCoordinate(latitude, longitude float64) Coordinate {
	return Coordinate{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Point returns the orb representation of the coordinate.
// orb points are [longitude, latitude] ordered, matching GeoJSON.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// CoordinateFromPoint converts an orb point back to a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{
		Latitude:  p.Lat(),
		Longitude: p.Lon(),
	}
}
