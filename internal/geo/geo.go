// Package geo provides the great-circle and planar-projection math shared by
// the routing engine: distances, cumulative distance tables, route sampling
// and perpendicular offsets for waypoint candidate generation.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180

// HaversineKm returns the great-circle distance between two points in
// kilometers. Symmetric; HaversineKm(p, p) == 0.
func HaversineKm(a, b orb.Point) float64 {
	dLat := (b.Lat() - a.Lat()) * degToRad
	dLon := (b.Lon() - a.Lon()) * degToRad

	lat1 := a.Lat() * degToRad
	lat2 := b.Lat() * degToRad

	sinDlat := math.Sin(dLat / 2)
	sinDlon := math.Sin(dLon / 2)

	h := sinDlat*sinDlat + sinDlon*sinDlon*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// CumulativeDistancesKm returns the running distance along the line at each
// vertex. The first entry is always 0. O(n).
func CumulativeDistancesKm(line orb.LineString) []float64 {
	if len(line) == 0 {
		return nil
	}
	cumulative := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cumulative[i] = cumulative[i-1] + HaversineKm(line[i-1], line[i])
	}
	return cumulative
}

// LengthKm returns the total length of the line.
func LengthKm(line orb.LineString) float64 {
	cumulative := CumulativeDistancesKm(line)
	if len(cumulative) == 0 {
		return 0
	}
	return cumulative[len(cumulative)-1]
}

// SamplePoints returns count points spaced evenly by distance along the
// line, always including both endpoints. A line shorter than two vertices
// is returned as-is.
func SamplePoints(line orb.LineString, count int) []orb.Point {
	if len(line) < 2 || count < 2 {
		return append([]orb.Point(nil), line...)
	}

	cumulative := CumulativeDistancesKm(line)
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		return []orb.Point{line[0], line[len(line)-1]}
	}

	samples := make([]orb.Point, 0, count)
	for i := 0; i < count; i++ {
		target := total * float64(i) / float64(count-1)
		samples = append(samples, line[ClosestIndex(cumulative, target)])
	}
	return samples
}

// ClosestIndex returns the index whose cumulative distance is nearest to the
// target distance. The cumulative slice must be sorted ascending, as produced
// by CumulativeDistancesKm.
func ClosestIndex(cumulative []float64, targetKm float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, d := range cumulative {
		diff := math.Abs(d - targetKm)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// Midpoint returns the point halfway between a and b in degree space.
func Midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// DistanceToSegmentKm returns the minimum distance in kilometers from point
// p to the segment [a, b]. Uses a local equirectangular projection around the
// segment's reference latitude, which is accurate enough at waypoint-scoring
// scales.
func DistanceToSegmentKm(p, a, b orb.Point) float64 {
	latRef := (a.Lat() + b.Lat()) / 2 * degToRad
	cosLatRef := math.Cos(latRef)

	// Project into local Cartesian kilometers (x east-west, y north-south).
	xA, yA := a.Lon()*degToRad*EarthRadiusKm*cosLatRef, a.Lat()*degToRad*EarthRadiusKm
	xB, yB := b.Lon()*degToRad*EarthRadiusKm*cosLatRef, b.Lat()*degToRad*EarthRadiusKm
	xP, yP := p.Lon()*degToRad*EarthRadiusKm*cosLatRef, p.Lat()*degToRad*EarthRadiusKm

	dx, dy := xB-xA, yB-yA

	// Degenerate segment (a == b).
	if dx == 0 && dy == 0 {
		return math.Hypot(xP-xA, yP-yA)
	}

	t := ((xP-xA)*dx + (yP-yA)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	xProj := xA + t*dx
	yProj := yA + t*dy

	return math.Hypot(xP-xProj, yP-yProj)
}

// PerpendicularPoint returns a candidate point offset laterally from the
// midpoint of start→end. The offset vector is the direct vector rotated 90°
// in degree space and scaled by fraction; side selects which side of the
// route (+1 or -1). Candidates generated this way are always re-validated
// against real boundary and POI data before use.
func PerpendicularPoint(start, end orb.Point, fraction float64, side int) orb.Point {
	mid := Midpoint(start, end)
	dx := end[0] - start[0]
	dy := end[1] - start[1]
	return orb.Point{
		mid[0] - dy*fraction*float64(side),
		mid[1] + dx*fraction*float64(side),
	}
}

// BoundingBox returns the bounding box of the line.
func BoundingBox(line orb.LineString) orb.Bound {
	return line.Bound()
}
