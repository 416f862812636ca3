package osrm

import "github.com/paulmach/orb/geojson"

type RouteAPIResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []Route `json:"routes"`
}

// Route carries distance in meters, duration in seconds and a GeoJSON
// LineString geometry (requested with geometries=geojson).
type Route struct {
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
	Geometry *geojson.Geometry `json:"geometry"`
}
