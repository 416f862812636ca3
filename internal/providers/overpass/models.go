package overpass

type SearchAPIResponse struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Elements  []Element `json:"elements"`
}

// Element is a single OSM node, way or relation. Ways and relations queried
// with "out center" carry their coordinate in Center instead of Lat/Lon.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns the element's representative coordinate regardless of
// element type.
func (e Element) Position() (lat, lon float64, ok bool) {
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	if e.Lat != 0 || e.Lon != 0 {
		return e.Lat, e.Lon, true
	}
	return 0, 0, false
}

// Name returns the element's name tag, if any.
func (e Element) Name() string {
	return e.Tags["name"]
}
