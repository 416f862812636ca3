package types

// FeatureType classifies a scenic point of interest.
type FeatureType string

const (
	FeatureCity         FeatureType = "city"
	FeatureTown         FeatureType = "town"
	FeatureViewpoint    FeatureType = "viewpoint"
	FeatureAttraction   FeatureType = "attraction"
	FeatureNationalPark FeatureType = "national_park"
	FeatureSkiResort    FeatureType = "ski_resort"
	FeatureLake         FeatureType = "lake"
	FeatureOther        FeatureType = "other"
)

// ScenicFeature is a classified POI candidate considered during waypoint
// selection. Features are transient; they are never persisted beyond the
// request that discovered them.
type ScenicFeature struct {
	Type       FeatureType `json:"type"`
	Name       string      `json:"name"`
	Coordinate Coordinate  `json:"coordinate"`
	Source     string      `json:"source"`
}
