package routing

import (
	"math"

	"tripweaver/internal/providers/valhalla"
	"tripweaver/internal/types"
)

// costingTier holds the Valhalla weighting knobs for one direct-line distance
// band. Short routes bias hard against highways; long-haul routes
// progressively relax that bias, because a fixed "no highways ever" rule
// produces absurd detours past ~200km.
type costingTier struct {
	maxDirectKm      float64
	useHighways      float64
	useTolls         float64
	useLivingStreets float64
	maneuverPenalty  float64
}

// scenicTiers are hand-tuned; preserve the relative values.
var scenicTiers = []costingTier{
	{maxDirectKm: 50, useHighways: 0.1, useTolls: 0.1, useLivingStreets: 0.5, maneuverPenalty: 5},
	{maxDirectKm: 200, useHighways: 0.3, useTolls: 0.3, useLivingStreets: 0.4, maneuverPenalty: 10},
	{maxDirectKm: math.Inf(1), useHighways: 0.6, useTolls: 0.5, useLivingStreets: 0.2, maneuverPenalty: 20},
}

// scenicCostingOptions returns the tiered weighting for a scenic or longest
// route with the given direct-line distance.
func scenicCostingOptions(directKm float64) valhalla.CostingOptions {
	tier := scenicTiers[len(scenicTiers)-1]
	for _, t := range scenicTiers {
		if directKm < t.maxDirectKm {
			tier = t
			break
		}
	}
	return valhalla.CostingOptions{
		UseHighways:      ptr(tier.useHighways),
		UseTolls:         ptr(tier.useTolls),
		UseLivingStreets: ptr(tier.useLivingStreets),
		ManeuverPenalty:  ptr(tier.maneuverPenalty),
	}
}

// valhallaCosting maps a transport profile to the engine's costing model.
// Wheelchair routes use the pedestrian costing; the adapter adds the
// wheelchair type option.
func valhallaCosting(profile types.TransportProfile) valhalla.Costing {
	switch profile {
	case types.ProfileCycling:
		return valhalla.CostingBicycle
	case types.ProfileWalking, types.ProfileWheelchair:
		return valhalla.CostingPedestrian
	default:
		return valhalla.CostingAuto
	}
}

// osrmProfile maps a transport profile to an OSRM profile name. OSRM has no
// wheelchair costing; foot is the closest match.
func osrmProfile(profile types.TransportProfile) string {
	switch profile {
	case types.ProfileCycling:
		return "cycling"
	case types.ProfileWalking, types.ProfileWheelchair:
		return "foot"
	default:
		return "driving"
	}
}

func ptr[T any](v T) *T {
	return &v
}
