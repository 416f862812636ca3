package routing

import (
	"testing"

	"tripweaver/internal/providers/valhalla"
	"tripweaver/internal/types"
)

func TestScenicCostingOptions_Tiers(t *testing.T) {
	tests := []struct {
		name            string
		directKm        float64
		wantUseHighways float64
	}{
		{"city hop", 10, 0.1},
		{"just under first boundary", 49.9, 0.1},
		{"regional", 50, 0.3},
		{"mid tier", 150, 0.3},
		{"long haul", 200, 0.6},
		{"cross country", 1100, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := scenicCostingOptions(tt.directKm)
			if opts.UseHighways == nil || *opts.UseHighways != tt.wantUseHighways {
				t.Errorf("useHighways = %v, want %v", opts.UseHighways, tt.wantUseHighways)
			}
			if opts.ManeuverPenalty == nil {
				t.Error("maneuver penalty missing")
			}
		})
	}
}

func TestScenicCostingOptions_RelaxesWithDistance(t *testing.T) {
	short := scenicCostingOptions(20)
	long := scenicCostingOptions(500)

	if *short.UseHighways >= *long.UseHighways {
		t.Errorf("short routes must bias harder against highways: %v vs %v", *short.UseHighways, *long.UseHighways)
	}
	if *short.UseLivingStreets <= *long.UseLivingStreets {
		t.Errorf("short routes should prefer living streets more: %v vs %v", *short.UseLivingStreets, *long.UseLivingStreets)
	}
}

func TestValhallaCosting(t *testing.T) {
	tests := []struct {
		profile types.TransportProfile
		want    valhalla.Costing
	}{
		{types.ProfileDriving, valhalla.CostingAuto},
		{types.ProfileCycling, valhalla.CostingBicycle},
		{types.ProfileWalking, valhalla.CostingPedestrian},
		{types.ProfileWheelchair, valhalla.CostingPedestrian},
	}
	for _, tt := range tests {
		if got := valhallaCosting(tt.profile); got != tt.want {
			t.Errorf("valhallaCosting(%q) = %q, want %q", tt.profile, got, tt.want)
		}
	}
}

func TestOSRMProfile(t *testing.T) {
	tests := []struct {
		profile types.TransportProfile
		want    string
	}{
		{types.ProfileDriving, "driving"},
		{types.ProfileCycling, "cycling"},
		{types.ProfileWalking, "foot"},
		{types.ProfileWheelchair, "foot"},
	}
	for _, tt := range tests {
		if got := osrmProfile(tt.profile); got != tt.want {
			t.Errorf("osrmProfile(%q) = %q, want %q", tt.profile, got, tt.want)
		}
	}
}
