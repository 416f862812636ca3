package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"tripweaver/internal/poi"
	"tripweaver/internal/routing"
	"tripweaver/internal/segment"
	"tripweaver/internal/types"
)

// CoordinateInput is a single waypoint in a route body. The fields are
// pointers so the validator can tell an absent field from a legitimate 0
// (equator, prime meridian).
type CoordinateInput struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`    // Latitude in decimal degrees
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"` // Longitude in decimal degrees
}

// RouteInput defines the request body for the route endpoint
type RouteInput struct {
	Coordinates  []CoordinateInput `json:"coordinates" binding:"required,min=2,dive"`
	Profile      string            `json:"profile" binding:"required"` // driving, cycling, walking, wheelchair
	Preference   string            `json:"preference"`                 // fastest, shortest, scenic, longest
	BustCache    bool              `json:"bust_cache"`
	IncludeScore bool              `json:"include_score"` // enrich the response with a scenic density score
}

// RouteResponse is the computed route
type RouteResponse struct {
	Geometry        *geojson.Geometry `json:"geometry"` // GeoJSON LineString, [lng, lat] ordered
	DistanceMeters  float64           `json:"distance_meters"`
	DurationSeconds float64           `json:"duration_seconds"`
	Provider        string            `json:"provider"`
	ScenicScore     *poi.DensityScore `json:"scenic_score,omitempty"`
}

// handleGetRoute godoc
// @Summary Compute a route
// @Description Compute a route between two or more coordinates with an optional style preference. Scenic and longest preferences bias the route through scenic or POI-rich waypoints.
// @Tags routing
// @Accept json
// @Produce json
// @Param request body RouteInput true "Route request"
// @Success 200 {object} RouteResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /route [post]
func (app *App) handleGetRoute(c *gin.Context) {
	var input RouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := app.routingService.GetRoute(c.Request.Context(), toRouteRequest(input))
	if err != nil {
		app.respondRouteError(c, err)
		return
	}

	resp := RouteResponse{
		Geometry:        geojson.NewGeometry(route.Geometry),
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Provider:        string(route.Provider),
	}
	if input.IncludeScore {
		first := input.Coordinates[0]
		code := app.countries.Resolve(c.Request.Context(), *first.Latitude, *first.Longitude)
		score := app.routingService.ScoreRoute(c.Request.Context(), route.Geometry, code)
		resp.ScenicScore = &score
	}

	c.JSON(http.StatusOK, resp)
}

// SegmentInput defines the request body for the segmentation endpoint
type SegmentInput struct {
	RouteInput
	MaxHoursPerDay float64 `json:"max_hours_per_day"`                    // defaults to the configured limit
	StartDate      string  `json:"start_date" binding:"required"`        // YYYY-MM-DD, local to the start location
	StartTime      string  `json:"start_time" binding:"omitempty,len=5"` // HH:MM, defaults to 09:00
}

// SegmentResponse is a route split into daily driving segments
type SegmentResponse struct {
	Route RouteResponse `json:"route"`
	Plan  segment.Plan  `json:"plan"`
}

// handleSegmentRoute godoc
// @Summary Compute a route and split it into daily driving segments
// @Description Compute a route, then split its geometry into segments bounded by a maximum driving hours per day, with local departure times and overnight stops.
// @Tags routing
// @Accept json
// @Produce json
// @Param request body SegmentInput true "Segmentation request"
// @Success 200 {object} SegmentResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /route/segments [post]
func (app *App) handleSegmentRoute(c *gin.Context) {
	var input SegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxHours := input.MaxHoursPerDay
	if maxHours <= 0 {
		maxHours = app.cfg.Routing.MaxHoursPerDay
	}

	first := input.Coordinates[0]
	start, err := app.parseLocalStart(input.StartDate, input.StartTime, *first.Latitude, *first.Longitude)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := app.routingService.GetRoute(c.Request.Context(), toRouteRequest(input.RouteInput))
	if err != nil {
		app.respondRouteError(c, err)
		return
	}

	plan := app.planner.SegmentByDrivingTime(
		route.Geometry,
		route.DistanceMeters/1000,
		route.DurationSeconds/3600,
		maxHours,
		start,
	)

	c.JSON(http.StatusOK, SegmentResponse{
		Route: RouteResponse{
			Geometry:        geojson.NewGeometry(route.Geometry),
			DistanceMeters:  route.DistanceMeters,
			DurationSeconds: route.DurationSeconds,
			Provider:        string(route.Provider),
		},
		Plan: plan,
	})
}

func toRouteRequest(input RouteInput) types.RouteRequest {
	coordinates := make([]types.Coordinate, 0, len(input.Coordinates))
	for _, c := range input.Coordinates {
		coordinates = append(coordinates, types.NewCoordinate(*c.Latitude, *c.Longitude))
	}
	return types.RouteRequest{
		Coordinates: coordinates,
		Profile:     types.TransportProfile(input.Profile),
		Preference:  types.StylePreference(input.Preference),
		BustCache:   input.BustCache,
	}
}

// parseLocalStart interprets the date and clock time in the timezone of the
// trip's start location. An unresolvable timezone falls back to UTC.
func (app *App) parseLocalStart(date, clock string, latitude, longitude float64) (time.Time, error) {
	if clock == "" {
		clock = "09:00"
	}

	loc := time.UTC
	if name, err := app.timezones.Lookup(latitude, longitude); err == nil {
		if resolved, loadErr := time.LoadLocation(name); loadErr == nil {
			loc = resolved
		}
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date or time: %w", err)
	}
	return start, nil
}

func (app *App) respondRouteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, routing.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, routing.ErrRoutingUnavailable):
		app.logger.Error("all routing providers failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "no routing provider available"})
	default:
		app.logger.Error("failed to compute route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute route"})
	}
}
