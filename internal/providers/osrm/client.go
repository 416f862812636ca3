package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API Docs: http://project-osrm.org/docs/v5.24.0/api/
// Sample request: https://router.project-osrm.org/route/v1/driving/2.35,48.85;12.49,41.90?alternatives=3&overview=full&geometries=geojson
// The public demo server requires no API key.
const baseURL = "https://router.project-osrm.org"

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithBaseURL(logger, baseURL)
}

// NewClientWithBaseURL is useful for tests and self-hosted OSRM instances.
func NewClientWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		baseURL:    baseURL,
		logger:     logger.With("component", "osrm-client"),
	}
}

// Route computes up to 1+alternatives routes through the given coordinates.
// Coordinates are [lon, lat] pairs, matching OSRM's URL format.
func (c *Client) Route(ctx context.Context, profile string, coordinates [][2]float64, alternatives int) (*RouteAPIResponse, error) {
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("at least 2 coordinates must be provided")
	}

	pairs := make([]string, 0, len(coordinates))
	for _, coord := range coordinates {
		pairs = append(pairs, fmt.Sprintf("%f,%f", coord[0], coord[1]))
	}

	u, err := url.Parse(fmt.Sprintf("%s/route/v1/%s/%s", c.baseURL, profile, strings.Join(pairs, ";")))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	if alternatives > 0 {
		q.Set("alternatives", fmt.Sprintf("%d", alternatives))
	}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp RouteAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Code != "Ok" {
		return nil, fmt.Errorf("routing failed with code %q: %s", apiResp.Code, apiResp.Message)
	}
	if len(apiResp.Routes) == 0 {
		return nil, fmt.Errorf("response contains no routes")
	}

	return &apiResp, nil
}
