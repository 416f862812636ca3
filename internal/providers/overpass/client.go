package overpass

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

// API Docs: https://wiki.openstreetmap.org/wiki/Overpass_API
// Queries use the "around" filter to find tagged features within a radius of
// a point; ways and relations are returned with their center coordinate.
const baseURL = "https://overpass-api.de/api/interpreter"

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithBaseURL(logger, baseURL)
}

// NewClientWithBaseURL is useful for tests and alternative Overpass mirrors.
func NewClientWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		logger:     logger.With("component", "overpass-client"),
	}
}

// SearchScenic queries the six scenic feature classes (towns/cities,
// attractions, viewpoints, national parks, ski areas, lakes) within radiusKm
// of the given point in a single request.
func (c *Client) SearchScenic(ctx context.Context, latitude, longitude, radiusKm float64) (*SearchAPIResponse, error) {
	radiusM := int(radiusKm * 1000)
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusM, latitude, longitude)

	query := fmt.Sprintf(`[out:json][timeout:10];
(
  node["place"~"^(city|town)$"]%[1]s;
  node["tourism"="attraction"]%[1]s;
  node["tourism"="viewpoint"]%[1]s;
  relation["boundary"="national_park"]%[1]s;
  way["landuse"="winter_sports"]%[1]s;
  way["natural"="water"]["water"="lake"]%[1]s;
);
out center 80;`, around)

	c.logger.Debug("querying overpass",
		"latitude", latitude,
		"longitude", longitude,
		"radius_km", radiusKm,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

	var apiResp SearchAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &apiResp, nil
}
