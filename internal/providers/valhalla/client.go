package valhalla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// API Docs: https://valhalla.github.io/valhalla/api/turn-by-turn/api-reference/
// The same wire format serves both the hosted engine (API key as a query
// parameter) and a self-hosted instance (no key).

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a Valhalla client. apiKey may be empty for self-hosted
// instances.
func NewClient(logger *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.With("component", "valhalla-client"),
	}
}

// Route computes a route for the given request.
func (c *Client) Route(ctx context.Context, routeRequest RouteRequest) (*RouteAPIResponse, error) {
	if err := routeRequest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid route request: %w", err)
	}

	u, err := url.Parse(c.baseURL + "/route")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if c.apiKey != "" {
		q := u.Query()
		q.Set("api_key", c.apiKey)
		u.RawQuery = q.Encode()
	}

	body, err := json.Marshal(routeRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp RouteAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Trip.Legs) == 0 {
		return nil, fmt.Errorf("response contains no route legs")
	}

	return &apiResp, nil
}
