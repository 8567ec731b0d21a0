package skyaware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Docs: https://github.com/flightaware/dump1090/blob/master/README-json.md
// Sample request: http://192.168.86.30/skyaware/data/aircraft.json
const (
	DefaultURL     = "http://192.168.86.30/skyaware/data/aircraft.json"
	requestTimeout = 5 * time.Second
)

type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

func NewClient(url string, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		url:        url,
		logger:     logger.With("component", "skyaware-client"),
	}
}

// GetAircraft fetches the current aircraft.json document
func (c *Client) GetAircraft(ctx context.Context) (*AircraftAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	c.logger.Debug("fetching aircraft data", "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("SkyAware returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp AircraftAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("fetched aircraft data", "aircraft_count", len(apiResp.Aircraft))

	return &apiResp, nil
}
