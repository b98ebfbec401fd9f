// Package weather looks up current conditions for a district from an
// external weather service.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Lookup fetches a short, user-displayable weather summary. Implementations
// return an error when conditions cannot be fetched; callers render a
// localized "unavailable" message instead of failing the dialog.
type Lookup interface {
	CurrentConditions(ctx context.Context, district, province string) (string, error)
}

// Client calls an HTTP weather API that answers
// GET {base}?district=X&province=Y with a small JSON body.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a weather client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type conditions struct {
	Summary      string  `json:"summary"`
	TemperatureC float64 `json:"temperature_c"`
	RainfallMM   float64 `json:"rainfall_mm"`
}

// CurrentConditions fetches and formats the current conditions for a district.
func (c *Client) CurrentConditions(ctx context.Context, district, province string) (string, error) {
	q := url.Values{}
	q.Set("district", district)
	q.Set("province", province)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather service returned %d", resp.StatusCode)
	}

	var cond conditions
	if err := json.NewDecoder(resp.Body).Decode(&cond); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}

	return fmt.Sprintf("%s, %s: %s, %.0f C, rainfall %.1f mm",
		district, province, cond.Summary, cond.TemperatureC, cond.RainfallMM), nil
}

// Unavailable is a Lookup that always fails; used when no weather service
// is configured.
type Unavailable struct{}

// CurrentConditions always reports the service as unconfigured.
func (Unavailable) CurrentConditions(_ context.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("weather service not configured")
}
