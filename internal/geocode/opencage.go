package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FallbackAddress is returned when the upstream has no result for a
// coordinate. Callers treat it as opaque display text.
const FallbackAddress = "Address not found"

// Client is a reverse-geocoding client against an OpenCage-shaped API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// New creates a geocoding client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type geocodeResponse struct {
	Results []struct {
		Formatted string `json:"formatted"`
	} `json:"results"`
}

// ReverseGeocode resolves a coordinate to a formatted address. An empty
// upstream result yields FallbackAddress with no error; transport and decode
// failures are returned as errors so the caller can retry.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%.8f+%.8f", lat, lng))
	q.Set("key", c.APIKey)
	q.Set("limit", "1")
	q.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("geocode server returned status: %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if len(body.Results) == 0 || body.Results[0].Formatted == "" {
		return FallbackAddress, nil
	}
	return body.Results[0].Formatted, nil
}
