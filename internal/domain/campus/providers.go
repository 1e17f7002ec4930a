package campus

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultProviderTimeout = 2 * time.Second

var ErrMissingCoordinates = errors.New("provider response has no coordinates")

// Provider describes one IP geolocation service in the lookup chain.
type Provider struct {
	Name    string
	URL     func(ip string) string
	Extract func(body []byte) (lat, lon float64, err error)
	Timeout time.Duration
}

// DefaultProviders returns the public lookup chain in priority order.
func DefaultProviders(timeout time.Duration) []Provider {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return []Provider{
		{
			Name:    "ipregistry",
			URL:     func(ip string) string { return "https://api.ipregistry.co/" + url.PathEscape(ip) + "?key=tryout" },
			Extract: extractIPRegistry,
			Timeout: timeout,
		},
		{
			Name:    "ipinfo",
			URL:     func(ip string) string { return "https://ipinfo.io/" + url.PathEscape(ip) + "/json" },
			Extract: extractIPInfo,
			Timeout: timeout,
		},
		{
			Name:    "ipdata",
			URL:     func(ip string) string { return "https://ipdata.co/" + url.PathEscape(ip) + "?api-key=test" },
			Extract: fieldExtractor("latitude", "longitude"),
			Timeout: timeout,
		},
		{
			Name:    "ip-api",
			URL:     func(ip string) string { return "http://ip-api.com/json/" + url.PathEscape(ip) },
			Extract: fieldExtractor("lat", "lon"),
			Timeout: timeout,
		},
	}
}

func extractIPRegistry(body []byte) (float64, float64, error) {
	var payload struct {
		Location map[string]any `json:"location"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}
	return coordinatesFrom(payload.Location, "latitude", "longitude")
}

func extractIPInfo(body []byte) (float64, float64, error) {
	var payload struct {
		Loc *string `json:"loc"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}
	if payload.Loc == nil {
		return 0, 0, ErrMissingCoordinates
	}

	parts := strings.Split(*payload.Loc, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ipinfo loc %q: expected lat,lon", *payload.Loc)
	}
	lat, err := toFloat(parts[0])
	if err != nil {
		return 0, 0, err
	}
	lon, err := toFloat(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// fieldExtractor reads coordinates from two top-level fields.
func fieldExtractor(latField, lonField string) func([]byte) (float64, float64, error) {
	return func(body []byte) (float64, float64, error) {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return 0, 0, err
		}
		return coordinatesFrom(payload, latField, lonField)
	}
}

func coordinatesFrom(values map[string]any, latField, lonField string) (float64, float64, error) {
	if values == nil {
		return 0, 0, ErrMissingCoordinates
	}
	lat, err := toFloat(values[latField])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", latField, err)
	}
	lon, err := toFloat(values[lonField])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", lonField, err)
	}
	return lat, lon, nil
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case nil:
		return 0, ErrMissingCoordinates
	default:
		return 0, fmt.Errorf("unexpected coordinate type %T", value)
	}
}
