package campus

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"campus-market-go/pkg/logger"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (BITSGeolocator/1.0)"
	maxProviderBody  = 1 << 20
)

// Locator walks the provider chain until one yields coordinates.
type Locator struct {
	client    *http.Client
	providers []Provider
	userAgent string
	log       logger.Logger
}

func NewLocator(client *http.Client, providers []Provider, userAgent string, log logger.Logger) *Locator {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Locator{client: client, providers: providers, userAgent: userAgent, log: log}
}

// Locate returns ok=false when every provider failed. There is no deadline
// across the whole chain; each attempt has its own timeout.
func (l *Locator) Locate(ctx context.Context, ip string) (Coordinates, bool) {
	for _, provider := range l.providers {
		lat, lon, err := l.attempt(ctx, provider, ip)
		if err != nil {
			l.log.Debug("campus.locate: provider failed", "provider", provider.Name, "ip", ip, "err", err)
			continue
		}
		return Coordinates{Lat: lat, Lon: lon}, true
	}
	return Coordinates{}, false
}

func (l *Locator) attempt(ctx context.Context, provider Provider, ip string) (float64, float64, error) {
	timeout := provider.Timeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.URL(ip), nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return 0, 0, err
	}
	return provider.Extract(body)
}

// Resolver maps an IP address to the nearest campus.
type Resolver struct {
	locator *Locator
}

func NewResolver(locator *Locator) *Resolver {
	return &Resolver{locator: locator}
}

// ResolveCampus never fails; total lookup failure yields Others.
func (r *Resolver) ResolveCampus(ctx context.Context, ip string) Code {
	if ip == "" {
		return Others
	}
	coords, ok := r.locator.Locate(ctx, ip)
	return Nearest(coords, ok)
}
