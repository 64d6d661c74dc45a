package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/metrics"
)

// GeoLocationService resolves node hostnames to geographic locations.
// Every failure path degrades to the all-Unknown location; Resolve never fails.
type GeoLocationService struct {
	cache    map[string]*cachedLocation
	cacheMu  sync.RWMutex
	cacheTTL time.Duration
	client   *http.Client
	logger   *logrus.Logger
	apiURL   string
	apiToken string
	lookupIP func(host string) ([]net.IP, error)
}

type cachedLocation struct {
	geo      models.GeoInfo
	cachedAt time.Time
}

func NewGeoLocationService(apiURL, apiToken string, timeout time.Duration, logger *logrus.Logger) *GeoLocationService {
	if apiToken == "" {
		logger.Warn("No geolocation API token configured, all locations will be Unknown")
	}

	return &GeoLocationService{
		cache:    make(map[string]*cachedLocation),
		cacheTTL: 7 * 24 * time.Hour, // 7 days cache
		client: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		apiURL:   strings.TrimRight(apiURL, "/"),
		apiToken: apiToken,
		lookupIP: net.LookupIP,
	}
}

// Resolve looks up the location for a hostname. Without a token it returns
// the all-Unknown location immediately; DNS failures fall back to querying
// the raw hostname rather than aborting.
func (s *GeoLocationService) Resolve(ctx context.Context, hostname string) models.GeoInfo {
	if s.apiToken == "" {
		metrics.GeoLookupsTotal.WithLabelValues("degraded").Inc()
		return models.UnknownGeo()
	}

	key := s.resolveHost(hostname)

	s.cacheMu.RLock()
	if cached, ok := s.cache[key]; ok && time.Since(cached.cachedAt) < s.cacheTTL {
		s.cacheMu.RUnlock()
		metrics.GeoLookupsTotal.WithLabelValues("cache_hit").Inc()
		return cached.geo
	}
	s.cacheMu.RUnlock()

	geo, err := s.lookup(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"hostname": hostname,
			"key":      key,
		}).Warn("Geolocation lookup failed")
		metrics.GeoLookupsTotal.WithLabelValues("error").Inc()
		return models.UnknownGeo()
	}

	s.cacheMu.Lock()
	s.cache[key] = &cachedLocation{geo: geo, cachedAt: time.Now()}
	s.cacheMu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"hostname": hostname,
		"country":  geo.Country,
		"city":     geo.City,
	}).Debug("Resolved geo location")
	metrics.GeoLookupsTotal.WithLabelValues("success").Inc()

	return geo
}

// resolveHost resolves a hostname to an IP address, preferring IPv4.
// On failure the hostname itself becomes the lookup key.
func (s *GeoLocationService) resolveHost(host string) string {
	ips, err := s.lookupIP(host)
	if err != nil || len(ips) == 0 {
		s.logger.WithError(err).WithField("host", host).Debug("Failed to resolve hostname")
		return host
	}

	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String()
		}
	}

	return ips[0].String()
}

func (s *GeoLocationService) lookup(ctx context.Context, key string) (models.GeoInfo, error) {
	endpoint := fmt.Sprintf("%s/%s?token=%s", s.apiURL, url.PathEscape(key), url.QueryEscape(s.apiToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.UnknownGeo(), fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.UnknownGeo(), fmt.Errorf("failed to fetch geo data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UnknownGeo(), fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Country string `json:"country"`
		Region  string `json:"region"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.UnknownGeo(), fmt.Errorf("failed to decode response: %w", err)
	}

	return models.GeoInfo{
		Country: models.OrUnknown(body.Country),
		Region:  models.OrUnknown(body.Region),
		City:    models.OrUnknown(body.City),
	}, nil
}

// ClearCache drops all cached lookups.
func (s *GeoLocationService) ClearCache() {
	s.cacheMu.Lock()
	s.cache = make(map[string]*cachedLocation)
	s.cacheMu.Unlock()
}

// HostFromNodeURL extracts the host component from a node's URL field.
// Node URLs often arrive without a scheme ("node.example.com:9185"), so a
// placeholder scheme is prepended before parsing. If parsing fails outright
// the raw string up to the first colon is used.
func HostFromNodeURL(nodeURL string) string {
	raw := nodeURL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}

	return strings.SplitN(nodeURL, ":", 2)[0]
}
