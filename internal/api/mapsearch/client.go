// Package mapsearch wraps the third-party maps search HTTP API. The client
// performs a single outbound call type and does no retries: one provider
// failure is one engine failure, resilience belongs to the caller.
package mapsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderstay/location-engine/app/observability/metrics"
	"github.com/wanderstay/location-engine/internal/types"
)

const (
	defaultBaseURL  = "https://serpapi.com/search"
	defaultLanguage = "vi"
	defaultCountry  = "vn"
	defaultZoom     = 15
)

// ErrMissingAPIKey is raised at call time when no provider key is
// configured. The key is deliberately not checked at startup.
var ErrMissingAPIKey = errors.New("mapsearch: missing provider API key")

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mapsearch: provider returned status %d", e.Code)
}

// SearchRequest parameterizes one maps_search call. Latitude and Longitude
// only take effect when both are set; RadiusMeters only tunes the viewport
// zoom hint.
type SearchRequest struct {
	Query        string
	Language     string
	OpenNow      bool
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
}

// Client issues maps_search requests against the provider.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.EngineMetrics
	baseURL    string
	apiKey     string
	country    string
}

// NewClient builds a provider client. baseURL and country fall back to the
// provider defaults when empty; apiKey may be empty and is validated on
// each call.
func NewClient(apiKey, baseURL, country string, logger *slog.Logger, m *metrics.EngineMetrics) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if country == "" {
		country = defaultCountry
	}
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
		metrics:    m,
		baseURL:    baseURL,
		apiKey:     apiKey,
		country:    country,
	}
}

// Search performs one maps_search call and returns the raw decoded
// response. Empty result arrays are valid; transport failures, non-2xx
// statuses and a missing API key are errors.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*types.MapsSearchResponse, error) {
	ctx, span := otel.Tracer("MapSearchClient").Start(ctx, "Search")
	defer span.End()

	if c.apiKey == "" {
		span.SetStatus(codes.Error, "missing API key")
		return nil, ErrMissingAPIKey
	}

	lang := req.Language
	if lang == "" {
		lang = defaultLanguage
	}

	params := url.Values{}
	params.Set("engine", "maps_search")
	params.Set("q", req.Query)
	params.Set("hl", lang)
	params.Set("gl", c.country)
	params.Set("api_key", c.apiKey)
	if req.OpenNow {
		params.Set("open_now", "true")
	}
	if req.Latitude != nil && req.Longitude != nil {
		params.Set("ll", fmt.Sprintf("@%s,%s,%dz",
			strconv.FormatFloat(*req.Latitude, 'f', -1, 64),
			strconv.FormatFloat(*req.Longitude, 'f', -1, 64),
			zoomForRadius(req.RadiusMeters)))
	}
	span.SetAttributes(
		attribute.String("provider.query", req.Query),
		attribute.String("provider.language", lang),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mapsearch: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.RecordProviderCall(ctx, time.Since(start), err)
	if err != nil {
		c.logger.ErrorContext(ctx, "Provider call failed", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("mapsearch: provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Code: resp.StatusCode}
		c.logger.ErrorContext(ctx, "Provider returned error status", slog.Int("status", resp.StatusCode))
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return nil, statusErr
	}

	var decoded types.MapsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("mapsearch: decode response: %w", err)
	}

	span.SetStatus(codes.Ok, "provider call completed")
	return &decoded, nil
}

// zoomForRadius maps the requested search radius onto the provider's
// viewport zoom hint. A coarse heuristic that tunes provider relevance,
// not a physical conversion.
func zoomForRadius(radiusMeters float64) int {
	switch {
	case radiusMeters <= 0:
		return defaultZoom
	case radiusMeters <= 500:
		return 16
	case radiusMeters <= 1500:
		return 15
	case radiusMeters <= 3000:
		return 14
	case radiusMeters <= 7000:
		return 13
	default:
		return 12
	}
}
