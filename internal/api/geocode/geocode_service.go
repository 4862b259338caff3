package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderstay/location-engine/app/observability/metrics"
	"github.com/wanderstay/location-engine/internal/api/mapsearch"
	"github.com/wanderstay/location-engine/internal/types"
)

// DefaultTTL is how long resolved addresses stay cached. Addresses change
// coordinates far less often than business listings change status, so
// this is much longer than the search TTL.
const DefaultTTL = 24 * time.Hour

// ErrLocationNotFound reports an address the provider could not place.
// Distinct from transport failure; never defaulted to (0,0).
var ErrLocationNotFound = errors.New("location not found")

// Searcher is the slice of the provider client the geocoder needs.
type Searcher interface {
	Search(ctx context.Context, req mapsearch.SearchRequest) (*types.MapsSearchResponse, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service resolves free-text addresses to coordinates.
type Service interface {
	GeocodeAddress(ctx context.Context, params types.GeocodeParams) (*types.GeocodeResult, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Searcher
	cache    *gocache.Cache
	metrics  *metrics.EngineMetrics
	ttl      time.Duration
}

func NewServiceImpl(provider Searcher, geocodeCache *gocache.Cache, m *metrics.EngineMetrics, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
		cache:    geocodeCache,
		metrics:  m,
		ttl:      ttl,
	}
}

// GeocodeAddress resolves one address. The provider's single best match
// (place result) is preferred; the first local result is the fallback.
// When neither carries coordinates the call fails with
// ErrLocationNotFound.
func (s *ServiceImpl) GeocodeAddress(ctx context.Context, params types.GeocodeParams) (*types.GeocodeResult, error) {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "GeocodeAddress", trace.WithAttributes(
		attribute.String("geocode.address", params.Address),
	))
	defer span.End()

	s.metrics.RecordGeocode(ctx)

	parts := make([]string, 0, 3)
	for _, p := range []string{params.Address, params.City, params.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	resolved := strings.Join(parts, ", ")
	span.SetAttributes(attribute.String("geocode.resolved", resolved))

	key := fmt.Sprintf("geocode|hl=%s|q=%s", params.Language, strings.ToLower(resolved))
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, "geocode", true)
		span.AddEvent("cache hit")
		span.SetStatus(codes.Ok, "served from cache")
		return cached.(*types.GeocodeResult), nil
	}
	s.metrics.RecordCacheLookup(ctx, "geocode", false)

	resp, err := s.provider.Search(ctx, mapsearch.SearchRequest{
		Query:    resolved,
		Language: params.Language,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Geocode provider call failed",
			slog.String("address", resolved), slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("geocode address: %w", err)
	}

	var match *types.LocalResult
	if resp.PlaceResult != nil && resp.PlaceResult.GPSCoordinates != nil {
		match = resp.PlaceResult
	} else if len(resp.LocalResults) > 0 && resp.LocalResults[0].GPSCoordinates != nil {
		match = &resp.LocalResults[0]
	}
	if match == nil {
		s.logger.WarnContext(ctx, "No coordinates for address", slog.String("address", resolved))
		span.SetStatus(codes.Error, "location not found")
		return nil, fmt.Errorf("geocode %q: %w", resolved, ErrLocationNotFound)
	}

	result := &types.GeocodeResult{
		Latitude:    match.GPSCoordinates.Latitude,
		Longitude:   match.GPSCoordinates.Longitude,
		DisplayName: match.Title,
		Address:     match.Address,
	}
	if match.PlaceID != "" {
		providerID := match.PlaceID
		result.ProviderID = &providerID
	}

	s.cache.Set(key, result, s.ttl)
	span.SetStatus(codes.Ok, "address resolved")
	return result, nil
}
