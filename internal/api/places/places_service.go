package places

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wanderstay/location-engine/app/observability/metrics"
	"github.com/wanderstay/location-engine/internal/api/mapsearch"
	"github.com/wanderstay/location-engine/internal/api/recents"
	"github.com/wanderstay/location-engine/internal/cache"
	"github.com/wanderstay/location-engine/internal/types"
)

const (
	defaultSearchLimit = 10
	defaultNearbyLimit = 12
	minCategoryLimit   = 3
	defaultFanOut      = 4
	defaultSearchTTL   = 6 * time.Hour
)

// DefaultNearbyCategories is the category fan-out used when a nearby
// search names none.
var DefaultNearbyCategories = []string{"restaurants", "cafes", "attractions", "transport"}

// Searcher is the slice of the provider client the service needs.
type Searcher interface {
	Search(ctx context.Context, req mapsearch.SearchRequest) (*types.MapsSearchResponse, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service defines the place search contract.
type Service interface {
	SearchPlaces(ctx context.Context, params types.SearchParams) (*types.SearchResult, error)
	SearchNearbyPlaces(ctx context.Context, params types.NearbyParams) (*types.NearbySearchResult, error)
}

// ServiceImpl runs the classify/resolve/fetch/normalize pipeline on top of
// the provider client and the shared search cache.
type ServiceImpl struct {
	logger    *slog.Logger
	provider  Searcher
	cache     *cache.Cache
	recents   *recents.Tracker
	metrics   *metrics.EngineMetrics
	searchTTL time.Duration
	fanOut    int
}

func NewServiceImpl(provider Searcher, searchCache *cache.Cache, tracker *recents.Tracker, m *metrics.EngineMetrics, searchTTL time.Duration, fanOut int, logger *slog.Logger) *ServiceImpl {
	if searchTTL <= 0 {
		searchTTL = defaultSearchTTL
	}
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &ServiceImpl{
		logger:    logger,
		provider:  provider,
		cache:     searchCache,
		recents:   tracker,
		metrics:   m,
		searchTTL: searchTTL,
		fanOut:    fanOut,
	}
}

// SearchPlaces resolves the query against the taxonomy, consults the
// cache, calls the provider once and returns the normalized, ranked
// result. Provider errors propagate untouched: no retry, no fallback
// payload.
func (s *ServiceImpl) SearchPlaces(ctx context.Context, params types.SearchParams) (*types.SearchResult, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchPlaces", trace.WithAttributes(
		attribute.String("search.query", params.Query),
	))
	defer span.End()

	s.metrics.RecordSearch(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	categoryName, fallback := classifyQuery(params.Query, params.Category)
	resolvedQuery := resolveQuery(params.Query, fallback)
	span.SetAttributes(
		attribute.String("search.resolved_query", resolvedQuery),
		attribute.String("search.category", categoryName),
	)

	key := searchCacheKey(resolvedQuery, categoryName, limit, params)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, "search", true)
		span.AddEvent("cache hit")
		span.SetStatus(codes.Ok, "served from cache")
		return cached.(*types.SearchResult), nil
	}
	s.metrics.RecordCacheLookup(ctx, "search", false)

	resp, err := s.provider.Search(ctx, mapsearch.SearchRequest{
		Query:        resolvedQuery,
		Language:     params.Language,
		OpenNow:      params.OpenNow,
		Latitude:     params.Latitude,
		Longitude:    params.Longitude,
		RadiusMeters: params.RadiusMeters,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Place search provider call failed",
			slog.String("query", resolvedQuery), slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("search places: %w", err)
	}

	var origin *types.Coordinates
	if params.Latitude != nil && params.Longitude != nil {
		origin = &types.Coordinates{Latitude: *params.Latitude, Longitude: *params.Longitude}
	}

	placeList := make([]types.Place, 0, len(resp.LocalResults))
	for i, raw := range resp.LocalResults {
		placeList = append(placeList, normalizePlace(raw, i, origin, categoryName))
	}
	sort.SliceStable(placeList, func(i, j int) bool {
		return placeList[i].RelevanceScore > placeList[j].RelevanceScore
	})
	if len(placeList) > limit {
		placeList = placeList[:limit]
	}

	suggestions := make([]string, 0, len(resp.RelatedQuestions))
	for _, q := range resp.RelatedQuestions {
		if q.Question != "" {
			suggestions = append(suggestions, q.Question)
		}
	}

	result := &types.SearchResult{
		Query:         params.Query,
		ResolvedQuery: resolvedQuery,
		Places:        placeList,
		Suggestions:   suggestions,
	}
	if categoryName != "" {
		result.Category = &categoryName
	}

	s.cache.Set(key, result, s.searchTTL)
	s.recents.Record(params.Query, resolvedQuery, result.Category, len(placeList))

	span.SetAttributes(attribute.Int("search.results", len(placeList)))
	span.SetStatus(codes.Ok, "search completed")
	return result, nil
}

// SearchNearbyPlaces fans one search per category out around the origin
// and merges the results into a single deduplicated, globally ranked
// list. The fan-out is bounded and each category fails independently: a
// failed category is logged and skipped, never cancelling its siblings.
func (s *ServiceImpl) SearchNearbyPlaces(ctx context.Context, params types.NearbyParams) (*types.NearbySearchResult, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchNearbyPlaces", trace.WithAttributes(
		attribute.Float64("search.latitude", params.Latitude),
		attribute.Float64("search.longitude", params.Longitude),
	))
	defer span.End()

	categories := params.Categories
	if len(categories) == 0 {
		categories = DefaultNearbyCategories
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	perCategory := limit / len(categories)
	if perCategory < minCategoryLimit {
		perCategory = minCategoryLimit
	}
	near := params.City
	if near == "" {
		near = "me"
	}

	// Tasks run concurrently but results are merged in category
	// declaration order below, so the first-seen dedup tie-break stays
	// deterministic.
	perCategoryResults := make([]*types.SearchResult, len(categories))
	g := new(errgroup.Group)
	g.SetLimit(s.fanOut)
	for i, cat := range categories {
		g.Go(func() error {
			lat, lng := params.Latitude, params.Longitude
			res, err := s.SearchPlaces(ctx, types.SearchParams{
				Query:        cat + " near " + near,
				Latitude:     &lat,
				Longitude:    &lng,
				RadiusMeters: params.RadiusMeters,
				Limit:        perCategory,
				Language:     params.Language,
				Category:     cat,
			})
			if err != nil {
				s.logger.WarnContext(ctx, "Nearby category search failed, skipping category",
					slog.String("category", cat), slog.Any("error", err))
				return nil
			}
			perCategoryResults[i] = res
			return nil
		})
	}
	_ = g.Wait() // category tasks never return an error

	// First occurrence wins on duplicate ids, in category order, even if a
	// later occurrence scored higher.
	seen := make(map[string]struct{})
	merged := make([]types.Place, 0, limit)
	for _, res := range perCategoryResults {
		if res == nil {
			continue
		}
		for _, p := range res.Places {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	span.SetAttributes(attribute.Int("search.results", len(merged)))
	span.SetStatus(codes.Ok, "nearby search completed")
	return &types.NearbySearchResult{
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
		Categories: categories,
		Places:     merged,
	}, nil
}

// searchCacheKey serializes the effective search parameters in a fixed
// field order. Coordinates are rounded to 4 decimals on purpose: nearby
// user locations collapse onto one entry, trading ~11m of precision for
// hit rate.
func searchCacheKey(resolvedQuery, categoryName string, limit int, params types.SearchParams) string {
	lat, lng := "", ""
	if params.Latitude != nil && params.Longitude != nil {
		lat = strconv.FormatFloat(*params.Latitude, 'f', 4, 64)
		lng = strconv.FormatFloat(*params.Longitude, 'f', 4, 64)
	}
	return fmt.Sprintf("search|q=%s|lat=%s|lng=%s|r=%d|n=%d|open=%t|cat=%s",
		strings.ToLower(resolvedQuery), lat, lng, int(params.RadiusMeters), limit, params.OpenNow, categoryName)
}
