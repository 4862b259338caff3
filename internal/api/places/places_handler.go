package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderstay/location-engine/internal/api"
	"github.com/wanderstay/location-engine/internal/api/mapsearch"
	"github.com/wanderstay/location-engine/internal/types"
)

// Handler is the thin HTTP shim over the places service. It only parses
// and validates parameters; all search logic lives in the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SearchPlaces handles GET /places/search.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))
	l.DebugContext(ctx, "Search places handler invoked")

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	lat, err := api.FloatQuery(r, "lat")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lng, err := api.FloatQuery(r, "lng")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if (lat == nil) != (lng == nil) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Parameters lat and lng must be supplied together")
		return
	}
	radius, err := api.FloatQuery(r, "radius")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := api.IntQuery(r, "limit", 0)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params := types.SearchParams{
		Query:     query,
		Latitude:  lat,
		Longitude: lng,
		Limit:     limit,
		Language:  r.URL.Query().Get("language"),
		OpenNow:   api.BoolQuery(r, "open_now"),
		Category:  r.URL.Query().Get("category"),
	}
	if radius != nil {
		params.RadiusMeters = *radius
	}

	result, err := h.service.SearchPlaces(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search places", slog.Any("error", err))
		span.RecordError(err)
		writeSearchError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Place search completed", slog.Int("results", len(result.Places)))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// SearchNearbyPlaces handles GET /places/nearby.
func (h *Handler) SearchNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchNearbyPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/nearby"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchNearbyPlaces"))
	l.DebugContext(ctx, "Search nearby places handler invoked")

	lat, err := api.FloatQuery(r, "lat")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lng, err := api.FloatQuery(r, "lng")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if lat == nil || lng == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Parameters lat and lng are required")
		return
	}
	radius, err := api.FloatQuery(r, "radius")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := api.IntQuery(r, "limit", 0)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var categories []string
	for _, c := range strings.Split(r.URL.Query().Get("categories"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	params := types.NearbyParams{
		Latitude:   *lat,
		Longitude:  *lng,
		City:       r.URL.Query().Get("city"),
		Categories: categories,
		Limit:      limit,
		Language:   r.URL.Query().Get("language"),
	}
	if radius != nil {
		params.RadiusMeters = *radius
	}

	result, err := h.service.SearchNearbyPlaces(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search nearby places", slog.Any("error", err))
		span.RecordError(err)
		writeSearchError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Nearby search completed", slog.Int("results", len(result.Places)))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// writeSearchError maps engine errors onto HTTP statuses: provider
// failures are upstream errors, a missing key is our misconfiguration.
func writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *mapsearch.StatusError
	switch {
	case errors.Is(err, mapsearch.ErrMissingAPIKey):
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Search provider is not configured")
	case errors.As(err, &statusErr):
		api.ErrorResponse(w, r, http.StatusBadGateway, "Search provider request failed")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search places")
	}
}
