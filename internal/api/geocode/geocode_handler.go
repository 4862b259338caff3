package geocode

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

// GeocodeAddress handles GET /geocode.
func (h *Handler) GeocodeAddress(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GeocodeHandler").Start(r.Context(), "GeocodeAddress", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/geocode"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GeocodeAddress"))
	l.DebugContext(ctx, "Geocode handler invoked")

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter address is required")
		return
	}

	result, err := h.service.GeocodeAddress(ctx, types.GeocodeParams{
		Address:  address,
		City:     r.URL.Query().Get("city"),
		Country:  r.URL.Query().Get("country"),
		Language: r.URL.Query().Get("language"),
	})
	if err != nil {
		span.RecordError(err)
		var statusErr *mapsearch.StatusError
		switch {
		case errors.Is(err, ErrLocationNotFound):
			l.InfoContext(ctx, "Address could not be resolved", slog.String("address", address))
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
		case errors.Is(err, mapsearch.ErrMissingAPIKey):
			l.ErrorContext(ctx, "Geocode failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Search provider is not configured")
		case errors.As(err, &statusErr):
			l.ErrorContext(ctx, "Geocode failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "Search provider request failed")
		default:
			l.ErrorContext(ctx, "Geocode failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to geocode address")
		}
		return
	}

	l.InfoContext(ctx, "Address resolved", slog.String("display_name", result.DisplayName))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
