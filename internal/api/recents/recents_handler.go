package recents

import (
	"log/slog"
	"net/http"

	"github.com/wanderstay/location-engine/internal/api"
)

type Handler struct {
	tracker *Tracker
	logger  *slog.Logger
}

func NewHandler(tracker *Tracker, logger *slog.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		logger:  logger,
	}
}

// ListRecentSearches handles GET /searches/recent.
func (h *Handler) ListRecentSearches(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ListRecentSearches"))

	entries := h.tracker.List()
	if entries == nil {
		entries = []Entry{}
	}

	l.DebugContext(r.Context(), "Listing recent searches", slog.Int("count", len(entries)))
	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
