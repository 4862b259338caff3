package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wanderstay/location-engine/internal/api/geocode"
	"github.com/wanderstay/location-engine/internal/api/places"
	"github.com/wanderstay/location-engine/internal/api/recents"
)

// Config carries the handlers the router wires up. Server-wide middleware
// (request ID, logger, recoverer) is applied before mounting this router
// in main.go.
type Config struct {
	PlacesHandler  *places.Handler
	GeocodeHandler *geocode.Handler
	RecentsHandler *recents.Handler
}

// SetupRouter builds the engine's HTTP surface. All routes are public;
// authentication belongs to the marketplace gateway in front of this
// service.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/places/search", cfg.PlacesHandler.SearchPlaces)
		r.Get("/places/nearby", cfg.PlacesHandler.SearchNearbyPlaces)
		r.Get("/geocode", cfg.GeocodeHandler.GeocodeAddress)
		r.Get("/searches/recent", cfg.RecentsHandler.ListRecentSearches)
	})

	return r
}
