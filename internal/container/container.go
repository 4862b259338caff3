package container

import (
	"log/slog"
	"os"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wanderstay/location-engine/app/observability/metrics"
	"github.com/wanderstay/location-engine/config"
	"github.com/wanderstay/location-engine/internal/api/geocode"
	"github.com/wanderstay/location-engine/internal/api/mapsearch"
	"github.com/wanderstay/location-engine/internal/api/places"
	"github.com/wanderstay/location-engine/internal/api/recents"
	"github.com/wanderstay/location-engine/internal/cache"
)

// Container wires the engine's dependencies together: caches, the provider
// client, services and handlers.
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	SearchCache    *cache.Cache
	GeocodeCache   *gocache.Cache
	Recents        *recents.Tracker
	PlacesHandler  *places.Handler
	GeocodeHandler *geocode.Handler
	RecentsHandler *recents.Handler
}

// NewContainer builds all application dependencies. The provider API key is
// read from MAPS_API_KEY; an empty key is tolerated here and only fails
// when a provider call is attempted.
func NewContainer(cfg *config.Config, logger *slog.Logger) *Container {
	m := metrics.Get()

	searchCache := cache.New(cfg.Cache.SearchMaxEntries)
	// Geocode entries expire lazily on read; no janitor goroutine.
	geocodeCache := gocache.New(cfg.Cache.GeocodeTTL, 0)
	tracker := recents.NewTracker(cfg.Nearby.RecentSearches)

	client := mapsearch.NewClient(os.Getenv("MAPS_API_KEY"), cfg.Provider.BaseURL, cfg.Provider.Country, logger, m)

	placesService := places.NewServiceImpl(client, searchCache, tracker, m, cfg.Cache.SearchTTL, cfg.Nearby.FanOut, logger)
	geocodeService := geocode.NewServiceImpl(client, geocodeCache, m, cfg.Cache.GeocodeTTL, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		SearchCache:    searchCache,
		GeocodeCache:   geocodeCache,
		Recents:        tracker,
		PlacesHandler:  places.NewHandler(placesService, logger),
		GeocodeHandler: geocode.NewHandler(geocodeService, logger),
		RecentsHandler: recents.NewHandler(tracker, logger),
	}
}
