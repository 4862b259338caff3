package types

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is the engine's normalized view of one provider record. It is
// immutable once built by the normalizer; optional fields stay nil when the
// provider omitted them.
type Place struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	Address         *string      `json:"address,omitempty"`
	Rating          *float64     `json:"rating,omitempty"`
	ReviewCount     *int         `json:"review_count,omitempty"`
	PriceLevel      *int         `json:"price_level,omitempty"`
	PhoneNumber     *string      `json:"phone_number,omitempty"`
	Website         *string      `json:"website,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	DistanceMeters  *float64     `json:"distance_meters,omitempty"`
	DisplayDistance *string      `json:"display_distance,omitempty"`
	OpenState       *string      `json:"open_state,omitempty"`
	WorkingHours    []string     `json:"working_hours,omitempty"`
	Thumbnail       *string      `json:"thumbnail,omitempty"`
	Description     *string      `json:"description,omitempty"`
	MapsURL         *string      `json:"maps_url,omitempty"`
	RelevanceScore  float64      `json:"relevance_score"`
}

// SearchParams carries the effective parameters of one place search.
// Latitude and Longitude are only used when both are set.
type SearchParams struct {
	Query        string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
	Limit        int
	Language     string
	OpenNow      bool
	Category     string // explicit category override, empty = classify
}

// SearchResult is the outcome of one searchPlaces call.
type SearchResult struct {
	Query         string   `json:"query"`
	ResolvedQuery string   `json:"resolved_query"`
	Category      *string  `json:"category,omitempty"`
	Places        []Place  `json:"places"`
	Suggestions   []string `json:"suggestions"`
}

// NearbyParams drives one multi-category search around an origin.
type NearbyParams struct {
	Latitude     float64
	Longitude    float64
	City         string
	Categories   []string
	RadiusMeters float64
	Limit        int
	Language     string
}

// NearbySearchResult holds the merged, deduplicated and globally ranked
// places of a nearby search. Places are not grouped by category.
type NearbySearchResult struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Categories []string `json:"categories"`
	Places     []Place  `json:"places"`
}

// GeocodeParams identifies one address to resolve.
type GeocodeParams struct {
	Address  string
	City     string
	Country  string
	Language string
}

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	Address     *string `json:"address,omitempty"`
	ProviderID  *string `json:"provider_id,omitempty"`
}
