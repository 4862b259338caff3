package places

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wanderstay/location-engine/internal/types"
)

const earthRadiusMeters = 6371000

var providerDistancePattern = regexp.MustCompile(`(?i)([\d.,]+)\s*(km|m)\b`)

// normalizePlace converts one raw provider record into the internal Place
// model. It is total: missing optional fields stay nil, nothing here can
// fail on malformed input.
func normalizePlace(raw types.LocalResult, index int, origin *types.Coordinates, categoryName string) types.Place {
	place := types.Place{
		Name:        raw.Title,
		Address:     raw.Address,
		Rating:      raw.Rating,
		ReviewCount: raw.Reviews,
		PhoneNumber: raw.Phone,
		Website:     raw.Website,
		OpenState:   raw.OpenState,
		Thumbnail:   raw.Thumbnail,
	}

	switch {
	case raw.PlaceID != "":
		place.ID = raw.PlaceID
	case raw.DataID != "":
		place.ID = raw.DataID
	default:
		place.ID = fmt.Sprintf("place-%d", index+1)
	}

	place.Category = categoryName
	if place.Category == "" {
		switch {
		case raw.Type != nil && *raw.Type != "":
			place.Category = *raw.Type
		case len(raw.Types) > 0:
			place.Category = raw.Types[0]
		}
	}

	if raw.GPSCoordinates != nil {
		coords := *raw.GPSCoordinates
		place.Coordinates = &coords
	}

	// Origin-derived distance is authoritative; the provider's free-text
	// distance string is only a fallback.
	if origin != nil && place.Coordinates != nil {
		d := haversineMeters(*origin, *place.Coordinates)
		place.DistanceMeters = &d
	} else if raw.Distance != nil {
		place.DistanceMeters = parseProviderDistance(*raw.Distance)
	}

	if place.DistanceMeters != nil {
		display := formatDistance(*place.DistanceMeters)
		place.DisplayDistance = &display
	} else if raw.Distance != nil && *raw.Distance != "" {
		place.DisplayDistance = raw.Distance
	}

	if raw.PriceLevel != nil {
		place.PriceLevel = parsePriceLevel(*raw.PriceLevel)
	}

	if len(raw.Hours) > 0 {
		place.WorkingHours = raw.Hours
	} else if raw.OperatingHours != nil {
		place.WorkingHours = raw.OperatingHours.WeekdayText
	}

	if raw.Description != nil && *raw.Description != "" {
		place.Description = raw.Description
	} else if raw.EditorialSummary != nil && raw.EditorialSummary.Overview != "" {
		overview := raw.EditorialSummary.Overview
		place.Description = &overview
	}

	if raw.PlaceID != "" {
		mapsURL := "https://www.google.com/maps/place/?q=place_id:" + raw.PlaceID
		place.MapsURL = &mapsURL
	}

	place.RelevanceScore = relevanceScore(place.Rating, place.ReviewCount, place.DistanceMeters, raw.Position)
	return place
}

// parseProviderDistance extracts meters out of provider strings such as
// "1.2 km" or "350 m". Returns nil when nothing parseable is found.
func parseProviderDistance(s string) *float64 {
	match := providerDistancePattern.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	if strings.EqualFold(match[2], "km") {
		value *= 1000
	}
	return &value
}

// formatDistance renders meters for display: rounded integer meters under
// one kilometer, one-decimal kilometers above.
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// parsePriceLevel passes numeric provider levels through and converts
// currency-symbol strings by counting dollar signs. Zero symbols mean the
// provider sent nothing usable, not a free venue.
func parsePriceLevel(v types.PriceValue) *int {
	if v.Numeric != nil {
		return v.Numeric
	}
	count := strings.Count(v.Raw, "$")
	if count == 0 {
		return nil
	}
	return &count
}

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(a, b types.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
