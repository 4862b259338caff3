package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderstay/location-engine/internal/types"
)

func strPtr(s string) *string { return &s }

func TestNormalizePlace_IDFallbackChain(t *testing.T) {
	t.Run("place id preferred", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", PlaceID: "pid-1", DataID: "did-1"}, 0, nil, "")
		assert.Equal(t, "pid-1", p.ID)
	})
	t.Run("data id second", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", DataID: "did-1"}, 0, nil, "")
		assert.Equal(t, "did-1", p.ID)
	})
	t.Run("positional placeholder last", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A"}, 4, nil, "")
		assert.Equal(t, "place-5", p.ID)
	})
}

func TestNormalizePlace_Distance(t *testing.T) {
	origin := &types.Coordinates{Latitude: 21.0285, Longitude: 105.8048}

	t.Run("haversine from origin takes precedence over provider string", func(t *testing.T) {
		raw := types.LocalResult{
			Title:          "Hoan Kiem Lake",
			GPSCoordinates: &types.Coordinates{Latitude: 21.0288, Longitude: 105.8525},
			Distance:       strPtr("99 km"), // bogus provider value, must be ignored
		}
		p := normalizePlace(raw, 0, origin, "attraction")
		require.NotNil(t, p.DistanceMeters)
		// ~4.9km east along the same latitude
		assert.InDelta(t, 4950, *p.DistanceMeters, 150)
		require.NotNil(t, p.DisplayDistance)
		assert.NotEqual(t, "99 km", *p.DisplayDistance)
	})

	t.Run("provider string parsed without origin", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Distance: strPtr("1.2 km")}, 0, nil, "")
		require.NotNil(t, p.DistanceMeters)
		assert.Equal(t, 1200.0, *p.DistanceMeters)
		require.NotNil(t, p.DisplayDistance)
		assert.Equal(t, "1.2 km", *p.DisplayDistance)
	})

	t.Run("meter string", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Distance: strPtr("350 m")}, 0, nil, "")
		require.NotNil(t, p.DistanceMeters)
		assert.Equal(t, 350.0, *p.DistanceMeters)
	})

	t.Run("unparseable string kept as display only", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Distance: strPtr("right around the corner")}, 0, nil, "")
		assert.Nil(t, p.DistanceMeters)
		require.NotNil(t, p.DisplayDistance)
		assert.Equal(t, "right around the corner", *p.DisplayDistance)
	})

	t.Run("no signals at all", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A"}, 0, nil, "")
		assert.Nil(t, p.DistanceMeters)
		assert.Nil(t, p.DisplayDistance)
	})
}

func TestParseProviderDistance(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"1.2 km", floatPtr(1200)},
		{"350 m", floatPtr(350)},
		{"2km", floatPtr(2000)},
		{"0.5 KM", floatPtr(500)},
		{"1,5 km", floatPtr(1500)},
		{"nearby", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseProviderDistance(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got, "input %q", tt.in)
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "350 m", formatDistance(350.4))
	assert.Equal(t, "999 m", formatDistance(999.2))
	assert.Equal(t, "1.2 km", formatDistance(1200))
	assert.Equal(t, "12.3 km", formatDistance(12345))
}

func TestParsePriceLevel(t *testing.T) {
	t.Run("numeric passes through", func(t *testing.T) {
		got := parsePriceLevel(types.PriceValue{Numeric: intPtr(3)})
		require.NotNil(t, got)
		assert.Equal(t, 3, *got)
	})
	t.Run("dollar signs counted", func(t *testing.T) {
		got := parsePriceLevel(types.PriceValue{Raw: "$$"})
		require.NotNil(t, got)
		assert.Equal(t, 2, *got)
	})
	t.Run("no dollar signs means unknown, not free", func(t *testing.T) {
		assert.Nil(t, parsePriceLevel(types.PriceValue{Raw: "moderate"}))
	})
}

func TestNormalizePlace_CategoryFallback(t *testing.T) {
	t.Run("resolved category wins", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Type: strPtr("Noodle shop")}, 0, nil, "restaurant")
		assert.Equal(t, "restaurant", p.Category)
	})
	t.Run("provider type as fallback", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Type: strPtr("Noodle shop")}, 0, nil, "")
		assert.Equal(t, "Noodle shop", p.Category)
	})
	t.Run("first of types list as last resort", func(t *testing.T) {
		p := normalizePlace(types.LocalResult{Title: "A", Types: []string{"cafe", "bakery"}}, 0, nil, "")
		assert.Equal(t, "cafe", p.Category)
	})
}

func TestNormalizePlace_OptionalFields(t *testing.T) {
	raw := types.LocalResult{
		Title:            "Bún Chả Hương Liên",
		PlaceID:          "pid-9",
		Rating:           floatPtr(4.4),
		Reviews:          intPtr(9100),
		Phone:            strPtr("+84 24 3943 4106"),
		OpenState:        strPtr("Open"),
		OperatingHours:   &types.OperatingHours{WeekdayText: []string{"Monday: 8AM-8PM"}},
		EditorialSummary: &types.EditorialSummary{Overview: "Famous bun cha spot"},
	}
	p := normalizePlace(raw, 0, nil, "restaurant")

	assert.Equal(t, "Bún Chả Hương Liên", p.Name)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 4.4, *p.Rating)
	assert.Equal(t, []string{"Monday: 8AM-8PM"}, p.WorkingHours)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Famous bun cha spot", *p.Description)
	require.NotNil(t, p.MapsURL)
	assert.Equal(t, "https://www.google.com/maps/place/?q=place_id:pid-9", *p.MapsURL)
	assert.Nil(t, p.Address)
	assert.Nil(t, p.Website)
	assert.Nil(t, p.PriceLevel)
	assert.InDelta(t, 0.74, p.RelevanceScore, 0.0001)
}

func TestHaversineMeters(t *testing.T) {
	hanoi := types.Coordinates{Latitude: 21.0285, Longitude: 105.8048}

	t.Run("zero distance to itself", func(t *testing.T) {
		assert.InDelta(t, 0, haversineMeters(hanoi, hanoi), 0.001)
	})

	t.Run("hanoi to da nang", func(t *testing.T) {
		daNang := types.Coordinates{Latitude: 16.0544, Longitude: 108.2022}
		// ~608 km great-circle
		assert.InDelta(t, 608000, haversineMeters(hanoi, daNang), 5000)
	})

	t.Run("symmetric", func(t *testing.T) {
		other := types.Coordinates{Latitude: 21.0, Longitude: 105.9}
		assert.InDelta(t, haversineMeters(hanoi, other), haversineMeters(other, hanoi), 0.001)
	})
}
