package types

import (
	"bytes"
	"encoding/json"
)

// MapsSearchResponse is the raw payload of one maps_search provider call.
// Search mode fills LocalResults, geocode mode fills PlaceResult; both may
// be absent and absent arrays are treated as empty throughout.
type MapsSearchResponse struct {
	LocalResults     []LocalResult     `json:"local_results"`
	PlaceResult      *LocalResult      `json:"place_results"`
	RelatedQuestions []RelatedQuestion `json:"related_questions"`
}

// LocalResult is one loosely-typed provider record. Every field except
// Title is optional on the wire.
type LocalResult struct {
	Title            string            `json:"title"`
	PlaceID          string            `json:"place_id"`
	DataID           string            `json:"data_id"`
	Position         *int              `json:"position,omitempty"`
	Address          *string           `json:"address,omitempty"`
	Type             *string           `json:"type,omitempty"`
	Types            []string          `json:"types,omitempty"`
	Rating           *float64          `json:"rating,omitempty"`
	Reviews          *int              `json:"reviews,omitempty"`
	PriceLevel       *PriceValue       `json:"price_level,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Website          *string           `json:"website,omitempty"`
	OpenState        *string           `json:"open_state,omitempty"`
	GPSCoordinates   *Coordinates      `json:"gps_coordinates,omitempty"`
	Hours            []string          `json:"hours,omitempty"`
	OperatingHours   *OperatingHours   `json:"operating_hours,omitempty"`
	Distance         *string           `json:"distance,omitempty"`
	Thumbnail        *string           `json:"thumbnail,omitempty"`
	Description      *string           `json:"description,omitempty"`
	EditorialSummary *EditorialSummary `json:"editorial_summary,omitempty"`
}

type OperatingHours struct {
	WeekdayText []string `json:"weekday_text"`
}

type EditorialSummary struct {
	Overview string `json:"overview"`
}

type RelatedQuestion struct {
	Question string `json:"question"`
}

// PriceValue absorbs the provider's price_level field, which arrives either
// as a numeric level or as a string of currency symbols ("$$$"). Unexpected
// shapes decode to an empty value instead of failing the whole response.
type PriceValue struct {
	Numeric *int
	Raw     string
}

func (p *PriceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			p.Raw = s
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		p.Numeric = &n
	}
	return nil
}

func (p PriceValue) MarshalJSON() ([]byte, error) {
	if p.Numeric != nil {
		return json.Marshal(*p.Numeric)
	}
	return json.Marshal(p.Raw)
}
