package places

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// category is one entry of the fixed search taxonomy. Keywords are stored
// lower-cased and diacritics-free; fallback is appended to ambiguous
// queries to steer the provider toward the category.
type category struct {
	name     string
	fallback string
	keywords []string
}

// taxonomy is scanned in declaration order and the first keyword hit wins,
// so the order below is part of the classifier's observable behavior.
var taxonomy = []category{
	{
		name:     "restaurant",
		fallback: "restaurants",
		keywords: []string{"nha hang", "quan an", "quan nhau", "an uong", "bun", "pho", "banh mi", "com tam", "restaurant", "food", "eat"},
	},
	{
		name:     "cafe",
		fallback: "cafes",
		keywords: []string{"ca phe", "cafe", "coffee", "tra sua", "tra chanh"},
	},
	{
		name:     "bar",
		fallback: "bars",
		keywords: []string{"bar", "pub", "bia hoi", "beer", "cocktail"},
	},
	{
		name:     "attraction",
		fallback: "attractions",
		keywords: []string{"tham quan", "du lich", "danh lam", "bao tang", "chua", "den ", "attraction", "museum", "temple", "sightseeing"},
	},
	{
		name:     "transport",
		fallback: "transport",
		keywords: []string{"xe buyt", "ben xe", "ga tau", "san bay", "bus", "train", "airport", "taxi", "metro"},
	},
	{
		name:     "shopping",
		fallback: "shopping",
		keywords: []string{"mua sam", "sieu thi", "cho dem", "trung tam thuong mai", "shopping", "mall", "market"},
	},
	{
		name:     "spa",
		fallback: "spas",
		keywords: []string{"spa", "massage", "lam dep", "salon"},
	},
	{
		name:     "pharmacy",
		fallback: "pharmacy",
		keywords: []string{"nha thuoc", "hieu thuoc", "pharmacy", "drugstore"},
	},
	{
		name:     "hospital",
		fallback: "hospital",
		keywords: []string{"benh vien", "phong kham", "hospital", "clinic", "bac si"},
	},
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeQuery lower-cases, trims and strips diacritics so Vietnamese
// and English keywords match the same way. The đ/Đ pair is not a combining
// mark and needs its own replacement.
func normalizeQuery(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	folded, _, err := transform.String(diacriticsFold, query)
	if err != nil {
		folded = query
	}
	return strings.ReplaceAll(folded, "đ", "d")
}

// classifyQuery maps a free-text query onto the taxonomy. An explicit
// override wins verbatim (lower-cased) and carries no fallback keyword.
// Otherwise the first category with a matching keyword wins; an empty
// category means the query stayed unclassified. Never fails.
func classifyQuery(query, override string) (name, fallback string) {
	if override != "" {
		return strings.ToLower(override), ""
	}
	normalized := normalizeQuery(query)
	for _, cat := range taxonomy {
		for _, kw := range cat.keywords {
			if strings.Contains(normalized, kw) {
				return cat.name, cat.fallback
			}
		}
	}
	return "", ""
}

// resolveQuery appends the category fallback keyword unless it is empty or
// already present in the query, keeping resolved queries free of redundant
// steering terms.
func resolveQuery(query, fallback string) string {
	if fallback == "" || strings.Contains(strings.ToLower(query), fallback) {
		return query
	}
	return query + " " + fallback
}
