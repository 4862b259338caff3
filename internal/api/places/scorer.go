package places

import "math"

// Sub-score weights and neutral floors for absent signals. Every missing
// signal still contributes its floor, so a score is never exactly zero.
const (
	ratingWeight    = 0.5
	ratingNeutral   = 0.2
	reviewWeight    = 0.2
	reviewNeutral   = 0.05
	reviewSaturate  = 1000.0
	distanceWeight  = 0.2
	distanceNeutral = 0.05
	distanceCeiling = 5000.0
	positionWeight  = 0.1
	positionNeutral = 0.05
	positionStep    = 0.05

	// minScore keeps a worst-case listing rankable instead of flatlining
	// at zero when every present signal bottoms out.
	minScore = 0.15
)

// relevanceScore combines rating, review count, distance and provider rank
// into a single value in [0.15, 1.0]. Each signal is clipped into its own
// bounded sub-score before summing, so no signal can exceed its weight.
func relevanceScore(rating *float64, reviewCount *int, distanceMeters *float64, position *int) float64 {
	score := ratingNeutral
	if rating != nil {
		score = (*rating / 5) * ratingWeight
	}

	if reviewCount != nil {
		score += math.Min(float64(*reviewCount)/reviewSaturate, 1) * reviewWeight
	} else {
		score += reviewNeutral
	}

	if distanceMeters != nil {
		score += math.Max(0, 1-math.Min(*distanceMeters, distanceCeiling)/distanceCeiling) * distanceWeight
	} else {
		score += distanceNeutral
	}

	if position != nil {
		score += math.Max(0, 1-float64(*position-1)*positionStep) * positionWeight
	} else {
		score += positionNeutral
	}

	return math.Round(math.Max(score, minScore)*1000) / 1000
}
