package domain

import (
	"strings"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Similarity signal weights. The score is the raw sum of the matched signals
// (140 max) and is compared directly against the collection's threshold.
const (
	scoreTitleMatch    = 30
	scoreYearExact     = 20
	scoreYearAdjacent  = 10
	scoreIMDbMatch     = 40
	scoreTMDbMatch     = 40
	scoreRuntimeClose  = 10
	runtimeToleranceMin = 5
)

// Similarity computes the match score between two items. Each signal is
// evaluated independently; missing data contributes nothing. The function is
// symmetric in its arguments.
func Similarity(a, b *models.MediaItem) int {
	score := 0

	if ta, tb := NormalizeTitle(a.Name), NormalizeTitle(b.Name); ta != "" && ta == tb {
		score += scoreTitleMatch
	}

	if a.ProductionYear != nil && b.ProductionYear != nil {
		switch diff := absInt(*a.ProductionYear - *b.ProductionYear); diff {
		case 0:
			score += scoreYearExact
		case 1:
			score += scoreYearAdjacent
		}
	}

	if providerIDsMatch(a, b, models.ProviderIMDb) {
		score += scoreIMDbMatch
	}
	if providerIDsMatch(a, b, models.ProviderTMDb) {
		score += scoreTMDbMatch
	}

	if a.RuntimeMinutes != nil && b.RuntimeMinutes != nil {
		if absInt(*a.RuntimeMinutes-*b.RuntimeMinutes) <= runtimeToleranceMin {
			score += scoreRuntimeClose
		}
	}

	return score
}

func providerIDsMatch(a, b *models.MediaItem, provider string) bool {
	ida, idb := a.ProviderID(provider), b.ProviderID(provider)
	return ida != "" && idb != "" && strings.EqualFold(ida, idb)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
