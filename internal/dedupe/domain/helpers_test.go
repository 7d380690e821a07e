package domain_test

import (
	"time"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// movie builds a minimal item with the fields the scorer reads most.
func movie(id, name string, year int) *models.MediaItem {
	return &models.MediaItem{
		ID:             id,
		Name:           name,
		ProductionYear: intPtr(year),
	}
}
