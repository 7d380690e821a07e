package models

import "time"

// DefaultSimilarityThreshold is the score two items must reach to be
// considered the same title.
const DefaultSimilarityThreshold = 50

// LibraryPreferences is the per-collection configuration the detector
// consumes. Priority lists are ordered most-preferred first. The deletion
// policy fields are carried for the deletion service and are not interpreted
// by the scoring or merge logic.
type LibraryPreferences struct {
	CollectionID         string   `json:"collection_id"          gorm:"primaryKey"`
	ResolutionPriority   []string `json:"resolution_priority"    gorm:"serializer:json"`
	DynamicRangePriority []string `json:"dynamic_range_priority" gorm:"serializer:json"`
	CodecPriority        []string `json:"codec_priority"         gorm:"serializer:json"`
	AudioPriority        []string `json:"audio_priority"         gorm:"serializer:json"`
	SourceTypePriority   []string `json:"source_type_priority"   gorm:"serializer:json"`
	SimilarityThreshold  int      `json:"similarity_threshold"   gorm:"default:50"`

	// Deletion policy passthrough
	AutoDelete          bool   `json:"auto_delete"`
	MinQualityThreshold string `json:"min_quality_threshold,omitempty"`
	RequireManualReview bool   `json:"require_manual_review"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (LibraryPreferences) TableName() string {
	return "library_preferences"
}

// DefaultLibraryPreferences returns the stock preference lists for a
// collection.
func DefaultLibraryPreferences(collectionID string) *LibraryPreferences {
	return &LibraryPreferences{
		CollectionID:         collectionID,
		ResolutionPriority:   []string{"2160p", "1440p", "1080p", "720p", "576p", "480p"},
		DynamicRangePriority: []string{"Dolby Vision", "HDR10+", "HDR10", "HLG", "SDR"},
		CodecPriority:        []string{"AV1", "HEVC", "H.264", "VP9", "MPEG-4"},
		AudioPriority: []string{
			"Dolby Atmos", "DTS:X", "TrueHD 7.1", "TrueHD 5.1",
			"DTS-HD MA 7.1", "DTS-HD MA 5.1", "AC3 5.1", "AAC Stereo",
		},
		SourceTypePriority:  []string{"Remux", "BluRay", "WEB-DL", "WEBRip", "HDTV", "DVDRip"},
		SimilarityThreshold: DefaultSimilarityThreshold,
		RequireManualReview: true,
	}
}
