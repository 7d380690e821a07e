package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus tracks what a human has decided about a detected group.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusReviewed ReviewStatus = "reviewed"
	ReviewStatusIgnored  ReviewStatus = "ignored"
)

// VersionRecord is one member of a duplicate group. ItemID is immutable once
// the record is created; the quality scorer fills the technical labels and
// score, and the merger appends contributed field names.
type VersionRecord struct {
	ItemID            string   `json:"item_id"`
	Path              string   `json:"path"`
	QualityScore      int      `json:"quality_score"`
	Resolution        string   `json:"resolution,omitempty"`
	Codec             string   `json:"codec,omitempty"`
	DynamicRange      string   `json:"dynamic_range,omitempty"`
	AudioFormat       string   `json:"audio_format,omitempty"`
	AudioChannels     string   `json:"audio_channels,omitempty"`
	SourceType        string   `json:"source_type,omitempty"`
	FileSize          int64    `json:"file_size"`
	BitRate           int      `json:"bit_rate,omitempty"`
	ContributedFields []string `json:"contributed_fields,omitempty"`
}

// MergedMetadata is the consolidated descriptive record for a group. It is
// entirely derived; the merger recomputes it from scratch on every run.
type MergedMetadata struct {
	Title         string            `json:"title,omitempty"`
	Genres        []string          `json:"genres,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	People        []string          `json:"people,omitempty"`
	AverageRating float64           `json:"average_rating,omitempty"`
	ReleaseDate   *time.Time        `json:"release_date,omitempty"`
	Studios       []string          `json:"studios,omitempty"`
	ProviderIDs   map[string]string `json:"provider_ids,omitempty"`
	Descriptions  []string          `json:"descriptions,omitempty"`
}

// DuplicateGroup is a set of >=2 versions judged to be the same title.
// PrimaryVersionID always references an ItemID present in Versions.
type DuplicateGroup struct {
	ID               uuid.UUID       `json:"id"                gorm:"type:uuid;primaryKey"`
	CollectionID     string          `json:"collection_id"     gorm:"index;not null"`
	PrimaryVersionID string          `json:"primary_version_id"`
	Versions         []VersionRecord `json:"versions"          gorm:"serializer:json"`
	Merged           MergedMetadata  `json:"merged_metadata"   gorm:"serializer:json"`
	DetectedAt       time.Time       `json:"detected_at"`
	LastReviewedAt   *time.Time      `json:"last_reviewed_at,omitempty"`
	ReviewStatus     ReviewStatus    `json:"review_status"     gorm:"type:varchar(20);default:'pending'"`
}

func (DuplicateGroup) TableName() string {
	return "duplicate_groups"
}

// Version returns the version record for an item id, or nil.
func (g *DuplicateGroup) Version(itemID string) *VersionRecord {
	for i := range g.Versions {
		if g.Versions[i].ItemID == itemID {
			return &g.Versions[i]
		}
	}
	return nil
}
