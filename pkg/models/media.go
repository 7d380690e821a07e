package models

import (
	"strings"
	"time"
)

// Provider keys as the catalog reports them.
const (
	ProviderIMDb = "Imdb"
	ProviderTMDb = "Tmdb"
	ProviderTVDb = "Tvdb"
)

// MediaItem is a read-only snapshot of a catalog item. The catalog owns it;
// the detector never mutates one.
type MediaItem struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	ProductionYear  *int              `json:"production_year,omitempty"`
	ProviderIDs     map[string]string `json:"provider_ids,omitempty"`
	RuntimeMinutes  *int              `json:"runtime_minutes,omitempty"`
	Genres          []string          `json:"genres,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	People          []string          `json:"people,omitempty"`
	CommunityRating *float64          `json:"community_rating,omitempty"`
	PremiereDate    *time.Time        `json:"premiere_date,omitempty"`
	Studios         []string          `json:"studios,omitempty"`
	Overview        string            `json:"overview,omitempty"`
	Path            string            `json:"path,omitempty"`
	Streams         StreamDescriptor  `json:"streams"`
}

// StreamDescriptor carries the raw technical stream attributes of an item's
// primary video and audio streams.
type StreamDescriptor struct {
	VideoWidth    int    `json:"video_width,omitempty"`
	VideoHeight   int    `json:"video_height,omitempty"`
	VideoCodec    string `json:"video_codec,omitempty"`
	VideoProfile  string `json:"video_profile,omitempty"`
	VideoRange    string `json:"video_range,omitempty"`
	VideoBitRate  int    `json:"video_bit_rate,omitempty"`
	AudioCodec    string `json:"audio_codec,omitempty"`
	AudioChannels int    `json:"audio_channels,omitempty"`
}

// ProviderID returns the item's ID for a provider key, case-insensitively.
func (m *MediaItem) ProviderID(provider string) string {
	for k, v := range m.ProviderIDs {
		if strings.EqualFold(k, provider) {
			return v
		}
	}
	return ""
}
