package domain

import (
	"math"
	"sort"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Category weights for the overall quality score.
const (
	weightResolution   = 0.30
	weightDynamicRange = 0.25
	weightCodec        = 0.20
	weightAudio        = 0.15
	weightSourceType   = 0.10
)

// PriorityScore converts a categorical value into a 0-100 score from its
// position in a preference list (most-preferred first). A value that is
// empty, unknown, or absent from the list scores 0; the last listed position
// still yields a small positive score.
func PriorityScore(value string, list []string) int {
	if value == "" || len(list) == 0 {
		return 0
	}
	for i, v := range list {
		if v == value {
			return int(math.Round(float64(len(list)-i) / float64(len(list)) * 100))
		}
	}
	return 0
}

// ScoreVersions fills each version's technical labels from its resolved item,
// computes the weighted quality score, and orders the group's versions
// descending by score (stable, so ties keep input order). The group primary
// is moved to the top-ranked member unless another component already pointed
// it somewhere other than the creation default.
func ScoreVersions(group *models.DuplicateGroup, items map[string]*models.MediaItem, prefs *models.LibraryPreferences) {
	if len(group.Versions) == 0 {
		return
	}

	// The grouper defaults the primary to the first version it creates.
	primaryIsDefault := group.PrimaryVersionID == "" ||
		group.PrimaryVersionID == group.Versions[0].ItemID

	for i := range group.Versions {
		v := &group.Versions[i]
		if item, ok := items[v.ItemID]; ok && item != nil {
			info := ExtractStreamInfo(item)
			v.Resolution = info.Resolution
			v.DynamicRange = info.DynamicRange
			v.Codec = info.Codec
			v.AudioFormat = info.AudioFormat
			v.AudioChannels = info.AudioChannels
			v.SourceType = info.SourceType
			v.BitRate = item.Streams.VideoBitRate
		}

		score := weightResolution*float64(PriorityScore(v.Resolution, prefs.ResolutionPriority)) +
			weightDynamicRange*float64(PriorityScore(v.DynamicRange, prefs.DynamicRangePriority)) +
			weightCodec*float64(PriorityScore(v.Codec, prefs.CodecPriority)) +
			weightAudio*float64(PriorityScore(v.AudioFormat, prefs.AudioPriority)) +
			weightSourceType*float64(PriorityScore(v.SourceType, prefs.SourceTypePriority))
		v.QualityScore = int(math.Round(score))
	}

	sort.SliceStable(group.Versions, func(i, j int) bool {
		return group.Versions[i].QualityScore > group.Versions[j].QualityScore
	})

	if primaryIsDefault {
		group.PrimaryVersionID = group.Versions[0].ItemID
	}
}
