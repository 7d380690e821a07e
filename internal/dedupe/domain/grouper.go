package domain

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Grouper partitions a collection's items into duplicate groups using the
// similarity scorer and a threshold.
type Grouper struct {
	logger interfaces.Logger
}

// NewGrouper creates a new grouper.
func NewGrouper(logger interfaces.Logger) *Grouper {
	return &Grouper{logger: logger}
}

// FindGroups buckets items by normalized title and forms a group from every
// bucket whose members score at or above the threshold against at least one
// other member. Membership is edge-driven: an item joins the candidate set as
// soon as any single pairing clears the threshold, without requiring full
// mutual similarity across the set.
func (g *Grouper) FindGroups(collectionID string, items []*models.MediaItem, threshold int) []*models.DuplicateGroup {
	type bucket struct {
		key   string
		items []*models.MediaItem
	}

	index := make(map[string]int)
	var buckets []*bucket

	for _, item := range items {
		key := NormalizeTitle(item.Name)
		if key == "" {
			g.logger.Debug("Skipping item with empty normalized title",
				interfaces.String("item_id", item.ID))
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, &bucket{key: key})
		}
		buckets[i].items = append(buckets[i].items, item)
	}

	var groups []*models.DuplicateGroup
	for _, b := range buckets {
		if len(b.items) < 2 {
			continue
		}

		matched := make([]bool, len(b.items))
		for i := 0; i < len(b.items); i++ {
			for j := i + 1; j < len(b.items); j++ {
				if Similarity(b.items[i], b.items[j]) >= threshold {
					matched[i] = true
					matched[j] = true
				}
			}
		}

		var candidates []*models.MediaItem
		for i, ok := range matched {
			if ok {
				candidates = append(candidates, b.items[i])
			}
		}
		if len(candidates) < 2 {
			continue
		}

		group := &models.DuplicateGroup{
			ID:               uuid.New(),
			CollectionID:     collectionID,
			PrimaryVersionID: candidates[0].ID,
			DetectedAt:       time.Now().UTC(),
			ReviewStatus:     models.ReviewStatusPending,
		}
		for _, item := range candidates {
			group.Versions = append(group.Versions, models.VersionRecord{
				ItemID:   item.ID,
				Path:     item.Path,
				FileSize: g.fileSize(item.Path),
			})
		}
		groups = append(groups, group)
	}

	return groups
}

// fileSize stats the file behind an item. An unreachable file is not fatal;
// the size is simply reported as 0.
func (g *Grouper) fileSize(path string) int64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		g.logger.Warn("Failed to stat media file",
			interfaces.String("path", path),
			interfaces.Error(err))
		return 0
	}
	return info.Size()
}
