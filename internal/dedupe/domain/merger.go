package domain

import (
	"strings"

	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Field names recorded against the versions that contributed them.
const (
	fieldTitle       = "title"
	fieldGenres      = "genres"
	fieldTags        = "tags"
	fieldPeople      = "people"
	fieldStudios     = "studios"
	fieldRating      = "rating"
	fieldReleaseDate = "release_date"
	fieldProviderIDs = "provider_ids"
	fieldDescription = "description"
)

// Merger combines descriptive metadata across all members of a group into
// one consolidated record. Merging is idempotent: the same member set always
// reproduces the same result, up to the ordering-insensitive union fields.
type Merger struct {
	logger interfaces.Logger
}

// NewMerger creates a new metadata merger.
func NewMerger(logger interfaces.Logger) *Merger {
	return &Merger{logger: logger}
}

// Merge recomputes the group's merged metadata from the resolved items.
// Members without a resolved item are skipped with a warning; if no member
// resolves, the existing merged metadata is left untouched and
// ErrNoResolvableVersions is returned.
func (m *Merger) Merge(group *models.DuplicateGroup, items map[string]*models.MediaItem) error {
	type member struct {
		version *models.VersionRecord
		item    *models.MediaItem
	}

	var members []member
	for i := range group.Versions {
		v := &group.Versions[i]
		item, ok := items[v.ItemID]
		if !ok || item == nil {
			m.logger.Warn("Skipping unresolvable group member",
				interfaces.String("group_id", group.ID.String()),
				interfaces.String("item_id", v.ItemID))
			continue
		}
		v.ContributedFields = nil
		members = append(members, member{version: v, item: item})
	}
	if len(members) == 0 {
		return ErrNoResolvableVersions
	}

	merged := models.MergedMetadata{
		ProviderIDs: make(map[string]string),
	}

	genres := newStringSet()
	tags := newStringSet()
	people := newStringSet()
	studios := newStringSet()
	descriptions := newStringSet()
	providerKeys := newStringSet()

	var titleOwner *models.VersionRecord
	var releaseOwner *models.VersionRecord
	ratingSum := 0.0
	ratingCount := 0

	for _, mb := range members {
		item := mb.item
		contributed := func(field string) {
			mb.version.ContributedFields = append(mb.version.ContributedFields, field)
		}

		if item.Name != "" && len(item.Name) > len(merged.Title) {
			merged.Title = item.Name
			titleOwner = mb.version
		}

		if genres.addAll(&merged.Genres, item.Genres) {
			contributed(fieldGenres)
		}
		if tags.addAll(&merged.Tags, item.Tags) {
			contributed(fieldTags)
		}
		if people.addAll(&merged.People, item.People) {
			contributed(fieldPeople)
		}
		if studios.addAll(&merged.Studios, item.Studios) {
			contributed(fieldStudios)
		}

		if item.CommunityRating != nil {
			ratingSum += *item.CommunityRating
			ratingCount++
			contributed(fieldRating)
		}

		if item.PremiereDate != nil {
			if merged.ReleaseDate == nil || item.PremiereDate.Before(*merged.ReleaseDate) {
				d := *item.PremiereDate
				merged.ReleaseDate = &d
				releaseOwner = mb.version
			}
		}

		idContributed := false
		for key, value := range item.ProviderIDs {
			if value == "" {
				continue
			}
			if providerKeys.add(key) {
				merged.ProviderIDs[key] = value
				idContributed = true
			}
		}
		if idContributed {
			contributed(fieldProviderIDs)
		}

		if descriptions.addAll(&merged.Descriptions, []string{item.Overview}) {
			contributed(fieldDescription)
		}
	}

	if ratingCount > 0 {
		merged.AverageRating = ratingSum / float64(ratingCount)
	}
	if titleOwner != nil {
		titleOwner.ContributedFields = append(titleOwner.ContributedFields, fieldTitle)
	}
	if releaseOwner != nil {
		releaseOwner.ContributedFields = append(releaseOwner.ContributedFields, fieldReleaseDate)
	}

	group.Merged = merged
	return nil
}

// stringSet tracks case-insensitive membership while preserving first-seen
// casing in the output slice.
type stringSet map[string]bool

func newStringSet() stringSet {
	return make(stringSet)
}

func (s stringSet) add(value string) bool {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" || s[key] {
		return false
	}
	s[key] = true
	return true
}

func (s stringSet) addAll(out *[]string, values []string) bool {
	contributed := false
	for _, v := range values {
		if s.add(v) {
			*out = append(*out, strings.TrimSpace(v))
			contributed = true
		}
	}
	return contributed
}
