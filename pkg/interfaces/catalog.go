package interfaces

import (
	"context"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Catalog is the narrow view of the media server the duplicate detector
// depends on. Implementations must return movies and episodes recursively
// under a collection; the detector never mutates what they return.
type Catalog interface {
	// ListItems returns all candidate items under a collection
	ListItems(ctx context.Context, collectionID string) ([]*models.MediaItem, error)

	// ResolveItem looks up a single item by its catalog identifier.
	// Returns a NotFound error when the item no longer exists.
	ResolveItem(ctx context.Context, itemID string) (*models.MediaItem, error)

	// GetPeople returns the names of people (cast and crew) attached to an item
	GetPeople(ctx context.Context, itemID string) ([]string, error)
}
