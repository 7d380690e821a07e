package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// Repository stores detection output and per-collection preferences.
type Repository interface {
	// SaveGroups replaces a collection's detection output atomically.
	// Groups with fewer than two versions are never persisted.
	SaveGroups(ctx context.Context, collectionID string, groups []*models.DuplicateGroup) error

	// GetGroups returns a collection's persisted groups, newest first
	GetGroups(ctx context.Context, collectionID string) ([]*models.DuplicateGroup, error)

	// GetGroup returns a single group by id
	GetGroup(ctx context.Context, id uuid.UUID) (*models.DuplicateGroup, error)

	// UpdateGroup persists changes to a group (review status, primary)
	UpdateGroup(ctx context.Context, group *models.DuplicateGroup) error

	// DeleteGroup removes a group
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	// GetPreferences returns a collection's preferences, falling back to
	// the stock defaults when none are stored
	GetPreferences(ctx context.Context, collectionID string) (*models.LibraryPreferences, error)

	// SavePreferences upserts a collection's preferences
	SavePreferences(ctx context.Context, prefs *models.LibraryPreferences) error
}

// AuditLog appends deletion audit records for the deletion workflow.
type AuditLog interface {
	Append(ctx context.Context, record *models.DeletionAudit) error
}
