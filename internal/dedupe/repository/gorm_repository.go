package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/nautilusmedia/dedupe/pkg/errors"
	"github.com/nautilusmedia/dedupe/pkg/models"
	pkgrepo "github.com/nautilusmedia/dedupe/pkg/repository"
)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// SaveGroups replaces the collection's detection output in one transaction.
func (r *GormRepository) SaveGroups(ctx context.Context, collectionID string, groups []*models.DuplicateGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", collectionID).
			Delete(&models.DuplicateGroup{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous groups: %w", err)
		}
		for _, group := range groups {
			if len(group.Versions) < 2 {
				continue
			}
			if err := tx.Create(group).Error; err != nil {
				return fmt.Errorf("failed to persist group %s: %w", group.ID, err)
			}
		}
		return nil
	})
}

// GetGroups returns the collection's persisted groups, newest first.
func (r *GormRepository) GetGroups(ctx context.Context, collectionID string) ([]*models.DuplicateGroup, error) {
	var groups []*models.DuplicateGroup
	if err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("detected_at DESC").
		Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// GetGroup returns a single group by id.
func (r *GormRepository) GetGroup(ctx context.Context, id uuid.UUID) (*models.DuplicateGroup, error) {
	return pkgrepo.FindByID[models.DuplicateGroup](ctx, r.db, id)
}

// UpdateGroup persists changes to a group.
func (r *GormRepository) UpdateGroup(ctx context.Context, group *models.DuplicateGroup) error {
	return pkgrepo.Save(ctx, r.db, group)
}

// DeleteGroup removes a group.
func (r *GormRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return pkgrepo.Delete[models.DuplicateGroup](ctx, r.db, id)
}

// GetPreferences returns the stored preferences for a collection, or the
// stock defaults when none are stored.
func (r *GormRepository) GetPreferences(ctx context.Context, collectionID string) (*models.LibraryPreferences, error) {
	prefs, err := pkgrepo.FindOneBy[models.LibraryPreferences](ctx, r.db, "collection_id = ?", collectionID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return models.DefaultLibraryPreferences(collectionID), nil
		}
		return nil, err
	}
	return prefs, nil
}

// SavePreferences upserts a collection's preferences.
func (r *GormRepository) SavePreferences(ctx context.Context, prefs *models.LibraryPreferences) error {
	return pkgrepo.Save(ctx, r.db, prefs)
}
