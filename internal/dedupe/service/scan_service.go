package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/internal/dedupe/repository"
	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

// ScanSummary describes one finished collection scan.
type ScanSummary struct {
	CollectionID string        `json:"collection_id"`
	ItemsScanned int           `json:"items_scanned"`
	GroupsFound  int           `json:"groups_found"`
	Duration     time.Duration `json:"duration"`
}

// ScanService orchestrates duplicate scans: it drives the core pipeline,
// persists the results, and publishes events. At most one scan flow runs the
// core per process; concurrent triggers fail fast with ErrScanInProgress.
type ScanService struct {
	catalog     interfaces.Catalog
	repo        repository.Repository
	eventBus    interfaces.EventBus
	logger      interfaces.Logger
	grouper     *domain.Grouper
	merger      *domain.Merger
	collections []string
	workers     int
	lock        advisoryLock
}

// NewScanService creates a scan service. Workers is clamped to 1-8.
func NewScanService(
	catalog interfaces.Catalog,
	repo repository.Repository,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
	collections []string,
	workers int,
) *ScanService {
	if workers < 1 {
		workers = 1
	}
	if workers > 8 {
		workers = 8
	}
	return &ScanService{
		catalog:     catalog,
		repo:        repo,
		eventBus:    eventBus,
		logger:      logger,
		grouper:     domain.NewGrouper(logger),
		merger:      domain.NewMerger(logger),
		collections: collections,
		workers:     workers,
	}
}

// Scanning reports whether a scan flow currently holds the advisory lock.
func (s *ScanService) Scanning() bool {
	return s.lock.held()
}

// ScanCollection runs the full pipeline for one collection. It returns
// ErrScanInProgress without blocking when another scan flow is active.
func (s *ScanService) ScanCollection(ctx context.Context, collectionID string) (*ScanSummary, error) {
	if !s.lock.acquire() {
		return nil, domain.ErrScanInProgress
	}
	defer s.lock.release()

	return s.scanLocked(ctx, collectionID)
}

// ScanAll scans every configured collection sequentially under a single lock
// acquisition. A failing collection is logged and skipped; the remaining
// collections still run. Cancellation stops the iteration.
func (s *ScanService) ScanAll(ctx context.Context) error {
	if !s.lock.acquire() {
		return domain.ErrScanInProgress
	}
	defer s.lock.release()

	for _, collectionID := range s.collections {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.lock.reenter()
		_, err := s.scanLocked(ctx, collectionID)
		s.lock.release()

		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			s.logger.Error("Collection scan failed",
				interfaces.String("collection_id", collectionID),
				interfaces.Error(err))
		}
	}
	return nil
}

// scanLocked is the pipeline body. The caller must hold the advisory lock.
func (s *ScanService) scanLocked(ctx context.Context, collectionID string) (*ScanSummary, error) {
	started := time.Now()
	log := s.logger.WithFields(interfaces.String("collection_id", collectionID))
	log.Info("Starting duplicate scan")

	prefs, err := s.repo.GetPreferences(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.ListItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	groups := s.grouper.FindGroups(collectionID, items, prefs.SimilarityThreshold)
	log.Info("Grouping complete",
		interfaces.Int("items", len(items)),
		interfaces.Int("candidate_groups", len(groups)))

	kept := make([]*models.DuplicateGroup, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, group := range groups {
		// Cancellation is cooperative: checked between groups, never
		// inside one, so a group is always processed whole or not at all.
		if err := gctx.Err(); err != nil {
			break
		}
		i, group := i, group
		g.Go(func() error {
			if s.processGroup(gctx, group, prefs) {
				kept[i] = group
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Partially-completed work is discarded, not persisted.
		log.Warn("Scan cancelled, discarding results")
		return nil, err
	}

	var result []*models.DuplicateGroup
	for _, group := range kept {
		if group != nil {
			result = append(result, group)
		}
	}

	if err := s.repo.SaveGroups(ctx, collectionID, result); err != nil {
		return nil, err
	}

	for _, group := range result {
		s.eventBus.PublishAsync(ctx, domain.NewGroupDetectedEvent(group))
	}

	summary := &ScanSummary{
		CollectionID: collectionID,
		ItemsScanned: len(items),
		GroupsFound:  len(result),
		Duration:     time.Since(started),
	}
	s.eventBus.PublishAsync(ctx, domain.NewScanCompletedEvent(
		summary.CollectionID, summary.ItemsScanned, summary.GroupsFound, summary.Duration))

	log.Info("Duplicate scan finished",
		interfaces.Int("groups", summary.GroupsFound),
		interfaces.Any("duration", summary.Duration))
	return summary, nil
}

// processGroup resolves the group's members, scores them, and merges their
// metadata. It reports whether the group survived; a group that collapses
// below two resolvable members is dropped.
func (s *ScanService) processGroup(ctx context.Context, group *models.DuplicateGroup, prefs *models.LibraryPreferences) bool {
	resolved := make(map[string]*models.MediaItem, len(group.Versions))
	for _, v := range group.Versions {
		item, err := s.catalog.ResolveItem(ctx, v.ItemID)
		if err != nil {
			s.logger.Warn("Failed to resolve group member",
				interfaces.String("group_id", group.ID.String()),
				interfaces.String("item_id", v.ItemID),
				interfaces.Error(err))
			continue
		}
		if people, err := s.catalog.GetPeople(ctx, v.ItemID); err != nil {
			s.logger.Warn("Failed to fetch people for item",
				interfaces.String("item_id", v.ItemID),
				interfaces.Error(err))
		} else {
			item.People = people
		}
		resolved[v.ItemID] = item
	}

	if len(resolved) < 2 {
		s.logger.Warn("Dropping group with fewer than two resolvable members",
			interfaces.String("group_id", group.ID.String()),
			interfaces.Int("resolved", len(resolved)))
		return false
	}

	domain.ScoreVersions(group, resolved, prefs)
	if err := s.merger.Merge(group, resolved); err != nil {
		s.logger.Warn("Metadata merge failed",
			interfaces.String("group_id", group.ID.String()),
			interfaces.Error(err))
		return false
	}
	return true
}
