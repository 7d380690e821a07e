package domain

import (
	"time"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// GroupDetectedEvent is published for every duplicate group a scan persists
type GroupDetectedEvent struct {
	Group     *models.DuplicateGroup
	timestamp int64
}

func NewGroupDetectedEvent(group *models.DuplicateGroup) *GroupDetectedEvent {
	return &GroupDetectedEvent{
		Group:     group,
		timestamp: time.Now().Unix(),
	}
}

func (e *GroupDetectedEvent) EventType() string {
	return "dedupe.group.detected"
}

func (e *GroupDetectedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *GroupDetectedEvent) AggregateID() string {
	return e.Group.ID.String()
}

// ScanCompletedEvent is published when a collection scan finishes
type ScanCompletedEvent struct {
	CollectionID string
	ItemsScanned int
	GroupsFound  int
	Duration     time.Duration
	timestamp    int64
}

func NewScanCompletedEvent(collectionID string, itemsScanned, groupsFound int, duration time.Duration) *ScanCompletedEvent {
	return &ScanCompletedEvent{
		CollectionID: collectionID,
		ItemsScanned: itemsScanned,
		GroupsFound:  groupsFound,
		Duration:     duration,
		timestamp:    time.Now().Unix(),
	}
}

func (e *ScanCompletedEvent) EventType() string {
	return "dedupe.scan.completed"
}

func (e *ScanCompletedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *ScanCompletedEvent) AggregateID() string {
	return e.CollectionID
}
