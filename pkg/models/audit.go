package models

import (
	"time"

	"github.com/google/uuid"
)

// DeletionAudit is one append-only record of a deletion attempt. Records are
// produced by the deletion service and stored one JSON object per line,
// grouped by month.
type DeletionAudit struct {
	ID            uuid.UUID `json:"id"`
	GroupID       uuid.UUID `json:"group_id"`
	ItemID        string    `json:"item_id"`
	Path          string    `json:"path"`
	QualityScore  int       `json:"quality_score"`
	Reason        string    `json:"reason"`
	UserInitiated bool      `json:"user_initiated"`
	UserID        string    `json:"user_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}
