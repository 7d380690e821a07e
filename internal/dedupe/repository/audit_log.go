package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nautilusmedia/dedupe/pkg/models"
)

// FileAuditLog appends deletion audit records as JSON lines, one file per
// month (audit-2006-01.jsonl).
type FileAuditLog struct {
	dir string
	mu  sync.Mutex
}

// NewFileAuditLog creates an audit log rooted at dir, creating it if needed.
func NewFileAuditLog(dir string) (*FileAuditLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &FileAuditLog{dir: dir}, nil
}

// Append writes one record as a single JSON line to the current month's file.
func (l *FileAuditLog) Append(ctx context.Context, record *models.DeletionAudit) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	name := fmt.Sprintf("audit-%s.jsonl", record.Timestamp.UTC().Format("2006-01"))
	path := filepath.Join(l.dir, name)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}
