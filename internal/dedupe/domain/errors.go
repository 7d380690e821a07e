package domain

import "errors"

// Common domain errors
var (
	// ErrNoResolvableVersions is returned when no member of a group can be
	// resolved against the catalog
	ErrNoResolvableVersions = errors.New("no group member could be resolved")

	// ErrScanInProgress is returned when trying to start a scan while one is
	// already running
	ErrScanInProgress = errors.New("scan already in progress")
)
