// Package storage persists the outcome of exploration runs so other
// processes in the pipeline can pick results up later. The in-memory
// repository itself stays scoped to one call; only finished runs land here.
package storage

import (
	"context"

	"typescope/internal/explorer"
	"typescope/internal/typeinfo"
)

// Store defines persistence for exploration runs.
type Store interface {
	// SaveRun persists every descriptor of a finished run and returns the
	// run's id.
	SaveRun(ctx context.Context, root string, repo *explorer.Repository) (int64, error)

	// LoadRun retrieves the descriptors of one run, keyed by type name.
	LoadRun(ctx context.Context, runID int64) (map[string]*typeinfo.Descriptor, error)

	// LatestRun returns the most recent run id recorded for a root, or
	// an error if none exists.
	LatestRun(ctx context.Context, root string) (int64, error)

	Close() error
}
