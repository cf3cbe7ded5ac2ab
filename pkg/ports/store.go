package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// SnapshotStore defines the interface for persisting run checkpoints.
// This allows long runs (e.g. busy beavers) to be stopped and resumed.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, snap domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSnapshotNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the stored session IDs.
	List(ctx context.Context) ([]string, error)
}
