package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// SessionManager handles the lifecycle of a durable run.
// It coordinates between the Runner, the Engine, and the SnapshotStore.
type SessionManager struct {
	Store ports.SnapshotStore
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(store ports.SnapshotStore) *SessionManager {
	return &SessionManager{
		Store: store,
	}
}

// LoadOrStart resumes the run stored under sessionID, or starts def on input when
// there is none. It reports whether the run was resumed.
// The input is ignored on resume so that progress is not overwritten.
func (sm *SessionManager) LoadOrStart(
	ctx context.Context,
	def *domain.Definition,
	sessionID string,
	input string,
	opts ...turing.Option,
) (*turing.Engine, bool, error) {
	if sessionID == "" || sm.Store == nil {
		eng, err := turing.New(def, input, opts...)
		return eng, false, err
	}

	snap, err := sm.Store.Load(ctx, sessionID)
	if err == nil {
		if snap.Initial != def.Initial {
			return nil, false, fmt.Errorf("session %s belongs to a machine starting in %q, not %q", sessionID, snap.Initial, def.Initial)
		}
		eng, err := turing.Resume(def, snap, opts...)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resume session %s: %w", sessionID, err)
		}
		return eng, true, nil
	}

	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	eng, err := turing.New(def, input, opts...)
	if err != nil {
		return nil, false, err
	}

	// Save immediately to reserve the ID
	if err := sm.Store.Save(ctx, sessionID, eng.Snapshot()); err != nil {
		return nil, false, fmt.Errorf("failed to initialize session %s: %w", sessionID, err)
	}

	return eng, false, nil
}

// Save persists the engine state.
func (sm *SessionManager) Save(ctx context.Context, sessionID string, eng *turing.Engine) error {
	if sessionID == "" || sm.Store == nil {
		return nil
	}
	return sm.Store.Save(ctx, sessionID, eng.Snapshot())
}
