package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalManager turns SIGINT and SIGTERM into context cancellation for a run.
type SignalManager struct {
	ctx         context.Context
	cancel      context.CancelFunc
	interrupted chan struct{}
	once        sync.Once
}

// NewSignalManager starts listening for signals. The returned context is also
// cancelled when parent is.
func NewSignalManager(parent context.Context) *SignalManager {
	ctx, cancel := context.WithCancel(parent)
	sm := &SignalManager{ctx: ctx, cancel: cancel, interrupted: make(chan struct{})}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			sm.Interrupt()
		case <-ctx.Done():
		}
	}()
	return sm
}

// Context returns the signal-aware context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupt cancels the context as if a signal had arrived.
// Keyboard controls use it for the quit key.
func (sm *SignalManager) Interrupt() {
	sm.once.Do(func() { close(sm.interrupted) })
	sm.cancel()
}

// Interrupted reports whether the run was stopped by a signal or Interrupt.
func (sm *SignalManager) Interrupted() bool {
	select {
	case <-sm.interrupted:
		return true
	default:
		return false
	}
}

// Stop releases the signal listener.
func (sm *SignalManager) Stop() {
	sm.cancel()
}
