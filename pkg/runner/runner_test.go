package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const busyBeaver3 = `A
A + _ |> B + * |> R
A + * |> C + * |> L
B + _ |> A + * |> L
B + * |> B + * |> R
C + _ |> B + * |> L
C + * |> H + * |> R
`

func newEngine(t *testing.T) (*domain.Definition, *turing.Engine) {
	t.Helper()
	def, err := turing.Parse(busyBeaver3)
	require.NoError(t, err)
	eng, err := turing.New(def, "")
	require.NoError(t, err)
	return def, eng
}

// MockStore implements ports.SnapshotStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	args := m.Called(ctx, sessionID, snap)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func TestRunner_RunsToHalt(t *testing.T) {
	_, eng := newEngine(t)

	var seen []uint64
	res, err := runner.Run(context.Background(), eng, runner.WithRenderer(func(cfg domain.Configuration) {
		seen = append(seen, cfg.Step)
	}))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, res.Status)
	assert.Equal(t, domain.ReachedHaltState, res.Reason)
	assert.Equal(t, uint64(13), res.Steps)
	require.Len(t, seen, 14, "step 0 plus one render per step")
	assert.Equal(t, uint64(0), seen[0])
	assert.Equal(t, uint64(13), seen[13])
}

func TestRunner_StepLimit(t *testing.T) {
	t.Run("Limit below halt", func(t *testing.T) {
		_, eng := newEngine(t)
		res, err := runner.Run(context.Background(), eng, runner.WithMaxSteps(5))

		assert.ErrorIs(t, err, runner.ErrStepLimit)
		assert.Equal(t, uint64(5), res.Steps)
		assert.Equal(t, domain.StatusRunning, res.Status)
		assert.False(t, eng.Halted())
	})

	t.Run("Limit equal to halt step", func(t *testing.T) {
		_, eng := newEngine(t)
		res, err := runner.Run(context.Background(), eng, runner.WithMaxSteps(13))

		require.NoError(t, err, "the machine halts without taking a 14th step")
		assert.Equal(t, domain.ReachedHaltState, res.Reason)
	})

	t.Run("Zero means unlimited", func(t *testing.T) {
		_, eng := newEngine(t)
		res, err := runner.Run(context.Background(), eng, runner.WithMaxSteps(0))

		require.NoError(t, err)
		assert.Equal(t, uint64(13), res.Steps)
	})
}

func TestRunner_ContextCancellation(t *testing.T) {
	_, eng := newEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := runner.Run(ctx, eng, runner.WithInterval(time.Hour))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, uint64(0), res.Steps)
	assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the pause")
}

func TestRunner_SetIntervalWhileRunning(t *testing.T) {
	_, eng := newEngine(t)
	r := runner.New(runner.WithInterval(time.Hour))
	assert.Equal(t, time.Hour, r.Interval())

	var once sync.Once
	started := make(chan struct{})
	r2 := runner.New(runner.WithInterval(5*time.Millisecond), runner.WithRenderer(func(cfg domain.Configuration) {
		once.Do(func() { close(started) })
	}))

	done := make(chan error, 1)
	go func() {
		_, err := r2.Run(context.Background(), eng)
		done <- err
	}()

	<-started
	r2.SetInterval(0)
	assert.Equal(t, time.Duration(0), r2.Interval())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
	}
	assert.True(t, eng.Halted())

	r.SetInterval(-time.Second)
	assert.Equal(t, time.Duration(0), r.Interval(), "negative intervals clamp to zero")
}

func TestRunner_Checkpoint(t *testing.T) {
	def, eng := newEngine(t)
	store := memory.NewStore()

	_, err := runner.Run(context.Background(), eng, runner.WithCheckpoint(store, "bb3", 5))
	require.NoError(t, err)

	snap, err := store.Load(context.Background(), "bb3")
	require.NoError(t, err)
	assert.Equal(t, uint64(13), snap.Step)
	assert.Equal(t, domain.StatusHalted, snap.Status)
	assert.Equal(t, domain.ReachedHaltState, snap.Reason)

	resumed, err := turing.Resume(def, snap)
	require.NoError(t, err)
	assert.True(t, resumed.Halted())
}

func TestRunner_CheckpointEvery(t *testing.T) {
	_, eng := newEngine(t)
	store := new(MockStore)

	var steps []uint64
	store.On("Save", mock.Anything, "bb3", mock.AnythingOfType("domain.Snapshot")).
		Run(func(args mock.Arguments) {
			steps = append(steps, args.Get(2).(domain.Snapshot).Step)
		}).
		Return(nil)

	_, err := runner.Run(context.Background(), eng, runner.WithCheckpoint(store, "bb3", 5))
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 10, 13}, steps)
	store.AssertExpectations(t)
}

func TestRunner_CheckpointFailure(t *testing.T) {
	_, eng := newEngine(t)
	store := new(MockStore)
	store.On("Save", mock.Anything, "bb3", mock.Anything).Return(errors.New("disk full"))

	_, err := runner.Run(context.Background(), eng, runner.WithCheckpoint(store, "bb3", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, uint64(1), eng.Current().Step, "the run stops at the failed checkpoint")
}

func TestRunner_CheckpointOnStepLimit(t *testing.T) {
	_, eng := newEngine(t)
	store := memory.NewStore()

	_, err := runner.Run(context.Background(), eng,
		runner.WithMaxSteps(7),
		runner.WithCheckpoint(store, "bb3", 0),
	)
	assert.ErrorIs(t, err, runner.ErrStepLimit)

	snap, err := store.Load(context.Background(), "bb3")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), snap.Step)
	assert.Equal(t, domain.StatusRunning, snap.Status)
}

func TestRunner_LockedSession(t *testing.T) {
	_, eng := newEngine(t)
	store := memory.NewStore()
	locker := memory.NewLocker()

	unlock, err := locker.Lock(context.Background(), "bb3", time.Minute)
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = runner.Run(ctx, eng, runner.WithCheckpoint(store, "bb3", 0), runner.WithLocker(locker))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lock session bb3")
	assert.Equal(t, uint64(0), eng.Current().Step)
}

func TestRunner_TextRenderer(t *testing.T) {
	_, eng := newEngine(t)
	var buf bytes.Buffer

	_, err := runner.Run(context.Background(), eng, runner.WithRenderer(runner.TextRenderer(&buf)))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 14)
	assert.Equal(t, "step=0 state=A head=0 tape=_", lines[0])
	assert.Equal(t, "step=1 state=B head=1 tape=*_", lines[1])
	assert.Equal(t, "step=13 state=H head=1 tape=******", lines[13])
}

func TestRunner_JSONRenderer(t *testing.T) {
	_, eng := newEngine(t)
	var buf bytes.Buffer

	_, err := runner.Run(context.Background(), eng,
		runner.WithMaxSteps(1),
		runner.WithRenderer(runner.JSONRenderer(&buf)),
	)
	assert.ErrorIs(t, err, runner.ErrStepLimit)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"step":0,"state":"A","head":0,"read":"_","cells":[]}`, lines[0])
	assert.JSONEq(t, `{"step":1,"state":"B","head":1,"read":"_","cells":[{"position":0,"symbol":"*"}]}`, lines[1])
}
