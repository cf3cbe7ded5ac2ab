package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_LoadOrStart(t *testing.T) {
	ctx := context.Background()
	def, err := turing.Parse(busyBeaver3)
	require.NoError(t, err)

	store := memory.NewStore()
	sm := runner.NewSessionManager(store)

	eng, resumed, err := sm.LoadOrStart(ctx, def, "bb3", "")
	require.NoError(t, err)
	assert.False(t, resumed)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bb3"}, ids, "a new session is reserved immediately")

	for range 4 {
		eng.Step(ctx)
	}
	require.NoError(t, sm.Save(ctx, "bb3", eng))

	again, resumed, err := sm.LoadOrStart(ctx, def, "bb3", "")
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, uint64(4), again.Current().Step)
	assert.Equal(t, eng.Current().State, again.Current().State)
}

func TestSessionManager_Ephemeral(t *testing.T) {
	def, err := turing.Parse(busyBeaver3)
	require.NoError(t, err)

	store := new(MockStore)
	sm := runner.NewSessionManager(store)

	eng, resumed, err := sm.LoadOrStart(context.Background(), def, "", "")
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.NotNil(t, eng)
	require.NoError(t, sm.Save(context.Background(), "", eng))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionManager_Errors(t *testing.T) {
	ctx := context.Background()
	def, err := turing.Parse(busyBeaver3)
	require.NoError(t, err)

	t.Run("Load failure", func(t *testing.T) {
		store := new(MockStore)
		store.On("Load", mock.Anything, "s1").Return(domain.Snapshot{}, errors.New("connection refused"))

		_, _, err := runner.NewSessionManager(store).LoadOrStart(ctx, def, "s1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load session s1")
	})

	t.Run("Other machine", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Save(ctx, "s1", domain.Snapshot{Initial: "start", State: "start"}))

		_, _, err := runner.NewSessionManager(store).LoadOrStart(ctx, def, "s1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "belongs to a machine")
	})

	t.Run("Invalid input on start", func(t *testing.T) {
		store := memory.NewStore()
		_, _, err := runner.NewSessionManager(store).LoadOrStart(ctx, def, "s1", "xyz")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
