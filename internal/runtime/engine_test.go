package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const busyBeaver3 = `# 3-state busy beaver
A
A + _ |> B + * |> R
A + * |> C + * |> L
B + _ |> A + * |> L
B + * |> B + * |> R
C + _ |> B + * |> L
C + * |> H + * |> R
`

func mustParse(t *testing.T, text string) *domain.Definition {
	t.Helper()
	def, err := compiler.NewParser().Parse(text)
	require.NoError(t, err)
	return def
}

func TestEngine_BusyBeaver(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, busyBeaver3)
	engine := runtime.NewEngine(def.Table, def.Initial, nil)

	advances := 0
	var out domain.Outcome
	for {
		out = engine.Step(ctx)
		if out.Halted() {
			break
		}
		advances++
		require.Less(t, advances, 100, "busy beaver should halt")
	}

	assert.Equal(t, 13, advances)
	assert.Equal(t, domain.ReachedHaltState, out.Reason)
	assert.Equal(t, domain.State("H"), out.Configuration.State)
	assert.Equal(t, uint64(13), out.Configuration.Step)

	cells := engine.Tape().Cells()
	require.Len(t, cells, 6)
	for _, c := range cells {
		assert.Equal(t, domain.Symbol('*'), c.Symbol)
	}
	assert.Equal(t, int64(-3), cells[0].Position)
	assert.Equal(t, int64(2), cells[5].Position)
	assert.Equal(t, int64(1), engine.Current().Head)
}

func TestEngine_IdempotentAfterHalt(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, "A\nA + 1 |> A + 0 |> R\n")
	engine := runtime.NewEngine(def.Table, def.Initial, []domain.Symbol{'1', '1'})

	require.True(t, engine.Step(ctx).Advanced)
	require.True(t, engine.Step(ctx).Advanced)

	first := engine.Step(ctx)
	require.True(t, first.Halted())
	assert.Equal(t, domain.NoTransition, first.Reason)
	before := engine.Tape().Cells()

	for range 5 {
		again := engine.Step(ctx)
		assert.Equal(t, first.Reason, again.Reason)
		assert.Equal(t, first.Configuration.Step, again.Configuration.Step)
		assert.Equal(t, first.Configuration.Head, again.Configuration.Head)
	}
	assert.Equal(t, before, engine.Tape().Cells())
	assert.Equal(t, domain.StatusHalted, engine.Status())
	assert.Equal(t, uint64(2), engine.Result().Steps)
}

func TestEngine_InitialConfiguration(t *testing.T) {
	def := mustParse(t, "q0\nq0 + 1 |> q0 + 1 |> R\nq0 + 0 |> q0 + 0 |> R\n")
	engine := runtime.NewEngine(def.Table, def.Initial, []domain.Symbol{'1', '0', '1', '1', '1'})

	cfg := engine.Current()
	assert.Equal(t, uint64(0), cfg.Step)
	assert.Equal(t, domain.State("q0"), cfg.State)
	assert.Equal(t, int64(0), cfg.Head)
	assert.Equal(t, domain.Symbol('1'), cfg.Symbol())

	for i, r := range "10111" {
		assert.Equal(t, domain.Symbol(r), cfg.Tape.Read(int64(i)))
	}
	assert.Equal(t, domain.Blank, cfg.Tape.Read(-1))
	assert.Equal(t, domain.Blank, cfg.Tape.Read(5))
	assert.Equal(t, domain.StatusRunning, engine.Status())
}

func TestEngine_HaltPolicy(t *testing.T) {
	ctx := context.Background()
	// H has an outgoing rule, which only matters when H is not reserved.
	def := mustParse(t, "A\nA + _ |> H + 1 |> R\nH + _ |> Z + 1 |> R\n")

	t.Run("Reserved Halt Checked Before Lookup", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, def.Initial, nil)
		require.True(t, engine.Step(ctx).Advanced)
		out := engine.Step(ctx)
		require.True(t, out.Halted())
		assert.Equal(t, domain.ReachedHaltState, out.Reason)
		assert.Equal(t, 1, engine.Tape().Len())
	})

	t.Run("Reservation Disabled", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, def.Initial, nil, runtime.WithHaltState(""))
		require.True(t, engine.Step(ctx).Advanced)
		require.True(t, engine.Step(ctx).Advanced)
		out := engine.Step(ctx)
		assert.Equal(t, domain.NoTransition, out.Reason)
		assert.Equal(t, domain.State("Z"), out.Configuration.State)
	})

	t.Run("Custom Halt Name", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, def.Initial, nil, runtime.WithHaltState("Z"))
		for engine.Step(ctx).Advanced {
		}
		out, ok := engine.Outcome()
		require.True(t, ok)
		assert.Equal(t, domain.ReachedHaltState, out.Reason)
	})

	t.Run("Initial State Is Halt", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, "H", nil)
		out := engine.Step(ctx)
		assert.Equal(t, domain.ReachedHaltState, out.Reason)
		assert.Equal(t, uint64(0), out.Configuration.Step)
		assert.Equal(t, 0, engine.Tape().Len())
	})
}

func TestEngine_MovesLeftIntoNegativeCells(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, "A\nA + _ |> B + x |> L\nB + _ |> H + y |> L\n")
	engine := runtime.NewEngine(def.Table, def.Initial, nil)

	for engine.Step(ctx).Advanced {
	}
	assert.Equal(t, int64(-2), engine.Current().Head)
	assert.Equal(t, domain.Symbol('x'), engine.Tape().Read(0))
	assert.Equal(t, domain.Symbol('y'), engine.Tape().Read(-1))
}

func TestEngine_Steps(t *testing.T) {
	def := mustParse(t, busyBeaver3)

	t.Run("Yields Initial And Every Advance", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, def.Initial, nil)
		var steps []uint64
		for cfg := range engine.Steps(context.Background()) {
			steps = append(steps, cfg.Step)
		}
		require.Len(t, steps, 14)
		assert.Equal(t, uint64(0), steps[0])
		assert.Equal(t, uint64(13), steps[13])
		assert.True(t, engine.Halted())
	})

	t.Run("Lazy", func(t *testing.T) {
		engine := runtime.NewEngine(def.Table, def.Initial, nil)
		for cfg := range engine.Steps(context.Background()) {
			if cfg.Step == 3 {
				break
			}
		}
		assert.Equal(t, uint64(3), engine.Current().Step)
		assert.False(t, engine.Halted())
	})

	t.Run("Stops On Cancel", func(t *testing.T) {
		loop := mustParse(t, "A\nA + _ |> A + _ |> R\n")
		engine := runtime.NewEngine(loop.Table, loop.Initial, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		for cfg := range engine.Steps(ctx) {
			if cfg.Step == 1000 {
				cancel()
			}
		}
		assert.Equal(t, uint64(1000), engine.Current().Step)
		assert.False(t, engine.Halted())
	})
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, busyBeaver3)

	var steps int
	var halts []*domain.HaltEvent
	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			steps++
			assert.Equal(t, uint64(steps), e.Step)
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			halts = append(halts, e)
		},
	}
	engine := runtime.NewEngine(def.Table, def.Initial, nil, runtime.WithLifecycleHooks(hooks))

	for range 20 {
		engine.Step(ctx)
	}
	assert.Equal(t, 13, steps)
	require.Len(t, halts, 1, "OnHalt fires once")
	assert.Equal(t, domain.ReachedHaltState, halts[0].Reason)
	assert.Equal(t, 6, halts[0].TapeCells)
}

func TestEngine_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, busyBeaver3)

	reference := runtime.NewEngine(def.Table, def.Initial, nil)
	for reference.Step(ctx).Advanced {
	}

	engine := runtime.NewEngine(def.Table, def.Initial, nil)
	for range 7 {
		engine.Step(ctx)
	}
	snap := engine.Snapshot()
	assert.Equal(t, uint64(7), snap.Step)
	assert.Equal(t, domain.StatusRunning, snap.Status)

	resumed, err := runtime.Restore(def.Table, snap)
	require.NoError(t, err)
	for resumed.Step(ctx).Advanced {
	}
	assert.Equal(t, reference.Result(), resumed.Result())
	assert.Equal(t, reference.Tape().Cells(), resumed.Tape().Cells())

	t.Run("Halted Snapshot Stays Halted", func(t *testing.T) {
		halted, err := runtime.Restore(def.Table, resumed.Snapshot())
		require.NoError(t, err)
		out := halted.Step(ctx)
		assert.True(t, out.Halted())
		assert.Equal(t, domain.ReachedHaltState, out.Reason)
	})

	t.Run("Rejects Bad Snapshot", func(t *testing.T) {
		_, err := runtime.Restore(def.Table, domain.Snapshot{})
		assert.Error(t, err)
		_, err = runtime.Restore(def.Table, domain.Snapshot{State: "A", Status: "paused"})
		assert.Error(t, err)
	})
}

func TestEngine_IndependentRuns(t *testing.T) {
	ctx := context.Background()
	def := mustParse(t, busyBeaver3)
	a := runtime.NewEngine(def.Table, def.Initial, nil)
	b := runtime.NewEngine(def.Table, def.Initial, nil)

	for a.Step(ctx).Advanced {
	}
	assert.Equal(t, 6, a.Tape().Len())
	assert.Equal(t, 0, b.Tape().Len())
	assert.Equal(t, uint64(0), b.Current().Step)
}

func TestEngine_NextPeeksWithoutAdvancing(t *testing.T) {
	def := mustParse(t, busyBeaver3)
	eng := runtime.NewEngine(def.Table, def.Initial, nil)

	tr, ok := eng.Next()
	require.True(t, ok)
	assert.Equal(t, "A + _ |> B + * |> R", tr.String())
	assert.Equal(t, uint64(0), eng.Current().Step)
	assert.Equal(t, 0, eng.Tape().Len())

	for range 13 {
		eng.Step(context.Background())
	}
	_, ok = eng.Next()
	assert.False(t, ok, "machine sits in the halt state")
	assert.False(t, eng.Halted(), "halt is only recorded by Step")
}
