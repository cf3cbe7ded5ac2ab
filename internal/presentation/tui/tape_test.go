package tui_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(head int64, state domain.State, input string) domain.Configuration {
	symbols := make([]domain.Symbol, 0, len(input))
	for _, r := range input {
		symbols = append(symbols, domain.Symbol(r))
	}
	return domain.Configuration{Step: 7, State: state, Head: head, Tape: tape.New(symbols)}
}

func TestTapeRenderer_Frame(t *testing.T) {
	var buf bytes.Buffer
	r := tui.NewTapeRenderer(&buf, termenv.WithProfile(termenv.Ascii))
	r.Interval = func() time.Duration { return 300 * time.Millisecond }

	lines := r.Frame(config(1, "B", "1x1"))
	require.Len(t, lines, 3)
	assert.Equal(t, "step 7  state B  head 1  interval 300ms", lines[0])

	// Window is centred on the head: the symbol under the head is in the middle.
	cells := strings.Fields(strings.Trim(lines[1], "… "))
	require.Equal(t, 1, len(cells)%2)
	mid := len(cells) / 2
	assert.Equal(t, "1", cells[mid-1])
	assert.Equal(t, "x", cells[mid])
	assert.Equal(t, "1", cells[mid+1])
	assert.Equal(t, "_", cells[0])

	caret := strings.Index(lines[2], "^")
	require.GreaterOrEqual(t, caret, 0)
	assert.Equal(t, "x", string([]rune(lines[1])[caret]))
}

func TestTapeRenderer_RenderPlain(t *testing.T) {
	var buf bytes.Buffer
	r := tui.NewTapeRenderer(&buf, termenv.WithProfile(termenv.Ascii))

	r.Render(config(0, "A", ""))
	r.Render(config(1, "B", "1"))
	r.Done(domain.Result{Reason: domain.NoTransition, Steps: 7, State: "B"})

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "plain output carries no escape sequences")
	assert.Equal(t, 7, strings.Count(out, "\r\n"))
	assert.Contains(t, out, "state A")
	assert.Contains(t, out, "state B")
	assert.Contains(t, out, "no_transition after 7 steps in state B")
}

func TestWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, tui.DefaultWidth, tui.Width(&bytes.Buffer{}))
}
