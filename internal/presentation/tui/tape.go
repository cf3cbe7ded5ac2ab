package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// TapeRenderer draws a configuration as a window of the tape centred on the head.
// On a terminal each frame replaces the previous one.
type TapeRenderer struct {
	out    *termenv.Output
	radius int
	lines  int

	// Interval, when set, is shown in the status line.
	Interval func() time.Duration
}

// NewTapeRenderer creates a renderer writing to w, sized to its terminal width.
func NewTapeRenderer(w io.Writer, opts ...termenv.OutputOption) *TapeRenderer {
	return &TapeRenderer{
		out:    termenv.NewOutput(w, opts...),
		radius: radiusFor(Width(w)),
	}
}

// Width returns the column count of w when it is a terminal, DefaultWidth otherwise.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// Every cell takes two columns and the window shows 2*radius+1 cells plus the
// ellipses on both sides.
func radiusFor(width int) int {
	return max((width/2-3)/2, 3)
}

// Render draws cfg. It has the signature of runner.Renderer.
func (r *TapeRenderer) Render(cfg domain.Configuration) {
	live := r.out.Profile != termenv.Ascii
	if live && r.lines > 0 {
		r.out.CursorPrevLine(r.lines)
	}
	lines := r.Frame(cfg)
	for _, line := range lines {
		if live {
			r.out.ClearLine()
		}
		fmt.Fprint(r.out, line, "\r\n")
	}
	r.lines = len(lines)
}

// Frame returns the lines of one frame: a status line, the tape window and a
// caret under the head.
func (r *TapeRenderer) Frame(cfg domain.Configuration) []string {
	status := fmt.Sprintf("step %d  state %s  head %d", cfg.Step, cfg.State, cfg.Head)
	if r.Interval != nil {
		status += fmt.Sprintf("  interval %s", r.Interval())
	}

	var tape, caret strings.Builder
	tape.WriteString("… ")
	caret.WriteString("  ")
	for p := cfg.Head - int64(r.radius); p <= cfg.Head+int64(r.radius); p++ {
		cell := cfg.Tape.Read(p).String()
		if p == cfg.Head {
			tape.WriteString(r.out.String(cell).Reverse().Bold().String())
			caret.WriteString("^")
		} else {
			tape.WriteString(cell)
			caret.WriteString(" ")
		}
		tape.WriteString(" ")
		caret.WriteString(" ")
	}
	tape.WriteString("…")

	return []string{
		r.out.String(status).Faint().String(),
		tape.String(),
		strings.TrimRight(caret.String(), " "),
	}
}

// Done prints the final result under the last frame.
func (r *TapeRenderer) Done(res domain.Result) {
	style := r.out.String(fmt.Sprintf("%s after %d steps in state %s", res.Reason, res.Steps, res.State)).Bold()
	if res.Reason == domain.ReachedHaltState {
		style = style.Foreground(r.out.Color("#34d399"))
	} else {
		style = style.Foreground(r.out.Color("#fbbf24"))
	}
	fmt.Fprint(r.out, style, "\r\n")
	r.lines = 0
}
