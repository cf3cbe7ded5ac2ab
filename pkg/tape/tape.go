// Package tape provides the sparse, unbounded tape of a Turing machine.
package tape

import (
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape stores only non-blank cells. Every other position reads as domain.Blank.
// A Tape is owned by a single engine and is not safe for concurrent use.
type Tape struct {
	cells map[int64]domain.Symbol

	// low and high bound the non-blank cells; stale is set when an edge cell is
	// cleared and the bounds must be rescanned.
	low, high int64
	stale     bool
}

var _ domain.TapeView = (*Tape)(nil)

// New creates a tape seeded left-to-right from position 0 with the given symbols.
func New(input []domain.Symbol) *Tape {
	t := &Tape{cells: make(map[int64]domain.Symbol, len(input))}
	for i, s := range input {
		t.Write(int64(i), s)
	}
	return t
}

// FromCells rebuilds a tape from a list of written cells.
func FromCells(cells []domain.Cell) *Tape {
	t := &Tape{cells: make(map[int64]domain.Symbol, len(cells))}
	for _, c := range cells {
		t.Write(c.Position, c.Symbol)
	}
	return t
}

// Read returns the symbol at the position, or Blank if it was never written.
func (t *Tape) Read(position int64) domain.Symbol {
	if s, ok := t.cells[position]; ok {
		return s
	}
	return domain.Blank
}

// Write sets the symbol at the position. Writing Blank clears the cell.
func (t *Tape) Write(position int64, symbol domain.Symbol) {
	if symbol == domain.Blank {
		if _, ok := t.cells[position]; !ok {
			return
		}
		delete(t.cells, position)
		if len(t.cells) == 0 {
			t.stale = false
		} else if position == t.low || position == t.high {
			t.stale = true
		}
		return
	}

	t.cells[position] = symbol
	switch {
	case len(t.cells) == 1:
		t.low, t.high, t.stale = position, position, false
	case !t.stale:
		t.low = min(t.low, position)
		t.high = max(t.high, position)
	}
}

// Len returns the number of non-blank cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Bounds returns the lowest and highest non-blank positions.
// ok is false for an all-blank tape.
func (t *Tape) Bounds() (low, high int64, ok bool) {
	if len(t.cells) == 0 {
		return 0, 0, false
	}
	if t.stale {
		t.rescan()
	}
	return t.low, t.high, true
}

func (t *Tape) rescan() {
	first := true
	for p := range t.cells {
		if first {
			t.low, t.high, first = p, p, false
			continue
		}
		t.low = min(t.low, p)
		t.high = max(t.high, p)
	}
	t.stale = false
}

// Range returns the non-blank cells between low and high inclusive, ordered by position.
func (t *Tape) Range(low, high int64) []domain.Cell {
	if low > high {
		return nil
	}
	var cells []domain.Cell
	// Walk whichever is smaller: the requested span or the stored cells.
	if uint64(high-low) < uint64(len(t.cells)) {
		for p := low; ; p++ {
			if s, ok := t.cells[p]; ok {
				cells = append(cells, domain.Cell{Position: p, Symbol: s})
			}
			if p == high {
				break
			}
		}
		return cells
	}
	for p, s := range t.cells {
		if p >= low && p <= high {
			cells = append(cells, domain.Cell{Position: p, Symbol: s})
		}
	}
	slices.SortFunc(cells, func(a, b domain.Cell) int {
		return compare(a.Position, b.Position)
	})
	return cells
}

// Cells returns every non-blank cell ordered by position.
func (t *Tape) Cells() []domain.Cell {
	low, high, ok := t.Bounds()
	if !ok {
		return nil
	}
	return t.Range(low, high)
}

// Window returns the symbols from center-radius to center+radius, blanks included.
func (t *Tape) Window(center int64, radius int) []domain.Symbol {
	if radius < 0 {
		return nil
	}
	out := make([]domain.Symbol, 0, 2*radius+1)
	for p := center - int64(radius); p <= center+int64(radius); p++ {
		out = append(out, t.Read(p))
	}
	return out
}

// Clone returns an independent copy of the tape.
func (t *Tape) Clone() *Tape {
	c := &Tape{cells: make(map[int64]domain.Symbol, len(t.cells)), low: t.low, high: t.high, stale: t.stale}
	for p, s := range t.cells {
		c.cells[p] = s
	}
	return c
}

// String renders the span between the written bounds and position 0.
func (t *Tape) String() string {
	low, high, ok := t.Bounds()
	if !ok {
		return domain.Blank.String()
	}
	low, high = min(low, 0), max(high, 0)
	var sb strings.Builder
	for p := low; p <= high; p++ {
		sb.WriteRune(rune(t.Read(p)))
	}
	return sb.String()
}

func compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
