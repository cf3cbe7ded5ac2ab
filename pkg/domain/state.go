package domain

// State is a named control state of the machine.
type State string

// DefaultHaltState is the state name reserved as Halt unless configured otherwise.
const DefaultHaltState State = "H"

// Status defines whether an engine can still advance.
type Status string

const (
	StatusRunning Status = "running" // Steps can still be taken
	StatusHalted  Status = "halted"  // Terminal; tape and state are frozen
)

// HaltReason tells a caller why a run stopped. Both reasons are normal terminations.
type HaltReason string

const (
	// ReachedHaltState means the machine entered the reserved Halt state (accepted).
	ReachedHaltState HaltReason = "reached_halt_state"

	// NoTransition means no rule exists for the current (state, symbol) pair.
	NoTransition HaltReason = "no_transition"
)

// Configuration is the observable snapshot of the machine after a step.
// Tape is a live view: it reflects later steps unless the caller clones it.
type Configuration struct {
	Step  uint64
	State State
	Head  int64
	Tape  TapeView
}

// Symbol returns the symbol under the head.
func (c Configuration) Symbol() Symbol {
	if c.Tape == nil {
		return Blank
	}
	return c.Tape.Read(c.Head)
}

// TapeView is the read side of a tape, as seen by renderers and hooks.
type TapeView interface {
	Read(position int64) Symbol
	Range(low, high int64) []Cell
	Bounds() (low, high int64, ok bool)
	Len() int
}

// Cell is a written tape position.
type Cell struct {
	Position int64  `json:"position"`
	Symbol   Symbol `json:"symbol"`
}

// Outcome is the result of a single step: either Advanced with the new
// Configuration, or Halted with the reason.
type Outcome struct {
	Advanced      bool
	Configuration Configuration
	Reason        HaltReason
}

// Halted reports whether the outcome is a halt signal.
func (o Outcome) Halted() bool {
	return !o.Advanced
}

// Result summarizes a finished (or interrupted) run.
type Result struct {
	Status Status
	Reason HaltReason
	Steps  uint64
	State  State
	Head   int64
}
