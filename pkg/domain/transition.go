package domain

import (
	"fmt"
	"slices"
)

// Key identifies a transition: the state the machine is in and the symbol under the head.
type Key struct {
	State  State
	Symbol Symbol
}

func (k Key) String() string {
	return fmt.Sprintf("%s,%s", k.State, k.Symbol)
}

// Transition maps (From, Read) to (To, Write, Move).
type Transition struct {
	From  State     `json:"from"`
	Read  Symbol    `json:"read"`
	To    State     `json:"to"`
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
}

// Key returns the lookup key of the transition.
func (t Transition) Key() Key {
	return Key{State: t.From, Symbol: t.Read}
}

func (t Transition) String() string {
	return fmt.Sprintf("%s + %s |> %s + %s |> %s", t.From, t.Read, t.To, t.Write, t.Move)
}

// Table is an immutable partial mapping from Key to Transition.
// Build one with a TableBuilder.
type Table struct {
	rules map[Key]Transition
	order []Transition
}

// Lookup returns the transition for the given state and symbol.
func (t *Table) Lookup(state State, symbol Symbol) (Transition, bool) {
	tr, ok := t.rules[Key{State: state, Symbol: symbol}]
	return tr, ok
}

// Len returns the number of transitions.
func (t *Table) Len() int {
	return len(t.order)
}

// Transitions returns a copy of the transitions in definition order.
func (t *Table) Transitions() []Transition {
	return slices.Clone(t.order)
}

// States returns every state referenced by the table, sorted.
func (t *Table) States() []State {
	seen := make(map[State]struct{})
	for _, tr := range t.order {
		seen[tr.From] = struct{}{}
		seen[tr.To] = struct{}{}
	}
	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}

// Alphabet returns every symbol read or written by the table plus Blank, sorted.
func (t *Table) Alphabet() []Symbol {
	seen := map[Symbol]struct{}{Blank: {}}
	for _, tr := range t.order {
		seen[tr.Read] = struct{}{}
		seen[tr.Write] = struct{}{}
	}
	symbols := make([]Symbol, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}

// Outgoing reports whether any transition originates from the state.
func (t *Table) Outgoing(state State) bool {
	for _, tr := range t.order {
		if tr.From == state {
			return true
		}
	}
	return false
}

// Equal reports whether both tables hold the same transitions, ignoring order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.rules) != len(other.rules) {
		return false
	}
	for k, tr := range t.rules {
		if o, ok := other.rules[k]; !ok || o != tr {
			return false
		}
	}
	return true
}

// TableBuilder accumulates transitions and rejects duplicate keys.
type TableBuilder struct {
	rules map[Key]Transition
	order []Transition
}

// NewTableBuilder creates an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{rules: make(map[Key]Transition)}
}

// Add appends a transition. It returns ErrDuplicateKey if the key is already taken.
func (b *TableBuilder) Add(tr Transition) error {
	if _, exists := b.rules[tr.Key()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, tr.Key())
	}
	b.rules[tr.Key()] = tr
	b.order = append(b.order, tr)
	return nil
}

// Build freezes the accumulated transitions into a Table.
// The builder can keep being used; later additions do not affect the built table.
func (b *TableBuilder) Build() *Table {
	rules := make(map[Key]Transition, len(b.rules))
	for k, v := range b.rules {
		rules[k] = v
	}
	return &Table{rules: rules, order: slices.Clone(b.order)}
}

// Definition is a parsed machine: its initial state and transition table.
type Definition struct {
	Initial State
	Table   *Table
}
