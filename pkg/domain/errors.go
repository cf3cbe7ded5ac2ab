package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is matched by parse errors for lines with the wrong shape.
	ErrMalformed = errors.New("malformed line")

	// ErrUnknownDirection is matched by parse errors for a direction other than L or R.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrDuplicateTransition is matched by parse errors for a repeated (state, symbol) key.
	ErrDuplicateTransition = errors.New("duplicate transition")

	// ErrEmptyDefinition is matched when the definition has no initial state line.
	ErrEmptyDefinition = errors.New("empty definition")

	// ErrDuplicateKey is returned by TableBuilder.Add.
	ErrDuplicateKey = errors.New("transition key already defined")

	// ErrInvalidInput is matched by errors about the input string.
	ErrInvalidInput = errors.New("invalid input symbol")

	// ErrSnapshotNotFound is returned when a session has no stored snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ParseErrorKind classifies a definition parse failure.
type ParseErrorKind string

const (
	Malformed           ParseErrorKind = "malformed"
	UnknownDirection    ParseErrorKind = "unknown_direction"
	DuplicateTransition ParseErrorKind = "duplicate_transition"
	EmptyDefinition     ParseErrorKind = "empty_definition"
)

// ParseError reports why a definition was rejected.
// Line is 1-based and refers to the raw text; it is 0 for EmptyDefinition.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Text string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyDefinition:
		return "definition has no initial state"
	case UnknownDirection:
		return fmt.Sprintf("line %d: unknown direction in %q (want L or R)", e.Line, e.Text)
	case DuplicateTransition:
		return fmt.Sprintf("line %d: a transition with the same state and symbol is already defined", e.Line)
	default:
		return fmt.Sprintf("line %d: malformed line %q", e.Line, e.Text)
	}
}

// Is lets errors.Is match a ParseError against the sentinel of its kind.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case Malformed:
		return target == ErrMalformed
	case UnknownDirection:
		return target == ErrUnknownDirection
	case DuplicateTransition:
		return target == ErrDuplicateTransition
	case EmptyDefinition:
		return target == ErrEmptyDefinition
	}
	return false
}

// InputError reports a character of the input string that cannot be put on the tape.
// Column is 0-based.
type InputError struct {
	Column int
	Symbol Symbol
}

func (e *InputError) Error() string {
	return fmt.Sprintf("column %d: symbol %q is not in the machine alphabet", e.Column, string(rune(e.Symbol)))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AsParseError returns the ParseError wrapped in err, if any.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
