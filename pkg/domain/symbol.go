package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbol is a single character written to a tape cell.
type Symbol rune

// Blank is the symbol every unwritten cell reads as.
const Blank Symbol = '_'

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(rune(s))
}

// IsBlank reports whether the symbol is the reserved Blank.
func (s Symbol) IsBlank() bool {
	return s == Blank
}

// Valid reports whether the symbol can appear in a definition or on the input tape.
// '+' is reserved by the grammar and whitespace separates tokens.
func (s Symbol) Valid() bool {
	r := rune(s)
	return r != '+' && r != unicode.ReplacementChar && unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// MarshalText encodes the symbol as its character, so JSON carries "*" rather than 42.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a one-character string.
func (s *Symbol) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if size == 0 || size != len(text) {
		return fmt.Errorf("symbol %q is not a single character", text)
	}
	*s = Symbol(r)
	return nil
}

// Direction is the head movement applied after a write.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

// Offset returns the change in head position.
func (d Direction) Offset() int64 {
	return int64(d)
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return "?"
	}
}

// ParseDirection maps the tokens "L" and "R" (any case) to a Direction.
func ParseDirection(token string) (Direction, bool) {
	switch strings.ToUpper(token) {
	case "L":
		return Left, true
	case "R":
		return Right, true
	default:
		return 0, false
	}
}

// MarshalText encodes the direction as "L" or "R".
func (d Direction) MarshalText() ([]byte, error) {
	if d != Left && d != Right {
		return nil, fmt.Errorf("invalid direction %d", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes "L" or "R" in any case.
func (d *Direction) UnmarshalText(text []byte) error {
	dir, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, text)
	}
	*d = dir
	return nil
}
