// Package compiler turns definition text into a domain.Definition.
//
// Parsing happens in two passes: every raw line is first classified into a
// tagged Line (comment, declaration or transition) and then the lines are
// compiled into a transition table.
package compiler

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

// LineKind tags a line of a definition.
type LineKind int

const (
	LineComment     LineKind = iota // blank or starting with '#'
	LineDeclaration                 // the initial state name
	LineTransition                  // State + Symbol |> State + Symbol |> Direction
)

// Line is the intermediate representation of one raw definition line.
type Line struct {
	Number     int // 1-based
	Kind       LineKind
	Text       string
	State      domain.State      // LineDeclaration
	Transition domain.Transition // LineTransition
}

// Parser converts definition text into a Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse classifies and compiles the text. It is pure: the same text always
// yields an equal Definition or the same *domain.ParseError.
func (p *Parser) Parse(text string) (*domain.Definition, error) {
	lines, err := p.Lines(text)
	if err != nil {
		return nil, err
	}
	return Compile(lines)
}

// Lines classifies every raw line in order and stops at the first offending one.
// The first non-comment line is the declaration; every later non-comment line
// must be a transition whose (state, symbol) key has not been seen before.
func (p *Parser) Lines(text string) ([]Line, error) {
	var lines []Line
	declared := false
	seen := make(map[domain.Key]int)

	n := 0
	for raw := range strings.Lines(text) {
		n++
		raw = strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines = append(lines, Line{Number: n, Kind: LineComment, Text: raw})
			continue
		}

		if !declared {
			state, err := parseDeclaration(n, trimmed)
			if err != nil {
				return nil, err
			}
			lines = append(lines, Line{Number: n, Kind: LineDeclaration, Text: raw, State: state})
			declared = true
			continue
		}

		tr, err := parseTransition(n, trimmed)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tr.Key()]; dup {
			return nil, &domain.ParseError{Kind: domain.DuplicateTransition, Line: n, Text: raw}
		}
		seen[tr.Key()] = n
		lines = append(lines, Line{Number: n, Kind: LineTransition, Text: raw, Transition: tr})
	}
	return lines, nil
}

// Compile builds the Definition from classified lines, rejecting duplicate keys.
func Compile(lines []Line) (*domain.Definition, error) {
	var initial domain.State
	builder := domain.NewTableBuilder()

	for _, l := range lines {
		switch l.Kind {
		case LineDeclaration:
			initial = l.State
		case LineTransition:
			if err := builder.Add(l.Transition); err != nil {
				if errors.Is(err, domain.ErrDuplicateKey) {
					return nil, &domain.ParseError{Kind: domain.DuplicateTransition, Line: l.Number, Text: l.Text}
				}
				return nil, err
			}
		}
	}

	if initial == "" {
		return nil, &domain.ParseError{Kind: domain.EmptyDefinition}
	}
	return &domain.Definition{Initial: initial, Table: builder.Build()}, nil
}

func parseDeclaration(n int, text string) (domain.State, error) {
	tokens := Tokenize(text)
	if len(tokens) != 1 || tokens[0].Kind != TokenWord || !isIdentifier(tokens[0].Text) {
		return "", &domain.ParseError{Kind: domain.Malformed, Line: n, Text: text}
	}
	return domain.State(tokens[0].Text), nil
}

// transitionShape is the token sequence of a transition line.
var transitionShape = []TokenKind{
	TokenWord, TokenPlus, TokenWord, TokenArrow,
	TokenWord, TokenPlus, TokenWord, TokenArrow,
	TokenWord,
}

func parseTransition(n int, text string) (domain.Transition, error) {
	malformed := &domain.ParseError{Kind: domain.Malformed, Line: n, Text: text}

	tokens := Tokenize(text)
	if len(tokens) != len(transitionShape) {
		return domain.Transition{}, malformed
	}
	for i, kind := range transitionShape {
		if tokens[i].Kind != kind {
			return domain.Transition{}, malformed
		}
	}

	from, read, ok := stateSymbol(tokens[0].Text, tokens[2].Text)
	if !ok {
		return domain.Transition{}, malformed
	}
	to, write, ok := stateSymbol(tokens[4].Text, tokens[6].Text)
	if !ok {
		return domain.Transition{}, malformed
	}

	move, ok := domain.ParseDirection(tokens[8].Text)
	if !ok {
		return domain.Transition{}, &domain.ParseError{Kind: domain.UnknownDirection, Line: n, Text: text}
	}

	return domain.Transition{From: from, Read: read, To: to, Write: write, Move: move}, nil
}

func stateSymbol(stateText, symbolText string) (domain.State, domain.Symbol, bool) {
	if !isIdentifier(stateText) {
		return "", 0, false
	}
	sym, ok := singleSymbol(symbolText)
	if !ok {
		return "", 0, false
	}
	return domain.State(stateText), sym, true
}

func singleSymbol(text string) (domain.Symbol, bool) {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || size != len(text) {
		return 0, false
	}
	sym := domain.Symbol(r)
	return sym, sym.Valid()
}

// isIdentifier reports whether s is a word of letters, digits and underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
