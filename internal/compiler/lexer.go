package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token of a definition line.
type TokenKind int

const (
	TokenWord  TokenKind = iota // state name, symbol or direction
	TokenPlus                   // "+"
	TokenArrow                  // "|>"
)

func (k TokenKind) String() string {
	switch k {
	case TokenPlus:
		return "+"
	case TokenArrow:
		return "|>"
	default:
		return "word"
	}
}

// Token is a lexeme of a single line.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize splits a line into words, "+" and "|>" tokens.
// Whitespace separates words but is optional around operators, so "A+_|>B+1|>R"
// yields the same tokens as "A + _ |> B + 1 |> R".
func Tokenize(line string) []Token {
	var tokens []Token
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenWord, Text: word.String()})
			word.Reset()
		}
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '+':
			flush()
			tokens = append(tokens, Token{Kind: TokenPlus, Text: "+"})
		case strings.HasPrefix(line[i:], "|>"):
			flush()
			tokens = append(tokens, Token{Kind: TokenArrow, Text: "|>"})
			size = 2
		default:
			word.WriteRune(r)
		}
		i += size
	}
	flush()
	return tokens
}
