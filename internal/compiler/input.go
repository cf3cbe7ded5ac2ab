package compiler

import (
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// ParseInput converts the input string into tape symbols.
// Every character must be a valid symbol and belong to alphabet; a nil alphabet
// accepts any valid symbol. The returned error is a *domain.InputError.
func ParseInput(text string, alphabet []domain.Symbol) ([]domain.Symbol, error) {
	symbols := make([]domain.Symbol, 0, len(text))
	column := 0
	for _, r := range text {
		sym := domain.Symbol(r)
		if !sym.Valid() || (alphabet != nil && !slices.Contains(alphabet, sym)) {
			return nil, &domain.InputError{Column: column, Symbol: sym}
		}
		symbols = append(symbols, sym)
		column++
	}
	return symbols, nil
}
