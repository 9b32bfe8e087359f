package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable indicates no symbols to build a tree from.
	ErrEmptyTable = errors.New("empty frequency table")
	// ErrEmptyTree indicates the tree was never built.
	ErrEmptyTree = errors.New("empty tree")
)

// UnknownSymbolError indicates a symbol missing from the code table,
// i.e. the table was built from a different message.
type UnknownSymbolError struct {
	Symbol rune
	Offset int
}

// Error implements error.
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q at %d not in code table", e.Symbol, e.Offset)
}

// NegativeFrequencyError rejects a frequency table with a negative count.
type NegativeFrequencyError struct {
	Symbol rune
	Count  int
}

// Error implements error.
func (e *NegativeFrequencyError) Error() string {
	return fmt.Sprintf("negative frequency %d for %q", e.Count, e.Symbol)
}
