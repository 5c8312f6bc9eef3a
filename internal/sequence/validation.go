package sequence

import "fmt"

// InvalidSymbolError is returned when a symbol outside the supported
// alphabet is encountered.
type InvalidSymbolError struct {
	Position int
	Found    byte
}

func (e *InvalidSymbolError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid symbol '%c'", e.Found)
	}
	return fmt.Sprintf("invalid symbol '%c' at position %d", e.Found, e.Position)
}

var validResidues = func() [256]bool {
	var table [256]bool
	for i := 0; i < len(Alphabet); i++ {
		table[Alphabet[i]] = true
	}
	table[Unknown] = true
	return table
}()

// Validate checks that residues holds only alphabet symbols or X.
// Lowercase letters are rejected; callers normalise first.
func Validate(residues string) error {
	for i := 0; i < len(residues); i++ {
		if !validResidues[residues[i]] {
			return &InvalidSymbolError{Position: i, Found: residues[i]}
		}
	}
	return nil
}

// IsResidue checks if c is an amino-acid code or the unknown symbol.
func IsResidue(c byte) bool {
	return validResidues[c]
}
