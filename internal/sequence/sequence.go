// Package sequence provides the amino-acid fragment type used by the engine.
//
// A fragment is a short run of residues taken from one CDR of an antibody
// heavy chain. Residues are drawn from the twenty standard amino-acid codes
// plus the unknown symbol X. The gap symbol is reserved for alignments and
// never appears in an input fragment.
package sequence

import (
	"fmt"
	"sort"
	"strings"
)

// Alphabet lists the twenty standard amino-acid codes.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY"

const (
	// Unknown is the symbol for an unidentified residue.
	Unknown byte = 'X'
	// Gap is the alignment placeholder for an insertion or deletion.
	Gap byte = '-'
)

// Fragment is a validated amino-acid fragment. Zero-length fragments are
// valid; an empty CDR is common in the region index data.
type Fragment struct {
	Residues string
}

// New creates a fragment, upper-casing the residues and validating them
// against the alphabet.
func New(residues string) (*Fragment, error) {
	normalized := strings.ToUpper(residues)
	if err := Validate(normalized); err != nil {
		return nil, err
	}
	return &Fragment{Residues: normalized}, nil
}

// Len returns the number of residues.
func (f *Fragment) Len() int {
	return len(f.Residues)
}

// HasUnknown checks if the fragment contains an unknown residue.
func (f *Fragment) HasUnknown() bool {
	return strings.IndexByte(f.Residues, Unknown) >= 0
}

// Composition counts each residue in the fragment.
func (f *Fragment) Composition() map[byte]int {
	counts := make(map[byte]int)
	for i := 0; i < len(f.Residues); i++ {
		counts[f.Residues[i]]++
	}
	return counts
}

func (f *Fragment) String() string {
	return fmt.Sprintf("Fragment { residues: %s }", f.Residues)
}

// Symbols returns every residue symbol (alphabet plus unknown), sorted.
// When withGap is set the gap symbol is included as well.
func Symbols(withGap bool) []byte {
	symbols := []byte(Alphabet)
	symbols = append(symbols, Unknown)
	if withGap {
		symbols = append(symbols, Gap)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Unique returns the distinct strings of values in sorted order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
