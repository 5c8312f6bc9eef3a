// Package alignment provides global pairwise alignment of CDR fragments.
//
// Alignments are computed with the Needleman-Wunsch algorithm using an
// amino-acid substitution matrix and a linear gap penalty.
package alignment

import (
	"fmt"
	"sync"

	"github.com/biogo/biogo/align/matrix"
	"github.com/biogo/biogo/alphabet"

	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// DefaultGapPenalty is the per-column gap penalty used by Default.
const DefaultGapPenalty = -5

// AlignDirection represents a traceback move in the alignment matrix.
type AlignDirection int

const (
	// Diagonal represents a match or mismatch
	Diagonal AlignDirection = iota
	// Up represents a gap in sequence 2
	Up
	// Left represents a gap in sequence 1
	Left
)

func (d AlignDirection) String() string {
	switch d {
	case Diagonal:
		return "diagonal"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// ScoreMatrix is a symmetric substitution matrix over the amino-acid
// alphabet (including X) with a fixed linear gap penalty.
//
// Every pair of residues is guaranteed to have a score once the matrix is
// constructed; a missing pair is reported by the constructor rather than
// defaulted at lookup time.
type ScoreMatrix struct {
	name  string
	index [256]int
	table [][]int
	gap   int
}

// NewScoreMatrix builds a matrix from entries keyed by residue pairs.
//
// Entries may be given as a full table or as one triangle; a pair (a, b)
// that is absent is looked up as (b, a). Entries that disagree between the
// two orders, pairs missing in both orders and symbols outside the
// alphabet are configuration errors.
func NewScoreMatrix(name string, entries map[[2]byte]int, gap int) (*ScoreMatrix, error) {
	if gap >= 0 {
		return nil, fmt.Errorf("gap penalty must be negative, got %d", gap)
	}

	for pair, v := range entries {
		for _, c := range pair {
			if !sequence.IsResidue(c) {
				return nil, fmt.Errorf("%s: %w", name, &sequence.InvalidSymbolError{Position: -1, Found: c})
			}
		}
		if w, ok := entries[[2]byte{pair[1], pair[0]}]; ok && w != v {
			return nil, fmt.Errorf("%s: asymmetric score for %c/%c: %d != %d", name, pair[0], pair[1], v, w)
		}
	}

	symbols := sequence.Symbols(false)
	m := &ScoreMatrix{
		name:  name,
		table: make([][]int, len(symbols)),
		gap:   gap,
	}
	for i := range m.index {
		m.index[i] = -1
	}
	for i, c := range symbols {
		m.index[c] = i
	}

	for i, a := range symbols {
		m.table[i] = make([]int, len(symbols))
		for j, b := range symbols {
			v, ok := entries[[2]byte{a, b}]
			if !ok {
				v, ok = entries[[2]byte{b, a}]
			}
			if !ok {
				return nil, fmt.Errorf("%s: no score for pair %c/%c", name, a, b)
			}
			m.table[i][j] = v
		}
	}

	return m, nil
}

// BLOSUM62 returns the BLOSUM62 substitution matrix with the given gap
// penalty.
func BLOSUM62(gap int) (*ScoreMatrix, error) {
	entries := make(map[[2]byte]int)
	symbols := sequence.Symbols(false)
	for _, a := range symbols {
		ia := alphabet.Protein.IndexOf(alphabet.Letter(a))
		if ia < 0 || ia >= len(matrix.BLOSUM62) {
			return nil, fmt.Errorf("BLOSUM62: no row for %c", a)
		}
		row := matrix.BLOSUM62[ia]
		for _, b := range symbols {
			ib := alphabet.Protein.IndexOf(alphabet.Letter(b))
			if ib < 0 || ib >= len(row) {
				return nil, fmt.Errorf("BLOSUM62: no column for %c", b)
			}
			entries[[2]byte{a, b}] = row[ib]
		}
	}
	return NewScoreMatrix("BLOSUM62", entries, gap)
}

// Simple creates an identity matrix scoring match for equal residues and
// mismatch otherwise.
func Simple(match, mismatch, gap int) (*ScoreMatrix, error) {
	if match <= 0 {
		return nil, fmt.Errorf("match score must be positive")
	}
	if mismatch > 0 {
		return nil, fmt.Errorf("mismatch penalty should be <= 0")
	}

	entries := make(map[[2]byte]int)
	symbols := sequence.Symbols(false)
	for _, a := range symbols {
		for _, b := range symbols {
			if a == b {
				entries[[2]byte{a, b}] = match
			} else {
				entries[[2]byte{a, b}] = mismatch
			}
		}
	}
	return NewScoreMatrix(fmt.Sprintf("simple(%d,%d)", match, mismatch), entries, gap)
}

var (
	defaultOnce   sync.Once
	defaultMatrix *ScoreMatrix
)

// Default returns the shared BLOSUM62 matrix with DefaultGapPenalty.
// The matrix is read-only and safe for concurrent use.
func Default() *ScoreMatrix {
	defaultOnce.Do(func() {
		m, err := BLOSUM62(DefaultGapPenalty)
		if err != nil {
			panic(fmt.Sprintf("alignment: building default matrix: %v", err))
		}
		defaultMatrix = m
	})
	return defaultMatrix
}

// Score returns the substitution score for two residues.
func (s *ScoreMatrix) Score(a, b byte) (int, error) {
	ia, ib := s.index[a], s.index[b]
	if ia < 0 {
		return 0, &sequence.InvalidSymbolError{Position: -1, Found: a}
	}
	if ib < 0 {
		return 0, &sequence.InvalidSymbolError{Position: -1, Found: b}
	}
	return s.table[ia][ib], nil
}

// GapPenalty returns the linear gap penalty.
func (s *ScoreMatrix) GapPenalty() int {
	return s.gap
}

// Name returns the matrix name.
func (s *ScoreMatrix) Name() string {
	return s.name
}

// String returns a string representation of the scoring matrix.
func (s *ScoreMatrix) String() string {
	return fmt.Sprintf("ScoreMatrix { name: %s, gap: %d }", s.name, s.gap)
}
