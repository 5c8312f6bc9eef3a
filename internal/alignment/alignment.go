package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// Alignment represents the result of a global alignment between two
// fragments. Both aligned strings have the same length, and no column
// holds a gap in both.
type Alignment struct {
	AlignedSeq1 string
	AlignedSeq2 string
	Score       int
}

// NewAlignment creates a new alignment result.
func NewAlignment(aligned1, aligned2 string, score int) (*Alignment, error) {
	if len(aligned1) != len(aligned2) {
		return nil, fmt.Errorf("aligned sequences must have equal length")
	}
	for i := 0; i < len(aligned1); i++ {
		if aligned1[i] == sequence.Gap && aligned2[i] == sequence.Gap {
			return nil, fmt.Errorf("column %d is a gap in both sequences", i)
		}
	}

	return &Alignment{
		AlignedSeq1: aligned1,
		AlignedSeq2: aligned2,
		Score:       score,
	}, nil
}

// Length returns the number of alignment columns.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// Diagonals returns the number of columns without a gap.
func (a *Alignment) Diagonals() int {
	return a.Length() - a.TotalGaps()
}

// MatchCount returns the number of identical columns.
func (a *Alignment) MatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == a.AlignedSeq2[i] && a.AlignedSeq1[i] != sequence.Gap {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of substitution columns.
func (a *Alignment) MismatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] != a.AlignedSeq2[i] &&
			a.AlignedSeq1[i] != sequence.Gap && a.AlignedSeq2[i] != sequence.Gap {
			count++
		}
	}
	return count
}

// GapsSeq1 returns the number of gaps in sequence 1.
func (a *Alignment) GapsSeq1() int {
	return strings.Count(a.AlignedSeq1, string(sequence.Gap))
}

// GapsSeq2 returns the number of gaps in sequence 2.
func (a *Alignment) GapsSeq2() int {
	return strings.Count(a.AlignedSeq2, string(sequence.Gap))
}

// TotalGaps returns the total number of gaps.
func (a *Alignment) TotalGaps() int {
	return a.GapsSeq1() + a.GapsSeq2()
}

// Identity returns the fraction of identical columns.
func (a *Alignment) Identity() float64 {
	if a.Length() == 0 {
		return 0.0
	}
	return float64(a.MatchCount()) / float64(a.Length())
}

// Ungapped returns both input fragments with the gaps removed.
func (a *Alignment) Ungapped() (string, string) {
	gap := string(sequence.Gap)
	return strings.ReplaceAll(a.AlignedSeq1, gap, ""), strings.ReplaceAll(a.AlignedSeq2, gap, "")
}

// Validate checks that the alignment reproduces a and b once gaps are
// removed.
func (a *Alignment) Validate(seq1, seq2 string) error {
	u1, u2 := a.Ungapped()
	if u1 != seq1 {
		return fmt.Errorf("aligned sequence 1 %q does not match input %q", u1, seq1)
	}
	if u2 != seq2 {
		return fmt.Errorf("aligned sequence 2 %q does not match input %q", u2, seq2)
	}
	return nil
}

// GapOpenings counts the number of gap openings.
func (a *Alignment) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == sequence.Gap && !inGap1 {
			openings++
			inGap1 = true
		} else if a.AlignedSeq1[i] != sequence.Gap {
			inGap1 = false
		}

		if a.AlignedSeq2[i] == sequence.Gap && !inGap2 {
			openings++
			inGap2 = true
		} else if a.AlignedSeq2[i] != sequence.Gap {
			inGap2 = false
		}
	}

	return openings
}

// ToCIGAR generates a CIGAR string with sequence 1 as the reference.
func (a *Alignment) ToCIGAR() string {
	if len(a.AlignedSeq1) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(a.AlignedSeq1); i++ {
		var op byte
		if a.AlignedSeq1[i] == sequence.Gap {
			op = 'I'
		} else if a.AlignedSeq2[i] == sequence.Gap {
			op = 'D'
		} else if a.AlignedSeq1[i] == a.AlignedSeq2[i] {
			op = 'M'
		} else {
			op = 'X'
		}

		if op == currentOp {
			count++
		} else {
			if count > 0 {
				fmt.Fprintf(&cigar, "%d%c", count, currentOp)
			}
			currentOp = op
			count = 1
		}
	}

	if count > 0 {
		fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	}

	return cigar.String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == a.AlignedSeq2[i] {
			matchLine.WriteByte('|')
		} else if a.AlignedSeq1[i] == sequence.Gap || a.AlignedSeq2[i] == sequence.Gap {
			matchLine.WriteByte(' ')
		} else {
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %d\nLength: %d\nIdentity: %.1f%%\nCIGAR: %s",
		a.AlignedSeq1, matchLine.String(), a.AlignedSeq2,
		a.Score, a.Length(), a.Identity()*100, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, identity: %.1f%%, length: %d }",
		a.Score, a.Identity()*100, a.Length())
}
