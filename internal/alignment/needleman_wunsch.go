package alignment

import (
	"fmt"

	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// Align performs global alignment of a and b using the Needleman-Wunsch
// algorithm. A nil scoring uses Default.
//
// When several moves reproduce a cell's score during traceback, the
// diagonal move wins over the vertical move (gap in b), which wins over
// the horizontal move (gap in a), so every pair has exactly one result.
// The alignment length is len(a) + len(b) minus the diagonal moves taken.
// Either input may be empty.
func Align(a, b string, scoring *ScoreMatrix) (*Alignment, error) {
	if scoring == nil {
		scoring = Default()
	}

	if err := sequence.Validate(a); err != nil {
		return nil, fmt.Errorf("sequence 1: %w", err)
	}
	if err := sequence.Validate(b); err != nil {
		return nil, fmt.Errorf("sequence 2: %w", err)
	}

	F, err := fillMatrix(a, b, scoring)
	if err != nil {
		return nil, err
	}

	aligned1, aligned2, err := tracebackGlobal(a, b, F, scoring)
	if err != nil {
		return nil, err
	}

	return NewAlignment(aligned1, aligned2, F[len(a)][len(b)])
}

// fillMatrix builds the (len(a)+1) x (len(b)+1) score matrix.
func fillMatrix(a, b string, scoring *ScoreMatrix) ([][]int, error) {
	m, n := len(a), len(b)
	gap := scoring.GapPenalty()

	F := make([][]int, m+1)
	for i := range F {
		F[i] = make([]int, n+1)
		F[i][0] = i * gap
	}
	for j := 0; j <= n; j++ {
		F[0][j] = j * gap
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			s, err := scoring.Score(a[i-1], b[j-1])
			if err != nil {
				return nil, err
			}

			diag := F[i-1][j-1] + s
			up := F[i-1][j] + gap
			left := F[i][j-1] + gap

			F[i][j] = max(diag, max(up, left))
		}
	}

	return F, nil
}

// step picks the traceback move out of cell (i, j), both indices > 0.
func step(a, b string, F [][]int, i, j int, scoring *ScoreMatrix) (AlignDirection, error) {
	s, err := scoring.Score(a[i-1], b[j-1])
	if err != nil {
		return 0, err
	}

	switch F[i][j] {
	case F[i-1][j-1] + s:
		return Diagonal, nil
	case F[i-1][j] + scoring.GapPenalty():
		return Up, nil
	default:
		return Left, nil
	}
}

// tracebackGlobal walks F back from the bottom-right corner.
func tracebackGlobal(a, b string, F [][]int, scoring *ScoreMatrix) (string, string, error) {
	i, j := len(a), len(b)
	aligned1 := make([]byte, 0, i+j)
	aligned2 := make([]byte, 0, i+j)

	for i > 0 && j > 0 {
		dir, err := step(a, b, F, i, j, scoring)
		if err != nil {
			return "", "", err
		}

		switch dir {
		case Diagonal:
			aligned1 = append(aligned1, a[i-1])
			aligned2 = append(aligned2, b[j-1])
			i--
			j--
		case Up:
			aligned1 = append(aligned1, a[i-1])
			aligned2 = append(aligned2, sequence.Gap)
			i--
		case Left:
			aligned1 = append(aligned1, sequence.Gap)
			aligned2 = append(aligned2, b[j-1])
			j--
		}
	}

	// Drain whichever prefix is left as pure gap columns.
	for ; i > 0; i-- {
		aligned1 = append(aligned1, a[i-1])
		aligned2 = append(aligned2, sequence.Gap)
	}
	for ; j > 0; j-- {
		aligned1 = append(aligned1, sequence.Gap)
		aligned2 = append(aligned2, b[j-1])
	}

	reverse(aligned1)
	reverse(aligned2)
	return string(aligned1), string(aligned2), nil
}

// reverse reverses a byte slice in place.
func reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ScoreOnly calculates the global alignment score without traceback,
// keeping two rows of the matrix.
func ScoreOnly(a, b string, scoring *ScoreMatrix) (int, error) {
	if scoring == nil {
		scoring = Default()
	}

	if err := sequence.Validate(a); err != nil {
		return 0, fmt.Errorf("sequence 1: %w", err)
	}
	if err := sequence.Validate(b); err != nil {
		return 0, fmt.Errorf("sequence 2: %w", err)
	}

	m, n := len(a), len(b)
	gap := scoring.GapPenalty()

	prevRow := make([]int, n+1)
	currRow := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prevRow[j] = j * gap
	}

	for i := 1; i <= m; i++ {
		currRow[0] = i * gap

		for j := 1; j <= n; j++ {
			s, err := scoring.Score(a[i-1], b[j-1])
			if err != nil {
				return 0, err
			}

			diag := prevRow[j-1] + s
			up := prevRow[j] + gap
			left := currRow[j-1] + gap

			currRow[j] = max(diag, max(up, left))
		}

		prevRow, currRow = currRow, prevRow
	}

	return prevRow[n], nil
}

// max returns the maximum of two integers.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
