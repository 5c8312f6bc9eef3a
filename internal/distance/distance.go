package distance

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aria-lang/cdrflow-go/internal/alignment"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// LengthMismatchError is returned when Hamming distance is requested for
// fragments of different lengths. Such fragments are incomparable under
// Hamming distance; there is no fallback value.
type LengthMismatchError struct {
	Len1 int
	Len2 int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("hamming distance requires equal lengths, got %d and %d", e.Len1, e.Len2)
}

// Hamming counts the positions at which two equal-length fragments differ.
// Symbols are validated before lengths are compared, so an invalid fragment
// is never reported as merely incomparable.
func Hamming(a, b string) (int, error) {
	if err := validatePair(a, b); err != nil {
		return 0, err
	}
	if len(a) != len(b) {
		return 0, &LengthMismatchError{Len1: len(a), Len2: len(b)}
	}

	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}

// Edit returns the Levenshtein distance: the minimum number of single
// residue insertions, deletions and substitutions turning a into b.
func Edit(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Adjusted returns Edit(a, b) divided by the length of the global alignment
// of a and b. Two empty fragments are at distance 0.
//
// The pair is aligned in lexicographic order so that the result does not
// depend on argument order. The value can exceed 1 when the edit distance
// is larger than the score-optimal alignment length; it is reported as is.
func Adjusted(a, b string, scoring *alignment.ScoreMatrix) (Value, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	aln, err := alignment.Align(first, second, scoring)
	if err != nil {
		return Value{}, err
	}
	return AdjustedFromAlignment(aln)
}

// AdjustedFromAlignment computes adjusted distance from an existing
// alignment of the two fragments, without aligning again.
func AdjustedFromAlignment(aln *alignment.Alignment) (Value, error) {
	a, b := aln.Ungapped()
	return Ratio(Edit(a, b), aln.Length())
}

func validatePair(a, b string) error {
	if err := sequence.Validate(a); err != nil {
		return fmt.Errorf("sequence 1: %w", err)
	}
	if err := sequence.Validate(b); err != nil {
		return fmt.Errorf("sequence 2: %w", err)
	}
	return nil
}

// Metric is a distance measure between two fragments.
type Metric interface {
	Name() string
	Distance(a, b string) (Value, error)
}

// Metric names accepted by MetricByName.
const (
	HammingName     = "hamming"
	LevenshteinName = "levenshtein"
	AdjustedName    = "adjusted"
)

// HammingMetric measures Hamming distance. Fragments of different lengths
// yield a *LengthMismatchError.
type HammingMetric struct{}

// Name returns the metric name.
func (HammingMetric) Name() string { return HammingName }

// Distance returns the Hamming distance of a and b.
func (HammingMetric) Distance(a, b string) (Value, error) {
	d, err := Hamming(a, b)
	if err != nil {
		return Value{}, err
	}
	return Int(d), nil
}

// EditMetric measures Levenshtein distance.
type EditMetric struct{}

// Name returns the metric name.
func (EditMetric) Name() string { return LevenshteinName }

// Distance returns the edit distance of a and b.
func (EditMetric) Distance(a, b string) (Value, error) {
	if err := validatePair(a, b); err != nil {
		return Value{}, err
	}
	return Int(Edit(a, b)), nil
}

// AdjustedMetric measures adjusted distance under Scoring (nil for the
// default matrix).
type AdjustedMetric struct {
	Scoring *alignment.ScoreMatrix
}

// Name returns the metric name.
func (AdjustedMetric) Name() string { return AdjustedName }

// Distance returns the adjusted distance of a and b.
func (m AdjustedMetric) Distance(a, b string) (Value, error) {
	return Adjusted(a, b, m.Scoring)
}

// MetricByName returns the metric with the given name. The scoring matrix
// only affects the adjusted metric.
func MetricByName(name string, scoring *alignment.ScoreMatrix) (Metric, error) {
	switch strings.ToLower(name) {
	case HammingName:
		return HammingMetric{}, nil
	case LevenshteinName, "edit":
		return EditMetric{}, nil
	case AdjustedName:
		return AdjustedMetric{Scoring: scoring}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

// All returns the three metrics in reporting order.
func All(scoring *alignment.ScoreMatrix) []Metric {
	return []Metric{HammingMetric{}, EditMetric{}, AdjustedMetric{Scoring: scoring}}
}
