// Package stats accumulates per-position residue frequencies over the
// reference fragments that lie close to a query fragment.
package stats

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aria-lang/cdrflow-go/internal/alignment"
	"github.com/aria-lang/cdrflow-go/internal/distance"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// Frequency maps an observed symbol (a residue or the gap) to its count.
type Frequency map[byte]int

// PositionStats holds one Frequency per query position. Accepted is the
// number of references that passed the threshold.
type PositionStats struct {
	Query     string
	Threshold float64
	Positions []Frequency
	Accepted  int
}

// AlignmentConsistencyError reports an alignment whose non-gap query
// columns do not cover the query exactly once. It indicates a defect in
// the aligner, not bad input.
type AlignmentConsistencyError struct {
	Query     string
	Candidate string
	Counted   int
}

func (e *AlignmentConsistencyError) Error() string {
	return fmt.Sprintf("alignment of %q against %q covers %d query positions, want %d",
		e.Candidate, e.Query, e.Counted, len(e.Query))
}

func newPositionStats(query string, threshold float64) *PositionStats {
	positions := make([]Frequency, len(query))
	for i := range positions {
		positions[i] = make(Frequency)
	}
	return &PositionStats{
		Query:     query,
		Threshold: threshold,
		Positions: positions,
	}
}

func validateThreshold(threshold float64) error {
	if !(threshold > 0 && threshold <= 1) {
		return fmt.Errorf("threshold must be in (0, 1], got %g", threshold)
	}
	return nil
}

// Aggregate aligns every non-empty reference against query and, for those
// whose adjusted distance is at most threshold, counts the reference symbol
// found at each query position. A gap in the reference is counted as the
// gap symbol; reference residues inserted between query positions are not
// counted.
func Aggregate(query string, refs []string, threshold float64, scoring *alignment.ScoreMatrix) (*PositionStats, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := sequence.Validate(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	ps := newPositionStats(query, threshold)
	for _, candidate := range refs {
		if err := ps.add(candidate, scoring); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// add accumulates a single reference.
func (ps *PositionStats) add(candidate string, scoring *alignment.ScoreMatrix) error {
	if len(candidate) == 0 {
		return nil
	}

	aln, err := alignment.Align(ps.Query, candidate, scoring)
	if err != nil {
		return fmt.Errorf("aligning %q: %w", candidate, err)
	}

	d, err := distance.AdjustedFromAlignment(aln)
	if err != nil {
		return err
	}
	if d.Float64() > ps.Threshold {
		return nil
	}

	pos := 0
	for k := 0; k < aln.Length(); k++ {
		if aln.AlignedSeq1[k] == sequence.Gap {
			continue
		}
		if pos >= len(ps.Positions) {
			return &AlignmentConsistencyError{Query: ps.Query, Candidate: candidate, Counted: pos + 1}
		}
		ps.Positions[pos][aln.AlignedSeq2[k]]++
		pos++
	}
	if pos != len(ps.Query) {
		return &AlignmentConsistencyError{Query: ps.Query, Candidate: candidate, Counted: pos}
	}

	ps.Accepted++
	return nil
}

// Count returns how often symbol was observed at pos.
func (ps *PositionStats) Count(pos int, symbol byte) int {
	if pos < 0 || pos >= len(ps.Positions) {
		return 0
	}
	return ps.Positions[pos][symbol]
}

// Total returns the number of observations at pos.
func (ps *PositionStats) Total(pos int) int {
	if pos < 0 || pos >= len(ps.Positions) {
		return 0
	}
	total := 0
	for _, n := range ps.Positions[pos] {
		total += n
	}
	return total
}

// Symbols returns every symbol observed at any position, sorted.
func (ps *PositionStats) Symbols() []byte {
	seen := make(map[byte]bool)
	for _, f := range ps.Positions {
		for c := range f {
			seen[c] = true
		}
	}

	symbols := make([]byte, 0, len(seen))
	for c := range seen {
		symbols = append(symbols, c)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Equal reports whether both hold the same query and counts.
func (ps *PositionStats) Equal(other *PositionStats) bool {
	if other == nil || ps.Query != other.Query || ps.Accepted != other.Accepted ||
		len(ps.Positions) != len(other.Positions) {
		return false
	}
	for i, f := range ps.Positions {
		g := other.Positions[i]
		if len(f) != len(g) {
			return false
		}
		for c, n := range f {
			if g[c] != n {
				return false
			}
		}
	}
	return true
}

func (ps *PositionStats) String() string {
	return fmt.Sprintf("PositionStats { query: %s, threshold: %g, accepted: %d }",
		ps.Query, ps.Threshold, ps.Accepted)
}

// Merge sums two statistics computed for the same query and threshold over
// disjoint parts of a reference collection. Neither input is modified. A
// nil argument is the identity, as in search.Merge.
func Merge(a, b *PositionStats) (*PositionStats, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	}
	if a.Query != b.Query {
		return nil, fmt.Errorf("cannot merge statistics for %q and %q", a.Query, b.Query)
	}
	if a.Threshold != b.Threshold {
		return nil, fmt.Errorf("cannot merge statistics for thresholds %g and %g", a.Threshold, b.Threshold)
	}

	out := newPositionStats(a.Query, a.Threshold)
	for i := range out.Positions {
		for c, n := range a.Positions[i] {
			out.Positions[i][c] += n
		}
		for c, n := range b.Positions[i] {
			out.Positions[i][c] += n
		}
	}
	out.Accepted = a.Accepted + b.Accepted
	return out, nil
}

// AggregateParallel splits refs into up to workers parts, aggregates them
// concurrently and merges the partial statistics. The result equals that
// of Aggregate.
func AggregateParallel(ctx context.Context, query string, refs []string, threshold float64,
	scoring *alignment.ScoreMatrix, workers int) (*PositionStats, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := sequence.Validate(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(refs) {
		workers = len(refs)
	}

	results := make([]*PositionStats, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		part := refs[i*len(refs)/workers : (i+1)*len(refs)/workers]
		wg.Add(1)
		go func(i int, part []string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = Aggregate(query, part, threshold, scoring)
		}(i, part)
	}
	wg.Wait()

	merged := newPositionStats(query, threshold)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			return nil, errs[i]
		}
		var err error
		if merged, err = Merge(merged, results[i]); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
