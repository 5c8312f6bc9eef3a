// Package search finds the reference fragments closest to a query fragment
// under a chosen distance metric.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aria-lang/cdrflow-go/internal/distance"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// ErrEmptyCandidateSet is returned when no reference fragment could be
// compared with the query.
var ErrEmptyCandidateSet = errors.New("no comparable candidates in reference collection")

// Closest is the group of reference fragments at the minimum distance from
// a query. Ties are kept: Matches holds every distinct fragment at that
// distance and Count the number of references in the group, duplicates
// included.
type Closest struct {
	Query    string
	Metric   string
	Distance distance.Value
	Matches  []string
	Count    int
}

func (c *Closest) String() string {
	return fmt.Sprintf("Closest { query: %s, metric: %s, distance: %s, count: %d, unique: %d }",
		c.Query, c.Metric, c.Distance, c.Count, len(c.Matches))
}

// FindClosest compares query with every reference fragment and returns the
// group with the smallest distance.
//
// Zero-length references carry no signal and are skipped. References the
// metric reports as incomparable (a *distance.LengthMismatchError) are
// skipped as well; any other metric error aborts the search. An invalid
// query fails before any reference is compared.
func FindClosest(query string, refs []string, m distance.Metric) (*Closest, error) {
	if err := sequence.Validate(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	var best *Closest

	for _, candidate := range refs {
		if len(candidate) == 0 {
			continue
		}

		d, err := m.Distance(query, candidate)
		if err != nil {
			var lenErr *distance.LengthMismatchError
			if errors.As(err, &lenErr) {
				continue
			}
			return nil, fmt.Errorf("comparing %q with %q: %w", query, candidate, err)
		}

		switch {
		case best == nil || d.Less(best.Distance):
			best = &Closest{
				Query:    query,
				Metric:   m.Name(),
				Distance: d,
				Matches:  []string{candidate},
				Count:    1,
			}
		case d == best.Distance:
			best.Matches = append(best.Matches, candidate)
			best.Count++
		}
	}

	if best == nil {
		return nil, ErrEmptyCandidateSet
	}

	best.Matches = sequence.Unique(best.Matches)
	return best, nil
}

// Merge combines the results of searching two parts of one reference
// collection. The smaller distance wins; equal distances union their
// matches and add their counts. A nil argument is the identity.
func Merge(a, b *Closest) *Closest {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Distance.Less(b.Distance):
		return a
	case b.Distance.Less(a.Distance):
		return b
	}

	matches := make([]string, 0, len(a.Matches)+len(b.Matches))
	matches = append(matches, a.Matches...)
	matches = append(matches, b.Matches...)

	return &Closest{
		Query:    a.Query,
		Metric:   a.Metric,
		Distance: a.Distance,
		Matches:  sequence.Unique(matches),
		Count:    a.Count + b.Count,
	}
}

// FindClosestParallel splits refs into up to workers parts, searches them
// concurrently and merges the partial results. The result equals that of
// FindClosest.
func FindClosestParallel(ctx context.Context, query string, refs []string, m distance.Metric, workers int) (*Closest, error) {
	parts := Partition(refs, workers)
	results := make([]*Closest, len(parts))
	errs := make([]error, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		wg.Add(1)
		go func(i int, part []string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = FindClosest(query, part, m)
		}(i, part)
	}
	wg.Wait()

	var merged *Closest
	for i := range parts {
		if errs[i] != nil {
			if errors.Is(errs[i], ErrEmptyCandidateSet) {
				continue
			}
			return nil, errs[i]
		}
		merged = Merge(merged, results[i])
	}

	if merged == nil {
		return nil, ErrEmptyCandidateSet
	}
	return merged, nil
}

// Partition splits refs into at most n contiguous parts of near-equal size.
func Partition(refs []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	if n > len(refs) {
		n = len(refs)
	}

	parts := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		lo := i * len(refs) / n
		hi := (i + 1) * len(refs) / n
		parts = append(parts, refs[lo:hi])
	}
	return parts
}
