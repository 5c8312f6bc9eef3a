package search

import (
	"context"
	"errors"
	"testing"

	"github.com/aria-lang/cdrflow-go/internal/distance"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refs = []string{
	"GFTFSSYA",
	"GYTFTSYW",
	"GFTFSSYA",
	"",
	"GFTFSDYA",
	"GFTVSSNY",
	"GGSISSGGYY",
	"GFTFSNYA",
}

func TestFindClosestExactCopy(t *testing.T) {
	for _, m := range distance.All(nil) {
		t.Run(m.Name(), func(t *testing.T) {
			got, err := FindClosest("GFTFSSYA", refs, m)
			require.NoError(t, err)

			assert.Equal(t, distance.Int(0), got.Distance)
			assert.Equal(t, []string{"GFTFSSYA"}, got.Matches)
			assert.Equal(t, 2, got.Count)
			assert.Equal(t, m.Name(), got.Metric)
		})
	}
}

func TestFindClosestTies(t *testing.T) {
	got, err := FindClosest("GFTFSQYA", refs, distance.HammingMetric{})
	require.NoError(t, err)

	assert.Equal(t, distance.Int(1), got.Distance)
	assert.Equal(t, []string{"GFTFSDYA", "GFTFSNYA", "GFTFSSYA"}, got.Matches)
	assert.Equal(t, 4, got.Count)
}

func TestFindClosestSkipsIncomparable(t *testing.T) {
	// Only the ten-residue reference has the query's length.
	got, err := FindClosest("GGSISSGGYW", refs, distance.HammingMetric{})
	require.NoError(t, err)
	assert.Equal(t, distance.Int(1), got.Distance)
	assert.Equal(t, []string{"GGSISSGGYY"}, got.Matches)
}

func TestFindClosestEmptyCandidateSet(t *testing.T) {
	tests := []struct {
		name string
		refs []string
		m    distance.Metric
	}{
		{"no references", nil, distance.EditMetric{}},
		{"only empty references", []string{"", ""}, distance.EditMetric{}},
		{"no equal lengths", []string{"AC", "ACDE"}, distance.HammingMetric{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindClosest("ACD", tt.refs, tt.m)
			assert.ErrorIs(t, err, ErrEmptyCandidateSet)
		})
	}
}

func TestFindClosestPropagatesErrors(t *testing.T) {
	_, err := FindClosest("ACD", []string{"AC1"}, distance.EditMetric{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyCandidateSet))

	var symErr *sequence.InvalidSymbolError
	assert.ErrorAs(t, err, &symErr)
}

func TestFindClosestInvalidSymbolNotSkipped(t *testing.T) {
	var symErr *sequence.InvalidSymbolError

	// No reference has the query's length.
	_, err := FindClosest("AB", []string{"ACD", "WWWW"}, distance.HammingMetric{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyCandidateSet))
	assert.ErrorAs(t, err, &symErr)
	assert.Equal(t, byte('B'), symErr.Found)

	// The invalid reference has a different length than the query.
	_, err = FindClosest("ACD", []string{"A1*Z", "ACE"}, distance.HammingMetric{})
	require.Error(t, err)
	assert.ErrorAs(t, err, &symErr)

	_, err = FindClosestParallel(context.Background(), "ACD", []string{"ACE", "A1*Z"}, distance.HammingMetric{}, 2)
	assert.ErrorAs(t, err, &symErr)
}

func TestFindClosestAdjusted(t *testing.T) {
	got, err := FindClosest("GFTFSSY", refs, distance.AdjustedMetric{})
	require.NoError(t, err)

	assert.Equal(t, []string{"GFTFSSYA"}, got.Matches)
	assert.Less(t, got.Distance.Float64(), 0.2)
}

func TestMerge(t *testing.T) {
	a := &Closest{Distance: distance.Int(1), Matches: []string{"B", "C"}, Count: 2}
	b := &Closest{Distance: distance.Int(1), Matches: []string{"A", "C"}, Count: 3}
	c := &Closest{Distance: distance.Int(2), Matches: []string{"D"}, Count: 1}

	ab := Merge(a, b)
	assert.Equal(t, []string{"A", "B", "C"}, ab.Matches)
	assert.Equal(t, 5, ab.Count)

	assert.Equal(t, ab, Merge(b, a))
	assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))
	assert.Same(t, a, Merge(a, c))
	assert.Same(t, a, Merge(c, a))
	assert.Same(t, a, Merge(nil, a))
	assert.Nil(t, Merge(nil, nil))
}

func TestFindClosestParallel(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8, 100} {
		for _, m := range distance.All(nil) {
			want, err := FindClosest("GFTFSQYA", refs, m)
			if err != nil {
				_, perr := FindClosestParallel(context.Background(), "GFTFSQYA", refs, m, workers)
				assert.Error(t, perr)
				continue
			}

			got, err := FindClosestParallel(context.Background(), "GFTFSQYA", refs, m, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s with %d workers", m.Name(), workers)
		}
	}
}

func TestFindClosestParallelEmpty(t *testing.T) {
	_, err := FindClosestParallel(context.Background(), "ACD", nil, distance.EditMetric{}, 4)
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)
}

func TestFindClosestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindClosestParallel(ctx, "GFTFSSYA", refs, distance.EditMetric{}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartition(t *testing.T) {
	parts := Partition([]string{"A", "B", "C", "D", "E"}, 2)
	require.Len(t, parts, 2)
	assert.Equal(t, []string{"A", "B"}, parts[0])
	assert.Equal(t, []string{"C", "D", "E"}, parts[1])

	assert.Len(t, Partition([]string{"A"}, 4), 1)
	assert.Len(t, Partition([]string{"A", "B"}, 0), 1)
	assert.Empty(t, Partition(nil, 3))
}
