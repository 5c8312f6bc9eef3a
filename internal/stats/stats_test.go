package stats

import (
	"context"
	"testing"

	"github.com/aria-lang/cdrflow-go/internal/alignment"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleMatrix(t *testing.T) *alignment.ScoreMatrix {
	t.Helper()
	m, err := alignment.Simple(1, -1, alignment.DefaultGapPenalty)
	require.NoError(t, err)
	return m
}

func TestAggregateUngapped(t *testing.T) {
	refs := []string{"GFTFSSYA", "GFTFSDYA", "GFTFSNYA", ""}

	ps, err := Aggregate("GFTFSSYA", refs, 1.0, nil)
	require.NoError(t, err)

	require.Len(t, ps.Positions, 8)
	assert.Equal(t, 3, ps.Accepted)
	assert.Equal(t, Frequency{'G': 3}, ps.Positions[0])
	assert.Equal(t, Frequency{'A': 3}, ps.Positions[7])
	assert.Equal(t, Frequency{'S': 1, 'D': 1, 'N': 1}, ps.Positions[5])

	for pos := range ps.Positions {
		assert.Equal(t, 3, ps.Total(pos))
	}
}

func TestAggregateDeletionCountsGap(t *testing.T) {
	ps, err := Aggregate("ACDE", []string{"ACE"}, 0.5, simpleMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, 1, ps.Accepted)
	assert.Equal(t, 1, ps.Count(2, sequence.Gap))
	assert.Equal(t, 1, ps.Count(3, 'E'))
}

func TestAggregateInsertionNotCounted(t *testing.T) {
	ps, err := Aggregate("ACE", []string{"ACDE"}, 0.5, simpleMatrix(t))
	require.NoError(t, err)

	require.Len(t, ps.Positions, 3)
	assert.Equal(t, Frequency{'A': 1}, ps.Positions[0])
	assert.Equal(t, Frequency{'C': 1}, ps.Positions[1])
	assert.Equal(t, Frequency{'E': 1}, ps.Positions[2])
	assert.NotContains(t, ps.Symbols(), byte('D'))
}

func TestAggregateThreshold(t *testing.T) {
	refs := []string{"ACDE", "WWWW"}

	strict, err := Aggregate("ACDE", refs, 0.5, simpleMatrix(t))
	require.NoError(t, err)
	assert.Equal(t, 1, strict.Accepted)
	assert.Equal(t, Frequency{'A': 1}, strict.Positions[0])

	loose, err := Aggregate("ACDE", refs, 1.0, simpleMatrix(t))
	require.NoError(t, err)
	assert.Equal(t, 2, loose.Accepted)
	assert.Equal(t, Frequency{'A': 1, 'W': 1}, loose.Positions[0])
}

func TestAggregateThresholdInclusive(t *testing.T) {
	// ACDE against ACE: one edit over an alignment of length 4.
	at, err := Aggregate("ACDE", []string{"ACE"}, 0.25, simpleMatrix(t))
	require.NoError(t, err)
	assert.Equal(t, 1, at.Accepted, "a distance equal to the threshold is accepted")
	assert.Equal(t, 1, at.Count(2, sequence.Gap))

	below, err := Aggregate("ACDE", []string{"ACE"}, 0.24, simpleMatrix(t))
	require.NoError(t, err)
	assert.Equal(t, 0, below.Accepted)
	assert.Equal(t, 0, below.Total(0))
}

func TestAggregateInvalidThreshold(t *testing.T) {
	for _, threshold := range []float64{0, -0.1, 1.5} {
		_, err := Aggregate("ACDE", []string{"ACDE"}, threshold, nil)
		assert.Error(t, err, "threshold %g", threshold)
	}
}

func TestAggregateInvalidSymbol(t *testing.T) {
	_, err := Aggregate("ACDE", []string{"ACBE"}, 1.0, nil)
	var symErr *sequence.InvalidSymbolError
	assert.ErrorAs(t, err, &symErr)

	_, err = Aggregate("AC*E", nil, 1.0, nil)
	assert.ErrorAs(t, err, &symErr)
}

func TestAggregateEmptyQuery(t *testing.T) {
	ps, err := Aggregate("", []string{"ACD"}, 1.0, nil)
	require.NoError(t, err)
	assert.Empty(t, ps.Positions)
	assert.Equal(t, 1, ps.Accepted)
	assert.Equal(t, 0, ps.Total(0))
}

func TestAggregateIdempotent(t *testing.T) {
	refs := []string{"ARDYYGSSYFDY", "ARGGYFDY", "AKDRGYSSGWYFDY", "ARDRGYFDY", "TTVTAY"}

	first, err := Aggregate("ARDGYFDY", refs, 0.6, nil)
	require.NoError(t, err)
	second, err := Aggregate("ARDGYFDY", refs, 0.6, nil)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first, second)
}

func TestAggregateParallel(t *testing.T) {
	refs := []string{"ARDYYGSSYFDY", "ARGGYFDY", "", "AKDRGYSSGWYFDY", "ARDRGYFDY", "TTVTAY", "ARDGYFDY"}

	want, err := Aggregate("ARDGYFDY", refs, 0.6, nil)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 3, 16} {
		got, err := AggregateParallel(context.Background(), "ARDGYFDY", refs, 0.6, nil, workers)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "%d workers", workers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = AggregateParallel(ctx, "ARDGYFDY", refs, 0.6, nil, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge(t *testing.T) {
	a, err := Aggregate("ACDE", []string{"ACDE"}, 1.0, simpleMatrix(t))
	require.NoError(t, err)
	b, err := Aggregate("ACDE", []string{"ACDF", "ACE"}, 1.0, simpleMatrix(t))
	require.NoError(t, err)
	all, err := Aggregate("ACDE", []string{"ACDE", "ACDF", "ACE"}, 1.0, simpleMatrix(t))
	require.NoError(t, err)

	ab, err := Merge(a, b)
	require.NoError(t, err)
	ba, err := Merge(b, a)
	require.NoError(t, err)

	assert.True(t, all.Equal(ab))
	assert.True(t, ab.Equal(ba))
	assert.Equal(t, 1, a.Total(0), "inputs are not modified")

	other, err := Aggregate("ACD", nil, 1.0, nil)
	require.NoError(t, err)
	_, err = Merge(a, other)
	assert.Error(t, err)

	otherThreshold, err := Aggregate("ACDE", nil, 0.5, nil)
	require.NoError(t, err)
	_, err = Merge(a, otherThreshold)
	assert.Error(t, err)

	left, err := Merge(nil, a)
	require.NoError(t, err)
	assert.Same(t, a, left)
	right, err := Merge(a, nil)
	require.NoError(t, err)
	assert.Same(t, a, right)
	none, err := Merge(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPositionStatsAccessors(t *testing.T) {
	ps, err := Aggregate("ACDE", []string{"ACE", "ACDF"}, 1.0, simpleMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, []byte{'-', 'A', 'C', 'D', 'E', 'F'}, ps.Symbols())
	assert.Equal(t, 0, ps.Count(-1, 'A'))
	assert.Equal(t, 0, ps.Count(10, 'A'))
	assert.False(t, ps.Equal(nil))
	assert.Contains(t, ps.String(), "accepted: 2")
}

func TestAlignmentConsistencyError(t *testing.T) {
	err := &AlignmentConsistencyError{Query: "ACDE", Candidate: "ACE", Counted: 3}
	assert.Contains(t, err.Error(), "covers 3 query positions, want 4")
}
