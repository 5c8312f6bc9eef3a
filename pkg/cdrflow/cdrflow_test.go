package cdrflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistances(t *testing.T) {
	h, err := HammingDistance("GFTFSSYA", "GFTFSDYA")
	require.NoError(t, err)
	assert.Equal(t, 1, h)

	_, err = HammingDistance("GFTF", "GF")
	var lenErr *LengthMismatchError
	assert.ErrorAs(t, err, &lenErr)

	l, err := LevenshteinDistance("ARDY", "AR")
	require.NoError(t, err)
	assert.Equal(t, 2, l)

	_, err = LevenshteinDistance("AR", "A1")
	var symErr *InvalidSymbolError
	assert.ErrorAs(t, err, &symErr)

	a, err := AdjustedDistance("AR", "ARDY")
	require.NoError(t, err)
	assert.Equal(t, Distance{Num: 1, Den: 2}, a)
}

func TestAlign(t *testing.T) {
	aln, err := Align("GFTFSSYA", "GFTFSSYA")
	require.NoError(t, err)
	assert.Equal(t, 42, aln.Score)

	scoring, err := BLOSUM62(-8)
	require.NoError(t, err)
	assert.Equal(t, -8, scoring.GapPenalty())
	assert.Equal(t, -5, DefaultScoring().GapPenalty())

	aln, err = AlignWithScoring("AR", "ARDY", scoring)
	require.NoError(t, err)
	assert.Equal(t, "AR--", aln.AlignedSeq1)

	_, err = BLOSUM62(0)
	assert.Error(t, err)
}

func TestSearchAndStats(t *testing.T) {
	refs := []string{"ARDY", "ARGY", "", "AKDRGY"}

	c, err := FindClosest("ARDW", refs, Hamming)
	require.NoError(t, err)
	assert.Equal(t, []string{"ARDY"}, c.Matches)

	p, err := FindClosestParallel(context.Background(), "ARDW", refs, Hamming, 3)
	require.NoError(t, err)
	assert.Equal(t, c, p)

	_, err = FindClosest("ARDW", refs, "cosine")
	assert.Error(t, err)
	_, err = FindClosest("ARDWW", refs, Hamming)
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)

	ps, err := RegionStats("ARDY", []string{"ARDY", "ARGY", "", "WWWW"}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, ps.Accepted)
	assert.Equal(t, Frequency{'A': 2}, ps.Positions[0])
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	chains := filepath.Join(dir, "chains.fasta")
	fastaPath := filepath.Join(dir, "human.fasta")
	indexPath := filepath.Join(dir, "human.tab")
	require.NoError(t, os.WriteFile(chains, []byte(">h1\nGFTF$ISGS$ARDY\n"), 0o644))
	require.NoError(t, os.WriteFile(fastaPath, []byte(">s1\nQQGFTFWWISGSLLARDYKK\n"), 0o644))
	require.NoError(t, os.WriteFile(indexPath, []byte("s1\t1\t1\t3\t1\t7\t1\t9\t1\t13\t1\t15\t1\t19\t1\n"), 0o644))

	hs, err := LoadHeavyChains(chains)
	require.NoError(t, err)
	set, err := LoadSet("human", fastaPath, indexPath)
	require.NoError(t, err)

	config := DefaultConfig
	config.Workers = 1
	results, err := Analyze(context.Background(), &hs[0], []*Set{set}, config)
	require.NoError(t, err)
	require.Len(t, results, 1)

	for _, rr := range results[0].Regions {
		assert.Len(t, rr.Closest, 3)
		assert.Equal(t, 1, rr.Stats.Accepted)
	}

	config.Threshold = 0
	_, err = Analyze(context.Background(), &hs[0], []*Set{set}, config)
	assert.Error(t, err)
}

func TestVersionAndInfo(t *testing.T) {
	assert.Equal(t, "1.0.0", Version())
	assert.Contains(t, Info(), "cdrflow v1.0.0")
}

func TestNewFragment(t *testing.T) {
	f, err := NewFragment("gftf")
	require.NoError(t, err)
	assert.Equal(t, "GFTF", f.Residues)
}
