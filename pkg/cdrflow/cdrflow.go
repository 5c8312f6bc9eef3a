// Package cdrflow provides a high-level API for comparing antibody CDR
// fragments against reference collections.
//
// Example usage:
//
//	d, err := cdrflow.AdjustedDistance("GFTFSSYA", "GFTFSDYA")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(d)
//
//	closest, err := cdrflow.FindClosest("ARDGYFDY", refs, cdrflow.Levenshtein)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(closest.Matches)
package cdrflow

import (
	"context"
	"fmt"

	"github.com/aria-lang/cdrflow-go/internal/alignment"
	"github.com/aria-lang/cdrflow-go/internal/analysis"
	"github.com/aria-lang/cdrflow-go/internal/cdr"
	"github.com/aria-lang/cdrflow-go/internal/distance"
	"github.com/aria-lang/cdrflow-go/internal/search"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
	"github.com/aria-lang/cdrflow-go/internal/stats"
)

// Re-export types for convenience
type (
	Fragment      = sequence.Fragment
	Alignment     = alignment.Alignment
	ScoreMatrix   = alignment.ScoreMatrix
	Distance      = distance.Value
	Metric        = distance.Metric
	Closest       = search.Closest
	PositionStats = stats.PositionStats
	Frequency     = stats.Frequency
	Set           = cdr.Set
	HeavyChain    = cdr.HeavyChain
	Config        = analysis.Config
	Result        = analysis.Result

	InvalidSymbolError        = sequence.InvalidSymbolError
	LengthMismatchError       = distance.LengthMismatchError
	AlignmentConsistencyError = stats.AlignmentConsistencyError
)

// Metric names
const (
	Hamming     = distance.HammingName
	Levenshtein = distance.LevenshteinName
	Adjusted    = distance.AdjustedName
)

// ErrEmptyCandidateSet is returned by searches that found nothing to
// compare with the query.
var ErrEmptyCandidateSet = search.ErrEmptyCandidateSet

// DefaultConfig is the default analysis configuration.
var DefaultConfig = analysis.DefaultConfig

// NewFragment creates a validated CDR fragment.
func NewFragment(residues string) (*Fragment, error) {
	return sequence.New(residues)
}

// Align globally aligns two fragments under BLOSUM62.
func Align(a, b string) (*Alignment, error) {
	return alignment.Align(a, b, nil)
}

// AlignWithScoring globally aligns two fragments under a custom matrix.
func AlignWithScoring(a, b string, scoring *ScoreMatrix) (*Alignment, error) {
	return alignment.Align(a, b, scoring)
}

// DefaultScoring returns the BLOSUM62 matrix with the default gap penalty.
func DefaultScoring() *ScoreMatrix {
	return alignment.Default()
}

// BLOSUM62 returns the BLOSUM62 matrix with a custom linear gap penalty.
func BLOSUM62(gap int) (*ScoreMatrix, error) {
	return alignment.BLOSUM62(gap)
}

// HammingDistance counts mismatching positions of two equal-length
// fragments.
func HammingDistance(a, b string) (int, error) {
	return distance.Hamming(a, b)
}

// LevenshteinDistance returns the edit distance of two fragments.
func LevenshteinDistance(a, b string) (int, error) {
	d, err := distance.EditMetric{}.Distance(a, b)
	if err != nil {
		return 0, err
	}
	return d.Num, nil
}

// AdjustedDistance returns the edit distance divided by the global
// alignment length.
func AdjustedDistance(a, b string) (Distance, error) {
	return distance.Adjusted(a, b, nil)
}

// NewMetric returns the metric with the given name (hamming, levenshtein
// or adjusted).
func NewMetric(name string) (Metric, error) {
	return distance.MetricByName(name, nil)
}

// FindClosest returns the reference fragments nearest to query under the
// named metric.
func FindClosest(query string, refs []string, metric string) (*Closest, error) {
	m, err := distance.MetricByName(metric, nil)
	if err != nil {
		return nil, err
	}
	return search.FindClosest(query, refs, m)
}

// FindClosestParallel is FindClosest spread over workers goroutines.
func FindClosestParallel(ctx context.Context, query string, refs []string, metric string, workers int) (*Closest, error) {
	m, err := distance.MetricByName(metric, nil)
	if err != nil {
		return nil, err
	}
	return search.FindClosestParallel(ctx, query, refs, m, workers)
}

// RegionStats counts the symbols aligned to each query position over the
// references within threshold adjusted distance.
func RegionStats(query string, refs []string, threshold float64) (*PositionStats, error) {
	return stats.Aggregate(query, refs, threshold, nil)
}

// LoadSet reads a CDR set from a FASTA file and its region index.
func LoadSet(name, fastaPath, indexPath string) (*Set, error) {
	return cdr.Load(name, fastaPath, indexPath)
}

// LoadHeavyChains reads heavy chains from a CDR FASTA file.
func LoadHeavyChains(path string) ([]HeavyChain, error) {
	return cdr.LoadHeavyChains(path)
}

// Analyze processes chain against every set in order.
func Analyze(ctx context.Context, chain *HeavyChain, sets []*Set, config Config) ([]*Result, error) {
	a, err := analysis.New(chain, config)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if _, err := a.Process(ctx, set, nil); err != nil {
			return nil, fmt.Errorf("set %s: %w", set.Name, err)
		}
	}
	return a.Results(), nil
}

// Version returns the cdrflow version.
func Version() string {
	return "1.0.0"
}

// Info returns information about cdrflow.
func Info() string {
	return fmt.Sprintf(`cdrflow v%s - CDR Alignment & Distance Engine

Compares antibody CDR fragments against reference collections.

Features:
  - Needleman-Wunsch global alignment under BLOSUM62
  - Hamming, Levenshtein and alignment-adjusted distances
  - Nearest-neighbor search with ties
  - Per-position residue statistics within a distance threshold
  - CDR sets from FASTA plus region index files
  - Per-position differences between two CDR sets

For more information, see: https://github.com/aria-lang/cdrflow-go
`, Version())
}
