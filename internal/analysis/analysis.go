// Package analysis runs the complete comparison of one heavy chain against
// named CDR sets: the closest reference fragments of every region under
// each metric, and the position statistics of every region.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/aria-lang/cdrflow-go/internal/alignment"
	"github.com/aria-lang/cdrflow-go/internal/cdr"
	"github.com/aria-lang/cdrflow-go/internal/distance"
	"github.com/aria-lang/cdrflow-go/internal/search"
	"github.com/aria-lang/cdrflow-go/internal/stats"
)

// Config holds the parameters of an analysis run.
type Config struct {
	// Threshold is the largest adjusted distance a reference may have to be
	// counted in the position statistics.
	Threshold float64

	// Scoring is used for every alignment. Nil selects BLOSUM62.
	Scoring *alignment.ScoreMatrix

	// Workers is the number of goroutines each search and aggregation is
	// split across.
	Workers int

	// Metrics names the distances to search with.
	Metrics []string

	Logger *log.Logger
}

// DefaultConfig searches with all three metrics and counts references
// within an adjusted distance of one half.
var DefaultConfig = Config{
	Threshold: 0.5,
	Workers:   runtime.NumCPU(),
	Metrics:   []string{distance.HammingName, distance.LevenshteinName, distance.AdjustedName},
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		return fmt.Errorf("threshold must be in (0, 1], got %g", c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Metrics) == 0 {
		return errors.New("at least one metric is required")
	}
	for _, name := range c.Metrics {
		if _, err := distance.MetricByName(name, c.Scoring); err != nil {
			return err
		}
	}
	return nil
}

// RegionResult is the outcome for one CDR of the chain. Closest is keyed
// by metric name; a metric is absent when no reference fragment could be
// compared with the region.
type RegionResult struct {
	Region  int
	Query   string
	Closest map[string]*search.Closest
	Stats   *stats.PositionStats
}

// Result is the outcome of processing one chain against one set.
type Result struct {
	Chain   string
	Set     string
	Regions [cdr.Regions]RegionResult
}

// Analyzer processes one heavy chain against any number of sets and keeps
// the result of each.
type Analyzer struct {
	chain   *cdr.HeavyChain
	config  Config
	metrics []distance.Metric
	logger  *log.Logger
	results map[string]*Result
	order   []string
}

// New creates an analyzer for chain.
func New(chain *cdr.HeavyChain, config Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	metrics := make([]distance.Metric, 0, len(config.Metrics))
	for _, name := range config.Metrics {
		m, _ := distance.MetricByName(name, config.Scoring)
		metrics = append(metrics, m)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Analyzer{
		chain:   chain,
		config:  config,
		metrics: metrics,
		logger:  logger,
		results: make(map[string]*Result),
	}, nil
}

// Steps returns how many times Process calls its step callback per set.
func (a *Analyzer) Steps() int {
	return cdr.Regions * (len(a.metrics) + 1)
}

// Process compares every region of the chain with the same region of set.
// onStep, if not nil, is called after each search and each aggregation.
func (a *Analyzer) Process(ctx context.Context, set *cdr.Set, onStep func()) (*Result, error) {
	step := func() {
		if onStep != nil {
			onStep()
		}
	}

	a.logger.Printf("Processing chain: %s", a.chain.Name)
	a.logger.Printf("CDR set name: %s", set.Name)

	result := &Result{Chain: a.chain.Name, Set: set.Name}
	for i, query := range a.chain.Regions {
		region := i + 1
		refs, err := set.FromRegion(region)
		if err != nil {
			return nil, err
		}

		rr := RegionResult{
			Region:  region,
			Query:   query,
			Closest: make(map[string]*search.Closest),
		}

		a.logger.Printf("\tProcessing CDR%d", region)
		for _, m := range a.metrics {
			a.logger.Printf("\tSearching closest using %s distance...", m.Name())
			closest, err := search.FindClosestParallel(ctx, query, refs, m, a.config.Workers)
			switch {
			case errors.Is(err, search.ErrEmptyCandidateSet):
				a.logger.Printf("\tNo comparable fragments for CDR%d under %s distance", region, m.Name())
			case err != nil:
				return nil, fmt.Errorf("CDR%d: %w", region, err)
			default:
				rr.Closest[m.Name()] = closest
			}
			step()
		}

		a.logger.Printf("\tCollecting statistics with threshold: %g", a.config.Threshold)
		ps, err := stats.AggregateParallel(ctx, query, refs, a.config.Threshold, a.config.Scoring, a.config.Workers)
		if err != nil {
			return nil, fmt.Errorf("CDR%d: %w", region, err)
		}
		rr.Stats = ps
		step()

		result.Regions[i] = rr
	}

	if _, ok := a.results[set.Name]; !ok {
		a.order = append(a.order, set.Name)
	}
	a.results[set.Name] = result
	return result, nil
}

// Results returns the result of every processed set, in processing order.
func (a *Analyzer) Results() []*Result {
	out := make([]*Result, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.results[name])
	}
	return out
}

// Chain returns the chain being analyzed.
func (a *Analyzer) Chain() *cdr.HeavyChain {
	return a.chain
}
