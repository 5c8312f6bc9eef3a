// Command cdrflow provides a CLI for comparing antibody CDR fragments.
//
// Usage:
//
//	cdrflow [command] [options]
//
// Commands:
//
//	align       Align two fragments
//	distance    Compute distances between two fragments
//	closest     Find the closest reference fragments
//	stats       Collect position statistics over close references
//	analyze     Analyze heavy chains against CDR sets
//	diff        Find symbols unique to one CDR set
//	set         Summarize a CDR set or extract k-lengthers
//	version     Show version information
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/aria-lang/cdrflow-go/internal/analysis"
	"github.com/aria-lang/cdrflow-go/internal/cdr"
	"github.com/aria-lang/cdrflow-go/internal/report"
	"github.com/aria-lang/cdrflow-go/internal/search"
	"github.com/aria-lang/cdrflow-go/internal/stats"
	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "distance":
		distanceCmd(os.Args[2:])
	case "closest":
		closestCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "set":
		setCmd(os.Args[2:])
	case "version":
		fmt.Println(cdrflow.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cdrflow - CDR Alignment & Distance Tool

Usage:
  cdrflow <command> [options]

Commands:
  align     Align two fragments
  distance  Compute distances between two fragments
  closest   Find the closest reference fragments
  stats     Collect position statistics over close references
  analyze   Analyze heavy chains against CDR sets
  diff      Find symbols unique to one CDR set
  set       Summarize a CDR set or extract k-lengthers
  version   Show version information
  help      Show this help message

CDR sets are given as name=fasta,index (for example
human=human.fasta,human.tab).

Use "cdrflow <command> -h" for more information about a command.`)
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	seq1 := fs.String("seq1", "", "First fragment")
	seq2 := fs.String("seq2", "", "Second fragment")
	gap := fs.Int("gap", -5, "Linear gap penalty (negative)")
	fs.Parse(args)

	scoring, err := cdrflow.BLOSUM62(*gap)
	if err != nil {
		fail("building score matrix", err)
	}

	alignment, err := cdrflow.AlignWithScoring(*seq1, *seq2, scoring)
	if err != nil {
		fail("aligning fragments", err)
	}

	fmt.Println(alignment.Format())
}

func distanceCmd(args []string) {
	fs := flag.NewFlagSet("distance", flag.ExitOnError)
	seq1 := fs.String("seq1", "", "First fragment")
	seq2 := fs.String("seq2", "", "Second fragment")
	metric := fs.String("metric", "all", "Metric: hamming, levenshtein, adjusted or all")
	fs.Parse(args)

	names, err := metricNames(*metric)
	if err != nil {
		fail("parsing metric", err)
	}

	for _, name := range names {
		m, _ := cdrflow.NewMetric(name)
		d, err := m.Distance(*seq1, *seq2)
		var lenErr *cdrflow.LengthMismatchError
		switch {
		case errors.As(err, &lenErr):
			fmt.Printf("%s: n/a (%v)\n", name, err)
		case err != nil:
			fail("computing "+name+" distance", err)
		default:
			fmt.Printf("%s: %s\n", name, d)
		}
	}
}

func closestCmd(args []string) {
	fs := flag.NewFlagSet("closest", flag.ExitOnError)
	query := fs.String("query", "", "Query fragment")
	refs := refFlags(fs)
	metric := fs.String("metric", "all", "Metric: hamming, levenshtein, adjusted or all")
	workers := fs.Int("workers", cdrflow.DefaultConfig.Workers, "Number of parallel workers")
	fs.Parse(args)

	names, err := metricNames(*metric)
	if err != nil {
		fail("parsing metric", err)
	}
	fragments, err := refs.load()
	if err != nil {
		fail("loading references", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	columns := make([]report.ClosestColumn, 0, len(names))
	for _, name := range names {
		m, _ := cdrflow.NewMetric(name)
		closest, err := search.FindClosestParallel(ctx, *query, fragments, m, *workers)
		if err != nil && !errors.Is(err, search.ErrEmptyCandidateSet) {
			fail("searching closest", err)
		}
		columns = append(columns, report.ClosestColumn{Label: name, Query: *query, Closest: closest})
	}

	header := fmt.Sprintf("Closest to %s among %s fragments", *query, humanize.Comma(int64(len(fragments))))
	if err := report.WriteClosest(os.Stdout, header, columns); err != nil {
		fail("writing report", err)
	}
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	query := fs.String("query", "", "Query fragment")
	refs := refFlags(fs)
	threshold := fs.Float64("threshold", cdrflow.DefaultConfig.Threshold, "Largest adjusted distance counted")
	workers := fs.Int("workers", cdrflow.DefaultConfig.Workers, "Number of parallel workers")
	fs.Parse(args)

	fragments, err := refs.load()
	if err != nil {
		fail("loading references", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ps, err := stats.AggregateParallel(ctx, *query, fragments, *threshold, nil, *workers)
	if err != nil {
		fail("collecting statistics", err)
	}

	header := fmt.Sprintf("%s: %s of %s references within %g",
		*query, humanize.Comma(int64(ps.Accepted)), humanize.Comma(int64(len(fragments))), *threshold)
	if err := report.WriteStats(os.Stdout, header, ps); err != nil {
		fail("writing report", err)
	}
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	chainsFile := fs.String("chains", "", "CDR FASTA file of heavy chains, regions joined by $")
	chainName := fs.String("chain", "", "Analyze only this chain")
	var sets setFlags
	fs.Var(&sets, "set", "CDR set as name=fasta,index (repeatable)")
	threshold := fs.Float64("threshold", cdrflow.DefaultConfig.Threshold, "Largest adjusted distance counted")
	workers := fs.Int("workers", cdrflow.DefaultConfig.Workers, "Number of parallel workers")
	out := fs.String("out", "", "Output file (default: stdout)")
	progress := fs.Bool("progress", true, "Show a progress bar")
	verbose := fs.Bool("v", false, "Log each processing step")
	fs.Parse(args)

	if *chainsFile == "" || len(sets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -chains and at least one -set are required")
		fs.Usage()
		os.Exit(1)
	}

	chains, err := selectChains(*chainsFile, *chainName)
	if err != nil {
		fail("loading heavy chains", err)
	}
	loaded, err := sets.load()
	if err != nil {
		fail("loading CDR sets", err)
	}

	config := cdrflow.DefaultConfig
	config.Threshold = *threshold
	config.Workers = *workers
	if *verbose {
		config.Logger = log.New(os.Stderr, "", 0)
	}
	if err := config.Validate(); err != nil {
		fail("checking configuration", err)
	}

	w, err := openOutput(*out)
	if err != nil {
		fail("creating file", err)
	}
	abort := func(what string, err error) {
		if cerr := w.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, cerr)
		}
		fail(what, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	steps := 0
	var bar *pb.ProgressBar
	step := func() {}
	if *progress {
		bar = pb.Full.Start64(int64(len(chains) * len(loaded) * cdr.Regions * (len(config.Metrics) + 1)))
		step = func() { bar.Increment() }
	}

	fragments := 0
	for _, set := range loaded {
		fragments += len(set.Records) * cdr.Regions
	}

	for i := range chains {
		a, err := analysis.New(&chains[i], config)
		if err != nil {
			abort("creating analyzer", err)
		}
		for _, set := range loaded {
			result, err := a.Process(ctx, set, step)
			if err != nil {
				abort(fmt.Sprintf("analyzing %s against %s", chains[i].Name, set.Name), err)
			}
			if err := report.WriteResult(w, result, config.Metrics); err != nil {
				abort("writing report", err)
			}
			steps += a.Steps()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if err := w.Close(); err != nil {
		fail("writing "+*out, err)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %s chains against %s fragments in %s sets (%s steps)\n",
		humanize.Comma(int64(len(chains))), humanize.Comma(int64(fragments)),
		humanize.Comma(int64(len(loaded))), humanize.Comma(int64(steps)))
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	var a, b setFlags
	fs.Var(&a, "a", "CDR set whose unique symbols are listed, as name=fasta,index")
	fs.Var(&b, "b", "CDR set compared against, as name=fasta,index")
	fs.Parse(args)

	if len(a) != 1 || len(b) != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one -a and one -b are required")
		fs.Usage()
		os.Exit(1)
	}

	sets, err := append(a, b...).load()
	if err != nil {
		fail("loading CDR sets", err)
	}

	header := fmt.Sprintf("Symbols in %s never seen in %s", sets[0].Name, sets[1].Name)
	if err := report.WriteDiff(os.Stdout, header, sets[0].Diff(sets[1])); err != nil {
		fail("writing report", err)
	}
}

func setCmd(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	var spec setFlags
	fs.Var(&spec, "set", "CDR set as name=fasta,index")
	k := fs.Int("k", -1, "Write every fragment of this length as FASTA instead of the summary")
	region := fs.Int("region", 0, "Region for -k (1 to 3, 0 for all)")
	fs.Parse(args)

	if len(spec) != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one -set is required")
		fs.Usage()
		os.Exit(1)
	}

	sets, err := spec.load()
	if err != nil {
		fail("loading CDR set", err)
	}
	set := sets[0]

	if *k < 0 {
		fmt.Print(set.Summary())
		return
	}

	frags, err := set.KLengthers(*k, *region)
	if err != nil {
		fail("selecting fragments", err)
	}
	prefix := fmt.Sprintf("%s_len%d_", set.Name, *k)
	if err := cdr.WriteFASTA(os.Stdout, prefix, frags); err != nil {
		fail("writing fragments", err)
	}
	fmt.Fprintf(os.Stderr, "%s fragments of length %d\n", humanize.Comma(int64(len(frags))), *k)
}
