package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aria-lang/cdrflow-go/internal/cdr"
	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// setSpec names a CDR set and its two files.
type setSpec struct {
	Name  string
	FASTA string
	Index string
}

// setFlags collects repeated name=fasta,index flags.
type setFlags []setSpec

func (s *setFlags) String() string {
	parts := make([]string, len(*s))
	for i, spec := range *s {
		parts[i] = fmt.Sprintf("%s=%s,%s", spec.Name, spec.FASTA, spec.Index)
	}
	return strings.Join(parts, " ")
}

func (s *setFlags) Set(value string) error {
	name, files, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=fasta,index, got %q", value)
	}
	fastaPath, indexPath, ok := strings.Cut(files, ",")
	if !ok || fastaPath == "" || indexPath == "" {
		return fmt.Errorf("expected name=fasta,index, got %q", value)
	}
	*s = append(*s, setSpec{Name: name, FASTA: fastaPath, Index: indexPath})
	return nil
}

func (s setFlags) load() ([]*cdr.Set, error) {
	sets := make([]*cdr.Set, 0, len(s))
	for _, spec := range s {
		set, err := cdr.Load(spec.Name, spec.FASTA, spec.Index)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// refSource is a reference collection given either as a FASTA file of
// fragments or as one region of a CDR set.
type refSource struct {
	file   *string
	set    setFlags
	region *int
}

func refFlags(fs *flag.FlagSet) *refSource {
	src := &refSource{}
	src.file = fs.String("refs", "", "FASTA file of reference fragments")
	fs.Var(&src.set, "set", "CDR set as name=fasta,index (instead of -refs)")
	src.region = fs.Int("region", 1, "Region of the CDR set (1 to 3)")
	return src
}

func (r *refSource) load() ([]string, error) {
	switch {
	case *r.file != "" && len(r.set) > 0:
		return nil, errors.New("use either -refs or -set, not both")
	case *r.file != "":
		f, err := os.Open(*r.file)
		if err != nil {
			return nil, fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		records, err := cdr.ReadFASTA(f)
		if err != nil {
			return nil, err
		}
		frags := make([]string, len(records))
		for i, rec := range records {
			frags[i] = rec.Residues
		}
		return frags, nil
	case len(r.set) == 1:
		sets, err := r.set.load()
		if err != nil {
			return nil, err
		}
		return sets[0].FromRegion(*r.region)
	default:
		return nil, errors.New("one of -refs or a single -set is required")
	}
}

// metricNames expands "all" into every metric name.
func metricNames(metric string) ([]string, error) {
	if metric == "all" {
		return []string{cdrflow.Hamming, cdrflow.Levenshtein, cdrflow.Adjusted}, nil
	}
	m, err := cdrflow.NewMetric(metric)
	if err != nil {
		return nil, err
	}
	return []string{m.Name()}, nil
}

// selectChains loads the heavy chains of path, keeping only name unless it
// is empty.
func selectChains(path, name string) ([]cdr.HeavyChain, error) {
	chains, err := cdr.LoadHeavyChains(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return chains, nil
	}
	h, err := cdr.FindHeavyChain(chains, name)
	if err != nil {
		return nil, err
	}
	return []cdr.HeavyChain{*h}, nil
}
