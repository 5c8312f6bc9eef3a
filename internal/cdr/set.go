// Package cdr loads collections of CDR fragments from a FASTA file of heavy
// chain sequences and a tab-delimited region index.
//
// Each index line holds a record identifier followed by 14 one-based region
// boundaries. CDR1 spans boundaries 3 to 5, CDR2 7 to 9 and CDR3 11 to 13
// (start inclusive, end exclusive after converting to zero-based offsets).
package cdr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Regions is the number of CDRs in a heavy chain.
const Regions = 3

// IndexFields is the number of region boundaries per index line.
const IndexFields = 14

// Record is one heavy chain's CDR fragments, in region order.
type Record struct {
	ID      string
	Regions [Regions]string
}

// Set is a named collection of CDR records.
type Set struct {
	Name    string
	Records []Record
}

// FastaRecord is a named raw sequence read from a FASTA stream.
type FastaRecord struct {
	ID       string
	Residues string
}

// ReadFASTA reads every record of a protein FASTA stream.
func ReadFASTA(r io.Reader) ([]FastaRecord, error) {
	in := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein))

	var records []FastaRecord
	for {
		s, err := in.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading fasta: %w", err)
		}

		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("reading fasta: unexpected sequence type %T", s)
		}
		residues := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			residues[i] = byte(l)
		}

		records = append(records, FastaRecord{
			ID:       s.Name(),
			Residues: strings.ToUpper(string(residues)),
		})
	}
	return records, nil
}

// ReadIndex reads a region index into boundaries keyed by record ID.
func ReadIndex(r io.Reader) (map[string][]int, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	index := make(map[string][]int)
	line := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", line, err)
		}
		if len(fields) != IndexFields+1 {
			return nil, fmt.Errorf("index line %d: expected %d boundaries, got %d", line, IndexFields, len(fields)-1)
		}

		bounds := make([]int, IndexFields)
		for i, f := range fields[1:] {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("index line %d: %w", line, err)
			}
			bounds[i] = v
		}
		index[fields[0]] = bounds
	}
	return index, nil
}

// NewSet builds a set from sequences and their region index. Index entries
// without a sequence are dropped; a sequence without an index entry is an
// error.
func NewSet(name string, seqs []FastaRecord, index map[string][]int) (*Set, error) {
	set := &Set{Name: name}
	for _, rec := range seqs {
		bounds, ok := index[rec.ID]
		if !ok {
			return nil, fmt.Errorf("set %s: no region index for %s", name, rec.ID)
		}

		var r Record
		r.ID = rec.ID
		for region := 0; region < Regions; region++ {
			lo, hi := bounds[4*region+2]-1, bounds[4*region+4]-1
			frag, err := slice(rec.Residues, lo, hi)
			if err != nil {
				return nil, fmt.Errorf("set %s: %s CDR%d: %w", name, rec.ID, region+1, err)
			}
			r.Regions[region] = frag
		}
		set.Records = append(set.Records, r)
	}
	return set, nil
}

// slice cuts s[lo:hi], clamping hi to the sequence end and treating an
// inverted range as empty.
func slice(s string, lo, hi int) (string, error) {
	if lo < 0 || hi < 0 {
		return "", fmt.Errorf("negative boundary %d:%d", lo+1, hi+1)
	}
	if hi > len(s) {
		hi = len(s)
	}
	if lo >= hi {
		return "", nil
	}
	return s[lo:hi], nil
}

// Load reads a set from a FASTA file and an index file.
func Load(name, fastaPath, indexPath string) (*Set, error) {
	ff, err := os.Open(fastaPath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer ff.Close()

	seqs, err := ReadFASTA(ff)
	if err != nil {
		return nil, err
	}

	fi, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer fi.Close()

	index, err := ReadIndex(fi)
	if err != nil {
		return nil, err
	}

	return NewSet(name, seqs, index)
}

// ErrRegion is returned for a region number outside 1 to 3.
var ErrRegion = errors.New("region must be between 1 and 3")

func checkRegion(region int) error {
	if region < 1 || region > Regions {
		return fmt.Errorf("%w, got %d", ErrRegion, region)
	}
	return nil
}

// FromRegion returns the fragment of every record at region (1 to 3),
// including empty fragments.
func (s *Set) FromRegion(region int) ([]string, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r.Regions[region-1])
	}
	return out, nil
}

// KLengthers returns every fragment of length k at region, or at any
// region when region is 0.
func (s *Set) KLengthers(k, region int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("length must be non-negative, got %d", k)
	}
	if region != 0 {
		if err := checkRegion(region); err != nil {
			return nil, err
		}
	}

	var out []string
	for _, r := range s.Records {
		for i, frag := range r.Regions {
			if region != 0 && i != region-1 {
				continue
			}
			if len(frag) == k {
				out = append(out, frag)
			}
		}
	}
	return out, nil
}

// Lengths returns the distinct fragment lengths in the set, sorted.
func (s *Set) Lengths() []int {
	seen := make(map[int]bool)
	for _, r := range s.Records {
		for _, frag := range r.Regions {
			seen[len(frag)] = true
		}
	}

	lengths := make([]int, 0, len(seen))
	for l := range seen {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// Summary describes how many fragments of each length occur per region.
func (s *Set) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CDR set %s:\n", s.Name)
	fmt.Fprintf(&b, "Total %d sets of regions.\n\n", len(s.Records))
	for _, k := range s.Lengths() {
		var counts [Regions]int
		for region := 1; region <= Regions; region++ {
			frags, _ := s.KLengthers(k, region)
			counts[region-1] = len(frags)
		}
		fmt.Fprintf(&b, "Number of regions of length %d: %v\n", k, counts)
	}
	return b.String()
}

// WriteFASTA writes fragments as a protein FASTA stream, naming each record
// by prefix and its one-based index.
func WriteFASTA(w io.Writer, prefix string, frags []string) error {
	out := fasta.NewWriter(w, 60)
	for i, frag := range frags {
		s := linear.NewSeq(fmt.Sprintf("%s%d", prefix, i+1), alphabet.BytesToLetters([]byte(frag)), alphabet.Protein)
		if _, err := out.Write(s); err != nil {
			return fmt.Errorf("writing fasta: %w", err)
		}
	}
	return nil
}
