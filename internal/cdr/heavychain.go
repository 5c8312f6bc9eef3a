package cdr

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/cdrflow-go/internal/sequence"
)

// RegionSeparator joins the three CDRs of a heavy chain in a CDR FASTA file.
const RegionSeparator = "$"

// HeavyChain is a heavy chain of interest with its three CDRs.
type HeavyChain struct {
	Name    string
	Regions [Regions]string
}

func (h *HeavyChain) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Heavy chain sequence name: %s\n", h.Name)
	for i, cdr := range h.Regions {
		fmt.Fprintf(&b, "CDR #%d: %s\n", i+1, cdr)
	}
	return b.String()
}

// Region returns the CDR at region (1 to 3).
func (h *HeavyChain) Region(region int) (string, error) {
	if err := checkRegion(region); err != nil {
		return "", err
	}
	return h.Regions[region-1], nil
}

// ReadHeavyChains reads a CDR FASTA stream in which every record holds the
// three CDRs of one chain joined by RegionSeparator.
func ReadHeavyChains(r io.Reader) ([]HeavyChain, error) {
	records, err := ReadFASTA(r)
	if err != nil {
		return nil, err
	}

	chains := make([]HeavyChain, 0, len(records))
	for _, rec := range records {
		parts := strings.Split(rec.Residues, RegionSeparator)
		if len(parts) != Regions {
			return nil, fmt.Errorf("heavy chain %s: expected %d regions, got %d", rec.ID, Regions, len(parts))
		}

		h := HeavyChain{Name: rec.ID}
		for i, p := range parts {
			if err := sequence.Validate(p); err != nil {
				return nil, fmt.Errorf("heavy chain %s CDR%d: %w", rec.ID, i+1, err)
			}
			h.Regions[i] = p
		}
		chains = append(chains, h)
	}
	return chains, nil
}

// LoadHeavyChains reads heavy chains from a CDR FASTA file.
func LoadHeavyChains(path string) ([]HeavyChain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadHeavyChains(f)
}

// FindHeavyChain returns the chain called name.
func FindHeavyChain(chains []HeavyChain, name string) (*HeavyChain, error) {
	for i := range chains {
		if chains[i].Name == name {
			return &chains[i], nil
		}
	}
	return nil, fmt.Errorf("heavy chain %s not found", name)
}
