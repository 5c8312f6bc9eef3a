// Package report writes analysis results as tab-separated text tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aria-lang/cdrflow-go/internal/analysis"
	"github.com/aria-lang/cdrflow-go/internal/cdr"
	"github.com/aria-lang/cdrflow-go/internal/search"
	"github.com/aria-lang/cdrflow-go/internal/sequence"
	"github.com/aria-lang/cdrflow-go/internal/stats"
)

// Filler marks an empty cell in the closest table.
const Filler = "---"

// ClosestColumn is one column of the closest table. Closest is nil when
// nothing could be compared with Query.
type ClosestColumn struct {
	Label   string
	Query   string
	Closest *search.Closest
}

// WriteClosest writes one column per search result: the query, the
// distance, the group size and then the matching fragments, padded with
// Filler.
func WriteClosest(w io.Writer, header string, columns []ClosestColumn) error {
	ew := &errWriter{w: w}
	if header != "" {
		ew.printf("%s\n", header)
	}

	labels := make([]string, len(columns))
	queries := make([]string, len(columns))
	dists := make([]string, len(columns))
	counts := make([]string, len(columns))
	rows := 0
	for i, c := range columns {
		labels[i] = c.Label
		queries[i] = c.Query
		dists[i] = Filler
		counts[i] = "0"
		if c.Closest != nil {
			dists[i] = c.Closest.Distance.String()
			counts[i] = fmt.Sprint(c.Closest.Count)
			if len(c.Closest.Matches) > rows {
				rows = len(c.Closest.Matches)
			}
		}
	}

	ew.printf("\t%s\n", strings.Join(labels, "\t"))
	ew.printf("Region\t%s\n", strings.Join(queries, "\t"))
	ew.printf("Distance\t%s\n", strings.Join(dists, "\t"))
	ew.printf("Count\t%s\n", strings.Join(counts, "\t"))

	cells := make([]string, len(columns))
	for r := 0; r < rows; r++ {
		for i, c := range columns {
			cells[i] = Filler
			if c.Closest != nil && r < len(c.Closest.Matches) {
				cells[i] = c.Closest.Matches[r]
			}
		}
		ew.printf("\t%s\n", strings.Join(cells, "\t"))
	}
	ew.printf("\n")
	return ew.err
}

// WriteStats writes one column per query position and one row per symbol,
// in alphabet order with the gap. Rows that are zero everywhere are left
// out.
func WriteStats(w io.Writer, header string, ps *stats.PositionStats) error {
	ew := &errWriter{w: w}
	if header != "" {
		ew.printf("%s\n", header)
	}

	query := make([]string, len(ps.Query))
	for i := range ps.Query {
		query[i] = string(ps.Query[i])
	}
	ew.printf("\t%s\n", strings.Join(query, "\t"))

	row := make([]string, len(ps.Positions))
	for _, symbol := range sequence.Symbols(true) {
		nonzero := false
		for pos := range ps.Positions {
			n := ps.Count(pos, symbol)
			row[pos] = fmt.Sprint(n)
			nonzero = nonzero || n != 0
		}
		if nonzero {
			ew.printf("%c\t%s\n", symbol, strings.Join(row, "\t"))
		}
	}
	ew.printf("\n")
	return ew.err
}

// WriteDiff writes, by length and region, the positions that have symbols
// unique to one set. Regions and positions without any are left out.
func WriteDiff(w io.Writer, header string, diff map[int]cdr.LengthDiff) error {
	ew := &errWriter{w: w}
	if header != "" {
		ew.printf("%s\n", header)
	}

	lengths := make([]int, 0, len(diff))
	for k := range diff {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)

	for _, k := range lengths {
		ew.printf("%d-len words\n", k)
		for region, rd := range diff[k] {
			if rd != nil {
				ew.printf("CDR%d\n", region+1)
				for pos, symbols := range rd {
					if len(symbols) == 0 {
						continue
					}
					parts := make([]string, len(symbols))
					for i, c := range symbols {
						parts[i] = string(c)
					}
					ew.printf("%d\t%s\n", pos, strings.Join(parts, " "))
				}
			}
			ew.printf("\n")
		}
		ew.printf("\n")
	}
	return ew.err
}

// WriteResult writes a closest table for every metric followed by the
// statistics of every region.
func WriteResult(w io.Writer, r *analysis.Result, metrics []string) error {
	for _, metric := range metrics {
		columns := make([]ClosestColumn, 0, len(r.Regions))
		for _, rr := range r.Regions {
			columns = append(columns, ClosestColumn{
				Label:   fmt.Sprintf("CDR%d", rr.Region),
				Query:   rr.Query,
				Closest: rr.Closest[metric],
			})
		}
		header := fmt.Sprintf("%s vs %s: closest by %s distance", r.Chain, r.Set, metric)
		if err := WriteClosest(w, header, columns); err != nil {
			return err
		}
	}

	for _, rr := range r.Regions {
		if rr.Stats == nil {
			continue
		}
		header := fmt.Sprintf("%s vs %s: CDR%d statistics (threshold %g, accepted %d)",
			r.Chain, r.Set, rr.Region, rr.Stats.Threshold, rr.Stats.Accepted)
		if err := WriteStats(w, header, rr.Stats); err != nil {
			return err
		}
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
