package cdr

import "sort"

// RegionDiff lists, for every position of a region, the symbols unique to
// one set. It is nil when no position has any.
type RegionDiff [][]byte

// LengthDiff holds one RegionDiff per region.
type LengthDiff [Regions]RegionDiff

// Diff finds, for every non-zero fragment length present in both sets, the
// symbols that occur at a position of a region in s but never at the same
// position of the same region in other.
func (s *Set) Diff(other *Set) map[int]LengthDiff {
	theirs := make(map[int]bool)
	for _, k := range other.Lengths() {
		theirs[k] = true
	}

	out := make(map[int]LengthDiff)
	for _, k := range s.Lengths() {
		if k == 0 || !theirs[k] {
			continue
		}

		var ld LengthDiff
		for region := 1; region <= Regions; region++ {
			mine, _ := s.KLengthers(k, region)
			their, _ := other.KLengthers(k, region)
			ld[region-1] = positionDiff(k, mine, their)
		}
		out[k] = ld
	}
	return out
}

func positionDiff(k int, mine, theirs []string) RegionDiff {
	diff := make(RegionDiff, k)
	found := false
	for i := 0; i < k; i++ {
		seen := make(map[byte]bool)
		for _, frag := range theirs {
			seen[frag[i]] = true
		}

		unique := make(map[byte]bool)
		for _, frag := range mine {
			if !seen[frag[i]] {
				unique[frag[i]] = true
			}
		}
		for c := range unique {
			diff[i] = append(diff[i], c)
		}
		sort.Slice(diff[i], func(a, b int) bool { return diff[i][a] < diff[i][b] })
		found = found || len(diff[i]) > 0
	}

	if !found {
		return nil
	}
	return diff
}
