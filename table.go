package wang

import (
	"fmt"
	"strings"
)

// Table holds, for every (required, excluded) pair of edge masks, the
// variants of a tile set that have all required edges and none of the
// excluded ones.
//
// Pairs where required & excluded != 0 can't be satisfied and hold nil.
// A table is read only once built and may be shared between goroutines.
type Table struct {
	entries [NumMasks][NumMasks][]EdgeMask
}

// BuildTable precomputes the compatibility table for the given tile set.
func BuildTable(ts *TileSet) *Table {
	t := &Table{}
	for required := EdgeMask(0); required < NumMasks; required++ {
		for excluded := EdgeMask(0); excluded < NumMasks; excluded++ {
			if required&excluded != 0 {
				continue // contradictory, left empty
			}

			matches := []EdgeMask{}
			for mask := EdgeMask(0); mask < NumMasks; mask++ {
				if ts.sources[mask] == "" {
					continue
				}
				if mask&required == required && mask&excluded == 0 {
					matches = append(matches, mask)
				}
			}
			t.entries[required][excluded] = matches
		}
	}
	return t
}

// Candidates returns the variants satisfying (required, excluded) in
// increasing mask order. The returned slice must not be modified.
func (t *Table) Candidates(required, excluded EdgeMask) []EdgeMask {
	if !required.Valid() || !excluded.Valid() {
		return nil
	}
	return t.entries[required][excluded]
}

// String prints every satisfiable pair that has at least one candidate.
func (t *Table) String() string {
	b := strings.Builder{}
	b.WriteString("Required\tExcluded\tCandidates\n")
	for required := EdgeMask(0); required < NumMasks; required++ {
		for excluded := EdgeMask(0); excluded < NumMasks; excluded++ {
			cs := t.entries[required][excluded]
			if len(cs) == 0 {
				continue
			}
			names := make([]string, len(cs))
			for i, c := range cs {
				names[i] = fmt.Sprintf("%d(%s)", c, c)
			}
			fmt.Fprintf(&b, "%s\t%s\t%s\n", required, excluded, strings.Join(names, " "))
		}
	}
	return b.String()
}
