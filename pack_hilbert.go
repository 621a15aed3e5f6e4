package staticrtree

import "sort"

// packHilbert bulk-loads with the Kamel-Faloutsos algorithm: edges are
// ordered by the Hilbert key of their projected centroid and partitioned
// sequentially into leaves.
func packHilbert(entries []packEntry, lw *leafWriter, o options) ([]TreeNode, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].hilbert < entries[j].hilbert
	})
	return packSorted(entries, lw, o, nil)
}
