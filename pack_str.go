package staticrtree

import "sort"

// packSTR bulk-loads with the Leutenegger-Edgington-Lopez Sort-Tile-
// Recursive approach: edges are tiled into vertical slabs by centroid
// longitude, each slab sorted by centroid latitude, and the same step is
// repeated over node MBR centroids at every level up to the root. STR
// tends to beat Hilbert on road-network data where the distribution is
// only mildly biased.
func packSTR(entries []packEntry, lw *leafWriter, o options) ([]TreeNode, error) {
	slabSort(entries, int(o.leafFill))
	return packSorted(entries, lw, o, func(level []TreeNode) {
		arrangeLevelSTR(level, int(o.branching))
	})
}

// arrangeLevelSTR applies one STR tiling pass to a level of nodes, keyed
// by their MBR centroids.
func arrangeLevelSTR(level []TreeNode, fanout int) {
	sort.SliceStable(level, func(i, j int) bool {
		return level[i].MBR.Centroid().Lon < level[j].MBR.Centroid().Lon
	})
	slab := fanout * ceilSqrt(ceilDiv(len(level), fanout))
	for i := 0; i < len(level); i += slab {
		end := min(i+slab, len(level))
		part := level[i:end]
		sort.SliceStable(part, func(i, j int) bool {
			return part[i].MBR.Centroid().Lat < part[j].MBR.Centroid().Lat
		})
	}
}
