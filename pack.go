package staticrtree

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nekulin/staticrtree/geo"
)

// packEntry is one input edge prepared for packing: its position in the
// input slice, the geographic centroid of its endpoints (the sort key for
// STR and OMT) and, for the Hilbert packer, its curve key.
type packEntry struct {
	index    uint32
	centroid geo.Coordinate
	hilbert  uint64
}

// validateInput checks the build-time preconditions: a non-empty edge set,
// endpoint indices inside the coordinate table and coordinates inside the
// geographic range.
func validateInput(edges []EdgeData, coordinates []geo.Coordinate) error {
	if len(edges) == 0 {
		return ErrNoEdges
	}
	for i, c := range coordinates {
		if c.Lon < -180*geo.Precision || c.Lon > 180*geo.Precision ||
			c.Lat < -90*geo.Precision || c.Lat > 90*geo.Precision {
			return &ErrCoordinateOutOfRange{Index: i, Coordinate: c}
		}
	}
	for i, e := range edges {
		if int(e.U) >= len(coordinates) {
			return &ErrEndpointOutOfRange{Edge: i, Endpoint: e.U, CoordinateCount: len(coordinates)}
		}
		if int(e.V) >= len(coordinates) {
			return &ErrEndpointOutOfRange{Edge: i, Endpoint: e.V, CoordinateCount: len(coordinates)}
		}
	}
	return nil
}

// makePackEntries computes the per-edge centroids (and Hilbert keys when
// the Hilbert packer asked for them). The computation is pure and chunked
// across cores; the result does not depend on the degree of parallelism.
func makePackEntries(edges []EdgeData, coordinates []geo.Coordinate, withHilbert bool) []packEntry {
	entries := make([]packEntry, len(edges))

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(edges) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(edges); start += chunk {
		start := start
		end := min(start+chunk, len(edges))
		g.Go(func() error {
			for i := start; i < end; i++ {
				e := edges[i]
				centroid := geo.Centroid(coordinates[e.U], coordinates[e.V])
				entries[i] = packEntry{index: uint32(i), centroid: centroid}
				if withHilbert {
					// The curve key is taken over the Mercator-projected
					// centroid so curve locality matches leaf MBR locality.
					projected := geo.Coordinate{Lon: centroid.Lon, Lat: geo.LatToYFixed(centroid.Lat)}
					entries[i].hilbert = geo.HilbertCode(projected)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

// leafWriter emits leaf pages sequentially into the leaf file; a leaf's
// slot in emission order is its TreeIndex value.
type leafWriter struct {
	f           *os.File
	w           *bufio.Writer
	buf         [LeafPageSize]byte
	count       uint32
	edges       []EdgeData
	coordinates []geo.Coordinate
	leafFill    uint32
}

func newLeafWriter(path string, edges []EdgeData, coordinates []geo.Coordinate, leafFill uint32) (*leafWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("staticrtree: create leaf file: %w", err)
	}
	return &leafWriter{
		f:           f,
		w:           bufio.NewWriterSize(f, 1<<16),
		edges:       edges,
		coordinates: coordinates,
		leafFill:    leafFill,
	}, nil
}

// writeLeaf emits one leaf holding the given entries' edges. It returns
// the leaf's TreeIndex and its MBR, the union of the edges' projected
// endpoint bounding boxes.
func (lw *leafWriter) writeLeaf(entries []packEntry) (TreeIndex, geo.Rectangle, error) {
	if n := uint32(len(entries)); n == 0 || n > lw.leafFill {
		return 0, geo.Rectangle{}, &InvariantError{
			Msg: fmt.Sprintf("leaf holds %d objects, capacity %d", len(entries), lw.leafFill),
		}
	}

	leaf := LeafNode{
		ObjectCount: uint32(len(entries)),
		MBR:         geo.NewRectangle(),
	}
	for i, entry := range entries {
		edge := lw.edges[entry.index]
		leaf.Objects[i] = edge
		leaf.MBR.Extend(geo.FromWGS84(lw.coordinates[edge.U]))
		leaf.MBR.Extend(geo.FromWGS84(lw.coordinates[edge.V]))
	}

	clear(lw.buf[:])
	leaf.encode(lw.buf[:])
	if _, err := lw.w.Write(lw.buf[:]); err != nil {
		return 0, geo.Rectangle{}, fmt.Errorf("staticrtree: write leaf file: %w", err)
	}

	index := lw.count
	lw.count++
	return newTreeIndex(index, true), leaf.MBR, nil
}

func (lw *leafWriter) finish() error {
	if err := lw.w.Flush(); err != nil {
		lw.f.Close()
		return fmt.Errorf("staticrtree: write leaf file: %w", err)
	}
	if err := lw.f.Close(); err != nil {
		return fmt.Errorf("staticrtree: close leaf file: %w", err)
	}
	return nil
}

func (lw *leafWriter) abort() {
	_ = lw.f.Close()
}

// packSorted packs an already-arranged edge sequence: consecutive runs of
// leafFill edges per leaf, fan-out leaves per level-one node, then level by
// level upward. Hilbert hands over a curve-sorted sequence with no
// per-level rearrangement; STR re-tiles every level.
func packSorted(entries []packEntry, lw *leafWriter, o options, arrange func([]TreeNode)) ([]TreeNode, error) {
	var level []TreeNode
	i := 0
	for i < len(entries) {
		node := TreeNode{MBR: geo.NewRectangle()}
		for node.ChildCount < o.branching && i < len(entries) {
			end := min(i+int(o.leafFill), len(entries))
			leafIndex, mbr, err := lw.writeLeaf(entries[i:end])
			if err != nil {
				return nil, err
			}
			node.Children[node.ChildCount] = leafIndex
			node.MBR.Merge(mbr)
			node.ChildCount++
			i = end
		}
		level = append(level, node)
	}

	tree := buildUpperLevels(nil, level, o.branching, arrange)
	return finalizeTree(tree), nil
}

// buildUpperLevels packs a level of nodes into parents of up to fanout
// children until a single root remains, appending child nodes to the tree
// in level order. arrange, if non-nil, rearranges each level before it is
// packed.
func buildUpperLevels(tree, level []TreeNode, fanout uint32, arrange func([]TreeNode)) []TreeNode {
	for len(level) > 1 {
		if arrange != nil {
			arrange(level)
		}
		tree, level = packNodeLevel(tree, level, fanout)
	}
	return append(tree, level[0])
}

func packNodeLevel(tree, level []TreeNode, fanout uint32) (updated, next []TreeNode) {
	for i := 0; i < len(level); i += int(fanout) {
		parent := TreeNode{MBR: geo.NewRectangle()}
		end := min(i+int(fanout), len(level))
		for j := i; j < end; j++ {
			parent.Children[parent.ChildCount] = newTreeIndex(uint32(len(tree)), false)
			parent.MBR.Merge(level[j].MBR)
			parent.ChildCount++
			tree = append(tree, level[j])
		}
		next = append(next, parent)
	}
	return tree, next
}

// finalizeTree reverses the level-ordered node array so the root lands at
// index 0 and rewrites non-leaf child indices accordingly. Leaf indices
// refer to the leaf file and are unchanged.
func finalizeTree(tree []TreeNode) []TreeNode {
	for i, j := 0, len(tree)-1; i < j; i, j = i+1, j-1 {
		tree[i], tree[j] = tree[j], tree[i]
	}
	size := uint32(len(tree))
	for i := range tree {
		n := &tree[i]
		for j := uint32(0); j < n.ChildCount; j++ {
			if c := n.Children[j]; !c.IsLeaf() {
				n.Children[j] = newTreeIndex(size-1-c.Index(), false)
			}
		}
	}
	return tree
}

// slabSort arranges entries for one STR pass: a stable sort by centroid
// longitude, then per-slab stable sorts by centroid latitude. groupSize is
// the target group size of the next packing step (leaf fill or fan-out);
// the slab width is groupSize * ceil(sqrt(n/groupSize)).
func slabSort(entries []packEntry, groupSize int) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].centroid.Lon < entries[j].centroid.Lon
	})
	slab := groupSize * ceilSqrt(ceilDiv(len(entries), groupSize))
	for i := 0; i < len(entries); i += slab {
		end := min(i+slab, len(entries))
		part := entries[i:end]
		sort.SliceStable(part, func(i, j int) bool {
			return part[i].centroid.Lat < part[j].centroid.Lat
		})
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilSqrt(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}
