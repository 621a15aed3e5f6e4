package staticrtree

import (
	"container/heap"

	"github.com/nekulin/staticrtree/geo"
)

// CandidateSegment is a single edge paired with the nearest projected
// point on it to the query coordinate.
type CandidateSegment struct {
	FixedProjectedCoordinate geo.Coordinate
	Data                     EdgeData
}

// Filter decides whether a candidate segment may be used, per direction.
// The returned flags are ANDed into the candidate's forward and reverse
// enabled bits; (false, false) discards the candidate entirely.
type Filter func(candidate CandidateSegment) (useForward, useReverse bool)

// Terminator ends a nearest-neighbor search. It sees every candidate in
// non-decreasing distance order together with the number of results
// accumulated so far, and the search stops before a candidate for which
// it returns true is admitted.
type Terminator func(resultCount int, candidate CandidateSegment) bool

// StaticRTree is a loaded index: the internal nodes in memory, the leaf
// file mapped read-only, and the caller's coordinate table borrowed for
// the lifetime of the index. All query methods are safe for concurrent
// use; nothing is mutated after Open.
type StaticRTree struct {
	nodes       []TreeNode
	leaves      *leafStore
	coordinates []geo.Coordinate
}

// Build bulk-loads an index over edges and writes it to the node and leaf
// files. The coordinate table is only read; every edge endpoint must index
// into it. On error the partial output files are not valid indexes.
func Build(edges []EdgeData, coordinates []geo.Coordinate, nodePath, leafPath string, optFns ...Option) error {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return build(edges, coordinates, nodePath, leafPath, o)
}

func build(edges []EdgeData, coordinates []geo.Coordinate, nodePath, leafPath string, o options) error {
	if err := validateInput(edges, coordinates); err != nil {
		return err
	}

	o.logger.Info("packing rtree", "method", o.method.String(), "edges", len(edges))

	entries := makePackEntries(edges, coordinates, o.method == PackHilbert)

	lw, err := newLeafWriter(leafPath, edges, coordinates, o.leafFill)
	if err != nil {
		return err
	}

	var nodes []TreeNode
	switch o.method {
	case PackHilbert:
		nodes, err = packHilbert(entries, lw, o)
	case PackSTR:
		nodes, err = packSTR(entries, lw, o)
	default:
		nodes, err = packOMT(entries, lw, o)
	}
	if err != nil {
		lw.abort()
		return err
	}
	if err := lw.finish(); err != nil {
		return err
	}

	o.logger.Info("rtree packed", "leaves", lw.count, "nodes", len(nodes))

	return writeNodeFile(nodePath, nodes)
}

// Open loads a previously built index: the node array is read into memory
// and the leaf file is memory-mapped read-only. The coordinate table must
// be the one the index was built against and must outlive the index.
func Open(nodePath, leafPath string, coordinates []geo.Coordinate) (*StaticRTree, error) {
	nodes, err := readNodeFile(nodePath)
	if err != nil {
		return nil, err
	}
	leaves, err := openLeafStore(leafPath)
	if err != nil {
		return nil, err
	}
	return &StaticRTree{
		nodes:       nodes,
		leaves:      leaves,
		coordinates: coordinates,
	}, nil
}

// Close releases the leaf mapping. The index must not be used afterwards.
func (t *StaticRTree) Close() error {
	return t.leaves.close()
}

// SearchInBox returns every edge whose geographic endpoint bounding box
// intersects the query rectangle, which is given in unprojected
// geographic coordinates.
func (t *StaticRTree) SearchInBox(searchRectangle geo.Rectangle) []EdgeData {
	// Node MBRs live in projected space, so the rectangle is projected on
	// latitude for the tree descent; the per-edge test below uses the
	// unprojected rectangle to match caller expectations.
	projectedRectangle := geo.Rectangle{
		MinLon: searchRectangle.MinLon,
		MaxLon: searchRectangle.MaxLon,
		MinLat: geo.LatToYFixed(searchRectangle.MinLat),
		MaxLat: geo.LatToYFixed(searchRectangle.MaxLat),
	}

	var results []EdgeData

	queue := []TreeIndex{newTreeIndex(0, false)}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.IsLeaf() {
			leaf := t.leaves.leaf(current.Index())
			for i := uint32(0); i < leaf.ObjectCount; i++ {
				edge := leaf.Objects[i]
				if t.edgeBBox(edge).Intersects(searchRectangle) {
					results = append(results, edge)
				}
			}
			continue
		}

		node := &t.nodes[current.Index()]
		for i := uint32(0); i < node.ChildCount; i++ {
			child := node.Children[i]
			if t.childRectangle(child).Intersects(projectedRectangle) {
				queue = append(queue, child)
			}
		}
	}
	return results
}

// Nearest returns up to maxResults edges in increasing order of squared
// projected distance to the input coordinate.
func (t *StaticRTree) Nearest(inputCoordinate geo.Coordinate, maxResults int) []EdgeData {
	return t.NearestWith(inputCoordinate,
		func(CandidateSegment) (bool, bool) { return true, true },
		func(resultCount int, _ CandidateSegment) bool { return resultCount >= maxResults })
}

// NearestWith returns edges in increasing order of squared projected
// distance to the input coordinate, subject to the filter and terminator.
// The search stops the instant terminate returns true, before admitting
// the candidate it was called with.
func (t *StaticRTree) NearestWith(inputCoordinate geo.Coordinate, filter Filter, terminate Terminator) []EdgeData {
	projectedCoordinate := geo.FromWGS84Float(inputCoordinate)
	fixedProjectedCoordinate := geo.FromWGS84(inputCoordinate)

	var results []EdgeData

	traversalQueue := candidateQueue{{squaredMinDist: 0, treeIndex: newTreeIndex(0, false), kind: candidateNode}}
	for len(traversalQueue) > 0 {
		current := heap.Pop(&traversalQueue).(queryCandidate)

		if current.kind == candidateNode {
			if current.treeIndex.IsLeaf() {
				t.exploreLeafNode(current.treeIndex, fixedProjectedCoordinate, projectedCoordinate, &traversalQueue)
			} else {
				t.exploreTreeNode(current.treeIndex, fixedProjectedCoordinate, &traversalQueue)
			}
			continue
		}

		edge := t.leaves.leaf(current.treeIndex.Index()).Objects[current.segmentIndex]
		candidate := CandidateSegment{
			FixedProjectedCoordinate: current.fixedProjectedCoordinate,
			Data:                     edge,
		}

		// Terminating here rather than after the append lets restrictive
		// filters still end up with an empty result set.
		if terminate(len(results), candidate) {
			break
		}

		useForward, useReverse := filter(candidate)
		if !useForward && !useReverse {
			continue
		}
		edge.ForwardSegmentID = edge.ForwardSegmentID.WithEnabled(edge.ForwardSegmentID.Enabled() && useForward)
		edge.ReverseSegmentID = edge.ReverseSegmentID.WithEnabled(edge.ReverseSegmentID.Enabled() && useReverse)

		results = append(results, edge)
	}

	return results
}

// exploreLeafNode pushes every segment of the leaf as an exact-distance
// candidate: the query is projected onto the segment and the squared
// distance to the foot point becomes the priority key.
func (t *StaticRTree) exploreLeafNode(leafIndex TreeIndex, fixedProjectedCoordinate geo.Coordinate, projectedCoordinate geo.FloatCoordinate, traversalQueue *candidateQueue) {
	leaf := t.leaves.leaf(leafIndex.Index())
	for i := uint32(0); i < leaf.ObjectCount; i++ {
		edge := leaf.Objects[i]
		projectedU := geo.FromWGS84Float(t.coordinates[edge.U])
		projectedV := geo.FromWGS84Float(t.coordinates[edge.V])

		_, projectedNearest := geo.ProjectPointOnSegment(projectedU, projectedV, projectedCoordinate)
		fixedNearest := geo.FromFloat(projectedNearest)

		heap.Push(traversalQueue, queryCandidate{
			squaredMinDist:           geo.SquaredDistance(fixedProjectedCoordinate, fixedNearest),
			treeIndex:                leafIndex,
			kind:                     candidateSegment,
			segmentIndex:             i,
			fixedProjectedCoordinate: fixedNearest,
		})
	}
}

// exploreTreeNode pushes every child with the lower-bound distance of its
// MBR as the priority key.
func (t *StaticRTree) exploreTreeNode(parentIndex TreeIndex, fixedProjectedCoordinate geo.Coordinate, traversalQueue *candidateQueue) {
	parent := &t.nodes[parentIndex.Index()]
	for i := uint32(0); i < parent.ChildCount; i++ {
		child := parent.Children[i]
		heap.Push(traversalQueue, queryCandidate{
			squaredMinDist: t.childRectangle(child).MinSquaredDist(fixedProjectedCoordinate),
			treeIndex:      child,
			kind:           candidateNode,
		})
	}
}

func (t *StaticRTree) childRectangle(child TreeIndex) geo.Rectangle {
	if child.IsLeaf() {
		return t.leaves.leaf(child.Index()).MBR
	}
	return t.nodes[child.Index()].MBR
}

// edgeBBox recomputes the geographic endpoint bounding box of an edge from
// the coordinate table; leaves do not store per-edge boxes.
func (t *StaticRTree) edgeBBox(edge EdgeData) geo.Rectangle {
	u := t.coordinates[edge.U]
	v := t.coordinates[edge.V]
	return geo.Rectangle{
		MinLon: min(u.Lon, v.Lon),
		MaxLon: max(u.Lon, v.Lon),
		MinLat: min(u.Lat, v.Lat),
		MaxLat: max(u.Lat, v.Lat),
	}
}
