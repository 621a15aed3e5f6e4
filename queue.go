package staticrtree

import (
	"container/heap"

	"github.com/nekulin/staticrtree/geo"
)

// Compile time check to ensure candidateQueue satisfies the heap interface.
var _ heap.Interface = (*candidateQueue)(nil)

type candidateKind uint8

const (
	candidateNode candidateKind = iota
	candidateSegment
)

// queryCandidate is one entry of the best-first traversal queue: either a
// tree node (internal or leaf page) with the lower-bound distance of its
// MBR, or a concrete segment with its exact foot-point distance. Mixing
// the two is sound because a leaf's lower bound never exceeds the distance
// of any segment stored in it.
type queryCandidate struct {
	squaredMinDist uint64
	treeIndex      TreeIndex
	kind           candidateKind

	// Segment entries only.
	segmentIndex             uint32
	fixedProjectedCoordinate geo.Coordinate
}

// candidateQueue is a min-priority queue of query candidates ordered by
// squared-distance lower bound.
type candidateQueue []queryCandidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	return q[i].squaredMinDist < q[j].squaredMinDist
}

func (q candidateQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *candidateQueue) Push(x any) {
	*q = append(*q, x.(queryCandidate))
}

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
