package staticrtree

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateQueueOrdering(t *testing.T) {
	q := candidateQueue{}
	heap.Init(&q)

	for _, d := range []uint64{9, 3, 7, 0, 3, 12} {
		heap.Push(&q, queryCandidate{squaredMinDist: d, kind: candidateNode})
	}

	var popped []uint64
	for q.Len() > 0 {
		popped = append(popped, heap.Pop(&q).(queryCandidate).squaredMinDist)
	}
	assert.Equal(t, []uint64{0, 3, 3, 7, 9, 12}, popped)
}

func TestCandidateQueueMixesKinds(t *testing.T) {
	q := candidateQueue{}
	heap.Init(&q)

	heap.Push(&q, queryCandidate{squaredMinDist: 5, treeIndex: newTreeIndex(1, false), kind: candidateNode})
	heap.Push(&q, queryCandidate{squaredMinDist: 2, treeIndex: newTreeIndex(0, true), kind: candidateSegment, segmentIndex: 3})

	first := heap.Pop(&q).(queryCandidate)
	assert.Equal(t, candidateSegment, first.kind)
	assert.Equal(t, uint32(3), first.segmentIndex)

	second := heap.Pop(&q).(queryCandidate)
	assert.Equal(t, candidateNode, second.kind)
}
