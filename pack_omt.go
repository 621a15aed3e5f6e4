package staticrtree

import (
	"math"
	"sort"

	"github.com/nekulin/staticrtree/geo"
)

// omtRange is one pending unit of OMT work: pack entries[left:right) into
// a subtree of the given height and attach it to parent. Ranges are
// half-open everywhere. parent is -1 for the initial whole-input range.
type omtRange struct {
	parent int
	left   int
	right  int
	height int
}

// packOMT bulk-loads top-down with the Lee-Lee Overlap-Minimizing Top-down
// approach. Ranges are processed breadth-first, so the node array comes
// out in BFS order with the root at index 0 and children at strictly
// greater indices; no reversal pass is needed. Internal MBRs are
// propagated upward once the queue drains.
func packOMT(entries []packEntry, lw *leafWriter, o options) ([]TreeNode, error) {
	// A leaf is emitted for any range that fits a single node's fan-out,
	// bounded by the page capacity.
	leafThreshold := int(min(o.branching, o.leafFill))

	var nodes []TreeNode
	queue := []omtRange{{parent: -1, left: 0, right: len(entries), height: 0}}

	for head := 0; head < len(queue); head++ {
		r := queue[head]
		size := r.right - r.left

		if r.parent >= 0 && size <= leafThreshold {
			leafIndex, mbr, err := lw.writeLeaf(entries[r.left:r.right])
			if err != nil {
				return nil, err
			}
			p := &nodes[r.parent]
			if p.ChildCount >= o.branching {
				return nil, &InvariantError{Msg: "omt parent fan-out exceeded"}
			}
			p.Children[p.ChildCount] = leafIndex
			p.ChildCount++
			p.MBR.Merge(mbr)
			continue
		}

		nodes = append(nodes, TreeNode{MBR: geo.NewRectangle()})
		self := len(nodes) - 1

		fanout := int(o.branching)
		if r.parent < 0 {
			if size <= leafThreshold {
				// Tiny input: the root still gets a single leaf child.
				queue = append(queue, omtRange{parent: self, left: r.left, right: r.right})
				continue
			}
			r.height = ceilLog(size, fanout)
			fanout = ceilDiv(size, ipow(int(o.branching), r.height-1))
		} else {
			p := &nodes[r.parent]
			if p.ChildCount >= o.branching {
				return nil, &InvariantError{Msg: "omt parent fan-out exceeded"}
			}
			p.Children[p.ChildCount] = newTreeIndex(uint32(self), false)
			p.ChildCount++
		}

		// Target subtree size and slab width for this split.
		n2 := ceilDiv(size, fanout)
		n1 := n2 * ceilSqrt(fanout)

		part := entries[r.left:r.right]
		sort.SliceStable(part, func(i, j int) bool {
			return part[i].centroid.Lon < part[j].centroid.Lon
		})
		for i := r.left; i < r.right; i += n1 {
			right2 := min(i+n1, r.right)
			slab := entries[i:right2]
			sort.SliceStable(slab, func(i, j int) bool {
				return slab[i].centroid.Lat < slab[j].centroid.Lat
			})
			for j := i; j < right2; j += n2 {
				right3 := min(j+n2, right2)
				queue = append(queue, omtRange{parent: self, left: j, right: right3, height: r.height - 1})
			}
		}
	}

	// The BFS order means every child index is greater than its parent's,
	// so one reverse pass settles all internal MBRs, the root's included.
	// Leaf children already extended their parent when they were emitted.
	for i := len(nodes) - 1; i >= 0; i-- {
		n := &nodes[i]
		for j := uint32(0); j < n.ChildCount; j++ {
			if c := n.Children[j]; !c.IsLeaf() {
				n.MBR.Merge(nodes[c.Index()].MBR)
			}
		}
	}
	return nodes, nil
}

// ceilLog returns ceil(log_base(n)) for n >= 2.
func ceilLog(n, base int) int {
	h := int(math.Ceil(math.Log(float64(n)) / math.Log(float64(base))))
	if h < 1 {
		h = 1
	}
	return h
}

func ipow(base, exp int) int {
	result := 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}
