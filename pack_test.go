package staticrtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekulin/staticrtree/geo"
	"github.com/nekulin/staticrtree/testutil"
)

var packingMethods = []PackingMethod{PackHilbert, PackSTR, PackOMT}

// randomNetwork produces a reproducible road-network-like input: random
// coordinates in a city-sized box and edges connecting random pairs. Each
// edge carries its input position as forward segment id, which makes
// coverage checks possible.
func randomNetwork(seed int64, coordCount, edgeCount int) ([]EdgeData, []geo.Coordinate) {
	rng := testutil.NewRNG(seed)
	coords := rng.Coordinates(coordCount, 13.0, 13.5, 52.3, 52.6)
	edges := make([]EdgeData, edgeCount)
	for i := range edges {
		edges[i] = EdgeData{
			U:                uint32(rng.Intn(coordCount)),
			V:                uint32(rng.Intn(coordCount)),
			ForwardSegmentID: NewSegmentID(uint32(i), true),
			ReverseSegmentID: NewSegmentID(uint32(i), true),
		}
	}
	return edges, coords
}

func indexPaths(t *testing.T) (nodePath, leafPath string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "net.ramIndex"), filepath.Join(dir, "net.fileIndex")
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	nodePath, leafPath := indexPaths(t)
	err := Build(nil, nil, nodePath, leafPath)
	assert.ErrorIs(t, err, ErrNoEdges)
}

func TestBuildRejectsEndpointOutOfRange(t *testing.T) {
	nodePath, leafPath := indexPaths(t)
	coords := []geo.Coordinate{{Lon: 0, Lat: 0}}
	edges := []EdgeData{{U: 0, V: 1}}

	err := Build(edges, coords, nodePath, leafPath)

	var oor *ErrEndpointOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 0, oor.Edge)
	assert.Equal(t, uint32(1), oor.Endpoint)
}

func TestBuildRejectsCoordinateOutOfRange(t *testing.T) {
	nodePath, leafPath := indexPaths(t)
	coords := []geo.Coordinate{{Lon: 181_000_000, Lat: 0}, {Lon: 0, Lat: 0}}
	edges := []EdgeData{{U: 0, V: 1}}

	err := Build(edges, coords, nodePath, leafPath)

	var oor *ErrCoordinateOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 0, oor.Index)
}

func TestBuildDeterminism(t *testing.T) {
	edges, coords := randomNetwork(42, 300, 1000)

	for _, method := range packingMethods {
		t.Run(method.String(), func(t *testing.T) {
			nodePath1, leafPath1 := indexPaths(t)
			nodePath2, leafPath2 := indexPaths(t)

			require.NoError(t, Build(edges, coords, nodePath1, leafPath1, WithPackingMethod(method)))
			require.NoError(t, Build(edges, coords, nodePath2, leafPath2, WithPackingMethod(method)))

			nodes1, err := os.ReadFile(nodePath1)
			require.NoError(t, err)
			nodes2, err := os.ReadFile(nodePath2)
			require.NoError(t, err)
			assert.Equal(t, nodes1, nodes2, "node files differ between identical builds")

			leaves1, err := os.ReadFile(leafPath1)
			require.NoError(t, err)
			leaves2, err := os.ReadFile(leafPath2)
			require.NoError(t, err)
			assert.Equal(t, leaves1, leaves2, "leaf files differ between identical builds")
		})
	}
}

func TestTreeInvariants(t *testing.T) {
	edges, coords := randomNetwork(7, 300, 1000)

	for _, method := range packingMethods {
		t.Run(method.String(), func(t *testing.T) {
			nodePath, leafPath := indexPaths(t)
			require.NoError(t, Build(edges, coords, nodePath, leafPath, WithPackingMethod(method)))
			checkTreeInvariants(t, nodePath, leafPath, edges, coords, method, LeafCapacity)
		})
	}
}

// TestTreeInvariantsDeepTree shrinks the effective fan-out and leaf fill
// so a small input produces several tree levels, then re-checks the same
// structural properties. The on-disk page size is unchanged.
func TestTreeInvariantsDeepTree(t *testing.T) {
	edges, coords := randomNetwork(11, 150, 500)

	for _, method := range packingMethods {
		t.Run(method.String(), func(t *testing.T) {
			nodePath, leafPath := indexPaths(t)
			o := defaultOptions()
			o.method = method
			o.branching = 4
			o.leafFill = 4
			require.NoError(t, build(edges, coords, nodePath, leafPath, o))
			checkTreeInvariants(t, nodePath, leafPath, edges, coords, method, 4)
		})
	}
}

func TestBuildSingleEdge(t *testing.T) {
	coords := []geo.Coordinate{{Lon: 0, Lat: 0}, {Lon: 1_000_000, Lat: 0}}
	edges := []EdgeData{{U: 0, V: 1, ForwardSegmentID: NewSegmentID(0, true)}}

	for _, method := range packingMethods {
		t.Run(method.String(), func(t *testing.T) {
			nodePath, leafPath := indexPaths(t)
			require.NoError(t, Build(edges, coords, nodePath, leafPath, WithPackingMethod(method)))

			nodes, err := readNodeFile(nodePath)
			require.NoError(t, err)
			leaves, err := openLeafStore(leafPath)
			require.NoError(t, err)
			defer leaves.close()

			// A root whose single child is a leaf containing the edge.
			require.Len(t, nodes, 1)
			require.Equal(t, uint32(1), nodes[0].ChildCount)
			child := nodes[0].Children[0]
			require.True(t, child.IsLeaf())
			require.Equal(t, 1, leaves.count())
			assert.Equal(t, uint32(1), leaves.leaf(child.Index()).ObjectCount)
		})
	}
}

// checkTreeInvariants verifies the structural properties shared by all
// packing methods: topological node order, MBR soundness at every level,
// exactly-once edge coverage and leaf sizing.
func checkTreeInvariants(t *testing.T, nodePath, leafPath string, edges []EdgeData, coords []geo.Coordinate, method PackingMethod, leafFill uint32) {
	t.Helper()

	nodes, err := readNodeFile(nodePath)
	require.NoError(t, err)
	leaves, err := openLeafStore(leafPath)
	require.NoError(t, err)
	defer leaves.close()

	visitedNodes := make([]bool, len(nodes))
	visitedLeaves := make([]bool, leaves.count())

	queue := []TreeIndex{newTreeIndex(0, false)}
	visitedNodes[0] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		node := &nodes[current.Index()]

		require.LessOrEqual(t, node.ChildCount, uint32(BranchingFactor))
		require.Positive(t, node.ChildCount)

		union := geo.NewRectangle()
		for i := uint32(0); i < node.ChildCount; i++ {
			child := node.Children[i]
			if child.IsLeaf() {
				require.Less(t, int(child.Index()), leaves.count())
				require.False(t, visitedLeaves[child.Index()], "leaf referenced twice")
				visitedLeaves[child.Index()] = true
				union.Merge(leaves.leaf(child.Index()).MBR)
				continue
			}
			// Parents strictly precede children.
			require.Greater(t, child.Index(), current.Index())
			require.Less(t, int(child.Index()), len(nodes))
			require.False(t, visitedNodes[child.Index()], "node referenced twice")
			visitedNodes[child.Index()] = true
			union.Merge(nodes[child.Index()].MBR)
			queue = append(queue, child)
		}
		assert.Equal(t, union, node.MBR, "node MBR is not the union of its children")
	}

	for i, seen := range visitedNodes {
		assert.True(t, seen, "node %d unreachable from the root", i)
	}
	for i, seen := range visitedLeaves {
		assert.True(t, seen, "leaf %d unreachable from the root", i)
	}

	// Every input edge lands in exactly one leaf; leaf MBRs cover exactly
	// their edges' projected endpoints.
	seenEdges := make([]bool, len(edges))
	for i := 0; i < leaves.count(); i++ {
		leaf := leaves.leaf(uint32(i))
		require.Positive(t, leaf.ObjectCount)
		require.LessOrEqual(t, leaf.ObjectCount, leafFill)

		union := geo.NewRectangle()
		for j := uint32(0); j < leaf.ObjectCount; j++ {
			edge := leaf.Objects[j]
			id := edge.ForwardSegmentID.ID()
			require.Less(t, int(id), len(edges))
			require.False(t, seenEdges[id], "edge %d stored twice", id)
			seenEdges[id] = true
			assert.Equal(t, edges[id], edge)

			union.Extend(geo.FromWGS84(coords[edge.U]))
			union.Extend(geo.FromWGS84(coords[edge.V]))
		}
		assert.Equal(t, union, leaf.MBR, "leaf %d MBR mismatch", i)

		// Hilbert and STR fill every leaf except the last.
		if method != PackOMT && i < leaves.count()-1 {
			assert.Equal(t, leafFill, leaf.ObjectCount, "leaf %d not full", i)
		}
	}
	for i, seen := range seenEdges {
		assert.True(t, seen, "edge %d missing from the tree", i)
	}
}
