package staticrtree

import (
	"encoding/binary"
	"unsafe"

	"github.com/nekulin/staticrtree/geo"
)

const (
	// BranchingFactor is the maximum number of children per internal node.
	BranchingFactor = 128
	// LeafPageSize is the on-disk size of a leaf record in bytes. It must
	// be a power of two; leaves are written page-aligned so they can be
	// addressed directly in a read-only mapping.
	LeafPageSize = 4096
	// LeafCapacity is the maximum number of edges per leaf page, derived
	// from the page size so a full page is exactly LeafPageSize bytes.
	LeafCapacity = (LeafPageSize - 4 - rectangleSize) / edgeDataSize

	rectangleSize = 16
	edgeDataSize  = 16
	leafPadding   = LeafPageSize - 4 - rectangleSize - LeafCapacity*edgeDataSize

	// treeNodeSize is the encoded size of a TreeNode in the node file.
	treeNodeSize = 4 + rectangleSize + 4*BranchingFactor

	// nodeFileHeaderSize is the u64 node-count prefix of the node file.
	nodeFileHeaderSize = 8
)

// highBit flags a TreeIndex as a leaf reference and a SegmentID as
// enabled. Bit 31 in both cases; the low 31 bits carry the index or id.
// The bit layout is pinned so writer and reader agree across builds.
const highBit = uint32(1) << 31

// SegmentID identifies a directed segment of the road network: a 31-bit id
// plus an enabled flag in the high bit.
type SegmentID uint32

// NewSegmentID packs id and enabled into a SegmentID. Only the low 31 bits
// of id are kept.
func NewSegmentID(id uint32, enabled bool) SegmentID {
	v := id &^ highBit
	if enabled {
		v |= highBit
	}
	return SegmentID(v)
}

// ID returns the 31-bit segment id.
func (s SegmentID) ID() uint32 { return uint32(s) &^ highBit }

// Enabled reports whether the segment may be used in its direction.
func (s SegmentID) Enabled() bool { return uint32(s)&highBit != 0 }

// WithEnabled returns s with the enabled flag set to enabled.
func (s SegmentID) WithEnabled(enabled bool) SegmentID {
	return NewSegmentID(s.ID(), enabled)
}

// EdgeData is one undirected geometry edge of the road network. U and V
// index the caller's coordinate table; the segment ids carry the opaque
// payload the caller stored at build time. EdgeData is a fixed-size value
// object; its size determines the leaf capacity.
type EdgeData struct {
	U                uint32
	V                uint32
	ForwardSegmentID SegmentID
	ReverseSegmentID SegmentID
}

// TreeIndex references either an internal node (in the node array) or a
// leaf (a slot of the leaf file): a 31-bit index with the leaf flag in the
// high bit.
type TreeIndex uint32

func newTreeIndex(index uint32, isLeaf bool) TreeIndex {
	v := index &^ highBit
	if isLeaf {
		v |= highBit
	}
	return TreeIndex(v)
}

// Index returns the 31-bit node or leaf index.
func (t TreeIndex) Index() uint32 { return uint32(t) &^ highBit }

// IsLeaf reports whether the index refers to the leaf file rather than the
// node array.
func (t TreeIndex) IsLeaf() bool { return uint32(t)&highBit != 0 }

// TreeNode is an internal node of the search tree. Its MBR covers all
// descendants, in projected space.
type TreeNode struct {
	ChildCount uint32
	MBR        geo.Rectangle
	Children   [BranchingFactor]TreeIndex
}

// LeafNode is one page of the leaf file. The in-memory layout matches the
// on-disk layout exactly (all fields are 4-byte aligned, padding is
// explicit), so a read-only mapping of the leaf file can be viewed as a
// []LeafNode without copying on little-endian hosts.
type LeafNode struct {
	ObjectCount uint32
	MBR         geo.Rectangle
	Objects     [LeafCapacity]EdgeData
	_           [leafPadding]byte
}

// Compile-time guarantees that the structs fill their on-disk sizes
// exactly. Either array length goes negative if a field is added or
// reordered without adjusting the layout constants.
var (
	_ [LeafPageSize - unsafe.Sizeof(LeafNode{})]byte
	_ [unsafe.Sizeof(LeafNode{}) - LeafPageSize]byte
	_ [edgeDataSize - unsafe.Sizeof(EdgeData{})]byte
	_ [unsafe.Sizeof(EdgeData{}) - edgeDataSize]byte
	_ [rectangleSize - unsafe.Sizeof(geo.Rectangle{})]byte
	_ [unsafe.Sizeof(geo.Rectangle{}) - rectangleSize]byte
)

func encodeRectangle(buf []byte, r geo.Rectangle) {
	binary.LittleEndian.PutUint32(buf[0:], uint32(r.MinLon))
	binary.LittleEndian.PutUint32(buf[4:], uint32(r.MaxLon))
	binary.LittleEndian.PutUint32(buf[8:], uint32(r.MinLat))
	binary.LittleEndian.PutUint32(buf[12:], uint32(r.MaxLat))
}

func decodeRectangle(buf []byte) geo.Rectangle {
	return geo.Rectangle{
		MinLon: int32(binary.LittleEndian.Uint32(buf[0:])),
		MaxLon: int32(binary.LittleEndian.Uint32(buf[4:])),
		MinLat: int32(binary.LittleEndian.Uint32(buf[8:])),
		MaxLat: int32(binary.LittleEndian.Uint32(buf[12:])),
	}
}

// encode writes the node into buf, which must hold treeNodeSize bytes.
func (n *TreeNode) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], n.ChildCount)
	encodeRectangle(buf[4:], n.MBR)
	for i, c := range n.Children {
		binary.LittleEndian.PutUint32(buf[4+rectangleSize+4*i:], uint32(c))
	}
}

func decodeTreeNode(buf []byte) TreeNode {
	n := TreeNode{
		ChildCount: binary.LittleEndian.Uint32(buf[0:]),
		MBR:        decodeRectangle(buf[4:]),
	}
	for i := range n.Children {
		n.Children[i] = TreeIndex(binary.LittleEndian.Uint32(buf[4+rectangleSize+4*i:]))
	}
	return n
}

// encode writes the leaf page into buf, which must hold LeafPageSize bytes
// and be zeroed beforehand: entries past ObjectCount and the trailing
// padding stay zero so output is reproducible byte for byte.
func (l *LeafNode) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], l.ObjectCount)
	encodeRectangle(buf[4:], l.MBR)
	for i := uint32(0); i < l.ObjectCount; i++ {
		off := 4 + rectangleSize + int(i)*edgeDataSize
		e := &l.Objects[i]
		binary.LittleEndian.PutUint32(buf[off:], e.U)
		binary.LittleEndian.PutUint32(buf[off+4:], e.V)
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(e.ForwardSegmentID))
		binary.LittleEndian.PutUint32(buf[off+12:], uint32(e.ReverseSegmentID))
	}
}
