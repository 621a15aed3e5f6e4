package staticrtree

import (
	"errors"
	"fmt"

	"github.com/nekulin/staticrtree/geo"
)

var (
	// ErrNoEdges is returned by Build when the input edge set is empty.
	ErrNoEdges = errors.New("staticrtree: cannot build an index from an empty edge set")
)

// ErrEndpointOutOfRange indicates an edge whose endpoint index does not
// refer to an entry of the coordinate table.
type ErrEndpointOutOfRange struct {
	Edge            int
	Endpoint        uint32
	CoordinateCount int
}

func (e *ErrEndpointOutOfRange) Error() string {
	return fmt.Sprintf("staticrtree: edge %d references coordinate %d, table holds %d",
		e.Edge, e.Endpoint, e.CoordinateCount)
}

// ErrCoordinateOutOfRange indicates a coordinate outside the valid
// geographic range of +-180 / +-90 degrees.
type ErrCoordinateOutOfRange struct {
	Index      int
	Coordinate geo.Coordinate
}

func (e *ErrCoordinateOutOfRange) Error() string {
	return fmt.Sprintf("staticrtree: coordinate %d out of range: lon=%d lat=%d",
		e.Index, e.Coordinate.Lon, e.Coordinate.Lat)
}

// ErrBadLeafFileSize indicates a leaf file whose size is not a positive
// multiple of the leaf page size.
type ErrBadLeafFileSize struct {
	Path string
	Size int64
}

func (e *ErrBadLeafFileSize) Error() string {
	return fmt.Sprintf("staticrtree: leaf file %s: size %d is not a positive multiple of %d",
		e.Path, e.Size, LeafPageSize)
}

// ErrMisalignedLeaves indicates a leaf mapping whose start address is not
// page-aligned; the leaves cannot be addressed in place.
type ErrMisalignedLeaves struct {
	Path string
	Addr uintptr
}

func (e *ErrMisalignedLeaves) Error() string {
	return fmt.Sprintf("staticrtree: leaf file %s: mapping at %#x is not aligned to %d",
		e.Path, e.Addr, LeafPageSize)
}

// ErrEmptyTree indicates a node file declaring zero nodes.
type ErrEmptyTree struct {
	Path string
}

func (e *ErrEmptyTree) Error() string {
	return fmt.Sprintf("staticrtree: node file %s: tree is empty", e.Path)
}

// ErrNodeFileSizeMismatch indicates a node file whose size disagrees with
// its count header.
type ErrNodeFileSizeMismatch struct {
	Path  string
	Count uint64
	Size  int64
}

func (e *ErrNodeFileSizeMismatch) Error() string {
	return fmt.Sprintf("staticrtree: node file %s: size %d does not match %d declared nodes",
		e.Path, e.Size, e.Count)
}

// InvariantError reports a broken internal assertion during build. It
// indicates a bug in the packer, not a user error.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "staticrtree: internal invariant violated: " + e.Msg
}
