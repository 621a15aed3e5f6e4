package staticrtree

import (
	"fmt"
	"unsafe"

	"github.com/nekulin/staticrtree/internal/mmap"
)

// leafStore is the read-only, memory-mapped leaf file viewed as a flat
// []LeafNode. The view aliases the mapping; no page is ever copied.
type leafStore struct {
	mapping *mmap.Mapping
	leaves  []LeafNode
}

// openLeafStore maps the leaf file and validates that it can be addressed
// in place: the size must be a positive multiple of the page size and the
// mapping must start page-aligned.
func openLeafStore(path string) (*leafStore, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("staticrtree: map leaf file: %w", err)
	}

	size := m.Size()
	if size == 0 || size%LeafPageSize != 0 {
		_ = m.Close()
		return nil, &ErrBadLeafFileSize{Path: path, Size: int64(size)}
	}

	data := m.Bytes()
	addr := uintptr(unsafe.Pointer(&data[0]))
	if addr%LeafPageSize != 0 {
		_ = m.Close()
		return nil, &ErrMisalignedLeaves{Path: path, Addr: addr}
	}

	return &leafStore{
		mapping: m,
		leaves:  unsafe.Slice((*LeafNode)(unsafe.Pointer(&data[0])), size/LeafPageSize), //nolint:gosec // zero-copy view of the mapping
	}, nil
}

func (s *leafStore) leaf(index uint32) *LeafNode {
	return &s.leaves[index]
}

func (s *leafStore) count() int {
	return len(s.leaves)
}

func (s *leafStore) close() error {
	if s == nil || s.mapping == nil {
		return nil
	}
	err := s.mapping.Close()
	s.mapping = nil
	s.leaves = nil
	return err
}
