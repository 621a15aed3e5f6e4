package staticrtree

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// writeNodeFile persists the node array: a u64 node count followed by the
// raw nodes in topological order, root first.
func writeNodeFile(path string, nodes []TreeNode) (err error) {
	if len(nodes) == 0 {
		return &InvariantError{Msg: "writing an empty node array"}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("staticrtree: create node file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("staticrtree: close node file: %w", closeErr)
		}
	}()

	w := bufio.NewWriterSize(f, 1<<16)

	var header [nodeFileHeaderSize]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(nodes)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("staticrtree: write node file: %w", err)
	}

	buf := make([]byte, treeNodeSize)
	for i := range nodes {
		nodes[i].encode(buf)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("staticrtree: write node file: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("staticrtree: write node file: %w", err)
	}
	return nil
}

// readNodeFile loads the node array back into memory, validating the count
// header against the file size.
func readNodeFile(path string) ([]TreeNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("staticrtree: read node file: %w", err)
	}
	if len(data) < nodeFileHeaderSize {
		return nil, &ErrNodeFileSizeMismatch{Path: path, Count: 0, Size: int64(len(data))}
	}

	count := binary.LittleEndian.Uint64(data)
	if count == 0 {
		return nil, &ErrEmptyTree{Path: path}
	}
	body := data[nodeFileHeaderSize:]
	if uint64(len(body))%treeNodeSize != 0 || uint64(len(body))/treeNodeSize != count {
		return nil, &ErrNodeFileSizeMismatch{Path: path, Count: count, Size: int64(len(data))}
	}

	nodes := make([]TreeNode, count)
	for i := range nodes {
		nodes[i] = decodeTreeNode(body[i*treeNodeSize:])
	}
	return nodes, nil
}
