// Package staticrtree provides a read-optimized, bulk-loaded, disk-backed
// R-tree for nearest-edge lookup on a large, static road network.
//
// The index stores undirected geometry edges keyed by their two endpoint
// coordinates and answers two queries: all edges whose geographic bounding
// box intersects an axis-aligned window (SearchInBox), and the k nearest
// edges to a query point ranked by squared Euclidean distance in a Web
// Mercator projection (Nearest).
//
// An index is built once with one of three bulk-packing strategies
// (Hilbert, STR, OMT) and persisted to two files: a leaf file of
// fixed-size, page-aligned leaf records that is memory-mapped read-only at
// query time, and a node file holding the internal nodes as a flat array
// with the root first. The structure is immutable after build; any number
// of queries may run concurrently on a loaded index without coordination.
//
// Example:
//
//	err := staticrtree.Build(edges, coordinates, "net.ramIndex", "net.fileIndex",
//	    staticrtree.WithPackingMethod(staticrtree.PackSTR))
//	if err != nil {
//	    return err
//	}
//
//	tree, err := staticrtree.Open("net.ramIndex", "net.fileIndex", coordinates)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
//
//	results := tree.Nearest(geo.Coordinate{Lon: 13_397_233, Lat: 52_498_768}, 5)
package staticrtree
