// Package geo provides the fixed-point coordinate arithmetic shared by the
// index builder and the query engine: Web Mercator projection, axis-aligned
// rectangles, squared Euclidean distances and Hilbert curve keys.
//
// All distances are squared Euclidean distances in projected fixed-point
// units. They are monotonic in true planar distance, which makes them valid
// priority keys for best-first search, but they do not represent meters.
package geo
