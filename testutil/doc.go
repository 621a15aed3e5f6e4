// Package testutil provides deterministic random test data for the index:
// a seeded, thread-safe RNG that produces fixed-point coordinates and road
// edges.
package testutil
