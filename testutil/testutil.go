package testutil

import (
	"math/rand"
	"sync"

	"github.com/nekulin/staticrtree/geo"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Coordinate returns a pseudo-random fixed-point coordinate inside the
// given geographic box (degrees).
func (r *RNG) Coordinate(minLon, maxLon, minLat, maxLat float64) geo.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return geo.FromFloat(geo.FloatCoordinate{
		Lon: minLon + r.rand.Float64()*(maxLon-minLon),
		Lat: minLat + r.rand.Float64()*(maxLat-minLat),
	})
}

// Coordinates fills a table of n pseudo-random coordinates inside the
// given geographic box (degrees).
func (r *RNG) Coordinates(n int, minLon, maxLon, minLat, maxLat float64) []geo.Coordinate {
	coords := make([]geo.Coordinate, n)
	for i := range coords {
		coords[i] = r.Coordinate(minLon, maxLon, minLat, maxLat)
	}
	return coords
}
