package geo

import "math"

// Precision is the fixed-point scaling factor shared by geographic and
// projected coordinates: one unit is 1e-6 of a degree.
const Precision = 1e6

// Coordinate is a fixed-point (longitude, latitude) pair. The same
// representation is used for geographic (WGS84) and projected (Web Mercator)
// points; the two spaces are never mixed in a single comparison.
type Coordinate struct {
	Lon int32
	Lat int32
}

// FloatCoordinate is the floating-point counterpart of Coordinate, in
// degrees (or projected degrees).
type FloatCoordinate struct {
	Lon float64
	Lat float64
}

// Float converts c to floating-point degrees.
func (c Coordinate) Float() FloatCoordinate {
	return FloatCoordinate{
		Lon: float64(c.Lon) / Precision,
		Lat: float64(c.Lat) / Precision,
	}
}

// FromFloat converts f to fixed-point, rounding to the nearest unit.
func FromFloat(f FloatCoordinate) Coordinate {
	return Coordinate{
		Lon: int32(math.Round(f.Lon * Precision)),
		Lat: int32(math.Round(f.Lat * Precision)),
	}
}

// Centroid returns the midpoint of a and b in fixed-point units.
func Centroid(a, b Coordinate) Coordinate {
	return Coordinate{
		Lon: int32((int64(a.Lon) + int64(b.Lon)) / 2),
		Lat: int32((int64(a.Lat) + int64(b.Lat)) / 2),
	}
}

// SquaredDistance returns the squared Euclidean distance between a and b in
// fixed-point units squared. The result is held as uint64 so that
// planet-scale inputs cannot overflow.
func SquaredDistance(a, b Coordinate) uint64 {
	dLon := int64(a.Lon) - int64(b.Lon)
	dLat := int64(a.Lat) - int64(b.Lat)
	return uint64(dLon*dLon) + uint64(dLat*dLat)
}

// ProjectPointOnSegment returns the foot of the perpendicular from p onto
// the segment a-b, clamped to the segment, together with the clamped ratio
// along a-b. The degenerate a == b case returns a with ratio 0.
func ProjectPointOnSegment(a, b, p FloatCoordinate) (float64, FloatCoordinate) {
	dLon := b.Lon - a.Lon
	dLat := b.Lat - a.Lat
	squaredLength := dLon*dLon + dLat*dLat
	if squaredLength == 0 {
		return 0, a
	}

	ratio := ((p.Lon-a.Lon)*dLon + (p.Lat-a.Lat)*dLat) / squaredLength
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}

	return ratio, FloatCoordinate{
		Lon: a.Lon + ratio*dLon,
		Lat: a.Lat + ratio*dLat,
	}
}
