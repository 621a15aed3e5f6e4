package geo

import "math"

// Rectangle is an axis-aligned bounding box over fixed-point coordinates.
// Internal tree nodes store rectangles in projected space; window queries
// additionally build them in geographic space.
type Rectangle struct {
	MinLon int32
	MaxLon int32
	MinLat int32
	MaxLat int32
}

// NewRectangle returns an empty rectangle: the extrema are chosen so that
// extending it by any point makes it valid.
func NewRectangle() Rectangle {
	return Rectangle{
		MinLon: math.MaxInt32,
		MaxLon: math.MinInt32,
		MinLat: math.MaxInt32,
		MaxLat: math.MinInt32,
	}
}

// IsValid reports whether the rectangle is non-empty with min <= max on
// both axes.
func (r Rectangle) IsValid() bool {
	return r.MinLon <= r.MaxLon && r.MinLat <= r.MaxLat
}

// Extend grows the rectangle to include the point c.
func (r *Rectangle) Extend(c Coordinate) {
	r.MinLon = min(r.MinLon, c.Lon)
	r.MaxLon = max(r.MaxLon, c.Lon)
	r.MinLat = min(r.MinLat, c.Lat)
	r.MaxLat = max(r.MaxLat, c.Lat)
}

// Merge grows the rectangle to include the rectangle o.
func (r *Rectangle) Merge(o Rectangle) {
	r.MinLon = min(r.MinLon, o.MinLon)
	r.MaxLon = max(r.MaxLon, o.MaxLon)
	r.MinLat = min(r.MinLat, o.MinLat)
	r.MaxLat = max(r.MaxLat, o.MaxLat)
}

// Intersects reports whether r and o share at least one point.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.MinLon <= o.MaxLon && r.MaxLon >= o.MinLon &&
		r.MinLat <= o.MaxLat && r.MaxLat >= o.MinLat
}

// Centroid returns the center point of the rectangle.
func (r Rectangle) Centroid() Coordinate {
	return Coordinate{
		Lon: int32((int64(r.MinLon) + int64(r.MaxLon)) / 2),
		Lat: int32((int64(r.MinLat) + int64(r.MaxLat)) / 2),
	}
}

// MinSquaredDist returns the squared distance from c to the nearest point
// of the rectangle, in fixed-point units squared. A point inside the
// rectangle has distance 0.
func (r Rectangle) MinSquaredDist(c Coordinate) uint64 {
	var dLon, dLat int64
	switch {
	case c.Lon < r.MinLon:
		dLon = int64(r.MinLon) - int64(c.Lon)
	case c.Lon > r.MaxLon:
		dLon = int64(c.Lon) - int64(r.MaxLon)
	}
	switch {
	case c.Lat < r.MinLat:
		dLat = int64(r.MinLat) - int64(c.Lat)
	case c.Lat > r.MaxLat:
		dLat = int64(c.Lat) - int64(r.MaxLat)
	}
	return uint64(dLon*dLon) + uint64(dLat*dLat)
}
