package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatRoundTrip(t *testing.T) {
	c := Coordinate{Lon: 13_397_233, Lat: 52_498_768}
	got := FromFloat(c.Float())
	assert.Equal(t, c, got)
}

func TestFromFloatRounds(t *testing.T) {
	got := FromFloat(FloatCoordinate{Lon: 1.0000006, Lat: -1.0000006})
	assert.Equal(t, Coordinate{Lon: 1_000_001, Lat: -1_000_001}, got)
}

func TestCentroid(t *testing.T) {
	a := Coordinate{Lon: 0, Lat: 0}
	b := Coordinate{Lon: 1_000_000, Lat: 2_000_000}
	assert.Equal(t, Coordinate{Lon: 500_000, Lat: 1_000_000}, Centroid(a, b))
}

func TestSquaredDistance(t *testing.T) {
	a := Coordinate{Lon: 0, Lat: 0}
	b := Coordinate{Lon: 3, Lat: 4}
	assert.Equal(t, uint64(25), SquaredDistance(a, b))
	assert.Equal(t, uint64(0), SquaredDistance(a, a))
}

func TestSquaredDistancePlanetScale(t *testing.T) {
	a := Coordinate{Lon: -180_000_000, Lat: -180_000_000}
	b := Coordinate{Lon: 180_000_000, Lat: 180_000_000}
	// Two full world spans on both axes must not overflow.
	assert.Equal(t, uint64(2)*360_000_000*360_000_000, SquaredDistance(a, b))
}

func TestProjectPointOnSegment(t *testing.T) {
	a := FloatCoordinate{Lon: 0, Lat: 0}
	b := FloatCoordinate{Lon: 10, Lat: 0}

	tests := []struct {
		name      string
		p         FloatCoordinate
		wantRatio float64
		wantFoot  FloatCoordinate
	}{
		{"perpendicular foot", FloatCoordinate{Lon: 4, Lat: 3}, 0.4, FloatCoordinate{Lon: 4, Lat: 0}},
		{"clamped before a", FloatCoordinate{Lon: -5, Lat: 1}, 0, a},
		{"clamped after b", FloatCoordinate{Lon: 15, Lat: 1}, 1, b},
		{"on the segment", FloatCoordinate{Lon: 7, Lat: 0}, 0.7, FloatCoordinate{Lon: 7, Lat: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, foot := ProjectPointOnSegment(a, b, tt.p)
			assert.InDelta(t, tt.wantRatio, ratio, 1e-12)
			assert.InDelta(t, tt.wantFoot.Lon, foot.Lon, 1e-12)
			assert.InDelta(t, tt.wantFoot.Lat, foot.Lat, 1e-12)
		})
	}
}

func TestProjectPointOnSegmentDegenerate(t *testing.T) {
	a := FloatCoordinate{Lon: 2, Lat: 3}
	ratio, foot := ProjectPointOnSegment(a, a, FloatCoordinate{Lon: 9, Lat: 9})
	assert.Equal(t, 0.0, ratio)
	assert.Equal(t, a, foot)
}
