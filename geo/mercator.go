package geo

import "math"

// MaxLatitude is the latitude at which the spherical Mercator projection is
// clamped; beyond it the log-tan form diverges towards the poles.
const MaxLatitude = 85.051128779806925

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// LatToY projects a geographic latitude (degrees) to a Mercator y
// coordinate (projected degrees). Latitudes beyond MaxLatitude are clamped.
func LatToY(latitude float64) float64 {
	clamped := math.Min(MaxLatitude, math.Max(-MaxLatitude, latitude))
	return radToDeg * math.Log(math.Tan(math.Pi/4+clamped*degToRad/2))
}

// YToLat is the inverse of LatToY. Inputs are clamped to the projected
// range of LatToY, which is +-180 at MaxLatitude.
func YToLat(y float64) float64 {
	maxY := LatToY(MaxLatitude)
	clamped := math.Min(maxY, math.Max(-maxY, y))
	return radToDeg * (2*math.Atan(math.Exp(clamped*degToRad)) - math.Pi/2)
}

// LatToYFixed projects a fixed-point geographic latitude to a fixed-point
// Mercator y coordinate, rounding to the nearest unit.
func LatToYFixed(latitude int32) int32 {
	return int32(math.Round(LatToY(float64(latitude)/Precision) * Precision))
}

// FromWGS84 projects a fixed-point geographic coordinate to fixed-point
// Web Mercator. The longitude passes through unchanged.
func FromWGS84(c Coordinate) Coordinate {
	return Coordinate{Lon: c.Lon, Lat: LatToYFixed(c.Lat)}
}

// FromWGS84Float projects a fixed-point geographic coordinate to
// floating-point Web Mercator, without the rounding of FromWGS84.
func FromWGS84Float(c Coordinate) FloatCoordinate {
	return FloatCoordinate{
		Lon: float64(c.Lon) / Precision,
		Lat: LatToY(float64(c.Lat) / Precision),
	}
}
