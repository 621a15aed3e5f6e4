package geo

// hilbertSideBits is the exponent of the Hilbert grid side length: the
// curve covers a 2^32 x 2^32 grid, one cell per fixed-point unit.
const hilbertSideBits = 32

// HilbertCode maps a fixed-point coordinate to its 64-bit position along a
// Hilbert curve over the full 2^32-side grid. The mapping is deterministic
// and monotone along the curve, which is all the Hilbert packer needs.
func HilbertCode(c Coordinate) uint64 {
	// Bias the signed fixed-point values to unsigned grid cells. XOR with
	// the sign bit is the order-preserving shift by 2^31.
	x := uint64(uint32(c.Lon) ^ 0x80000000)
	y := uint64(uint32(c.Lat) ^ 0x80000000)

	var d uint64
	for s := uint64(1) << (hilbertSideBits - 1); s > 0; s >>= 1 {
		var rx, ry uint64
		if x&s != 0 {
			rx = 1
		}
		if y&s != 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)

		// Rotate the quadrant so the curve stays contiguous.
		if ry == 0 {
			if rx == 1 {
				x = s*2 - 1 - x
				y = s*2 - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}
