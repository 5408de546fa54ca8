package gds

import "math"

// GDSII stores floating point values in an 8-byte excess-64 base-16 format:
// one sign bit, a 7-bit exponent biased by 64, and a 56-bit fraction in
// [1/16, 1). This predates IEEE 754 and must be converted explicitly.

const real8FractionBits = 56

// toReal8 converts a float64 to the GDSII 8-byte real representation.
func toReal8(v float64) uint64 {
	if v == 0 || math.IsNaN(v) {
		return 0
	}
	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}

	exp := 64
	for v >= 1 {
		v /= 16
		exp++
	}
	for v < 1.0/16 {
		v *= 16
		exp--
	}
	if exp < 0 {
		return 0 // underflow to zero
	}
	if exp > 127 {
		exp = 127
		v = math.Nextafter(1, 0)
	}

	mant := uint64(math.Round(v * (1 << real8FractionBits)))
	if mant >= 1<<real8FractionBits {
		// Rounding carried past the fraction range; renormalize.
		mant >>= 4
		exp++
		if exp > 127 {
			exp = 127
			mant = 1<<real8FractionBits - 1
		}
	}
	return sign | uint64(exp)<<real8FractionBits | mant
}

// fromReal8 converts a GDSII 8-byte real to a float64.
func fromReal8(bits uint64) float64 {
	if bits == 0 {
		return 0
	}
	mant := float64(bits&(1<<real8FractionBits-1)) / (1 << real8FractionBits)
	exp := int(bits>>real8FractionBits&0x7F) - 64
	v := mant * math.Pow(16, float64(exp))
	if bits&(1<<63) != 0 {
		return -v
	}
	return v
}
