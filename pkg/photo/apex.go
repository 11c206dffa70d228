package photo

import (
	"fmt"
	"math"
	"math/big"
)

// approxEpsilon terminates the continued-fraction expansion once the
// convergent is this close to the target.
const approxEpsilon = 1e-20

// ApproxRat approximates a float as the nearest low-denominator
// rational with 32-bit terms, via continued-fraction convergents.
func ApproxRat(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("cannot rationalize %v", f))
	}
	neg := f < 0
	x := math.Abs(f)
	// No convergent with 32-bit terms exists once the integer part
	// exceeds the bound; saturate instead of overflowing the first
	// term.
	if x > math.MaxInt32 {
		x = math.MaxInt32
	}

	var p0, q0, p1, q1 int64 = 0, 1, 1, 0
	for range 40 {
		a := int64(math.Floor(x))
		// A term past the bound would overflow the products below;
		// the previous convergent is already the best 32-bit answer.
		if a > math.MaxInt32 {
			break
		}
		p2 := a*p1 + p0
		q2 := a*q1 + q0
		if p2 > math.MaxInt32 || q2 > math.MaxInt32 {
			break
		}
		p0, q0, p1, q1 = p1, q1, p2, q2
		if math.Abs(float64(p1)/float64(q1)-math.Abs(f)) < approxEpsilon {
			break
		}
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}
		x = 1 / frac
	}
	if neg {
		p1 = -p1
	}
	return big.NewRat(p1, q1)
}

// Log2Rat computes the base-2 logarithm of a rational, re-rationalized
// to the nearest low-denominator rational in lowest terms. This is
// exact only when the operand is an exact power of two; everything
// else is a close approximation, which is what the APEX EXIF tags
// expect.
func Log2Rat(r *big.Rat) *big.Rat {
	f, _ := r.Float64()
	return ApproxRat(math.Log2(f))
}
