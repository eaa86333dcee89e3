/*
 * db48x - scalar conversions shared by complex/range/unit kernels.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package numeric

import (
	"math"
	"strconv"
)

// ToFloat64 flattens a Decimal to a hardware double. The complex, range,
// unit, and DMS/date families all ride on
// hardware floats internally, so this is the one seam exact/inexact
// Decimal values cross into that world.
func (d Decimal) ToFloat64() float64 {
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

// FromFloat64 builds the Decimal a hardware double renders as, rounded
// to Precision significant digits the same way any other Decimal
// constructor is.
func FromFloat64(v float64) Decimal {
	d, ok := ParseDecimal(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return Decimal{Mantissa: Zero()}
	}
	return d
}

// FractionFromFloat64 recovers p/q ≈ x by continued-fraction expansion
// truncated once the convergent lands within tol of x. ok
// is false when x is not finite or no convergent with a denominator
// below 10^12 reaches tol.
func FractionFromFloat64(x, tol float64) (*Fraction, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, false
	}
	neg := x < 0
	if neg {
		x = -x
	}
	// Convergent recurrence: h[n] = a[n]*h[n-1] + h[n-2], same for k.
	h0, h1 := int64(1), int64(math.Floor(x))
	k0, k1 := int64(0), int64(1)
	frac := x - math.Floor(x)
	for i := 0; i < 64; i++ {
		if math.Abs(float64(h1)/float64(k1)-x) <= tol {
			break
		}
		if frac == 0 {
			break
		}
		r := 1 / frac
		a := int64(math.Floor(r))
		frac = r - math.Floor(r)
		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, a*k1+k0
		if k1 > 1_000_000_000_000 || k1 <= 0 {
			return nil, false
		}
	}
	if math.Abs(float64(h1)/float64(k1)-x) > tol {
		return nil, false
	}
	num := FromInt64(h1)
	num.Neg = neg && !num.IsZero()
	return NewFraction(num, FromInt64(k1)), true
}
