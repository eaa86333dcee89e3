/*
 * db48x - interval and uncertainty range kernel.
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

import "math"

// Range is a closed interval [Lo, Hi] (the "range"/"drange" family of
// ): arithmetic follows standard interval rules, each operation
// taking the extremal combination of the two operands' endpoints.
type Range struct {
	Lo, Hi float64
}

// Uncertain is a center+radius pair (the "uncertain" family): displayed
// as Value ± Radius, arithmetic propagates the radius via the same
// interval rules after converting to/from a Range.
type Uncertain struct {
	Value, Radius float64
}

// ToRange converts an uncertain value to its equivalent interval.
func (u Uncertain) ToRange() Range { return Range{Lo: u.Value - u.Radius, Hi: u.Value + u.Radius} }

// ToUncertain converts an interval to center+radius form.
func (r Range) ToUncertain() Uncertain {
	return Uncertain{Value: (r.Lo + r.Hi) / 2, Radius: (r.Hi - r.Lo) / 2}
}

// AddRange returns the interval sum.
func AddRange(a, b Range) Range { return Range{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi} }

// SubRange returns the interval difference.
func SubRange(a, b Range) Range { return Range{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo} }

// MulRange returns the interval product, taking the min/max of all four
// endpoint combinations.
func MulRange(a, b Range) Range {
	c := [4]float64{a.Lo * b.Lo, a.Lo * b.Hi, a.Hi * b.Lo, a.Hi * b.Hi}
	lo, hi := c[0], c[0]
	for _, v := range c[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Range{Lo: lo, Hi: hi}
}

// DivRange returns a/b. ok is false if b straddles zero, which the
// object layer reports as object.ErrDivByZero.
func DivRange(a, b Range) (Range, bool) {
	if b.Lo <= 0 && b.Hi >= 0 {
		return Range{}, false
	}
	return MulRange(a, Range{Lo: 1 / b.Hi, Hi: 1 / b.Lo}), true
}

// Contains reports whether x lies within the closed interval.
func (r Range) Contains(x float64) bool { return x >= r.Lo && x <= r.Hi }
