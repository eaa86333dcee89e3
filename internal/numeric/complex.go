/*
 * db48x - complex number kernel.
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

// Rectangular is a complex number in x+iy form, backed by hardware
// doubles: classes complex numbers with the inexact family, so
// unlike BigInt/Decimal there is no arena-residency pressure to avoid
// float64 here.
type Rectangular struct {
	Re, Im float64
}

// Polar is a complex number in magnitude/angle form; Angle is in
// radians internally and converted at render time per RenderOpts.AngleUnit.
type Polar struct {
	Mag, Angle float64
}

// ToPolar converts rectangular to polar form.
func (c Rectangular) ToPolar() Polar {
	return Polar{Mag: math.Hypot(c.Re, c.Im), Angle: math.Atan2(c.Im, c.Re)}
}

// ToRectangular converts polar to rectangular form.
func (p Polar) ToRectangular() Rectangular {
	return Rectangular{Re: p.Mag * math.Cos(p.Angle), Im: p.Mag * math.Sin(p.Angle)}
}

// AddC returns a+b.
func AddC(a, b Rectangular) Rectangular {
	return Rectangular{Re: a.Re + b.Re, Im: a.Im + b.Im}
}

// SubC returns a-b.
func SubC(a, b Rectangular) Rectangular {
	return Rectangular{Re: a.Re - b.Re, Im: a.Im - b.Im}
}

// MulC returns a*b.
func MulC(a, b Rectangular) Rectangular {
	return Rectangular{Re: a.Re*b.Re - a.Im*b.Im, Im: a.Re*b.Im + a.Im*b.Re}
}

// DivC returns a/b; panics if b is zero, translated to
// object.ErrDivByZero by the caller.
func DivC(a, b Rectangular) Rectangular {
	den := b.Re*b.Re + b.Im*b.Im
	if den == 0 {
		panic("numeric: complex division by zero")
	}
	return Rectangular{
		Re: (a.Re*b.Re + a.Im*b.Im) / den,
		Im: (a.Im*b.Re - a.Re*b.Im) / den,
	}
}

// Conj returns the complex conjugate.
func Conj(a Rectangular) Rectangular { return Rectangular{Re: a.Re, Im: -a.Im} }

// Abs returns |a|.
func Abs(a Rectangular) float64 { return math.Hypot(a.Re, a.Im) }
