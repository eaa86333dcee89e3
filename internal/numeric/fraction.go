/*
 * db48x - exact rational fraction kernel.
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

// Fraction is an exact rational number kept in lowest terms with a
// positive denominator; the sign lives on Num.
type Fraction struct {
	Num, Den *BigInt
}

// NewFraction builds and reduces num/den, panicking on a zero
// denominator (callers check that before constructing one; the object
// layer turns it into object.ErrDivByZero).
func NewFraction(num, den *BigInt) *Fraction {
	if den.IsZero() {
		panic("numeric: fraction with zero denominator")
	}
	if den.Neg {
		num, den = Neg(num), Neg(den)
	}
	g := gcd(absCopy(num), absCopy(den))
	if !g.IsZero() && Cmp(g, FromInt64(1)) != 0 {
		num, _ = QuoRem(num, g)
		den, _ = QuoRem(den, g)
	}
	return &Fraction{Num: num, Den: den}
}

func absCopy(b *BigInt) *BigInt {
	return &BigInt{Limbs: append([]uint32(nil), b.Limbs...)}
}

func gcd(a, b *BigInt) *BigInt {
	for !b.IsZero() {
		_, r := QuoRem(a, b)
		r.Neg = false
		a, b = b, r
	}
	return a
}

// GCD returns the greatest common divisor of |a| and |b|, for the GCD
// builtin; gcd(0, 0) is 0.
func GCD(a, b *BigInt) *BigInt {
	return gcd(absCopy(a), absCopy(b))
}

// AddFrac returns a+b over a common denominator, reduced.
func AddFrac(a, b *Fraction) *Fraction {
	return NewFraction(Add(Mul(a.Num, b.Den), Mul(b.Num, a.Den)), Mul(a.Den, b.Den))
}

// SubFrac returns a-b.
func SubFrac(a, b *Fraction) *Fraction {
	return NewFraction(Sub(Mul(a.Num, b.Den), Mul(b.Num, a.Den)), Mul(a.Den, b.Den))
}

// MulFrac returns a*b.
func MulFrac(a, b *Fraction) *Fraction {
	return NewFraction(Mul(a.Num, b.Num), Mul(a.Den, b.Den))
}

// DivFrac returns a/b; panics if b is zero (a/0 case is rejected by the
// object layer before reaching here).
func DivFrac(a, b *Fraction) *Fraction {
	return NewFraction(Mul(a.Num, b.Den), Mul(a.Den, b.Num))
}

// IsInteger reports whether the fraction reduced to a whole number.
func (f *Fraction) IsInteger() bool { return Cmp(f.Den, FromInt64(1)) == 0 }

// CmpFrac compares two fractions by cross-multiplication.
func CmpFrac(a, b *Fraction) int {
	return Cmp(Mul(a.Num, b.Den), Mul(b.Num, a.Den))
}

// String renders "num/den", or just "num" when the denominator is 1.
func (f *Fraction) String() string {
	if f.IsInteger() {
		return f.Num.String()
	}
	return f.Num.String() + "/" + f.Den.String()
}
