/*
 * db48x - arbitrary precision decimal kernel.
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

import "strings"

// Decimal is an inexact arbitrary-precision number: Mantissa * 10^Exp,
// Mantissa an exact BigInt (its own sign carries the value's sign).
// Addition/subtraction align exponents by scaling the smaller-exponent
// operand's mantissa up by a power of ten, so the digit-by-digit carry
// chain operates once the two operands share a common digit position.
type Decimal struct {
	Mantissa *BigInt
	Exp      int
}

// Precision bounds the number of significant mantissa digits kept after
// an operation, matching the working precision a calculator exposes as
// a setting. Zero means "don't round".
var Precision = 34

func pow10(n int) *BigInt {
	r := FromInt64(1)
	ten := FromInt64(10)
	for i := 0; i < n; i++ {
		r = Mul(r, ten)
	}
	return r
}

func digitCount(b *BigInt) int {
	s := b.String()
	if s[0] == '-' {
		s = s[1:]
	}
	return len(s)
}

// round truncates d's mantissa to Precision significant digits, rounding
// half away from zero at the dropped boundary, then strips trailing
// zero digits into the exponent so 1/2 computes to 5E-1 rather than a
// mantissa of Precision digits ending in zeros.
func round(d Decimal) Decimal {
	if Precision <= 0 {
		return normalizeDec(d)
	}
	n := digitCount(d.Mantissa)
	if n <= Precision {
		return normalizeDec(d)
	}
	drop := n - Precision
	scale := pow10(drop)
	q, r := QuoRem(d.Mantissa, scale)
	twice := Mul(absCopy(r), FromInt64(2))
	twice.Neg = false
	if Cmp(twice, scale) >= 0 {
		if q.Neg {
			q = Sub(q, FromInt64(1))
		} else {
			q = Add(q, FromInt64(1))
		}
	}
	return normalizeDec(Decimal{Mantissa: q, Exp: d.Exp + drop})
}

func normalizeDec(d Decimal) Decimal {
	if d.Mantissa.IsZero() {
		return Decimal{Mantissa: Zero()}
	}
	ten := FromInt64(10)
	for {
		q, r := QuoRem(d.Mantissa, ten)
		if !r.IsZero() {
			return d
		}
		d = Decimal{Mantissa: q, Exp: d.Exp + 1}
	}
}

func align(a, b Decimal) (*BigInt, *BigInt, int) {
	if a.Exp == b.Exp {
		return a.Mantissa, b.Mantissa, a.Exp
	}
	if a.Exp > b.Exp {
		return Mul(a.Mantissa, pow10(a.Exp-b.Exp)), b.Mantissa, b.Exp
	}
	return a.Mantissa, Mul(b.Mantissa, pow10(b.Exp-a.Exp)), a.Exp
}

// AddDec returns a+b, rounded to Precision.
func AddDec(a, b Decimal) Decimal {
	am, bm, exp := align(a, b)
	return round(Decimal{Mantissa: Add(am, bm), Exp: exp})
}

// SubDec returns a-b, rounded to Precision.
func SubDec(a, b Decimal) Decimal {
	am, bm, exp := align(a, b)
	return round(Decimal{Mantissa: Sub(am, bm), Exp: exp})
}

// MulDec returns a*b, rounded to Precision.
func MulDec(a, b Decimal) Decimal {
	return round(Decimal{Mantissa: Mul(a.Mantissa, b.Mantissa), Exp: a.Exp + b.Exp})
}

// DivDec returns a/b computed to Precision significant digits by scaling
// the dividend up before doing integer division, then assigning the
// scale to the exponent — long division carried out on digit arrays.
func DivDec(a, b Decimal) Decimal {
	if b.Mantissa.IsZero() {
		panic("numeric: division by zero")
	}
	extra := Precision + digitCount(b.Mantissa) + 2
	scaled := Mul(a.Mantissa, pow10(extra))
	q, _ := QuoRem(scaled, b.Mantissa)
	return round(Decimal{Mantissa: q, Exp: a.Exp - b.Exp - extra})
}

// CmpDec orders two decimals.
func CmpDec(a, b Decimal) int {
	am, bm, _ := align(a, b)
	return Cmp(am, bm)
}

// IsZero reports whether d is exactly zero.
func (d Decimal) IsZero() bool { return d.Mantissa.IsZero() }

// MagnitudeExp reports the power-of-ten order of d (the printed E field
// of its normalized scientific form), used by the overflow/underflow
// policy to compare a result against the configured exponent range.
func (d Decimal) MagnitudeExp() int {
	return d.Exp + digitCount(d.Mantissa) - 1
}

// MaxDecimal is the largest representable magnitude under an exponent
// cap: Precision nines scaled so the leading digit sits at 10^maxExp.
func MaxDecimal(maxExp int, neg bool) Decimal {
	digits := Precision
	if digits <= 0 {
		digits = 34
	}
	m := Sub(pow10(digits), FromInt64(1))
	m.Neg = neg
	return Decimal{Mantissa: m, Exp: maxExp - digits + 1}
}

// NegDec returns -d.
func NegDec(d Decimal) Decimal { return Decimal{Mantissa: Neg(d.Mantissa), Exp: d.Exp} }

// String renders a plain "digits.digits" or "-digits.digits" form;
// scientific/engineering notation is applied by the object package's
// renderer, which knows the active RenderOpts. Neither applies the
// fixed-digit or significant-digit display settings.
func (d Decimal) String() string {
	digits := d.Mantissa.String()
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if d.Exp >= 0 {
		var sb strings.Builder
		if neg {
			sb.WriteByte('-')
		}
		sb.WriteString(digits)
		for i := 0; i < d.Exp; i++ {
			sb.WriteByte('0')
		}
		return sb.String()
	}
	point := len(digits) + d.Exp
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	if point <= 0 {
		sb.WriteString("0.")
		for i := 0; i < -point; i++ {
			sb.WriteByte('0')
		}
		sb.WriteString(digits)
	} else {
		sb.WriteString(digits[:point])
		sb.WriteByte('.')
		sb.WriteString(digits[point:])
	}
	return sb.String()
}

// ParseDecimal parses a plain decimal literal such as "3.14" or
// "-0.5e10" into a normalized Mantissa*10^Exp pair.
func ParseDecimal(s string) (Decimal, bool) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	mantissaPart := s
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissaPart = s[:i]
		e, ok := ParseBigInt(s[i+1:])
		if !ok {
			return Decimal{}, false
		}
		exp = int(toInt64(e))
	}
	intPart, fracPart := mantissaPart, ""
	if i := strings.IndexByte(mantissaPart, '.'); i >= 0 {
		intPart, fracPart = mantissaPart[:i], mantissaPart[i+1:]
	}
	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, false
	}
	m, ok := ParseBigInt(digits)
	if !ok {
		return Decimal{}, false
	}
	m.Neg = neg && !m.IsZero()
	return round(Decimal{Mantissa: m, Exp: exp - len(fracPart)}), true
}

func toInt64(b *BigInt) int64 {
	var v int64
	for i := len(b.Limbs) - 1; i >= 0; i-- {
		v = v*limbBase + int64(b.Limbs[i])
	}
	if b.Neg {
		v = -v
	}
	return v
}
