/*
 * db48x - arbitrary precision integer kernel.
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

// Package numeric implements every scalar number kernel of the
// exact/inexact/complex/range/unit/time families: digit-array bignums
// and decimals, rational fractions, hardware floats, complex numbers in
// both forms, interval/uncertainty ranges, dimensioned units, DMS/HMS
// angles, and calendar dates. Both BigInt and Decimal work as digit
// arrays processed low-to-high with an explicit carry. math/big is
// deliberately not used here: its word slices own separate heap
// allocations a relocating object store cannot see or slide, so the
// kernels stay self-contained.
package numeric

import (
	"strings"
)

// limb is one base-1e9 digit of a BigInt's magnitude, least-significant
// first. 1e9 fits in a uint32 product without overflowing a uint64
// accumulator during multiply.
const limbBase = 1_000_000_000

// BigInt is an arbitrary-precision signed integer: magnitude as
// little-endian base-1e9 limbs, no leading zero limbs except for the
// value zero itself (limbs == nil).
type BigInt struct {
	Neg   bool
	Limbs []uint32
}

// Zero returns the additive identity.
func Zero() *BigInt { return &BigInt{} }

// FromInt64 converts a machine integer.
func FromInt64(v int64) *BigInt {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	b := &BigInt{Neg: neg}
	for u > 0 {
		b.Limbs = append(b.Limbs, uint32(u%limbBase))
		u /= limbBase
	}
	return b
}

// IsZero reports whether the value is exactly zero.
func (b *BigInt) IsZero() bool { return len(b.Limbs) == 0 }

func (b *BigInt) trim() {
	n := len(b.Limbs)
	for n > 0 && b.Limbs[n-1] == 0 {
		n--
	}
	b.Limbs = b.Limbs[:n]
	if n == 0 {
		b.Neg = false
	}
}

// cmpMag compares magnitudes only, ignoring sign: -1, 0, 1.
func cmpMag(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// addMag adds two magnitudes digit by digit with an explicit carry:
// digit + digit + carry, adjust, carry forward.
func addMag(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n+1)
	var carry uint32
	for i := 0; i < n; i++ {
		var x, y uint32
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		sum := x + y + carry
		if sum >= limbBase {
			sum -= limbBase
			carry = 1
		} else {
			carry = 0
		}
		out[i] = sum
	}
	out[n] = carry
	return out
}

// subMag computes a-b assuming a >= b in magnitude, propagating a
// borrow across limbs.
func subMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		var y uint32
		if i < len(b) {
			y = b[i]
		}
		d := int64(a[i]) - int64(y) - borrow
		if d < 0 {
			d += limbBase
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint32(d)
	}
	return out
}

// Add returns a+b.
func Add(a, b *BigInt) *BigInt {
	r := &BigInt{}
	switch {
	case a.Neg == b.Neg:
		r.Neg = a.Neg
		r.Limbs = addMag(a.Limbs, b.Limbs)
	case cmpMag(a.Limbs, b.Limbs) >= 0:
		r.Neg = a.Neg
		r.Limbs = subMag(a.Limbs, b.Limbs)
	default:
		r.Neg = b.Neg
		r.Limbs = subMag(b.Limbs, a.Limbs)
	}
	r.trim()
	return r
}

// Neg returns -a.
func Neg(a *BigInt) *BigInt {
	if a.IsZero() {
		return Zero()
	}
	return &BigInt{Neg: !a.Neg, Limbs: append([]uint32(nil), a.Limbs...)}
}

// Sub returns a-b.
func Sub(a, b *BigInt) *BigInt { return Add(a, Neg(b)) }

// Mul returns a*b via schoolbook long multiplication.
func Mul(a, b *BigInt) *BigInt {
	if a.IsZero() || b.IsZero() {
		return Zero()
	}
	out := make([]uint64, len(a.Limbs)+len(b.Limbs))
	for i, x := range a.Limbs {
		var carry uint64
		for j, y := range b.Limbs {
			p := out[i+j] + uint64(x)*uint64(y) + carry
			out[i+j] = p % limbBase
			carry = p / limbBase
		}
		k := i + len(b.Limbs)
		for carry > 0 {
			p := out[k] + carry
			out[k] = p % limbBase
			carry = p / limbBase
			k++
		}
	}
	limbs := make([]uint32, len(out))
	for i, v := range out {
		limbs[i] = uint32(v)
	}
	r := &BigInt{Neg: a.Neg != b.Neg, Limbs: limbs}
	r.trim()
	return r
}

// QuoRem returns a/b (truncated toward zero) and the remainder, with the
// remainder's sign matching a's, per Go/IEEE truncating-division
// convention. It panics on division by zero; callers (the exact-number
// dispatch in the object package) translate that into an
// object.ErrDivByZero before it reaches a user.
func QuoRem(a, b *BigInt) (*BigInt, *BigInt) {
	if b.IsZero() {
		panic("numeric: division by zero")
	}
	if cmpMag(a.Limbs, b.Limbs) < 0 {
		return Zero(), &BigInt{Neg: a.Neg, Limbs: append([]uint32(nil), a.Limbs...)}
	}
	// Simple base-1e9 long division via binary search per quotient limb,
	// adequate for a calculator's precision range rather than a
	// high-throughput bignum library.
	rem := Zero()
	qLimbs := make([]uint32, len(a.Limbs))
	for i := len(a.Limbs) - 1; i >= 0; i-- {
		rem = Add(Mul(rem, FromInt64(limbBase)), FromInt64(int64(a.Limbs[i])))
		lo, hi := uint32(0), uint32(limbBase-1)
		bAbs := &BigInt{Limbs: b.Limbs}
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if cmpMag(Mul(bAbs, FromInt64(int64(mid))).Limbs, rem.Limbs) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		qLimbs[i] = lo
		rem = Sub(rem, Mul(bAbs, FromInt64(int64(lo))))
	}
	q := &BigInt{Neg: a.Neg != b.Neg, Limbs: qLimbs}
	q.trim()
	if !rem.IsZero() {
		rem.Neg = a.Neg
	}
	return q, rem
}

// Cmp returns -1, 0, or 1 comparing a to b.
func Cmp(a, b *BigInt) int {
	if a.Neg != b.Neg {
		if a.IsZero() && b.IsZero() {
			return 0
		}
		if a.Neg {
			return -1
		}
		return 1
	}
	c := cmpMag(a.Limbs, b.Limbs)
	if a.Neg {
		return -c
	}
	return c
}

// ToInt64 converts to a machine integer, truncating silently if the
// value does not fit (used by index arguments, which are always small
// in practice).
func (b *BigInt) ToInt64() int64 {
	var v int64
	for i := len(b.Limbs) - 1; i >= 0; i-- {
		v = v*limbBase + int64(b.Limbs[i])
	}
	if b.Neg {
		v = -v
	}
	return v
}

// String renders decimal digits, most significant first.
func (b *BigInt) String() string {
	if b.IsZero() {
		return "0"
	}
	var sb strings.Builder
	if b.Neg {
		sb.WriteByte('-')
	}
	n := len(b.Limbs)
	sb.WriteString(itoa(b.Limbs[n-1]))
	for i := n - 2; i >= 0; i-- {
		s := itoa(b.Limbs[i])
		for len(s) < 9 {
			s = "0" + s
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// ParseBigInt parses an unsigned or signed decimal string of digits.
func ParseBigInt(s string) (*BigInt, bool) {
	if s == "" {
		return nil, false
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return nil, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	r := Zero()
	ten := FromInt64(10)
	for _, c := range s {
		r = Add(Mul(r, ten), FromInt64(int64(c-'0')))
	}
	r.Neg = neg && !r.IsZero()
	return r, true
}
