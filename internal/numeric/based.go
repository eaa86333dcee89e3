/*
 * db48x - based (radix-prefixed) integer digit conversion.
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

const digitAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ParseBasedDigits reads an unsigned magnitude in the given radix
// (2..36), the digit grammar `b#xxx`/`#xxxh` reduces to once the
// radix marker has been stripped off by the caller.
func ParseBasedDigits(s string, radix int) (*BigInt, bool) {
	if s == "" || radix < 2 || radix > 36 {
		return nil, false
	}
	r := Zero()
	base := FromInt64(int64(radix))
	for _, c := range strings.ToUpper(s) {
		d := strings.IndexRune(digitAlphabet, c)
		if d < 0 || d >= radix {
			return nil, false
		}
		r = Add(Mul(r, base), FromInt64(int64(d)))
	}
	return r, true
}

// FormatBasedDigits is the inverse of ParseBasedDigits: it renders v's
// magnitude (sign ignored, based integers are unsigned machine words) in
// the given radix, most significant digit first.
func FormatBasedDigits(v *BigInt, radix int) string {
	if radix < 2 || radix > 36 {
		radix = 16
	}
	if v.IsZero() {
		return "0"
	}
	n := &BigInt{Limbs: append([]uint32(nil), v.Limbs...)}
	base := FromInt64(int64(radix))
	var digits []byte
	for !n.IsZero() {
		q, rem := QuoRem(n, base)
		digits = append(digits, digitAlphabet[rem.ToInt64()])
		n = q
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// WrapWordSize reduces v modulo 2^bits, the based-integer truncation
// rule: word-size arithmetic wraps modulo 2^WordSize.
func WrapWordSize(v *BigInt, bits int) *BigInt {
	if bits <= 0 || bits >= 4096 {
		return v
	}
	modulus := FromInt64(1)
	two := FromInt64(2)
	for i := 0; i < bits; i++ {
		modulus = Mul(modulus, two)
	}
	_, rem := QuoRem(v, modulus)
	if rem.Neg {
		rem = Add(rem, modulus)
	}
	return rem
}
