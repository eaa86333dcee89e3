/*
 * db48x - type conversion commands and the Cycle rotation.
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

package object

import (
	"math"

	"github.com/dm48x/rpl/internal/numeric"
)

// ToQ recovers an exact fraction from any scalar number by
// continued-fraction truncation; the tolerance derives from the value's
// significant digits at the given display precision.
func ToQ(v Value, sigDigits int) (Value, bool) {
	switch t := v.(type) {
	case *Integer, *FractionValue:
		return t, true
	}
	x, ok := ToFloat64(v)
	if !ok {
		return nil, false
	}
	if sigDigits <= 0 {
		sigDigits = 12
	}
	tol := math.Abs(x) * math.Pow(10, -float64(sigDigits-1))
	if tol == 0 {
		tol = math.Pow(10, -float64(sigDigits-1))
	}
	f, ok := numeric.FractionFromFloat64(x, tol)
	if !ok {
		return nil, false
	}
	return simplifyFraction(f), true
}

// ToNum coerces any exact scalar to a decimal at the current working
// precision; decimals pass through unchanged.
func ToNum(v Value) (Value, bool) {
	switch t := v.(type) {
	case *DecimalValue:
		return t, true
	case *Integer, *FractionValue:
		return toDecimal(t), true
	case *BasedInteger:
		return toDecimal(&Integer{V: t.V}), true
	}
	if f, ok := ToFloat64(v); ok {
		return &DecimalValue{V: numeric.FromFloat64(f)}, true
	}
	return nil, false
}

// Cycle is the deterministic per-type rotation behind the command-line
// cycle key: exact and inexact renditions of the same value swap,
// plain and based integers swap, complex forms swap, and the two
// sexagesimal families swap. A value with no rotation partner is
// returned unchanged.
func Cycle(v Value) Value {
	switch t := v.(type) {
	case *DecimalValue:
		if q, ok := ToQ(t, 12); ok {
			return q
		}
		return t
	case *FractionValue:
		n, _ := ToNum(t)
		return n
	case *Integer:
		return &BasedInteger{V: t.V, Radix: 16}
	case *BasedInteger:
		return &Integer{V: t.V}
	case *RectangularValue:
		return &PolarValue{V: t.V.ToPolar()}
	case *PolarValue:
		return &RectangularValue{V: t.V.ToRectangular()}
	case *HMSValue:
		return &DMSValue{V: t.V}
	case *DMSValue:
		return &HMSValue{V: t.V}
	}
	return v
}

func init() {
	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := ToNum(v)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgType, "→Num expects a number")
		}
		m.Push(n)
		return nil
	}, "→NUM", "->NUM", "→Num")

	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		sig := m.RenderOpts().SignificantDigits
		if sig <= 0 {
			sig = 12
		}
		q, ok := ToQ(v, sig)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgValue, "no fraction recovers this value")
		}
		m.Push(q)
		return nil
	}, "→Q", "->Q")

	RegisterCommand("CYCLE", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		m.Push(Cycle(v))
		return nil
	})
}
