/*
 * db48x - power, modular, comparison, and elementary function builtins.
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

// ZeroPowerPolicy is the capability a Machine exposes when the 0^0
// setting should be consulted; without it 0^0 is 1.
type ZeroPowerPolicy interface {
	ZeroPowerZeroUndefined() bool
}

// TruthLogician is the capability consulted by AND/OR/XOR on two
// integers: when true they test truth and
// return 0/1, when false (the default) they combine bit patterns, so
// `42 7 XOR` yields 45.
type TruthLogician interface {
	TruthLogicForIntegers() bool
}

// registerFn registers exec under every name in names; the uppercase
// form is the stack command, the lowercase one the spelling expression
// trees use for function-call nodes (`sin(x)` parses with Op "sin").
func registerFn(exec func(m Machine) *Error, names ...string) {
	for _, n := range names {
		RegisterCommand(n, exec)
	}
}

// powBigInt raises base to a non-negative machine exponent by binary
// exponentiation over the exact kernel.
func powBigInt(base *numeric.BigInt, e int64) *numeric.BigInt {
	r := numeric.FromInt64(1)
	b := base
	for e > 0 {
		if e&1 == 1 {
			r = numeric.Mul(r, b)
		}
		b = numeric.Mul(b, b)
		e >>= 1
	}
	return r
}

// Pow combines a^b, staying exact for integer and fraction bases with
// integer exponents, preferring polar form for complex bases, and
// falling back to hardware floats otherwise.
func Pow(m Machine, a, b Value) *Error {
	if isZeroValue(a) && isZeroValue(b) {
		if zp, ok := m.(ZeroPowerPolicy); ok && zp.ZeroPowerZeroUndefined() {
			return m.Raise(ErrUndefinedOperation, "0^0 is undefined").WithCulprit(a)
		}
		m.Push(&Integer{V: numeric.FromInt64(1)})
		return nil
	}
	if bi, ok := b.(*Integer); ok {
		e := bi.V.ToInt64()
		switch base := a.(type) {
		case *Integer:
			if e >= 0 {
				m.Push(&Integer{V: powBigInt(base.V, e)})
				return nil
			}
			if base.V.IsZero() {
				return m.Raise(ErrDivByZero, "zero to a negative power").WithCulprit(a)
			}
			m.Push(simplifyFraction(numeric.NewFraction(numeric.FromInt64(1), powBigInt(base.V, -e))))
			return nil
		case *FractionValue:
			num, den := base.V.Num, base.V.Den
			if e < 0 {
				if num.IsZero() {
					return m.Raise(ErrDivByZero, "zero to a negative power").WithCulprit(a)
				}
				num, den, e = den, num, -e
			}
			m.Push(simplifyFraction(numeric.NewFraction(powBigInt(num, e), powBigInt(den, e))))
			return nil
		}
	}
	if isComplex(a) {
		p, _ := asPolar(a)
		e, ok := ToFloat64(b)
		if !ok {
			return m.Raise(ErrBadArgType, "^ expects a numeric exponent")
		}
		m.Push(collapseComplex(&PolarValue{V: numeric.Polar{Mag: math.Pow(p.Mag, e), Angle: p.Angle * e}}))
		return nil
	}
	af, aok := ToFloat64(a)
	bf, bok := ToFloat64(b)
	if !aok || !bok {
		return m.Raise(ErrBadArgType, "^ expects two numbers")
	}
	r := math.Pow(af, bf)
	if math.IsNaN(r) {
		return m.Raise(ErrDomain, "power outside real domain").WithCulprit(a)
	}
	return pushDecimal(m, numeric.FromFloat64(r))
}

func isZeroValue(v Value) bool {
	switch t := v.(type) {
	case *Integer:
		return t.V.IsZero()
	case *FractionValue:
		return t.V.Num.IsZero()
	case *DecimalValue:
		return t.V.IsZero()
	}
	return false
}

// CompareValues orders two scalar numbers, exactly when both sides are
// exact, by hardware float otherwise. ok is false for operands that do
// not order (complex, non-numeric).
func CompareValues(a, b Value) (int, bool) {
	if a.Tag().IsExact() && b.Tag().IsExact() {
		fa, aok := exactFraction(a)
		fb, bok := exactFraction(b)
		if aok && bok {
			return numeric.CmpFrac(fa, fb), true
		}
	}
	fa, aok := ToFloat64(a)
	fb, bok := ToFloat64(b)
	if !aok || !bok || isComplex(a) || isComplex(b) {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	}
	return 0, true
}

func exactFraction(v Value) (*numeric.Fraction, bool) {
	switch t := v.(type) {
	case *Integer:
		return numeric.NewFraction(t.V, numeric.FromInt64(1)), true
	case *BasedInteger:
		return numeric.NewFraction(t.V, numeric.FromInt64(1)), true
	case *FractionValue:
		return t.V, true
	}
	return nil, false
}

func comparison(test func(c int) bool) func(m Machine) *Error {
	return func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		c, ok := CompareValues(a, b)
		if !ok {
			return m.Raise(ErrBadArgType, "operands do not order")
		}
		m.Push(boolInt(test(c)))
		return nil
	}
}

func boolInt(b bool) Value {
	if b {
		return &Integer{V: numeric.FromInt64(1)}
	}
	return &Integer{V: numeric.Zero()}
}

// floatFn wraps a one-argument float kernel as a builtin; domErr names
// the function for the out-of-domain error.
func floatFn(f func(float64) float64, domErr string) func(m Machine) *Error {
	return func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		x, ok := ToFloat64(v)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgType, "%s expects a number", domErr)
		}
		r := f(x)
		if math.IsNaN(r) {
			return m.Raise(ErrDomain, "%s outside domain", domErr).WithCulprit(v)
		}
		return pushDecimal(m, numeric.FromFloat64(r))
	}
}

// trigFn is floatFn with the argument read in the current angle unit.
func trigFn(f func(float64) float64, name string) func(m Machine) *Error {
	return func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		x, ok := ToFloat64(v)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgType, "%s expects a number", name)
		}
		rad := angleToRadians(x, m.RenderOpts().AngleUnit)
		return pushDecimal(m, numeric.FromFloat64(f(rad)))
	}
}

// invTrigFn is floatFn with the result converted to the current angle
// unit ("arg returns an angle in current angle mode" applies to
// the inverse trig family as a whole).
func invTrigFn(f func(float64) float64, name string) func(m Machine) *Error {
	return func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		x, ok := ToFloat64(v)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgType, "%s expects a number", name)
		}
		rad := f(x)
		if math.IsNaN(rad) {
			return m.Raise(ErrDomain, "%s outside domain", name).WithCulprit(v)
		}
		return pushDecimal(m, numeric.FromFloat64(angleFromRadians(rad, m.RenderOpts().AngleUnit)))
	}
}

func logicInt(m Machine, a, b Value, bitOp func(x, y int64) int64, boolOp func(x, y bool) bool) *Error {
	ab, aBased := a.(*BasedInteger)
	bb, bBased := b.(*BasedInteger)
	if aBased || bBased {
		var x, y int64
		radix := 16
		if aBased {
			x, radix = ab.V.ToInt64(), ab.Radix
		} else if xi, ok := a.(*Integer); ok {
			x = xi.V.ToInt64()
		}
		if bBased {
			y = bb.V.ToInt64()
			if !aBased {
				radix = bb.Radix
			}
		} else if yi, ok := b.(*Integer); ok {
			y = yi.V.ToInt64()
		}
		r := numeric.WrapWordSize(numeric.FromInt64(bitOp(x, y)), wordSize(m))
		m.Push(&BasedInteger{V: r, Radix: radix})
		return nil
	}
	ai, aInt := a.(*Integer)
	bi, bInt := b.(*Integer)
	truth := false
	if tl, ok := m.(TruthLogician); ok {
		truth = tl.TruthLogicForIntegers()
	}
	if aInt && bInt && !truth {
		m.Push(&Integer{V: numeric.FromInt64(bitOp(ai.V.ToInt64(), bi.V.ToInt64()))})
		return nil
	}
	m.Push(boolInt(boolOp(!isZeroValue(a), !isZeroValue(b))))
	return nil
}

func init() {
	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return Pow(m, a, b)
	}, "^", "pow")

	// y x XROOT is the x-th root of y, the postfix partner of ^.
	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		yf, yok := ToFloat64(a)
		xf, xok := ToFloat64(b)
		if !yok || !xok || xf == 0 {
			return m.Raise(ErrBadArgValue, "XROOT expects a nonzero root index")
		}
		if yf < 0 && math.Mod(xf, 2) == 1 {
			return pushDecimal(m, numeric.FromFloat64(-math.Pow(-yf, 1/xf)))
		}
		r := math.Pow(yf, 1/xf)
		if math.IsNaN(r) {
			return m.Raise(ErrDomain, "XROOT outside real domain").WithCulprit(a)
		}
		return pushDecimal(m, numeric.FromFloat64(r))
	}, "XROOT", "xroot")

	// MOD takes the divisor's sign, REM the dividend's.
	registerFn(func(m Machine) *Error {
		return modRem(m, true)
	}, "MOD", "mod")
	registerFn(func(m Machine) *Error {
		return modRem(m, false)
	}, "REM", "rem")

	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		ai, aok := a.(*Integer)
		bi, bok := b.(*Integer)
		if !aok || !bok {
			return m.Raise(ErrBadArgType, "GCD expects two integers")
		}
		m.Push(&Integer{V: numeric.GCD(ai.V, bi.V)})
		return nil
	}, "GCD", "gcd")

	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		iv, ok := v.(*Integer)
		if !ok || iv.V.Neg {
			m.Push(v)
			return m.Raise(ErrBadArgValue, "! expects a non-negative integer")
		}
		r := numeric.FromInt64(1)
		n := iv.V.ToInt64()
		for k := int64(2); k <= n; k++ {
			r = numeric.Mul(r, numeric.FromInt64(k))
		}
		m.Push(&Integer{V: r})
		return nil
	}, "!", "FACT", "fact")

	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		m.Push(v)
		m.Push(v)
		id, _ := LookupCommand("*")
		return (&Command{ID: id}).Evaluate(m)
	}, "SQ", "sq")

	registerFn(floatFn(math.Sqrt, "SQRT"), "SQRT", "sqrt", "√")
	registerFn(floatFn(math.Cbrt, "CBRT"), "CBRT", "cbrt")

	registerFn(trigFn(math.Sin, "SIN"), "SIN", "sin")
	registerFn(trigFn(math.Cos, "COS"), "COS", "cos")
	registerFn(trigFn(math.Tan, "TAN"), "TAN", "tan")
	registerFn(invTrigFn(math.Asin, "ASIN"), "ASIN", "asin")
	registerFn(invTrigFn(math.Acos, "ACOS"), "ACOS", "acos")
	registerFn(invTrigFn(math.Atan, "ATAN"), "ATAN", "atan")

	registerFn(floatFn(math.Sinh, "SINH"), "SINH", "sinh")
	registerFn(floatFn(math.Cosh, "COSH"), "COSH", "cosh")
	registerFn(floatFn(math.Tanh, "TANH"), "TANH", "tanh")

	registerFn(floatFn(math.Log, "LN"), "LN", "ln")
	registerFn(floatFn(math.Exp, "EXP"), "EXP", "exp")
	registerFn(floatFn(math.Log10, "LOG"), "LOG", "log")
	registerFn(floatFn(func(x float64) float64 { return math.Pow(10, x) }, "ALOG"), "ALOG", "alog")
	registerFn(floatFn(math.Log2, "LOG2"), "LOG2", "log2")
	registerFn(floatFn(func(x float64) float64 { return math.Pow(2, x) }, "EXP2"), "EXP2", "exp2")
	registerFn(floatFn(math.Log1p, "LN1P"), "LN1P", "ln1p")
	registerFn(floatFn(math.Expm1, "EXPM1"), "EXPM1", "expm1")

	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		x, ok := ToFloat64(v)
		if !ok {
			m.Push(v)
			return m.Raise(ErrBadArgType, "SIGN expects a number")
		}
		switch {
		case x > 0:
			m.Push(&Integer{V: numeric.FromInt64(1)})
		case x < 0:
			m.Push(&Integer{V: numeric.FromInt64(-1)})
		default:
			m.Push(&Integer{V: numeric.Zero()})
		}
		return nil
	}, "SIGN", "sign")

	// inv is the scalar reciprocal the derivative table and expression
	// nodes use; the uppercase INV keeps its matrix meaning (linalg).
	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return DivNumeric(m, &Integer{V: numeric.FromInt64(1)}, v)
	}, "inv")

	RegisterCommand("neg", func(m Machine) *Error {
		id, _ := LookupCommand("NEG")
		return (&Command{ID: id}).Evaluate(m)
	})
	RegisterCommand("abs", func(m Machine) *Error {
		id, _ := LookupCommand("ABS")
		return (&Command{ID: id}).Evaluate(m)
	})

	registerFn(comparison(func(c int) bool { return c == 0 }), "==", "=")
	registerFn(comparison(func(c int) bool { return c != 0 }), "≠", "!=")
	registerFn(comparison(func(c int) bool { return c < 0 }), "<")
	registerFn(comparison(func(c int) bool { return c > 0 }), ">")
	registerFn(comparison(func(c int) bool { return c <= 0 }), "≤", "<=")
	registerFn(comparison(func(c int) bool { return c >= 0 }), "≥", ">=")

	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return logicInt(m, a, b,
			func(x, y int64) int64 { return x & y },
			func(x, y bool) bool { return x && y })
	}, "AND", "and")
	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return logicInt(m, a, b,
			func(x, y int64) int64 { return x | y },
			func(x, y bool) bool { return x || y })
	}, "OR", "or")
	registerFn(func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return logicInt(m, a, b,
			func(x, y int64) int64 { return x ^ y },
			func(x, y bool) bool { return x != y })
	}, "XOR", "xor")
	registerFn(func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		m.Push(boolInt(isZeroValue(v)))
		return nil
	}, "NOT", "not")
}

// modRem shares the exact and float paths of MOD and REM; mod adjusts
// the truncating remainder so the result takes the divisor's sign.
func modRem(m Machine, mod bool) *Error {
	a, b, err := popTwo(m)
	if err != nil {
		return err
	}
	ai, aok := a.(*Integer)
	bi, bok := b.(*Integer)
	if aok && bok {
		if bi.V.IsZero() {
			return m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
		}
		_, r := numeric.QuoRem(ai.V, bi.V)
		if mod && !r.IsZero() && r.Neg != bi.V.Neg {
			r = numeric.Add(r, bi.V)
		}
		m.Push(&Integer{V: r})
		return nil
	}
	af, aok2 := ToFloat64(a)
	bf, bok2 := ToFloat64(b)
	if !aok2 || !bok2 {
		return m.Raise(ErrBadArgType, "MOD/REM expect two numbers")
	}
	if bf == 0 {
		return m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
	}
	r := math.Mod(af, bf)
	if mod && r != 0 && (r < 0) != (bf < 0) {
		r += bf
	}
	return pushDecimal(m, numeric.FromFloat64(r))
}
