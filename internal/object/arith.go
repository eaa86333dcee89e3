/*
 * db48x - arithmetic builtin dispatch.
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

import "github.com/dm48x/rpl/internal/numeric"

// promote converts two operands to a common representation before an
// arithmetic builtin combines them: integer+integer stays exact,
// anything touching a fraction promotes both sides to Fraction, and
// anything touching a Decimal promotes both sides to Decimal — the
// tower-of-types rule that lets exact and inexact numbers stay distinct
// families yet interoperate in arithmetic.
func promote(a, b Value) (av, bv Value) {
	_, aFrac := a.(*FractionValue)
	_, bFrac := b.(*FractionValue)
	_, aDec := a.(*DecimalValue)
	_, bDec := b.(*DecimalValue)
	if aDec || bDec {
		return toDecimal(a), toDecimal(b)
	}
	if aFrac || bFrac {
		return toFraction(a), toFraction(b)
	}
	return a, b
}

func toFraction(v Value) Value {
	if i, ok := v.(*Integer); ok {
		return &FractionValue{V: numeric.NewFraction(i.V, numeric.FromInt64(1))}
	}
	return v
}

func toDecimal(v Value) Value {
	switch t := v.(type) {
	case *Integer:
		return &DecimalValue{V: numeric.Decimal{Mantissa: t.V, Exp: 0}}
	case *FractionValue:
		return &DecimalValue{V: numeric.DivDec(
			numeric.Decimal{Mantissa: t.V.Num, Exp: 0},
			numeric.Decimal{Mantissa: t.V.Den, Exp: 0},
		)}
	}
	return v
}

// ToFloat64 flattens any scalar numeric Value (exact or inexact,
// complex collapses to its real part, based integers via their
// unsigned magnitude) to a float64, exported for container's linear
// algebra commands which operate in float64 space the same way
// complex/range/unit arithmetic does above.
func ToFloat64(v Value) (float64, bool) {
	if f, ok := toFloatScalar(v); ok {
		return f, true
	}
	switch t := v.(type) {
	case *BasedInteger:
		return toFloatScalar(&Integer{V: t.V})
	case *RectangularValue, *PolarValue:
		c, _ := asRectangular(v)
		return c.Re, true
	}
	return 0, false
}

func popTwo(m Machine) (Value, Value, *Error) {
	b, err := m.Pop()
	if err != nil {
		return nil, nil, err
	}
	a, err := m.Pop()
	if err != nil {
		m.Push(b)
		return nil, nil, err
	}
	if !a.Tag().IsNumeric() || !b.Tag().IsNumeric() {
		return nil, nil, m.Raise(ErrBadArgType, "expected two numbers")
	}
	return a, b, nil
}

// RangePolicy is the capability a Machine exposes when decimal results
// must honor overflow/underflow/infinity policy: ClampDecimal
// inspects a freshly computed decimal against the configured exponent
// range and decides between the value itself, a saturated maximum, the
// symbolic ∞, or an error; InfinityForZeroDivide reports whether a
// division by zero should yield signed ∞ instead of raising. A Machine
// without the capability keeps every decimal as computed and always
// raises on zero divide.
type RangePolicy interface {
	ClampDecimal(d numeric.Decimal) (Value, *Error)
	InfinityForZeroDivide(negative bool) (Value, bool)
}

// pushDecimal routes a decimal result through the machine's RangePolicy
// before pushing it.
func pushDecimal(m Machine, d numeric.Decimal) *Error {
	if p, ok := m.(RangePolicy); ok {
		v, err := p.ClampDecimal(d)
		if err != nil {
			return err
		}
		m.Push(v)
		return nil
	}
	m.Push(&DecimalValue{V: d})
	return nil
}

// raiseDivZero applies the infinity-vs-error pole of the same policy to
// a division by zero.
func raiseDivZero(m Machine, negative bool, culprit Value) *Error {
	if p, ok := m.(RangePolicy); ok {
		if v, ok := p.InfinityForZeroDivide(negative); ok {
			m.Push(v)
			return nil
		}
	}
	return m.Raise(ErrDivByZero, "division by zero").WithCulprit(culprit)
}

// WordSizer is the capability interface a Machine exposes when based
// integers need to know the active word size to wrap their result
// modulo 2^WordSize. Machine itself carries no
// settings access, so arith.go type-asserts for this the same way
// command.go asserts ArgRecorder.
type WordSizer interface {
	WordSize() int
}

func wordSize(m Machine) int {
	if ws, ok := m.(WordSizer); ok {
		if n := ws.WordSize(); n > 0 {
			return n
		}
	}
	return 64
}

// asBased reports whether either operand is a BasedInteger, in which
// case the other is read as an unsigned magnitude in the same radix and
// the result wraps to the active word size, rather than promoting both
// sides to a signed Integer/Decimal (: based arithmetic is modular
// machine-word arithmetic, not ordinary exact arithmetic).
func asBased(a, b Value) (av, bv *BasedInteger, ok bool) {
	ab, aok := a.(*BasedInteger)
	bb, bok := b.(*BasedInteger)
	if !aok && !bok {
		return nil, nil, false
	}
	if !aok {
		if i, ok := a.(*Integer); ok {
			ab = &BasedInteger{V: i.V, Radix: bb.Radix}
		} else {
			return nil, nil, false
		}
	}
	if !bok {
		if i, ok := b.(*Integer); ok {
			bb = &BasedInteger{V: i.V, Radix: ab.Radix}
		} else {
			return nil, nil, false
		}
	}
	return ab, bb, true
}

// AddNumeric adds two numeric Values, promoting as needed (exported so
// container's "+" override can fall back to numeric addition after
// ruling out text/list concatenation).
func AddNumeric(m Machine, a, b Value) *Error {
	if ab, bb, ok := asBased(a, b); ok {
		m.Push(&BasedInteger{V: numeric.WrapWordSize(numeric.Add(ab.V, bb.V), wordSize(m)), Radix: ab.Radix})
		return nil
	}
	if isUnit(a) || isUnit(b) {
		u, err := unitAddSub(m, a, b, false)
		if err != nil {
			return err
		}
		m.Push(u)
		return nil
	}
	if isRangeFamily(a) || isRangeFamily(b) {
		ra, _ := asInterval(a)
		rb, _ := asInterval(b)
		m.Push(&RangeValue{V: numeric.AddRange(ra, rb)})
		return nil
	}
	if isComplex(a) || isComplex(b) {
		ca, _ := asRectangular(a)
		cb, _ := asRectangular(b)
		m.Push(collapseComplex(&RectangularValue{V: numeric.Rectangular{Re: ca.Re + cb.Re, Im: ca.Im + cb.Im}}))
		return nil
	}
	a, b = promote(a, b)
	switch av := a.(type) {
	case *Integer:
		m.Push(&Integer{V: numeric.Add(av.V, b.(*Integer).V)})
	case *FractionValue:
		m.Push(&FractionValue{V: numeric.AddFrac(av.V, b.(*FractionValue).V)})
	case *DecimalValue:
		return pushDecimal(m, numeric.AddDec(av.V, b.(*DecimalValue).V))
	default:
		return m.Raise(ErrBadArgType, "+ does not support this type combination yet")
	}
	return nil
}

// MulNumeric multiplies two numeric Values, promoting as needed
// (exported so container's "*" override can fall back to scalar
// multiplication after handling matrix/vector operands).
func MulNumeric(m Machine, a, b Value) *Error {
	if ab, bb, ok := asBased(a, b); ok {
		m.Push(&BasedInteger{V: numeric.WrapWordSize(numeric.Mul(ab.V, bb.V), wordSize(m)), Radix: ab.Radix})
		return nil
	}
	if isUnit(a) || isUnit(b) {
		u, uerr := unitMulDiv(m, a, b, false)
		if uerr != nil {
			return uerr
		}
		m.Push(u)
		return nil
	}
	if isRangeFamily(a) || isRangeFamily(b) {
		ra, _ := asInterval(a)
		rb, _ := asInterval(b)
		m.Push(&RangeValue{V: numeric.MulRange(ra, rb)})
		return nil
	}
	if isComplex(a) || isComplex(b) {
		pa, _ := asPolar(a)
		pb, _ := asPolar(b)
		m.Push(collapseComplex(&PolarValue{V: numeric.Polar{Mag: pa.Mag * pb.Mag, Angle: pa.Angle + pb.Angle}}))
		return nil
	}
	a, b = promote(a, b)
	switch av := a.(type) {
	case *Integer:
		m.Push(&Integer{V: numeric.Mul(av.V, b.(*Integer).V)})
	case *FractionValue:
		m.Push(&FractionValue{V: numeric.MulFrac(av.V, b.(*FractionValue).V)})
	case *DecimalValue:
		return pushDecimal(m, numeric.MulDec(av.V, b.(*DecimalValue).V))
	default:
		return m.Raise(ErrBadArgType, "* does not support this type combination yet")
	}
	return nil
}

// DivNumeric divides two numeric Values, promoting as needed (exported
// so container's "/" override can fall back to scalar division after
// handling matrix operands, i.e. right-division via the matrix inverse).
func DivNumeric(m Machine, a, b Value) *Error {
	if ab, bb, ok := asBased(a, b); ok {
		if bb.V.IsZero() {
			return m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
		}
		q, _ := numeric.QuoRem(ab.V, bb.V)
		m.Push(&BasedInteger{V: numeric.WrapWordSize(q, wordSize(m)), Radix: ab.Radix})
		return nil
	}
	if isUnit(a) || isUnit(b) {
		u, uerr := unitMulDiv(m, a, b, true)
		if uerr != nil {
			return uerr
		}
		m.Push(u)
		return nil
	}
	if isRangeFamily(a) || isRangeFamily(b) {
		ra, _ := asInterval(a)
		rb, _ := asInterval(b)
		rv, ok := numeric.DivRange(ra, rb)
		if !ok {
			return m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
		}
		m.Push(&RangeValue{V: rv})
		return nil
	}
	if isComplex(a) || isComplex(b) {
		pa, _ := asPolar(a)
		pb, _ := asPolar(b)
		if pb.Mag == 0 {
			return m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
		}
		m.Push(collapseComplex(&PolarValue{V: numeric.Polar{Mag: pa.Mag / pb.Mag, Angle: pa.Angle - pb.Angle}}))
		return nil
	}
	// Integer/integer divides exactly into a Fraction rather than
	// truncating, matching a calculator's exact-division convention
	// (exact-number family keeps a fraction rather than
	// silently losing the remainder the way machine integer / does).
	if ai, ok := a.(*Integer); ok {
		if bi, ok := b.(*Integer); ok {
			if bi.V.IsZero() {
				return raiseDivZero(m, ai.V.Neg, b)
			}
			m.Push(simplifyFraction(numeric.NewFraction(ai.V, bi.V)))
			return nil
		}
	}
	a, b = promote(a, b)
	switch av := a.(type) {
	case *FractionValue:
		bv := b.(*FractionValue)
		if bv.V.Num.IsZero() {
			return raiseDivZero(m, av.V.Num.Neg, b)
		}
		m.Push(simplifyFraction(numeric.DivFrac(av.V, bv.V)))
	case *DecimalValue:
		bv := b.(*DecimalValue)
		if bv.V.IsZero() {
			return raiseDivZero(m, av.V.Mantissa.Neg, b)
		}
		return pushDecimal(m, numeric.DivDec(av.V, bv.V))
	default:
		return m.Raise(ErrBadArgType, "/ does not support this type combination yet")
	}
	return nil
}

func init() {
	RegisterCommand("+", func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return AddNumeric(m, a, b)
	})

	RegisterCommand("-", func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		if ab, bb, ok := asBased(a, b); ok {
			m.Push(&BasedInteger{V: numeric.WrapWordSize(numeric.Sub(ab.V, bb.V), wordSize(m)), Radix: ab.Radix})
			return nil
		}
		if isUnit(a) || isUnit(b) {
			u, uerr := unitAddSub(m, a, b, true)
			if uerr != nil {
				return uerr
			}
			m.Push(u)
			return nil
		}
		if isRangeFamily(a) || isRangeFamily(b) {
			ra, _ := asInterval(a)
			rb, _ := asInterval(b)
			m.Push(&RangeValue{V: numeric.SubRange(ra, rb)})
			return nil
		}
		if isComplex(a) || isComplex(b) {
			ca, _ := asRectangular(a)
			cb, _ := asRectangular(b)
			m.Push(collapseComplex(&RectangularValue{V: numeric.Rectangular{Re: ca.Re - cb.Re, Im: ca.Im - cb.Im}}))
			return nil
		}
		a, b = promote(a, b)
		switch av := a.(type) {
		case *Integer:
			m.Push(&Integer{V: numeric.Sub(av.V, b.(*Integer).V)})
		case *FractionValue:
			m.Push(&FractionValue{V: numeric.SubFrac(av.V, b.(*FractionValue).V)})
		case *DecimalValue:
			return pushDecimal(m, numeric.SubDec(av.V, b.(*DecimalValue).V))
		default:
			return m.Raise(ErrBadArgType, "- does not support this type combination yet")
		}
		return nil
	})

	RegisterCommand("*", func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return MulNumeric(m, a, b)
	})

	RegisterCommand("/", func(m Machine) *Error {
		a, b, err := popTwo(m)
		if err != nil {
			return err
		}
		return DivNumeric(m, a, b)
	})

	RegisterCommand("NEG", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *Integer:
			m.Push(&Integer{V: numeric.Neg(t.V)})
		case *FractionValue:
			m.Push(&FractionValue{V: numeric.NewFraction(numeric.Neg(t.V.Num), t.V.Den)})
		case *DecimalValue:
			m.Push(&DecimalValue{V: numeric.NegDec(t.V)})
		case *BasedInteger:
			m.Push(&BasedInteger{V: numeric.WrapWordSize(numeric.Neg(t.V), wordSize(m)), Radix: t.Radix})
		case *RectangularValue:
			m.Push(&RectangularValue{V: numeric.Rectangular{Re: -t.V.Re, Im: -t.V.Im}})
		case *PolarValue:
			m.Push(&PolarValue{V: numeric.Polar{Mag: -t.V.Mag, Angle: t.V.Angle}})
		case *RangeValue:
			m.Push(&RangeValue{V: numeric.Range{Lo: -t.V.Hi, Hi: -t.V.Lo}})
		case *UnitValue:
			m.Push(&UnitValue{Magnitude: -t.Magnitude, Unit: t.Unit})
		default:
			return m.Raise(ErrBadArgType, "NEG expects a number")
		}
		return nil
	})
}

// simplifyFraction demotes an integer-valued Fraction back to Integer,
// the inverse of toFraction, so 4/2 renders as 2 rather than 2/1.
func simplifyFraction(f *numeric.Fraction) Value {
	if f.IsInteger() {
		return &Integer{V: f.Num}
	}
	return &FractionValue{V: f}
}
