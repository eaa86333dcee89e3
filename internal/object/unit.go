/*
 * db48x - dimensioned unit value type.
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
	"strconv"
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
)

// UnitValue is a magnitude tagged with a dimensioned unit (unit
// family, `value_UnitExpr`). Magnitude is always stored in the tagged
// unit's own scale, not SI base, so `5_m` renders back as `5_m` rather
// than silently drifting to meters-as-base.
type UnitValue struct {
	Magnitude float64
	Unit      numeric.UnitDef
}

func (u *UnitValue) Size() int                      { return 16 + len(u.Unit.Name) }
func (u *UnitValue) Walk(func(arena.Ref) arena.Ref) {}
func (u *UnitValue) Tag() Tag                       { return TagUnit }

func (u *UnitValue) Render(p *Printer) {
	p.WriteString(formatFloat(u.Magnitude))
	p.WriteByte('_')
	p.WriteString(u.Unit.Name)
}

func (u *UnitValue) Evaluate(m Machine) *Error   { m.Push(u); return nil }
func (u *UnitValue) Graph(c *Canvas, p *Printer) { u.Render(p); c.DrawText(0, p.String()) }

func isUnit(v Value) bool { _, ok := v.(*UnitValue); return ok }

// asUnit reads v as a UnitValue, treating a bare scalar as dimensionless
// (Dim all zero, Scale 1), the convention that lets `5_m + 3` raise
// ErrInconsistentUnits rather than silently stripping the unit.
func asUnit(v Value) (UnitValue, bool) {
	if u, ok := v.(*UnitValue); ok {
		return *u, true
	}
	if f, ok := toFloatScalar(v); ok {
		return UnitValue{Magnitude: f, Unit: numeric.UnitDef{Name: "", Scale: 1}}, true
	}
	return UnitValue{}, false
}

// unitAddSub implements +/- between unit-bearing operands: dimensional
// analysis gates addition and subtraction, and the result is expressed
// in the left operand's unit.
func unitAddSub(m Machine, a, b Value, sub bool) (Value, *Error) {
	ua, ok := asUnit(a)
	if !ok {
		return nil, m.Raise(ErrBadArgType, "expected a unit or number")
	}
	ub, ok := asUnit(b)
	if !ok {
		return nil, m.Raise(ErrBadArgType, "expected a unit or number")
	}
	if !numeric.SameDim(ua.Unit.Dim, ub.Unit.Dim) {
		return nil, m.Raise(ErrInconsistentUnits, "units are not compatible").WithCulprit(b)
	}
	converted, ok := numeric.Convert(ub.Magnitude, ub.Unit, ua.Unit)
	if !ok {
		return nil, m.Raise(ErrInconsistentUnits, "units are not compatible").WithCulprit(b)
	}
	result := ua.Magnitude + converted
	if sub {
		result = ua.Magnitude - converted
	}
	return &UnitValue{Magnitude: result, Unit: ua.Unit}, nil
}

// unitMulDiv implements */÷ between unit-bearing operands: dimensions
// compose rather than needing to match, and the resulting unit is a
// synthesized compound name unless one side is dimensionless.
func unitMulDiv(m Machine, a, b Value, div bool) (Value, *Error) {
	ua, ok := asUnit(a)
	if !ok {
		return nil, m.Raise(ErrBadArgType, "expected a unit or number")
	}
	ub, ok := asUnit(b)
	if !ok {
		return nil, m.Raise(ErrBadArgType, "expected a unit or number")
	}
	if ua.Unit.Offset != 0 || ub.Unit.Offset != 0 {
		return nil, m.Raise(ErrInconsistentUnits, "affine units cannot be multiplied or divided")
	}
	var mag float64
	var dim numeric.Dimension
	var name string
	if div {
		if ub.Magnitude == 0 {
			return nil, m.Raise(ErrDivByZero, "division by zero").WithCulprit(b)
		}
		mag = (ua.Magnitude * ua.Unit.Scale) / (ub.Magnitude * ub.Unit.Scale)
		dim = numeric.SubDim(ua.Unit.Dim, ub.Unit.Dim)
		name = compoundUnitName(ua.Unit.Name, ub.Unit.Name, true)
	} else {
		mag = (ua.Magnitude * ua.Unit.Scale) * (ub.Magnitude * ub.Unit.Scale)
		dim = numeric.AddDim(ua.Unit.Dim, ub.Unit.Dim)
		name = compoundUnitName(ua.Unit.Name, ub.Unit.Name, false)
	}
	if dim == (numeric.Dimension{}) {
		return &DecimalValue{V: numeric.FromFloat64(mag)}, nil
	}
	if existing, ok := numeric.LookupUnit(name); ok {
		v, _ := numeric.Convert(mag, numeric.UnitDef{Name: name, Dim: dim, Scale: 1}, existing)
		return &UnitValue{Magnitude: v, Unit: existing}, nil
	}
	return &UnitValue{Magnitude: mag, Unit: numeric.UnitDef{Name: name, Dim: dim, Scale: 1}}, nil
}

func compoundUnitName(a, b string, div bool) string {
	if a == "" {
		a = "1"
	}
	if b == "" {
		b = "1"
	}
	if div {
		return a + "/" + b
	}
	return a + "*" + b
}

func init() {
	// "value_UnitExpr" literal, e.g. "5_m", "98.6_°F", "1_mi/h". UnitExpr
	// itself is looked up verbatim against the unit table rather than
	// parsed as an algebraic expression of primitive units; compound
	// units are looked up under their combined name. No package in this
	// module registers units, so the table starts empty.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.IndexByte(src, '_')
		if i <= 0 {
			return nil, src, nil
		}
		mag, err := strconv.ParseFloat(src[:i], 64)
		if err != nil {
			return nil, src, nil
		}
		name := src[i+1:]
		if name == "" {
			return nil, src, nil
		}
		def, ok := numeric.LookupUnit(name)
		if !ok {
			return nil, src, nil
		}
		return &UnitValue{Magnitude: mag, Unit: def}, "", nil
	})

	RegisterCommand("UBASE", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		u, ok := v.(*UnitValue)
		if !ok {
			m.Push(v)
			return nil
		}
		base := u.Magnitude*u.Unit.Scale + u.Unit.Offset
		m.Push(&UnitValue{Magnitude: base, Unit: numeric.UnitDef{Name: u.Unit.Name, Dim: u.Unit.Dim, Scale: 1}})
		return nil
	})

	RegisterCommand("CONVERT", func(m Machine) *Error {
		target, err := m.Pop()
		if err != nil {
			return err
		}
		src, err := m.Pop()
		if err != nil {
			m.Push(target)
			return err
		}
		tu, ok := target.(*UnitValue)
		if !ok {
			return m.Raise(ErrBadArgType, "CONVERT expects a target unit")
		}
		su, ok := src.(*UnitValue)
		if !ok {
			return m.Raise(ErrBadArgType, "CONVERT expects a source unit")
		}
		v, ok := numeric.Convert(su.Magnitude, su.Unit, tu.Unit)
		if !ok {
			return m.Raise(ErrInconsistentUnits, "units are not compatible").WithCulprit(src)
		}
		m.Push(&UnitValue{Magnitude: v, Unit: tu.Unit})
		return nil
	})
}
