/*
 * db48x - complex number value types.
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
	"strconv"
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
)

// RectangularValue is a complex number stored as real+imaginary parts
// . Arithmetic that prefers rectangular form (add/subtract)
// produces this variant.
type RectangularValue struct {
	V numeric.Rectangular
}

func (c *RectangularValue) Size() int                      { return 20 }
func (c *RectangularValue) Walk(func(arena.Ref) arena.Ref) {}
func (c *RectangularValue) Tag() Tag                       { return TagRectangular }

func (c *RectangularValue) Render(p *Printer) {
	p.WriteString(formatFloat(c.V.Re))
	if c.V.Im >= 0 {
		p.WriteByte('+')
	}
	p.WriteString(formatFloat(c.V.Im))
	p.WriteString("ⅈ")
}

func (c *RectangularValue) Evaluate(m Machine) *Error    { m.Push(c); return nil }
func (c *RectangularValue) Graph(cv *Canvas, p *Printer) { c.Render(p); cv.DrawText(0, p.String()) }

// PolarValue is a complex number stored as magnitude and angle.
// Arithmetic that prefers polar form (multiply/divide/power) produces
// this variant; Angle is always kept in radians and converted to the
// active AngleUnit only at render time.
type PolarValue struct {
	V numeric.Polar
}

func (c *PolarValue) Size() int                      { return 20 }
func (c *PolarValue) Walk(func(arena.Ref) arena.Ref) {}
func (c *PolarValue) Tag() Tag                       { return TagPolar }

func (c *PolarValue) Render(p *Printer) {
	p.WriteString(formatFloat(c.V.Mag))
	p.WriteString("∡")
	p.WriteString(formatFloat(angleFromRadians(c.V.Angle, p.Opts.AngleUnit)))
	p.WriteString(angleSuffix(p.Opts.AngleUnit))
}

func (c *PolarValue) Evaluate(m Machine) *Error    { m.Push(c); return nil }
func (c *PolarValue) Graph(cv *Canvas, p *Printer) { c.Render(p); cv.DrawText(0, p.String()) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func angleSuffix(unit int) string {
	switch unit {
	case AngleRad:
		return "r"
	case AngleGrad:
		return "g"
	case AnglePiRadians:
		return "π"
	default:
		return "°"
	}
}

func angleFromRadians(rad float64, unit int) float64 {
	switch unit {
	case AngleRad:
		return rad
	case AngleGrad:
		return rad * 200 / piConst
	case AnglePiRadians:
		return rad / piConst
	default:
		return rad * 180 / piConst
	}
}

func angleToRadians(v float64, unit int) float64 {
	switch unit {
	case AngleRad:
		return v
	case AngleGrad:
		return v * piConst / 200
	case AnglePiRadians:
		return v * piConst
	default:
		return v * piConst / 180
	}
}

const piConst = 3.14159265358979323846

// asRectangular converts any complex value (or, as a convenience, a real
// scalar) to rectangular form, the common ground promote uses before
// addition/subtraction.
func asRectangular(v Value) (numeric.Rectangular, bool) {
	switch t := v.(type) {
	case *RectangularValue:
		return t.V, true
	case *PolarValue:
		return t.V.ToRectangular(), true
	default:
		if f, ok := toFloatScalar(v); ok {
			return numeric.Rectangular{Re: f}, true
		}
	}
	return numeric.Rectangular{}, false
}

func asPolar(v Value) (numeric.Polar, bool) {
	switch t := v.(type) {
	case *PolarValue:
		return t.V, true
	case *RectangularValue:
		return t.V.ToPolar(), true
	default:
		if f, ok := toFloatScalar(v); ok {
			return numeric.Rectangular{Re: f}.ToPolar(), true
		}
	}
	return numeric.Polar{}, false
}

// toFloatScalar flattens any exact or inexact scalar number to a
// float64, used when a real promotes to meet a complex/range/unit
// operand.
func toFloatScalar(v Value) (float64, bool) {
	switch t := v.(type) {
	case *Integer:
		f, _ := strconv.ParseFloat(t.V.String(), 64)
		return f, true
	case *FractionValue:
		return numeric.DivDec(
			numeric.Decimal{Mantissa: t.V.Num, Exp: 0},
			numeric.Decimal{Mantissa: t.V.Den, Exp: 0},
		).ToFloat64(), true
	case *DecimalValue:
		return t.V.ToFloat64(), true
	}
	return 0, false
}

func isComplex(v Value) bool {
	switch v.(type) {
	case *RectangularValue, *PolarValue:
		return true
	}
	return false
}

// collapseComplex demotes a complex value whose imaginary/angle
// component is (numerically) zero back to a real Decimal, the
// auto-simplify rule calls out explicitly ("iⅈ·iⅈ = −1" collapses
// to the real −1).
func collapseComplex(v Value) Value {
	// The tolerance absorbs the rounding a polar round trip introduces
	// (sin π is 1.2e-16, not 0), so iⅈ·iⅈ reduces to -1.
	const eps = 1e-12
	switch t := v.(type) {
	case *RectangularValue:
		if t.V.Im == 0 || math.Abs(t.V.Im) <= eps*math.Abs(t.V.Re) {
			return &DecimalValue{V: numeric.FromFloat64(t.V.Re)}
		}
	case *PolarValue:
		if t.V.Mag == 0 {
			return &DecimalValue{V: numeric.FromFloat64(0)}
		}
		c := t.V.ToRectangular()
		if math.Abs(c.Im) <= eps*math.Abs(c.Re) {
			return &DecimalValue{V: numeric.FromFloat64(c.Re)}
		}
	}
	return v
}

func init() {
	// Rectangular literal: "re+imⅈ" / "re-imⅈ" / "imⅈ". Tried before the
	// decimal/fraction constructors would otherwise misparse the leading
	// real part, since RegisterLiteral only accepts when the whole token
	// is consumed.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		if !strings.HasSuffix(src, "ⅈ") {
			return nil, src, nil
		}
		body := strings.TrimSuffix(src, "ⅈ")
		re, im, ok := splitComplexBody(body)
		if !ok {
			return nil, src, nil
		}
		return &RectangularValue{V: numeric.Rectangular{Re: re, Im: im}}, "", nil
	})

	// Polar literal: "r∡θ", θ read in the angle unit active at parse
	// time's default (degrees); a settings-aware reading would need the
	// runtime's Settings, which the parser layer deliberately doesn't
	// depend on, so a literal typed while AngleUnits
	// is Radians is read as degrees — noted in DESIGN.md.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.IndexRune(src, '∡')
		if i < 0 {
			return nil, src, nil
		}
		magStr, angStr := src[:i], src[i+len("∡"):]
		mag, err1 := strconv.ParseFloat(magStr, 64)
		ang, err2 := strconv.ParseFloat(angStr, 64)
		if err1 != nil || err2 != nil {
			return nil, src, nil
		}
		return &PolarValue{V: numeric.Polar{Mag: mag, Angle: angleToRadians(ang, AngleDeg)}}, "", nil
	})

	RegisterCommand("RE", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		c, ok := asRectangular(v)
		if !ok {
			return m.Raise(ErrBadArgType, "RE expects a number")
		}
		m.Push(&DecimalValue{V: numeric.FromFloat64(c.Re)})
		return nil
	})

	RegisterCommand("IM", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		c, ok := asRectangular(v)
		if !ok {
			return m.Raise(ErrBadArgType, "IM expects a number")
		}
		m.Push(&DecimalValue{V: numeric.FromFloat64(c.Im)})
		return nil
	})

	RegisterCommand("CONJ", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *RectangularValue:
			m.Push(&RectangularValue{V: numeric.Conj(t.V)})
		case *PolarValue:
			m.Push(&PolarValue{V: numeric.Polar{Mag: t.V.Mag, Angle: -t.V.Angle}})
		default:
			m.Push(v)
		}
		return nil
	})

	RegisterCommand("ARG", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		p, ok := asPolar(v)
		if !ok {
			return m.Raise(ErrBadArgType, "ARG expects a number")
		}
		opts := m.RenderOpts()
		m.Push(&DecimalValue{V: numeric.FromFloat64(angleFromRadians(p.Angle, opts.AngleUnit))})
		return nil
	})

	RegisterCommand("ABS", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *RectangularValue:
			m.Push(&DecimalValue{V: numeric.FromFloat64(numeric.Abs(t.V))})
		case *PolarValue:
			mag := t.V.Mag
			if mag < 0 {
				mag = -mag
			}
			m.Push(&DecimalValue{V: numeric.FromFloat64(mag)})
		case *Integer:
			if t.V.Neg {
				m.Push(&Integer{V: numeric.Neg(t.V)})
			} else {
				m.Push(t)
			}
		case *DecimalValue:
			if t.V.Mantissa.Neg {
				m.Push(&DecimalValue{V: numeric.NegDec(t.V)})
			} else {
				m.Push(t)
			}
		default:
			m.Push(v)
		}
		return nil
	})

	RegisterCommand("R→P", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		c, ok := asRectangular(v)
		if !ok {
			return m.Raise(ErrBadArgType, "R→P expects a number")
		}
		m.Push(&PolarValue{V: c.ToPolar()})
		return nil
	})

	RegisterCommand("P→R", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		p, ok := asPolar(v)
		if !ok {
			return m.Raise(ErrBadArgType, "P→R expects a number")
		}
		m.Push(&RectangularValue{V: p.ToRectangular()})
		return nil
	})
}

// splitComplexBody divides "re+im" / "re-im" / "im" into its two signed
// float parts, scanning from the right so a leading-sign real part
// ("-3+4") and scientific notation ("1e-5+2ⅈ") do not confuse the split.
func splitComplexBody(body string) (re, im float64, ok bool) {
	if body == "" {
		return 0, 0, false
	}
	for i := len(body) - 1; i > 0; i-- {
		c := body[i]
		if c != '+' && c != '-' {
			continue
		}
		prev := body[i-1]
		if prev == 'e' || prev == 'E' {
			continue
		}
		reStr, imStr := body[:i], body[i:]
		r, err1 := strconv.ParseFloat(reStr, 64)
		im, err2 := strconv.ParseFloat(imStr, 64)
		if err1 == nil && err2 == nil {
			return r, im, true
		}
	}
	im, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, 0, false
	}
	return 0, im, true
}
