/*
 * db48x - exact and inexact number value types.
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
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
)

// Integer wraps a numeric.BigInt as a self-evaluating (it evaluates to
// itself, the rule for literal data) exact-number Value.
type Integer struct {
	V *numeric.BigInt
}

func (n *Integer) Size() int                      { return 8 + 4*len(n.V.Limbs) }
func (n *Integer) Walk(func(arena.Ref) arena.Ref) {}
func (n *Integer) Tag() Tag {
	if n.V.Neg {
		return TagNegInteger
	}
	return TagInteger
}
func (n *Integer) Render(p *Printer) { p.WriteString(n.V.String()) }
func (n *Integer) Evaluate(m Machine) *Error {
	m.Push(n)
	return nil
}
func (n *Integer) Graph(c *Canvas, p *Printer) { n.Render(p); c.DrawText(0, p.String()) }

// FractionValue wraps a numeric.Fraction as an exact-number Value.
type FractionValue struct {
	V *numeric.Fraction
}

func (f *FractionValue) Size() int                      { return 8 + 4*(len(f.V.Num.Limbs)+len(f.V.Den.Limbs)) }
func (f *FractionValue) Walk(func(arena.Ref) arena.Ref) {}
func (f *FractionValue) Tag() Tag {
	if f.V.Num.Neg {
		return TagNegFraction
	}
	return TagFraction
}
func (f *FractionValue) Render(p *Printer) { p.WriteString(f.V.String()) }
func (f *FractionValue) Evaluate(m Machine) *Error {
	m.Push(f)
	return nil
}
func (f *FractionValue) Graph(c *Canvas, p *Printer) { f.Render(p); c.DrawText(0, p.String()) }

// DecimalValue wraps a numeric.Decimal as an inexact-number Value.
type DecimalValue struct {
	V numeric.Decimal
}

func (d *DecimalValue) Size() int                      { return 8 + 4*len(d.V.Mantissa.Limbs) }
func (d *DecimalValue) Walk(func(arena.Ref) arena.Ref) {}
func (d *DecimalValue) Tag() Tag {
	if d.V.Mantissa.Neg {
		return TagNegDecimal
	}
	return TagDecimal
}
func (d *DecimalValue) Render(p *Printer) {
	p.WriteString(renderDecimal(d.V, p.Opts))
}
func (d *DecimalValue) Evaluate(m Machine) *Error {
	m.Push(d)
	return nil
}
func (d *DecimalValue) Graph(c *Canvas, p *Printer) { d.Render(p); c.DrawText(0, p.String()) }

// renderDecimal applies Notation from opts on top of Decimal's plain
// digit string; FixedDigits and SignificantDigits are not applied. The
// std/fixed cases reuse
// Decimal.String(); scientific/engineering notation reformats the
// mantissa with an explicit exponent marker.
func renderDecimal(d numeric.Decimal, opts RenderOpts) string {
	if opts.Notation == NotationSci || opts.Notation == NotationEng {
		return sciNotation(d, opts)
	}
	s := d.String()
	// An integral decimal keeps its marker dot so `500.` stays visibly
	// inexact.
	if opts.TrailingDecimal && !strings.Contains(s, ".") {
		s += "."
	}
	if opts.DecimalRadix != '.' && opts.DecimalRadix != 0 {
		for i, c := range s {
			if c == '.' {
				s = s[:i] + string(opts.DecimalRadix) + s[i+1:]
				break
			}
		}
	}
	return s
}

// sciNotation renders mantissa.Eexponent / mantissa^Eexponent, with the
// decimal point placed after the mantissa's first significant digit and
// the dropped exponent absorbed into the printed E field. Engineering
// notation forces the printed exponent to a multiple of three by
// shifting up to two extra digits ahead of the point.
func sciNotation(d numeric.Decimal, opts RenderOpts) string {
	digits := d.Mantissa.String()
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	if digits == "0" {
		return "0.E0"
	}
	exp := d.Exp + len(digits) - 1
	lead := 1
	if opts.Notation == NotationEng {
		shift := ((exp % 3) + 3) % 3
		lead += shift
		exp -= shift
	}
	for len(digits) < lead+1 {
		digits += "0"
	}
	mantissa := digits[:lead]
	frac := digits[lead:]
	radix := opts.DecimalRadix
	if radix == 0 {
		radix = '.'
	}
	s := mantissa
	if frac != "" {
		s += string(radix) + frac
	} else if opts.TrailingDecimal {
		s += string(radix)
	}
	if neg {
		s = "-" + s
	}
	if opts.FancyExponent {
		return s + "ᴇ" + itoaSigned(exp)
	}
	return s + "E" + itoaSigned(exp)
}

func itoaSigned(v int) string {
	if v < 0 {
		return "-" + itoaSigned(-v)
	}
	if v == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
