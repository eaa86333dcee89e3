/*
 * db48x - packed-monomial polynomial objects.
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

package container

import (
	"strconv"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Polynomial is a single-variable packed monomial sum (,
// "packed monomial form with integer exponents"): Coeffs[i] is the
// coefficient of Var^i, stored dense and kept normalized (no trailing
// zero coefficient, except for the zero polynomial which is [0]).
type Polynomial struct {
	Var    string
	Coeffs []float64
}

func (p *Polynomial) Size() int                      { return 8 + len(p.Var) + 8*len(p.Coeffs) }
func (p *Polynomial) Walk(func(arena.Ref) arena.Ref) {}
func (p *Polynomial) Tag() object.Tag                { return object.TagPolynomial }

func (p *Polynomial) Evaluate(m object.Machine) *object.Error { m.Push(p); return nil }
func (p *Polynomial) Graph(c *object.Canvas, pr *object.Printer) {
	p.Render(pr)
	c.DrawText(0, pr.String())
}

// Degree returns the highest exponent with a nonzero coefficient, or -1
// for the zero polynomial.
func (p *Polynomial) Degree() int {
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		if p.Coeffs[i] != 0 {
			return i
		}
	}
	return -1
}

func (p *Polynomial) Render(pr *object.Printer) {
	deg := p.Degree()
	if deg < 0 {
		pr.WriteString("0")
		return
	}
	first := true
	for i := deg; i >= 0; i-- {
		c := p.Coeffs[i]
		if c == 0 {
			continue
		}
		if !first {
			if c >= 0 {
				pr.WriteString("+")
			}
		}
		first = false
		pr.WriteString(formatCoeff(c))
		if i > 0 {
			pr.WriteString(p.Var)
			if i > 1 {
				pr.WriteString("^")
				pr.WriteString(itoa(i))
			}
		}
	}
}

func formatCoeff(c float64) string {
	if c == float64(int64(c)) {
		return itoa(int(c))
	}
	return strconv.FormatFloat(c, 'g', -1, 64)
}

func itoa(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var buf [24]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// normalize trims trailing zero coefficients.
func (p *Polynomial) normalize() *Polynomial {
	n := len(p.Coeffs)
	for n > 1 && p.Coeffs[n-1] == 0 {
		n--
	}
	return &Polynomial{Var: p.Var, Coeffs: p.Coeffs[:n]}
}

// AddPoly/SubPoly/MulPoly implement packed-monomial arithmetic: dense
// coefficient arrays make addition and multiplication simple index
// loops.
func AddPoly(a, b *Polynomial) *Polynomial {
	n := len(a.Coeffs)
	if len(b.Coeffs) > n {
		n = len(b.Coeffs)
	}
	out := make([]float64, n)
	for i := 0; i < len(a.Coeffs); i++ {
		out[i] += a.Coeffs[i]
	}
	for i := 0; i < len(b.Coeffs); i++ {
		out[i] += b.Coeffs[i]
	}
	return (&Polynomial{Var: polyVar(a, b), Coeffs: out}).normalize()
}

func SubPoly(a, b *Polynomial) *Polynomial {
	neg := make([]float64, len(b.Coeffs))
	for i, c := range b.Coeffs {
		neg[i] = -c
	}
	return AddPoly(a, &Polynomial{Var: b.Var, Coeffs: neg})
}

func MulPoly(a, b *Polynomial) *Polynomial {
	if len(a.Coeffs) == 0 || len(b.Coeffs) == 0 {
		return &Polynomial{Var: polyVar(a, b), Coeffs: []float64{0}}
	}
	out := make([]float64, len(a.Coeffs)+len(b.Coeffs)-1)
	for i, ca := range a.Coeffs {
		if ca == 0 {
			continue
		}
		for j, cb := range b.Coeffs {
			out[i+j] += ca * cb
		}
	}
	return (&Polynomial{Var: polyVar(a, b), Coeffs: out}).normalize()
}

// DivModPoly implements exact polynomial long division: p = q*d + r
// with deg(r) < deg(d) ("Division of two polynomials is
// quotient-remainder exact").
func DivModPoly(p, d *Polynomial) (q, r *Polynomial, ok bool) {
	dd := d.Degree()
	if dd < 0 {
		return nil, nil, false
	}
	rem := append([]float64{}, p.Coeffs...)
	qdeg := p.Degree() - dd
	if qdeg < 0 {
		qdeg = -1
	}
	quot := make([]float64, qdeg+1)
	lead := d.Coeffs[dd]
	for remDeg := len(rem) - 1; remDeg >= dd; remDeg-- {
		if rem[remDeg] == 0 {
			continue
		}
		coeff := rem[remDeg] / lead
		shift := remDeg - dd
		quot[shift] = coeff
		for i := 0; i <= dd; i++ {
			rem[shift+i] -= coeff * d.Coeffs[i]
		}
	}
	return (&Polynomial{Var: p.Var, Coeffs: quot}).normalize(),
		(&Polynomial{Var: p.Var, Coeffs: rem}).normalize(), true
}

func polyVar(a, b *Polynomial) string {
	if a.Var != "" {
		return a.Var
	}
	return b.Var
}

// ToPoly folds an Expression into packed-monomial normal form for a
// single variable ("→Poly folds an expression into normal
// form"). Only the subset of expressions that are themselves polynomial
// in varName (sums of var^k terms with constant coefficients) convert;
// anything else returns ok=false, leaving the expression symbolic.
func ToPoly(e *Expression, varName string) (*Polynomial, bool) {
	terms := map[int]float64{}
	if !collectPolyTerms(e, varName, 1, terms) {
		return nil, false
	}
	deg := 0
	for k := range terms {
		if k > deg {
			deg = k
		}
	}
	coeffs := make([]float64, deg+1)
	for k, c := range terms {
		coeffs[k] += c
	}
	return (&Polynomial{Var: varName, Coeffs: coeffs}).normalize(), true
}

func collectPolyTerms(e *Expression, varName string, sign float64, terms map[int]float64) bool {
	if e == nil {
		return false
	}
	if e.Leaf != nil {
		switch lv := e.Leaf.(type) {
		case *object.Symbol:
			if lv.Name == varName {
				terms[1] += sign
				return true
			}
		case *object.Integer:
			f, ok := object.ToFloat64(lv)
			if !ok {
				return false
			}
			terms[0] += sign * f
			return true
		case *object.DecimalValue:
			f, ok := object.ToFloat64(lv)
			if !ok {
				return false
			}
			terms[0] += sign * f
			return true
		}
		return false
	}
	switch e.Op {
	case "+":
		return collectPolyTerms(e.Args[0], varName, sign, terms) && collectPolyTerms(e.Args[1], varName, sign, terms)
	case "-":
		if len(e.Args) == 1 {
			return collectPolyTerms(e.Args[0], varName, -sign, terms)
		}
		return collectPolyTerms(e.Args[0], varName, sign, terms) && collectPolyTerms(e.Args[1], varName, -sign, terms)
	case "*":
		return collectPolyProduct(e.Args[0], e.Args[1], varName, sign, terms)
	case "^":
		base, ok := e.Args[0].Leaf.(*object.Symbol)
		expv, ok2 := e.Args[1].Leaf.(*object.Integer)
		if !ok || !ok2 || base.Name != varName {
			return false
		}
		k, kok := object.ToFloat64(expv)
		if !kok {
			return false
		}
		terms[int(k)] += sign
		return true
	}
	return false
}

func collectPolyProduct(a, b *Expression, varName string, sign float64, terms map[int]float64) bool {
	ca, ka, ok1 := polyFactor(a, varName)
	cb, kb, ok2 := polyFactor(b, varName)
	if !ok1 || !ok2 {
		return false
	}
	terms[ka+kb] += sign * ca * cb
	return true
}

// polyFactor reads a single leaf/power factor as (coefficient, exponent).
func polyFactor(e *Expression, varName string) (float64, int, bool) {
	if e.Leaf != nil {
		switch lv := e.Leaf.(type) {
		case *object.Symbol:
			if lv.Name == varName {
				return 1, 1, true
			}
		case *object.Integer, *object.DecimalValue:
			f, ok := object.ToFloat64(lv)
			return f, 0, ok
		}
		return 0, 0, false
	}
	if e.Op == "^" {
		base, ok := e.Args[0].Leaf.(*object.Symbol)
		expv, ok2 := e.Args[1].Leaf.(*object.Integer)
		if ok && ok2 && base.Name == varName {
			k, kok := object.ToFloat64(expv)
			return 1, int(k), kok
		}
	}
	return 0, 0, false
}

func init() {
	object.RegisterCommand("→Poly", func(m object.Machine) *object.Error {
		varv, err := m.Pop()
		if err != nil {
			return err
		}
		ev, err := m.Pop()
		if err != nil {
			m.Push(varv)
			return err
		}
		sym, ok := varv.(*object.Symbol)
		if !ok {
			return m.Raise(object.ErrBadArgType, "→Poly expects a variable name")
		}
		expr, ok := ev.(*Expression)
		if !ok {
			return m.Raise(object.ErrBadArgType, "→Poly expects an expression")
		}
		poly, ok := ToPoly(expr, sym.Name)
		if !ok {
			return m.Raise(object.ErrBadArgValue, "expression is not polynomial in %s", sym.Name)
		}
		m.Push(poly)
		return nil
	})

	object.RegisterCommand("PDIV", func(m object.Machine) *object.Error {
		d, err := m.Pop()
		if err != nil {
			return err
		}
		p, err := m.Pop()
		if err != nil {
			m.Push(d)
			return err
		}
		pp, ok1 := p.(*Polynomial)
		dp, ok2 := d.(*Polynomial)
		if !ok1 || !ok2 {
			return m.Raise(object.ErrBadArgType, "PDIV expects two polynomials")
		}
		q, r, ok := DivModPoly(pp, dp)
		if !ok {
			return m.Raise(object.ErrDivByZero, "division by the zero polynomial")
		}
		m.Push(q)
		m.Push(r)
		return nil
	})
}
