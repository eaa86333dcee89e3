/*
 * db48x - symbolic expand/collect.
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

package algebra

import (
	"sort"
	"strconv"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

// Expand distributes multiplication over addition/subtraction and
// unrolls positive-integer-literal powers into repeated products, so
// '(A+B)^3' expands to the sum collect regroups as A^3+3*A^2*B+3*A*B^2
// +B^3. Any other operator is kept as it is, with Expand applied to
// its arguments; it is not distributed over.
func Expand(e *container.Expression) *container.Expression {
	if e == nil || e.Leaf != nil {
		return e
	}
	switch e.Op {
	case "+", "-":
		args := make([]*container.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = Expand(a)
		}
		return &container.Expression{Op: e.Op, Args: args}
	case "neg":
		return &container.Expression{Op: "neg", Args: []*container.Expression{Expand(e.Args[0])}}
	case "^":
		base := Expand(e.Args[0])
		if n, ok := literalPositiveInt(e.Args[1]); ok {
			return expandPower(base, n)
		}
		return &container.Expression{Op: "^", Args: []*container.Expression{base, Expand(e.Args[1])}}
	case "*":
		return distribute(Expand(e.Args[0]), Expand(e.Args[1]))
	default:
		if len(e.Args) == 0 {
			return e
		}
		args := make([]*container.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = Expand(a)
		}
		return &container.Expression{Op: e.Op, Args: args}
	}
}

func literalPositiveInt(e *container.Expression) (int, bool) {
	if e == nil || e.Leaf == nil {
		return 0, false
	}
	iv, ok := e.Leaf.(*object.Integer)
	if !ok {
		return 0, false
	}
	f, ok := object.ToFloat64(iv)
	if !ok || f < 1 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// expandPower unrolls base^n (n already confirmed a positive integer
// literal by the caller) into a left-fold of distribute calls, so x^3
// expands the same way x*x*x would.
func expandPower(base *container.Expression, n int) *container.Expression {
	result := base
	for i := 1; i < n; i++ {
		result = distribute(result, base)
	}
	return result
}

// distribute multiplies two already-expanded sums term by term, the
// distributive law, after flattening each side's +/- tree into a flat
// term list.
func distribute(a, b *container.Expression) *container.Expression {
	aTerms := sumTerms(a)
	bTerms := sumTerms(b)
	terms := make([]*container.Expression, 0, len(aTerms)*len(bTerms))
	for _, at := range aTerms {
		for _, bt := range bTerms {
			terms = append(terms, &container.Expression{Op: "*", Args: []*container.Expression{at, bt}})
		}
	}
	return sumOf(terms)
}

// sumTerms flattens a +/-/neg tree into a flat list of signed terms,
// each negative term wrapped in a "neg" node so the caller can read its
// sign by peeling "neg" wrappers rather than tracking signs separately.
func sumTerms(e *container.Expression) []*container.Expression {
	if e.Leaf != nil {
		return []*container.Expression{e}
	}
	switch e.Op {
	case "+":
		return append(sumTerms(e.Args[0]), sumTerms(e.Args[1])...)
	case "-":
		if len(e.Args) == 1 {
			return negateAll(sumTerms(e.Args[0]))
		}
		return append(sumTerms(e.Args[0]), negateAll(sumTerms(e.Args[1]))...)
	case "neg":
		return negateAll(sumTerms(e.Args[0]))
	}
	return []*container.Expression{e}
}

func negateAll(terms []*container.Expression) []*container.Expression {
	out := make([]*container.Expression, len(terms))
	for i, t := range terms {
		out[i] = &container.Expression{Op: "neg", Args: []*container.Expression{t}}
	}
	return out
}

func sumOf(terms []*container.Expression) *container.Expression {
	if len(terms) == 0 {
		return &container.Expression{Leaf: &object.Integer{V: numFromInt(0)}}
	}
	result := terms[0]
	for _, t := range terms[1:] {
		result = &container.Expression{Op: "+", Args: []*container.Expression{result, t}}
	}
	return result
}

// monomial is a single term's canonical shape after collection: a
// numeric coefficient times a product of variable powers, the
// multivariate generalization of container/poly.go's single-variable
// packed form (which cannot represent A²B).
type monomial struct {
	coeff float64
	exps  map[string]int
}

func (t monomial) degree() int {
	d := 0
	for _, exp := range t.exps {
		d += exp
	}
	return d
}

// key identifies terms that collect should combine: same variables,
// same exponents. Any opaque "rest" factors (see factorMonomial) that
// collect could not fold into exps are folded into the key too, so
// `sin(x)*2 + sin(x)*3` still collects to `5*sin(x)` while `sin(x) +
// cos(x)` does not wrongly merge.
func (t monomial) key(rest []*container.Expression) string {
	names := make([]string, 0, len(t.exps))
	for n, exp := range t.exps {
		if exp != 0 {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	key := ""
	for _, n := range names {
		key += n + "^" + strconv.Itoa(t.exps[n]) + ";"
	}
	for _, r := range rest {
		key += "?" + renderString(r) + ";"
	}
	return key
}

// factorMonomial walks a product tree, splitting it into a numeric
// coefficient, a map of symbol name to exponent, and a list of any
// other factors (function calls, divisions, ...) it does not know how
// to fold into either — kept rather than discarded, so collect never
// silently drops a subexpression it does not understand.
func factorMonomial(e *container.Expression) (coeff float64, exps map[string]int, rest []*container.Expression) {
	coeff = 1
	exps = map[string]int{}
	var walk func(e *container.Expression)
	walk = func(e *container.Expression) {
		if e.Op == "*" {
			walk(e.Args[0])
			walk(e.Args[1])
			return
		}
		if e.Leaf != nil {
			switch lv := e.Leaf.(type) {
			case *object.Integer:
				if f, ok := object.ToFloat64(lv); ok {
					coeff *= f
					return
				}
			case *object.DecimalValue:
				if f, ok := object.ToFloat64(lv); ok {
					coeff *= f
					return
				}
			case *object.Symbol:
				exps[lv.Name]++
				return
			}
			rest = append(rest, e)
			return
		}
		if e.Op == "^" {
			if sym, ok := e.Args[0].Leaf.(*object.Symbol); ok {
				if n, ok := literalPositiveInt(e.Args[1]); ok {
					exps[sym.Name] += n
					return
				}
			}
		}
		rest = append(rest, e)
	}
	walk(e)
	return coeff, exps, rest
}

// Collect groups an expanded sum-of-products expression by like terms,
// combining the coefficients of monomials that share the same
// variables, exponents, and opaque factors, and orders the result by
// descending total degree so `(A+B)^3 expand collect` reads
// `A^3+3*A^2*B+3*A*B^2+B^3` rather than an arbitrary term order.
func Collect(e *container.Expression) *container.Expression {
	terms := sumTerms(e)
	type entry struct {
		m    monomial
		rest []*container.Expression
	}
	order := make([]string, 0, len(terms))
	byKey := map[string]*entry{}
	for _, t := range terms {
		sign := 1.0
		for t.Op == "neg" {
			sign = -sign
			t = t.Args[0]
		}
		coeff, exps, rest := factorMonomial(t)
		m := monomial{coeff: sign * coeff, exps: exps}
		k := m.key(rest)
		if ent, ok := byKey[k]; ok {
			ent.m.coeff += m.coeff
		} else {
			byKey[k] = &entry{m: m, rest: rest}
			order = append(order, k)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := byKey[order[i]].m.degree(), byKey[order[j]].m.degree()
		if di != dj {
			return di > dj
		}
		// Equal degree: compare exponents variable by variable in name
		// order, larger first, so A^2*B precedes A*B^2.
		mi, mj := byKey[order[i]].m.exps, byKey[order[j]].m.exps
		names := make([]string, 0, len(mi)+len(mj))
		for n := range mi {
			names = append(names, n)
		}
		for n := range mj {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			if mi[n] != mj[n] {
				return mi[n] > mj[n]
			}
		}
		return order[i] < order[j]
	})
	var out []*container.Expression
	for _, k := range order {
		ent := byKey[k]
		if ent.m.coeff == 0 {
			continue
		}
		out = append(out, ent.m.toExpr(ent.rest))
	}
	if len(out) == 0 {
		return &container.Expression{Leaf: &object.Integer{V: numFromInt(0)}}
	}
	return sumOf(out)
}

// toExpr rebuilds a monomial (and any folded-in opaque factors) back
// into an Expression: the coefficient (omitted when 1 and some factor
// exists), each variable raised to its exponent, then any remaining
// opaque factors, chained by "*".
func (t monomial) toExpr(rest []*container.Expression) *container.Expression {
	var factors []*container.Expression
	names := make([]string, 0, len(t.exps))
	for n, exp := range t.exps {
		if exp != 0 {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		exp := t.exps[n]
		sym := &container.Expression{Leaf: &object.Symbol{Name: n}}
		if exp == 1 {
			factors = append(factors, sym)
			continue
		}
		factors = append(factors, &container.Expression{
			Op:   "^",
			Args: []*container.Expression{sym, &container.Expression{Leaf: &object.Integer{V: numFromInt(int64(exp))}}},
		})
	}
	factors = append(factors, rest...)

	coeff := t.coeff
	neg := coeff < 0
	if neg {
		coeff = -coeff
	}

	var result *container.Expression
	if coeff != 1 || len(factors) == 0 {
		result = &container.Expression{Leaf: numericLeaf(coeff)}
	}
	for _, f := range factors {
		if result == nil {
			result = f
		} else {
			result = &container.Expression{Op: "*", Args: []*container.Expression{result, f}}
		}
	}
	if neg {
		result = &container.Expression{Op: "neg", Args: []*container.Expression{result}}
	}
	return result
}

func numericLeaf(f float64) object.Value {
	if f == float64(int64(f)) {
		return &object.Integer{V: numFromInt(int64(f))}
	}
	return &object.DecimalValue{V: numeric.FromFloat64(f)}
}
