/*
 * db48x - symbolic derivative, primitive, and substitution.
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

import "github.com/dm48x/rpl/internal/container"

// Subst replaces every occurrence of the free variable name in expr
// with value, the operator behind `subst` and `|`.
func Subst(expr *container.Expression, name string, value *container.Expression) *container.Expression {
	if expr == nil {
		return nil
	}
	if sym, ok := leafSymbol(expr); ok {
		if sym == name {
			return value
		}
		return expr
	}
	if expr.Leaf != nil {
		return expr
	}
	args := make([]*container.Expression, len(expr.Args))
	for i, a := range expr.Args {
		args[i] = Subst(a, name, value)
	}
	return &container.Expression{Op: expr.Op, Args: args}
}

// Derivative computes d/d(name) of expr using the standard product,
// quotient, and power rules. ok is false for an operator the
// table below has no rule for, which the caller turns into
// ErrUnknownDerivative.
func Derivative(expr *container.Expression, name string) (*container.Expression, bool) {
	if expr.Leaf != nil {
		if sym, ok := leafSymbol(expr); ok {
			if sym == name {
				return num(1), true
			}
			return num(0), true
		}
		return num(0), true // a literal constant
	}

	switch expr.Op {
	case "neg":
		d, ok := Derivative(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return unary("neg", d), true

	case "+", "-":
		da, ok1 := Derivative(expr.Args[0], name)
		db, ok2 := Derivative(expr.Args[1], name)
		if !ok1 || !ok2 {
			return nil, false
		}
		return bin2(expr.Op, da, db), true

	case "*":
		a, b := expr.Args[0], expr.Args[1]
		da, ok1 := Derivative(a, name)
		db, ok2 := Derivative(b, name)
		if !ok1 || !ok2 {
			return nil, false
		}
		// (a*b)' = a'*b + a*b'
		return bin2("+", bin2("*", da, b), bin2("*", a, db)), true

	case "/":
		a, b := expr.Args[0], expr.Args[1]
		da, ok1 := Derivative(a, name)
		db, ok2 := Derivative(b, name)
		if !ok1 || !ok2 {
			return nil, false
		}
		// (a/b)' = (a'*b - a*b') / b^2
		numer := bin2("-", bin2("*", da, b), bin2("*", a, db))
		return bin2("/", numer, bin2("^", b, num2())), true

	case "^":
		base, exp := expr.Args[0], expr.Args[1]
		if _, ok := leafSymbol(exp); ok {
			return nil, false // variable exponent (a^x): not in the elementary rule set
		}
		if exp.Leaf == nil {
			return nil, false
		}
		dbase, ok := Derivative(base, name)
		if !ok {
			return nil, false
		}
		// (base^n)' = n * base^(n-1) * base'
		nMinus1 := bin2("-", exp, num(1))
		return bin2("*", bin2("*", exp, bin2("^", base, nMinus1)), dbase), true

	case "sin":
		d, ok := Derivative(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return bin2("*", unary("cos", expr.Args[0]), d), true

	case "cos":
		d, ok := Derivative(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return bin2("*", unary("neg", unary("sin", expr.Args[0])), d), true

	case "ln":
		d, ok := Derivative(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return bin2("*", bin2("/", num(1), expr.Args[0]), d), true

	case "exp":
		d, ok := Derivative(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return bin2("*", expr, d), true
	}
	return nil, false
}

func num2() *container.Expression { return num(2) }

// Primitive computes an antiderivative of expr with respect to name for
// the closed set of elementary forms ∫ handles directly
// (monomials, sin, cos, exp, 1/x). ok is false otherwise, which the
// caller turns into ErrUnknownPrimitive.
func Primitive(expr *container.Expression, name string) (*container.Expression, bool) {
	if expr.Leaf != nil {
		if sym, ok := leafSymbol(expr); ok && sym == name {
			// ∫x dx = x^2/2
			return bin2("/", bin2("^", expr, num(2)), num(2)), true
		}
		// ∫c dx = c*x
		return bin2("*", expr, wild(name)), true
	}

	switch expr.Op {
	case "+", "-":
		pa, ok1 := Primitive(expr.Args[0], name)
		pb, ok2 := Primitive(expr.Args[1], name)
		if !ok1 || !ok2 {
			return nil, false
		}
		return bin2(expr.Op, pa, pb), true

	case "neg":
		p, ok := Primitive(expr.Args[0], name)
		if !ok {
			return nil, false
		}
		return unary("neg", p), true

	case "^":
		base, exp := expr.Args[0], expr.Args[1]
		if sym, ok := leafSymbol(base); !ok || sym != name || exp.Leaf == nil {
			return nil, false
		}
		if Equal(exp, num(-1)) {
			return nil, false // exponent -1: ∫x^-1 dx = ln|x|, not handled here
		}
		// ∫x^n dx = x^(n+1)/(n+1)
		np1 := bin2("+", exp, num(1))
		return bin2("/", bin2("^", base, np1), np1), true

	case "sin":
		if sym, ok := leafSymbol(expr.Args[0]); ok && sym == name {
			return unary("neg", unary("cos", expr.Args[0])), true
		}

	case "cos":
		if sym, ok := leafSymbol(expr.Args[0]); ok && sym == name {
			return unary("sin", expr.Args[0]), true
		}

	case "exp":
		if sym, ok := leafSymbol(expr.Args[0]); ok && sym == name {
			return expr, true
		}

	case "/":
		a, b := expr.Args[0], expr.Args[1]
		if isOne(a) {
			if sym, ok := leafSymbol(b); ok && sym == name {
				return unary("ln", b), true
			}
		}
	}
	return nil, false
}
