/*
 * db48x - isolate: solve a single-variable equation algebraically.
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

// occurs reports whether name appears anywhere in expr's leaves.
func occurs(name string, expr *container.Expression) bool {
	if expr == nil {
		return false
	}
	if expr.Leaf != nil {
		sym, ok := leafSymbol(expr)
		return ok && sym == name
	}
	for _, a := range expr.Args {
		if occurs(name, a) {
			return true
		}
	}
	return false
}

// inverse returns the expression for `x` given that `op(x, other) = rhs`
// (argPos 0) or `op(other, x) = rhs` (argPos 1), i.e. the single
// algebraic step that undoes applying op with the other operand. Peels
// one operator per call; Isolate repeats this until the unknown is
// alone on one side.
func inverse(op string, argPos int, other, rhs *container.Expression) (*container.Expression, bool) {
	switch op {
	case "+":
		return bin2("-", rhs, other), true
	case "-":
		if argPos == 0 {
			return bin2("+", rhs, other), true
		}
		return bin2("-", other, rhs), true
	case "*":
		return bin2("/", rhs, other), true
	case "/":
		if argPos == 0 {
			return bin2("*", rhs, other), true
		}
		return bin2("/", other, rhs), true
	case "^":
		if argPos == 0 {
			return bin2("^", rhs, bin2("/", num(1), other)), true
		}
		// other^x = rhs has no single-step elementary inverse here;
		// Isolate falls through to ErrUnableToIsolate for this shape.
		return nil, false
	}
	return nil, false
}

// Isolate solves `lhs = rhs` for name, returning an expression for name
// equal to something not containing name ("isolate"/ "solve for
// a single variable"). ok is false when the unknown appears more than
// once, or inside an operator Isolate has no inverse step for — the
// caller raises ErrUnableToIsolate in that case.
func Isolate(lhs, rhs *container.Expression, name string) (*container.Expression, bool) {
	if sym, ok := leafSymbol(lhs); ok && sym == name {
		return rhs, true
	}
	if sym, ok := leafSymbol(rhs); ok && sym == name {
		return lhs, true
	}

	if lhs.Leaf == nil && len(lhs.Args) == 2 {
		a, b := lhs.Args[0], lhs.Args[1]
		aHas, bHas := occurs(name, a), occurs(name, b)
		switch {
		case aHas && !bHas:
			newRHS, ok := inverse(lhs.Op, 0, b, rhs)
			if !ok {
				return nil, false
			}
			return Isolate(a, newRHS, name)
		case bHas && !aHas:
			newRHS, ok := inverse(lhs.Op, 1, a, rhs)
			if !ok {
				return nil, false
			}
			return Isolate(b, newRHS, name)
		}
	}
	if rhs.Leaf == nil && len(rhs.Args) == 2 && occurs(name, rhs) && !occurs(name, lhs) {
		return Isolate(rhs, lhs, name)
	}
	return nil, false
}
