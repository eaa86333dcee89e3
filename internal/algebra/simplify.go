/*
 * db48x - standard auto-simplify rule set.
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
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/object"
)

func num(n int64) *container.Expression {
	return &container.Expression{Leaf: &object.Integer{V: numFromInt(n)}}
}

func wild(name string) *container.Expression {
	return &container.Expression{Leaf: &object.Symbol{Name: name}}
}

func isZero(e *container.Expression) bool {
	return e != nil && e.Leaf != nil && renderString(e.Leaf) == "0"
}

func isOne(e *container.Expression) bool {
	return e != nil && e.Leaf != nil && renderString(e.Leaf) == "1"
}

func nonzero(name string) func(Bindings) bool {
	return func(b Bindings) bool { return !isZero(b[name]) }
}

// AutoSimplifyRules is the standard identity/zero/one simplification
// set names for the AutoSimplify flag: additive and
// multiplicative identities, double negation, and the zero-power and
// zero-product special cases. Each rule is self-contained so a caller
// can also run a subset directly via Rewrite.
var AutoSimplifyRules = []Rule{
	{Name: "add-zero-r", Pattern: bin2("+", wild("_x"), num(0)), Replacement: wild("_x")},
	{Name: "add-zero-l", Pattern: bin2("+", num(0), wild("_x")), Replacement: wild("_x")},
	{Name: "sub-zero", Pattern: bin2("-", wild("_x"), num(0)), Replacement: wild("_x")},
	{Name: "sub-self", Pattern: bin2("-", wild("_x"), wild("_x")), Replacement: num(0)},
	{Name: "mul-zero-r", Pattern: bin2("*", wild("_x"), num(0)), Replacement: num(0)},
	{Name: "mul-zero-l", Pattern: bin2("*", num(0), wild("_x")), Replacement: num(0)},
	{Name: "mul-one-r", Pattern: bin2("*", wild("_x"), num(1)), Replacement: wild("_x")},
	{Name: "mul-one-l", Pattern: bin2("*", num(1), wild("_x")), Replacement: wild("_x")},
	{Name: "div-one", Pattern: bin2("/", wild("_x"), num(1)), Replacement: wild("_x")},
	{Name: "div-self", Pattern: bin2("/", wild("_x"), wild("_x")), Replacement: num(1), Condition: nonzero("_x")},
	{Name: "pow-zero", Pattern: bin2("^", wild("_x"), num(0)), Replacement: num(1)},
	{Name: "pow-one", Pattern: bin2("^", wild("_x"), num(1)), Replacement: wild("_x")},
	{Name: "neg-neg", Pattern: unary("neg", unary("neg", wild("_x"))), Replacement: wild("_x")},
}

func bin2(op string, a, b *container.Expression) *container.Expression {
	return &container.Expression{Op: op, Args: []*container.Expression{a, b}}
}

func unary(op string, a *container.Expression) *container.Expression {
	return &container.Expression{Op: op, Args: []*container.Expression{a}}
}
