/*
 * db48x - integer constant folding for the simplifier.
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
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

// asInt reports whether e is a bare Integer leaf, and its value.
func asInt(e *container.Expression) (*numeric.BigInt, bool) {
	if e == nil || e.Leaf == nil {
		return nil, false
	}
	n, ok := e.Leaf.(*object.Integer)
	if !ok {
		return nil, false
	}
	return n.V, true
}

// foldConstants collapses a binary node whose two operands are both
// literal integers into the single literal integer result, so a rule
// like "x^(2-1)" reaches "x^1" and then "pow-one" can fire. Arbitrary
// exponents are not attempted; only small non-negative ones a
// calculator would actually see in a derivative/primitive result.
func foldConstants(node *container.Expression) (*container.Expression, bool) {
	if node == nil || node.Leaf != nil || len(node.Args) != 2 {
		return node, false
	}
	a, aok := asInt(node.Args[0])
	b, bok := asInt(node.Args[1])
	if !aok || !bok {
		return node, false
	}
	switch node.Op {
	case "+":
		return &container.Expression{Leaf: &object.Integer{V: numeric.Add(a, b)}}, true
	case "-":
		return &container.Expression{Leaf: &object.Integer{V: numeric.Sub(a, b)}}, true
	case "*":
		return &container.Expression{Leaf: &object.Integer{V: numeric.Mul(a, b)}}, true
	case "^":
		if numeric.Cmp(b, numeric.FromInt64(0)) < 0 || numeric.Cmp(b, numeric.FromInt64(64)) > 0 {
			return node, false
		}
		result := numeric.FromInt64(1)
		exp := b.ToInt64()
		for i := int64(0); i < exp; i++ {
			result = numeric.Mul(result, a)
		}
		return &container.Expression{Leaf: &object.Integer{V: result}}, true
	}
	return node, false
}
