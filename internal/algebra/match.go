/*
 * db48x - pattern matching over expression trees.
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

// Package algebra implements the rewrite engine: pattern matching
// with wildcards, a rule-driven rewrite/auto-simplify pass over
// container.Expression trees, isolate (solve for a variable), and the
// symbolic derivative/primitive/substitution operators. Everything is
// a decode-then-dispatch walk: match a shape, look up what to do with
// it.
package algebra

import (
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/object"
)

// Bindings records which wildcard name matched which subtree, built up
// by match and consulted by instantiate when building a rule's
// replacement.
type Bindings map[string]*container.Expression

// isWildcard reports whether a leaf symbol name is a pattern variable
// rather than a literal symbol the pattern must match verbatim. By
// convention a wildcard name starts with an underscore, e.g. "_x",
// "_y" — chosen so ordinary variable names (x, Ek, ΣData) never
// accidentally act as wildcards inside a rule's own definition.
func isWildcard(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// match attempts to unify pattern against expr, extending bindings in
// place. A wildcard already bound to a different subtree fails the
// match (non-linear patterns like _x+_x must see the same _x twice).
func match(pattern, expr *container.Expression, bindings Bindings) bool {
	if pattern == nil || expr == nil {
		return pattern == expr
	}

	if sym, ok := leafSymbol(pattern); ok && isWildcard(sym) {
		if bound, seen := bindings[sym]; seen {
			return Equal(bound, expr)
		}
		bindings[sym] = expr
		return true
	}

	if pattern.Leaf != nil || expr.Leaf != nil {
		if pattern.Leaf == nil || expr.Leaf == nil {
			return false
		}
		return Equal(pattern, expr)
	}

	if pattern.Op != expr.Op || len(pattern.Args) != len(expr.Args) {
		return false
	}
	for i := range pattern.Args {
		if !match(pattern.Args[i], expr.Args[i], bindings) {
			return false
		}
	}
	return true
}

// Match is the exported entry point: it reports whether expr has the
// shape of pattern and, if so, the wildcard bindings that make it so.
func Match(pattern, expr *container.Expression) (Bindings, bool) {
	b := Bindings{}
	if match(pattern, expr, b) {
		return b, true
	}
	return nil, false
}

// instantiate rebuilds a replacement tree, substituting each wildcard
// leaf for its bound subtree.
func instantiate(tmpl *container.Expression, bindings Bindings) *container.Expression {
	if tmpl == nil {
		return nil
	}
	if sym, ok := leafSymbol(tmpl); ok && isWildcard(sym) {
		if bound, found := bindings[sym]; found {
			return bound
		}
		return tmpl
	}
	if tmpl.Leaf != nil {
		return tmpl
	}
	args := make([]*container.Expression, len(tmpl.Args))
	for i, a := range tmpl.Args {
		args[i] = instantiate(a, bindings)
	}
	return &container.Expression{Op: tmpl.Op, Args: args}
}

func leafSymbol(e *container.Expression) (string, bool) {
	if e == nil || e.Leaf == nil {
		return "", false
	}
	sym, ok := e.Leaf.(*object.Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}
