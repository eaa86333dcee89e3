/*
 * db48x - rewrite rules and the auto-simplify driver.
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
	"github.com/dm48x/rpl/util/debug"
)

// Rule is a `{pattern replacement [condition]}` rewrite rule: any
// subtree matching Pattern is replaced by Replacement with its
// wildcards substituted, provided Condition (if set) accepts the
// bindings. Condition lets a rule like "_x^0 -> 1" stay false-free
// while a rule like "_x/_x -> 1" could add a nonzero-check without a
// separate rule variant.
type Rule struct {
	Name        string
	Pattern     *container.Expression
	Replacement *container.Expression
	Condition   func(Bindings) bool
}

// apply tries r against expr and returns the rewritten tree, or nil if
// r does not match (or its condition rejects the match).
func (r Rule) apply(expr *container.Expression) *container.Expression {
	bindings, ok := Match(r.Pattern, expr)
	if !ok {
		return nil
	}
	if r.Condition != nil && !r.Condition(bindings) {
		return nil
	}
	return instantiate(r.Replacement, bindings)
}

// rewriteOnce walks expr bottom-up, applying the first matching rule in
// rules at each node (children are normalized before their parent, so a
// rule written for "_x+0" also fires after a child simplifies down to
// the literal 0). Returns the new tree and whether anything changed.
func rewriteOnce(expr *container.Expression, rules []Rule) (*container.Expression, bool) {
	if expr == nil || expr.Leaf != nil {
		return expr, false
	}

	changed := false
	args := make([]*container.Expression, len(expr.Args))
	for i, a := range expr.Args {
		na, ch := rewriteOnce(a, rules)
		args[i] = na
		changed = changed || ch
	}
	node := expr
	if changed {
		node = &container.Expression{Op: expr.Op, Args: args}
	}

	if folded, ok := foldConstants(node); ok {
		return folded, true
	}

	for _, r := range rules {
		if rewritten := r.apply(node); rewritten != nil {
			return rewritten, true
		}
	}
	return node, changed
}

// Rewrite applies rules to expr repeatedly until no rule fires or
// limit passes have run (a runaway rule set — e.g. one that rewrites
// a form back into itself — must not loop forever).
func Rewrite(expr *container.Expression, rules []Rule, limit int) *container.Expression {
	cur := expr
	passes := 0
	for i := 0; i < limit; i++ {
		next, changed := rewriteOnce(cur, rules)
		cur = next
		if !changed {
			break
		}
		passes++
	}
	debug.Tracef(debug.Algebra, "rewrite: %d passes against %d rules", passes, len(rules))
	return cur
}

// Simplify runs expr through the standard AutoSimplify rule set to a
// fixed point. Expression evaluation does not call it; it is exposed
// directly as the `simplify` command.
func Simplify(expr *container.Expression) *container.Expression {
	return Rewrite(expr, AutoSimplifyRules, 64)
}
