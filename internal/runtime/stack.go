/*
 * db48x - data stack, LastArgs, and Undo.
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

package runtime

import (
	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Stack is the data stack: a LIFO of arena Refs, newest last. Values
// enter the arena here, at the moment they become reachable from a
// root; Pop resolves the Ref back to its object and drops the slot,
// which the next collection reclaims. Walk implements arena.Root so
// Collect marks every live entry and rewrites the Refs in place when
// survivors move.
type Stack struct {
	heap *arena.Arena
	refs []arena.Ref
}

// Bind attaches the arena the refs point into; NewRuntime calls it
// once, before the first Push.
func (s *Stack) Bind(heap *arena.Arena) { s.heap = heap }

// Walk visits every stack slot's Ref and replaces it with whatever the
// visitor returns, serving both the mark and the rewrite phase.
func (s *Stack) Walk(visit func(arena.Ref) arena.Ref) {
	for i, r := range s.refs {
		s.refs[i] = visit(r)
	}
}

func (s *Stack) resolve(r arena.Ref) object.Value {
	v, _ := s.heap.Get(r).(object.Value)
	return v
}

func (s *Stack) Push(v object.Value) { s.refs = append(s.refs, s.heap.Alloc(v)) }

func (s *Stack) Pop() (object.Value, bool) {
	n := len(s.refs)
	if n == 0 {
		return nil, false
	}
	v := s.resolve(s.refs[n-1])
	s.refs = s.refs[:n-1]
	return v, true
}

// Peek returns the item depth below the top (0 = top itself).
func (s *Stack) Peek(depth int) (object.Value, bool) {
	n := len(s.refs)
	i := n - 1 - depth
	if i < 0 || i >= n {
		return nil, false
	}
	return s.resolve(s.refs[i]), true
}

func (s *Stack) Depth() int { return len(s.refs) }

// Drop removes n items from the top; it is an error (reported by the
// caller) to drop more than Depth().
func (s *Stack) Drop(n int) bool {
	if n > len(s.refs) {
		return false
	}
	s.refs = s.refs[:len(s.refs)-n]
	return true
}

// Clear empties the stack, as ClearStk requires.
func (s *Stack) Clear() { s.refs = s.refs[:0] }

// Snapshot resolves the current contents for Undo capture. The
// snapshot holds resolved objects rather than Refs, so it stays valid
// across collections without needing to be a root of its own; Restore
// re-allocates each entry.
func (s *Stack) Snapshot() []object.Value {
	out := make([]object.Value, len(s.refs))
	for i, r := range s.refs {
		out[i] = s.resolve(r)
	}
	return out
}

// Restore replaces the stack contents wholesale, used by `Undo`.
func (s *Stack) Restore(items []object.Value) {
	s.refs = s.refs[:0]
	for _, v := range items {
		s.Push(v)
	}
}

// Items resolves the whole stack, bottom first, for VARS-style
// introspection and REPL display.
func (s *Stack) Items() []object.Value { return s.Snapshot() }
