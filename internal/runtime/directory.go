/*
 * db48x - directory store.
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
	"sort"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
	"github.com/dm48x/rpl/util/debug"
)

// reservedNames must hold the type their use implies;
// Store type-checks against this table before binding.
var reservedNames = map[string]func(object.Value) bool{
	"EQ":          func(v object.Value) bool { return v.Tag() == object.TagExpression || v.Tag() == object.TagProgram },
	"ΣData":       func(v object.Value) bool { return v.Tag() == object.TagArray },
	"ΣParameters": func(v object.Value) bool { return v.Tag() == object.TagList },
	"PPAR":        func(v object.Value) bool { return v.Tag() == object.TagList },
}

// directory is one node of the directory tree: an ordered symbol->Ref
// mapping plus a parent index into Tree.nodes. Bindings are arena Refs,
// not Go pointers, so a collection relocating the bound objects only
// has to rewrite this map; parent links are indices into Tree.nodes for
// the same reason.
type directory struct {
	name   string
	parent int // -1 for Home
	order  []string
	vals   map[string]arena.Ref
}

func newDirectory(name string, parent int) *directory {
	return &directory{name: name, parent: parent, vals: map[string]arena.Ref{}}
}

func (d *directory) set(heap *arena.Arena, name string, v object.Value) {
	if _, exists := d.vals[name]; !exists {
		d.order = append(d.order, name)
	}
	d.vals[name] = heap.Alloc(v)
}

func (d *directory) get(heap *arena.Arena, name string) (object.Value, bool) {
	r, ok := d.vals[name]
	if !ok {
		return nil, false
	}
	v, _ := heap.Get(r).(object.Value)
	return v, true
}

func (d *directory) purge(name string) bool {
	if _, ok := d.vals[name]; !ok {
		return false
	}
	delete(d.vals, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Tree is the whole directory forest: node 0 is always Home. current
// indexes the active directory; Path walks current up to 0 via parent
// links.
type Tree struct {
	heap    *arena.Arena
	nodes   []*directory
	current int
}

// NewTree creates a store with only Home, empty, binding into heap.
func NewTree(heap *arena.Arena) *Tree {
	return &Tree{heap: heap, nodes: []*directory{newDirectory("HOME", -1)}, current: 0}
}

// Walk implements arena.Root: every binding in every directory is a
// live Ref the collector must mark and, on compaction, rewrite.
func (t *Tree) Walk(visit func(arena.Ref) arena.Ref) {
	for _, d := range t.nodes {
		for name, r := range d.vals {
			d.vals[name] = visit(r)
		}
	}
}

func (t *Tree) cur() *directory { return t.nodes[t.current] }

// Lookup walks current -> ... -> Home.
func (t *Tree) Lookup(name string) (object.Value, bool) {
	for i := t.current; i >= 0; {
		if v, ok := t.nodes[i].get(t.heap, name); ok {
			return v, true
		}
		i = t.nodes[i].parent
	}
	return nil, false
}

// Store binds name in the current directory, after a reserved-name type
// check.
func (t *Tree) Store(name string, v object.Value) *object.Error {
	if check, ok := reservedNames[name]; ok && !check(v) {
		return object.NewError(object.ErrBadArgType, "%s requires a different type", name).WithCulprit(v)
	}
	t.cur().set(t.heap, name, v)
	debug.Tracef(debug.Directory, "store %s in %s", name, t.cur().name)
	return nil
}

// Purge removes name from the current directory. Purging a directory
// name while it sits on the active path is rejected.
func (t *Tree) Purge(name string) *object.Error {
	if !t.cur().purge(name) {
		return object.NewError(object.ErrUndefinedName, "%s", name)
	}
	return nil
}

// PurgeAll (PGALL) purges name from current and every directory nested
// under it, found by scanning nodes for a parent chain back to current
// (the forest records parent links, not child lists, so descending
// means searching rather than following a pointer).
func (t *Tree) PurgeAll(name string) *object.Error {
	found := false
	if t.cur().purge(name) {
		found = true
	}
	for i, d := range t.nodes {
		if i == t.current {
			continue
		}
		if t.isDescendant(i, t.current) && d.purge(name) {
			found = true
		}
	}
	if !found {
		return object.NewError(object.ErrUndefinedName, "%s", name)
	}
	return nil
}

// isDescendant reports whether node is nested under ancestor via parent
// links.
func (t *Tree) isDescendant(node, ancestor int) bool {
	for i := t.nodes[node].parent; i >= 0; i = t.nodes[i].parent {
		if i == ancestor {
			return true
		}
	}
	return false
}

// CreateDir (CRDIR) adds a child directory under current and switches
// into it.
func (t *Tree) CreateDir(name string) {
	t.nodes = append(t.nodes, newDirectory(name, t.current))
	t.current = len(t.nodes) - 1
}

// UpDir (UPDIR) moves current to its parent, unless it is already Home.
func (t *Tree) UpDir() *object.Error {
	if t.current == 0 {
		return object.NewError(object.ErrDirectory, "already at HOME")
	}
	t.current = t.cur().parent
	return nil
}

// Home (HOME) resets current to the root directory.
func (t *Tree) Home() { t.current = 0 }

// Path (PATH) returns the ancestor chain from Home down to current.
func (t *Tree) Path() []string {
	var rev []string
	for i := t.current; i >= 0; i = t.nodes[i].parent {
		rev = append(rev, t.nodes[i].name)
	}
	out := make([]string, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// Vars (VARS) lists the names bound in current, insertion order.
func (t *Tree) Vars() []string {
	out := make([]string, len(t.cur().order))
	copy(out, t.cur().order)
	return out
}

// TVars (TVARS) filters Vars by tag.
func (t *Tree) TVars(tag object.Tag) []string {
	var out []string
	for _, n := range t.cur().order {
		if v, ok := t.cur().get(t.heap, n); ok && v.Tag() == tag {
			out = append(out, n)
		}
	}
	return out
}

// Clone (CLONE) deep-copies the bindings of current into a sibling
// directory; the duplicate is not entered. Each binding gets a fresh
// arena slot so the two directories never share a Ref.
func (t *Tree) Clone(name string) {
	src := t.cur()
	dup := newDirectory(name, src.parent)
	for _, n := range src.order {
		if v, ok := src.get(t.heap, n); ok {
			dup.set(t.heap, n, v)
		}
	}
	t.nodes = append(t.nodes, dup)
}

// SortedVars returns Vars() in lexical order, used by listing commands
// that want a stable display independent of insertion history.
func (t *Tree) SortedVars() []string {
	out := t.Vars()
	sort.Strings(out)
	return out
}
