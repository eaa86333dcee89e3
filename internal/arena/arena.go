/*
 * db48x - RPL runtime arena and compacting collector.
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

// Package arena implements the single bump-allocated, mark-and-compact
// managed region that every RPL object lives in. Objects never reference
// each other with Go pointers; they hold Refs, small integer handles the
// collector is free to renumber when it slides survivors down. This is the
// moving-collector half of the "everything is a self-contained byte
// sequence" invariant from the object model: nothing outside this package
// may retain a Go pointer to an object across a safepoint.
package arena

import "fmt"

// Ref is a logical reference to a live object, playing the role of an
// arena byte offset without committing the implementation to a literal
// byte-packed layout: the collector is still free to relocate the
// object a Ref designates, and every Ref in the system is rewritten
// when that happens.
type Ref uint32

// Nil is the reference held by an empty slot (an unbound local, an absent
// optional child, the parent link of the Home directory).
const Nil Ref = 0

// Object is satisfied by every value the arena can hold. Size reports an
// accounting footprint (used for the allocation budget and OOM decisions);
// Walk visits every child Ref the object holds and replaces it with
// whatever the visitor returns. The same method drives both GC marking
// (the visitor records reachability and returns its argument unchanged)
// and compaction (the visitor maps an old slot index to its new one).
type Object interface {
	Size() int
	Walk(visit func(Ref) Ref)
}

// Root is implemented by every external owner of Refs into the arena;
// runtime.Runtime.Roots supplies two, the data stack and the directory
// tree. Collect calls Walk
// on every registered Root exactly like it does on arena objects, so a
// root's Refs are marked and rewritten by the same code path.
type Root interface {
	Walk(visit func(Ref) Ref)
}

type slot struct {
	obj  Object
	live bool
}

// Stats summarizes the last collection, surfaced through the runtime's
// settings/diagnostics surface.
type Stats struct {
	Collections   int
	LastFreed     int
	LastSurvivors int
}

// Arena is the single process-wide managed heap. The zero value is not
// ready for use; call New.
type Arena struct {
	slots   []slot
	tip     int // index of the next free slot (the "high-water mark")
	limit   int // slot count that triggers a collection request
	handles []*Ref
	Stats   Stats
}

// New creates an arena whose bump allocator requests a collection once it
// has produced limit live objects. limit is advisory: Alloc never fails by
// itself, it only reports NeedsGC() so a safepoint can decide to collect.
func New(limit int) *Arena {
	if limit <= 0 {
		limit = 1 << 16
	}
	return &Arena{slots: make([]slot, 0, 256), limit: limit}
}

// Alloc bump-allocates a new slot for obj and returns its Ref. This is the
// only way a Ref comes into existence.
func (a *Arena) Alloc(obj Object) Ref {
	a.slots = append(a.slots, slot{obj: obj, live: true})
	a.tip = len(a.slots)
	return Ref(a.tip) // 1-based so the zero Ref can mean Nil
}

// Get dereferences a Ref. It panics on a stale or out-of-range Ref,
// which can only happen if a caller held a Ref across a collection
// without registering it as a Handle or Root — exactly the raw-pointer
// discipline violation a moving collector cannot tolerate.
func (a *Arena) Get(r Ref) Object {
	if r == Nil {
		return nil
	}
	i := int(r) - 1
	if i < 0 || i >= len(a.slots) || !a.slots[i].live {
		panic(fmt.Sprintf("arena: dereference of stale or invalid ref %d", r))
	}
	return a.slots[i].obj
}

// Tip reports the current high-water mark (number of live+dead slots).
func (a *Arena) Tip() int { return a.tip }

// NeedsGC reports whether the bump tip has crossed the advisory limit; the
// evaluator checks this at safepoints and may run Collect.
func (a *Arena) NeedsGC() bool { return len(a.slots) >= a.limit }

// Acquire registers a GC-safe handle around ref: for as long as the handle
// is live, Collect will keep *ref up to date even if the object it names
// moves. Handles form a strictly nested (LIFO) stack, matching a scoped
// acquire/release discipline; Release must be called in the reverse order
// of Acquire, including on error-unwind paths (defer is the idiomatic way
// to guarantee that in Go).
func (a *Arena) Acquire(ref *Ref) { a.handles = append(a.handles, ref) }

// Release pops the most recently acquired handle. It panics if ref is
// not the top of the handle stack, a handle-depth assertion that
// catches scopes acquiring and releasing out of order.
func (a *Arena) Release(ref *Ref) {
	n := len(a.handles)
	if n == 0 || a.handles[n-1] != ref {
		panic("arena: handle released out of nesting order")
	}
	a.handles = a.handles[:n-1]
}

// HandleDepth reports the number of currently registered handles; tests
// assert it returns to zero at frame boundaries.
func (a *Arena) HandleDepth() int { return len(a.handles) }
