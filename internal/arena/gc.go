/*
 * db48x - Mark-and-compact collection.
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

package arena

import "github.com/dm48x/rpl/util/debug"

// Collect runs one full, non-incremental mark-and-compact pass. roots are
// walked first (runtime.Runtime.Roots passes the data stack and the
// directory tree); every Ref reachable from a root or from a
// registered Handle survives. Survivors slide down to the low end of the
// slot array in their original relative order (stable compaction), and
// every surviving Ref — inside objects,
// inside roots, inside handles — is rewritten to its post-compaction
// value. Collect must not be called while unregistered Go pointers into
// arena objects are held across the call; the caller is responsible for
// only invoking it at a safepoint.
func (a *Arena) Collect(roots []Root) {
	reachable := make(map[Ref]bool, len(a.slots))

	var mark func(Ref) Ref
	mark = func(r Ref) Ref {
		if r == Nil || reachable[r] {
			return r
		}
		reachable[r] = true
		if obj := a.slots[int(r)-1].obj; obj != nil {
			obj.Walk(mark)
		}
		return r
	}

	for _, root := range roots {
		root.Walk(mark)
	}
	for _, h := range a.handles {
		*h = mark(*h)
	}

	// Compute the old->new slot remap, preserving relative order.
	remap := make(map[Ref]Ref, len(reachable))
	newSlots := make([]slot, 0, len(reachable))
	for i, s := range a.slots {
		old := Ref(i + 1)
		if !s.live || !reachable[old] {
			continue
		}
		newSlots = append(newSlots, s)
		remap[old] = Ref(len(newSlots))
	}

	rewrite := func(r Ref) Ref {
		if r == Nil {
			return Nil
		}
		return remap[r]
	}

	for _, s := range newSlots {
		s.obj.Walk(rewrite)
	}
	for _, root := range roots {
		root.Walk(rewrite)
	}
	for _, h := range a.handles {
		*h = rewrite(*h)
	}

	a.Stats.Collections++
	a.Stats.LastFreed = len(a.slots) - len(newSlots)
	a.Stats.LastSurvivors = len(newSlots)

	a.slots = newSlots
	a.tip = len(a.slots)

	debug.Tracef(debug.Arena, "gc #%d: %d freed, %d survivors", a.Stats.Collections, a.Stats.LastFreed, a.Stats.LastSurvivors)
}
