/*
 * db48x - attached-library resolution.
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

import "github.com/dm48x/rpl/internal/object"

// Library is satisfied by internal/library's tables (constants,
// equations, xlibs): a named, ordered collection the evaluator falls
// back to once the frame chain and directory tree have failed to
// resolve a symbol — `c` names the speed of light only when no local
// `c` shadows it. Defined here, not in internal/library, so that
// runtime stays the consumer and never imports the table package,
// matching the same inversion object.Machine uses towards runtime.
type Library interface {
	Name() string
	Lookup(name string) (object.Value, bool)
}

// Attach adds lib to the end of the attached list (highest resolution
// priority), implementing the `Attach` operation.
func (r *Runtime) Attach(lib Library) { r.attached = append(r.attached, lib) }

// Detach removes the most recently attached library named name, if any,
// implementing `Detach`.
func (r *Runtime) Detach(name string) bool {
	for i := len(r.attached) - 1; i >= 0; i-- {
		if r.attached[i].Name() == name {
			r.attached = append(r.attached[:i], r.attached[i+1:]...)
			return true
		}
	}
	return false
}

// AttachedLibraries lists currently attached library names, most
// recently attached first (matching Lookup's resolution order).
func (r *Runtime) AttachedLibraries() []string {
	out := make([]string, len(r.attached))
	for i, lib := range r.attached {
		out[len(r.attached)-1-i] = lib.Name()
	}
	return out
}
