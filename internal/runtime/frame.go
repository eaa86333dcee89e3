/*
 * db48x - return stack and local-variable frames.
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

// frame is one entry of the return stack: the local-variable map
// a LocalBind or for-loop pushed, visible to lexical lookup ahead of the
// directory chain until the frame is popped.
type frame struct {
	names  []string
	values []object.Value
}

func (f *frame) lookup(name string) (object.Value, bool) {
	// Rightmost binding wins on a repeated name, matching the rightmost
	// stack position a name would have been popped from.
	for i := len(f.names) - 1; i >= 0; i-- {
		if f.names[i] == name {
			return f.values[i], true
		}
	}
	return nil, false
}

// frames is the return stack proper: a LIFO of frame, searched
// top-down so an inner local shadows an outer one sharing a name.
type frames struct {
	stack []*frame
}

func (fs *frames) push(names []string, values []object.Value) func() {
	f := &frame{names: names, values: values}
	fs.stack = append(fs.stack, f)
	return func() {
		n := len(fs.stack)
		fs.stack = fs.stack[:n-1]
	}
}

func (fs *frames) lookup(name string) (object.Value, bool) {
	for i := len(fs.stack) - 1; i >= 0; i-- {
		if v, ok := fs.stack[i].lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (fs *frames) depth() int { return len(fs.stack) }
