/*
 * db48x - command-line editor history ring.
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

// editorRingSize bounds the edit history to the last eight completed
// command lines.
const editorRingSize = 8

// EditorRing keeps the most recent completed command-line edits and a
// navigation cursor. The console reader records each accepted line; the
// cursor moves with Previous/Next the way an up/down history key would.
type EditorRing struct {
	entries []string
	cursor  int // index into entries; len(entries) means "past the end"
}

// Record appends a completed edit, evicting the oldest past the ring
// size, and resets the cursor past the newest entry.
func (e *EditorRing) Record(line string) {
	if line == "" {
		return
	}
	e.entries = append(e.entries, line)
	if len(e.entries) > editorRingSize {
		e.entries = e.entries[len(e.entries)-editorRingSize:]
	}
	e.cursor = len(e.entries)
}

// Previous steps the cursor back one edit and returns it; ok is false
// at the oldest entry.
func (e *EditorRing) Previous() (string, bool) {
	if e.cursor == 0 {
		return "", false
	}
	e.cursor--
	return e.entries[e.cursor], true
}

// Next steps the cursor forward; ok is false once past the newest.
func (e *EditorRing) Next() (string, bool) {
	if e.cursor >= len(e.entries)-1 {
		e.cursor = len(e.entries)
		return "", false
	}
	e.cursor++
	return e.entries[e.cursor], true
}

// Entries exposes the current ring contents, oldest first.
func (e *EditorRing) Entries() []string {
	out := make([]string, len(e.entries))
	copy(out, e.entries)
	return out
}
