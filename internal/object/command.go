/*
 * db48x - built-in command dispatch table.
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

package object

import "github.com/dm48x/rpl/internal/arena"

// CommandID selects which builtin a Command value names. Every builtin
// shares one Tag (TagCommand, tag.go) and is distinguished by this
// sub-discriminator, keeping the tag enumeration closed while the
// builtin set stays open.
type CommandID uint16

// Command is the Value wrapping a CommandID: the object pushed on the
// stack when a builtin name like "SIN" or "+" is looked up and not
// immediately invoked (quoted inside a program).
type Command struct {
	ID CommandID
}

func (c *Command) Size() int                            { return 4 }
func (c *Command) Walk(visit func(arena.Ref) arena.Ref) {}
func (c *Command) Tag() Tag                             { return TagCommand }

func (c *Command) Render(p *Printer) {
	if fn, ok := commandTable[c.ID]; ok {
		p.WriteString(fn.Name)
		return
	}
	p.WriteString("unknown-command")
}

func (c *Command) Evaluate(m Machine) *Error {
	fn, ok := commandTable[c.ID]
	if !ok {
		return m.Raise(ErrInternal, "unresolved command id %d", c.ID)
	}
	if rec, ok := m.(ArgRecorder); ok {
		rec.BeginCapture()
		defer rec.EndCapture()
	}
	return fn.Exec(m)
}

func (c *Command) Graph(cv *Canvas, p *Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

// Builtin describes one entry in the command dispatch table: its source
// name (for parsing and rendering) and the function invoked when a
// machine executes it. The table is keyed by CommandID rather than a
// fixed-size opcode array because the builtin count is open-ended and
// assigned by registration order.
type Builtin struct {
	Name string
	Exec func(m Machine) *Error
}

var (
	commandTable            = map[CommandID]Builtin{}
	commandByName           = map[string]CommandID{}
	nextCommandID CommandID = 1
)

// RegisterCommand adds a builtin to the dispatch table and returns its
// assigned id. Packages that implement builtins (object, container,
// algebra, library, runtime) call this from an init function, populating the
// dispatch table once at package load rather than via a giant switch
// statement.
func RegisterCommand(name string, exec func(m Machine) *Error) CommandID {
	if id, ok := commandByName[name]; ok {
		commandTable[id] = Builtin{Name: name, Exec: exec}
		return id
	}
	id := nextCommandID
	nextCommandID++
	commandTable[id] = Builtin{Name: name, Exec: exec}
	commandByName[name] = id
	return id
}

// LookupCommand resolves a source name to a CommandID, as used by the
// parser and by directory fallback lookup.
func LookupCommand(name string) (CommandID, bool) {
	id, ok := commandByName[name]
	return id, ok
}

// CommandName returns the source name for id, or "" if unregistered.
func CommandName(id CommandID) string {
	if fn, ok := commandTable[id]; ok {
		return fn.Name
	}
	return ""
}

// CommandNames lists every registered builtin name, for completion and
// catalog-style listings.
func CommandNames() []string {
	out := make([]string, 0, len(commandByName))
	for name := range commandByName {
		out = append(out, name)
	}
	return out
}
