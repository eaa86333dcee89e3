/*
 * db48x - directory, stack, error, and flag builtins.
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
	"strings"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/object"
)

// nameOf extracts a directory-entry name from a value the parser could
// have produced for one: a bare symbol ('NAME evaluated as a quoted
// argument, so it arrives as *object.Symbol) or a text literal.
func nameOf(v object.Value) (string, bool) {
	switch t := v.(type) {
	case *object.Symbol:
		return t.Name, true
	case *container.Text:
		return t.S, true
	}
	return "", false
}

// dirMachine is the capability interface directory/flags/errm commands
// type-assert the Machine argument against, since object.Machine itself
// only names the five uniform operations plus stack/lookup — exactly
// the same pattern container.IfErrNode uses for SetLastError.
type dirMachine interface {
	dirs() *Tree
	flagsOf() *Flags
	settingsOf() *Settings
}

func (r *Runtime) dirs() *Tree           { return r.Dirs }
func (r *Runtime) flagsOf() *Flags       { return r.Flags }
func (r *Runtime) settingsOf() *Settings { return &r.Settings }

func asDirMachine(m object.Machine) (dirMachine, *object.Error) {
	dm, ok := m.(dirMachine)
	if !ok {
		return nil, m.Raise(object.ErrInternal, "directory operations require a runtime.Runtime")
	}
	return dm, nil
}

func init() {
	object.RegisterCommand("STO", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		val, err := m.Pop()
		if err != nil {
			m.Push(name)
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(val)
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "STO expects a name")
		}
		return m.Store(n, val)
	})

	object.RegisterCommand("RCL", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "RCL expects a name")
		}
		v, ok := m.Lookup(n)
		if !ok {
			// Settings are recallable as variables.
			if dm, derr := asDirMachine(m); derr == nil {
				if sv, sok := settingValue(dm.settingsOf(), n); sok {
					m.Push(sv)
					return nil
				}
			}
			m.Push(name)
			return m.Raise(object.ErrUndefinedName, "%s", n)
		}
		m.Push(v)
		return nil
	})

	object.RegisterCommand("PURGE", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "PURGE expects a name")
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		if err := dm.dirs().Purge(n); err != nil {
			// purge(name) on a settings name restores its default.
			if purgeSetting(dm.settingsOf(), n) {
				return nil
			}
			return err
		}
		return nil
	})

	object.RegisterCommand("PGALL", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "PGALL expects a name")
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		return dm.dirs().PurgeAll(n)
	})

	registerStoOp := func(op string, cmdName string) {
		object.RegisterCommand(cmdName, func(m object.Machine) *object.Error {
			name, err := m.Pop()
			if err != nil {
				return err
			}
			delta, err := m.Pop()
			if err != nil {
				m.Push(name)
				return err
			}
			n, ok := nameOf(name)
			if !ok {
				m.Push(delta)
				m.Push(name)
				return m.Raise(object.ErrBadArgType, "%s expects a name", cmdName)
			}
			cur, ok := m.Lookup(n)
			if !ok {
				return m.Raise(object.ErrUndefinedName, "%s", n)
			}
			id, ok := object.LookupCommand(op)
			if !ok {
				return m.Raise(object.ErrInternal, "operator %s not registered", op)
			}
			m.Push(cur)
			m.Push(delta)
			if err := (&object.Command{ID: id}).Evaluate(m); err != nil {
				return err
			}
			result, err := m.Pop()
			if err != nil {
				return err
			}
			return m.Store(n, result)
		})
	}
	registerStoOp("+", "STO+")
	registerStoOp("-", "STO-")
	registerStoOp("*", "STO*")
	registerStoOp("/", "STO/")
	registerStoOp("*", "STO×")
	registerStoOp("/", "STO÷")

	object.RegisterCommand("INCR", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "INCR expects a name")
		}
		cur, ok := m.Lookup(n)
		if !ok {
			return m.Raise(object.ErrUndefinedName, "%s", n)
		}
		m.Push(cur)
		m.Push(&object.Integer{V: numericOne()})
		id, _ := object.LookupCommand("+")
		if err := (&object.Command{ID: id}).Evaluate(m); err != nil {
			return err
		}
		result, err := m.Pop()
		if err != nil {
			return err
		}
		if serr := m.Store(n, result); serr != nil {
			return serr
		}
		m.Push(result)
		return nil
	})

	object.RegisterCommand("DECR", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "DECR expects a name")
		}
		cur, ok := m.Lookup(n)
		if !ok {
			return m.Raise(object.ErrUndefinedName, "%s", n)
		}
		m.Push(cur)
		m.Push(&object.Integer{V: numericOne()})
		id, _ := object.LookupCommand("-")
		if err := (&object.Command{ID: id}).Evaluate(m); err != nil {
			return err
		}
		result, err := m.Pop()
		if err != nil {
			return err
		}
		if serr := m.Store(n, result); serr != nil {
			return serr
		}
		m.Push(result)
		return nil
	})

	object.RegisterCommand("CRDIR", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "CRDIR expects a name")
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		dm.dirs().CreateDir(n)
		return nil
	})

	object.RegisterCommand("UPDIR", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		return dm.dirs().UpDir()
	})

	object.RegisterCommand("HOME", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		dm.dirs().Home()
		return nil
	})

	object.RegisterCommand("PATH", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		path := dm.dirs().Path()
		items := make([]object.Value, len(path))
		for i, n := range path {
			items[i] = &object.Symbol{Name: n}
		}
		m.Push(&container.List{Items: items})
		return nil
	})

	object.RegisterCommand("VARS", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		names := dm.dirs().Vars()
		items := make([]object.Value, len(names))
		for i, n := range names {
			items[i] = &object.Symbol{Name: n}
		}
		m.Push(&container.List{Items: items})
		return nil
	})

	object.RegisterCommand("TVARS", func(m object.Machine) *object.Error {
		arg, err := m.Pop()
		if err != nil {
			return err
		}
		tags, terr := tagFilter(m, arg)
		if terr != nil {
			return terr
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		var items []object.Value
		for _, tag := range tags {
			for _, n := range dm.dirs().TVars(tag) {
				items = append(items, &object.Symbol{Name: n})
			}
		}
		m.Push(&container.List{Items: items})
		return nil
	})

	object.RegisterCommand("CLONE", func(m object.Machine) *object.Error {
		name, err := m.Pop()
		if err != nil {
			return err
		}
		n, ok := nameOf(name)
		if !ok {
			m.Push(name)
			return m.Raise(object.ErrBadArgType, "CLONE expects a name")
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		dm.dirs().Clone(n)
		return nil
	})

	object.RegisterCommand("DEPTH", func(m object.Machine) *object.Error {
		m.Push(&object.Integer{V: numericFromInt(m.Depth())})
		return nil
	})

	object.RegisterCommand("CLEARSTK", func(m object.Machine) *object.Error {
		rt, ok := m.(*Runtime)
		if !ok {
			return m.Raise(object.ErrInternal, "CLEARSTK requires a runtime.Runtime")
		}
		rt.Stack.Clear()
		return nil
	})

	object.RegisterCommand("DUP", func(m object.Machine) *object.Error {
		v, err := m.Peek(0)
		if err != nil {
			return err
		}
		m.Push(v)
		return nil
	})

	object.RegisterCommand("DROP", func(m object.Machine) *object.Error {
		_, err := m.Pop()
		return err
	})

	object.RegisterCommand("SWAP", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		m.Push(b)
		m.Push(a)
		return nil
	})

	object.RegisterCommand("ROT", func(m object.Machine) *object.Error {
		c, err := m.Pop()
		if err != nil {
			return err
		}
		b, err := m.Pop()
		if err != nil {
			m.Push(c)
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			m.Push(c)
			return err
		}
		m.Push(b)
		m.Push(c)
		m.Push(a)
		return nil
	})

	object.RegisterCommand("OVER", func(m object.Machine) *object.Error {
		v, err := m.Peek(1)
		if err != nil {
			return err
		}
		m.Push(v)
		return nil
	})

	object.RegisterCommand("DUP2", func(m object.Machine) *object.Error {
		a, err := m.Peek(1)
		if err != nil {
			return err
		}
		b, err := m.Peek(0)
		if err != nil {
			return err
		}
		m.Push(a)
		m.Push(b)
		return nil
	})

	object.RegisterCommand("DUPDUP", func(m object.Machine) *object.Error {
		v, err := m.Peek(0)
		if err != nil {
			return err
		}
		m.Push(v)
		m.Push(v)
		return nil
	})

	object.RegisterCommand("NDUPN", func(m object.Machine) *object.Error {
		nv, err := m.Pop()
		if err != nil {
			return err
		}
		idx, ok := nv.(*object.Integer)
		if !ok {
			m.Push(nv)
			return m.Raise(object.ErrBadArgType, "NDUPN expects an integer count")
		}
		v, perr := m.Pop()
		if perr != nil {
			return perr
		}
		n := int(idx.V.ToInt64())
		for i := 0; i < n; i++ {
			m.Push(v)
		}
		m.Push(&object.Integer{V: numericFromInt(n)})
		return nil
	})

	object.RegisterCommand("ROLL", func(m object.Machine) *object.Error {
		return rollStack(m, true)
	})
	object.RegisterCommand("ROLLD", func(m object.Machine) *object.Error {
		return rollStack(m, false)
	})

	object.RegisterCommand("PICK", func(m object.Machine) *object.Error {
		nv, err := m.Pop()
		if err != nil {
			return err
		}
		idx, ok := nv.(*object.Integer)
		if !ok {
			m.Push(nv)
			return m.Raise(object.ErrBadArgType, "PICK expects an integer depth")
		}
		v, perr := m.Peek(int(idx.V.ToInt64()) - 1)
		if perr != nil {
			return perr
		}
		m.Push(v)
		return nil
	})

	object.RegisterCommand("ERRM", func(m object.Machine) *object.Error {
		rt, ok := m.(*Runtime)
		if !ok || rt.LastError() == nil {
			m.Push(&container.Text{S: ""})
			return nil
		}
		m.Push(&container.Text{S: rt.LastError().Error()})
		return nil
	})

	object.RegisterCommand("ERRN", func(m object.Machine) *object.Error {
		rt, ok := m.(*Runtime)
		if !ok || rt.LastError() == nil {
			m.Push(&object.Integer{V: numericZero()})
			return nil
		}
		m.Push(&object.Integer{V: numericFromInt(rt.LastError().Number())})
		return nil
	})

	object.RegisterCommand("ERR0", func(m object.Machine) *object.Error {
		if rt, ok := m.(*Runtime); ok {
			rt.ClearLastError()
		}
		return nil
	})

	// The error-state words also answer to their lowercase spellings,
	// which is how expression trees name them.
	for _, alias := range [][2]string{{"errm", "ERRM"}, {"errn", "ERRN"}, {"err0", "ERR0"}} {
		target := alias[1]
		object.RegisterCommand(alias[0], func(m object.Machine) *object.Error {
			id, _ := object.LookupCommand(target)
			return (&object.Command{ID: id}).Evaluate(m)
		})
	}

	// DOERR raises a user-chosen error by number, by kind name, or with
	// free text.
	object.RegisterCommand("DOERR", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *object.Integer:
			if kind, ok := object.KindForNumber(int(t.V.ToInt64())); ok {
				return m.Raise(kind, "")
			}
			return m.Raise(object.ErrBadArgValue, "unknown error number %d", t.V.ToInt64())
		case *container.Text:
			kind := object.ErrorKind(t.S)
			if (&object.Error{Kind: kind}).Number() != 0 {
				return m.Raise(kind, "")
			}
			return m.Raise(object.ErrBadArgValue, "%s", t.S)
		}
		return m.Raise(object.ErrBadArgValue, "user error")
	})

	object.RegisterCommand("SF", func(m object.Machine) *object.Error {
		return flagOp(m, func(fl *Flags, n int) { fl.Set(n) })
	})
	object.RegisterCommand("CF", func(m object.Machine) *object.Error {
		return flagOp(m, func(fl *Flags, n int) { fl.Clear(n) })
	})
	object.RegisterCommand("FS?", func(m object.Machine) *object.Error {
		return flagTest(m, func(fl *Flags, n int) bool { return fl.IsSet(n) }, false)
	})
	object.RegisterCommand("FC?", func(m object.Machine) *object.Error {
		return flagTest(m, func(fl *Flags, n int) bool { return !fl.IsSet(n) }, false)
	})
	object.RegisterCommand("FS?C", func(m object.Machine) *object.Error {
		return flagTest(m, func(fl *Flags, n int) bool { return fl.IsSet(n) }, true)
	})
	object.RegisterCommand("FC?C", func(m object.Machine) *object.Error {
		return flagTest(m, func(fl *Flags, n int) bool { return !fl.IsSet(n) }, true)
	})

	// STWS / RCWS set and recall the based-arithmetic word size (// WordSize), clamped to 1..1024.
	object.RegisterCommand("STWS", func(m object.Machine) *object.Error {
		nv, err := m.Pop()
		if err != nil {
			return err
		}
		idx, ok := nv.(*object.Integer)
		if !ok {
			m.Push(nv)
			return m.Raise(object.ErrBadArgType, "STWS expects an integer")
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		n := int(idx.V.ToInt64())
		if n < 1 {
			n = 1
		}
		if n > 1024 {
			n = 1024
		}
		dm.settingsOf().WordSize = n
		return nil
	})

	object.RegisterCommand("RCWS", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		m.Push(&object.Integer{V: numericFromInt(dm.settingsOf().WordSize)})
		return nil
	})

	object.RegisterCommand("MODES", func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		// Modes() speaks the configparser "NAME value" script grammar; a
		// program replays through the postfix settings commands, so each
		// line's value (when present) precedes its name.
		var items []object.Value
		for _, line := range strings.Split(dm.settingsOf().Modes(), "\n") {
			fields := strings.Fields(line)
			switch len(fields) {
			case 1:
				items = append(items, &object.Symbol{Name: fields[0]})
			case 2:
				parsed, perr := container.ParseWith(m, fields[1]+" "+fields[0])
				if perr != nil {
					return m.Raise(object.ErrInternal, "%v", perr)
				}
				items = append(items, parsed...)
			}
		}
		m.Push(&container.Program{Items: items})
		return nil
	})

	object.RegisterCommand("UNDO", func(m object.Machine) *object.Error {
		rt, ok := m.(*Runtime)
		if !ok {
			return m.Raise(object.ErrInternal, "UNDO requires a runtime.Runtime")
		}
		rt.Undo()
		return nil
	})

	object.RegisterCommand("LASTARG", func(m object.Machine) *object.Error {
		rt, ok := m.(*Runtime)
		if !ok {
			return m.Raise(object.ErrInternal, "LASTARG requires a runtime.Runtime")
		}
		for _, v := range rt.LastArgs() {
			m.Push(v)
		}
		return nil
	})
}

// semanticTags maps TVARS's textual markers ("semantic markers,
// e.g. \"array\", \"integer\"") to object tags. Markers that name a
// family map to every member tag.
var semanticTags = map[string][]object.Tag{
	"integer":    {object.TagInteger, object.TagNegInteger, object.TagBigNum, object.TagNegBigNum},
	"fraction":   {object.TagFraction, object.TagNegFraction, object.TagBigFraction, object.TagNegBigFraction},
	"decimal":    {object.TagDecimal, object.TagNegDecimal},
	"complex":    {object.TagRectangular, object.TagPolar},
	"text":       {object.TagText},
	"list":       {object.TagList},
	"array":      {object.TagArray},
	"program":    {object.TagProgram},
	"expression": {object.TagExpression},
	"symbol":     {object.TagSymbol},
	"unit":       {object.TagUnit},
	"tagged":     {object.TagTagged},
}

// tagFilter reads TVARS's argument: a type tag number, a list of tag
// numbers or markers, or one semantic marker text.
func tagFilter(m object.Machine, arg object.Value) ([]object.Tag, *object.Error) {
	switch t := arg.(type) {
	case *object.Integer:
		return []object.Tag{object.Tag(t.V.ToInt64())}, nil
	case *container.Text:
		if tags, ok := semanticTags[t.S]; ok {
			return tags, nil
		}
		return nil, m.Raise(object.ErrBadArgValue, "unknown type marker %q", t.S)
	case *container.List:
		var out []object.Tag
		for _, it := range t.Items {
			sub, err := tagFilter(m, it)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}
	return nil, m.Raise(object.ErrBadArgType, "TVARS expects a type tag, marker, or list")
}

// rollStack implements ROLL (rotate the top n items so the n-th deep
// lands on top) and ROLLD (the inverse rotation).
func rollStack(m object.Machine, up bool) *object.Error {
	nv, err := m.Pop()
	if err != nil {
		return err
	}
	idx, ok := nv.(*object.Integer)
	if !ok {
		m.Push(nv)
		return m.Raise(object.ErrBadArgType, "ROLL expects an integer depth")
	}
	n := int(idx.V.ToInt64())
	if n <= 0 {
		return nil
	}
	items := make([]object.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, perr := m.Pop()
		if perr != nil {
			return perr
		}
		items[i] = v
	}
	if up {
		// items[0] (deepest) moves to the top.
		for _, v := range items[1:] {
			m.Push(v)
		}
		m.Push(items[0])
	} else {
		// the top moves to depth n.
		m.Push(items[n-1])
		for _, v := range items[:n-1] {
			m.Push(v)
		}
	}
	return nil
}

func flagOp(m object.Machine, apply func(*Flags, int)) *object.Error {
	nv, err := m.Pop()
	if err != nil {
		return err
	}
	idx, ok := nv.(*object.Integer)
	if !ok {
		m.Push(nv)
		return m.Raise(object.ErrBadArgType, "expected a flag index")
	}
	dm, derr := asDirMachine(m)
	if derr != nil {
		return derr
	}
	n := int(idx.V.ToInt64())
	apply(dm.flagsOf(), n)
	dm.settingsOf().syncFlag(dm.flagsOf(), n)
	return nil
}

func flagTest(m object.Machine, test func(*Flags, int) bool, clear bool) *object.Error {
	nv, err := m.Pop()
	if err != nil {
		return err
	}
	idx, ok := nv.(*object.Integer)
	if !ok {
		m.Push(nv)
		return m.Raise(object.ErrBadArgType, "expected a flag index")
	}
	dm, derr := asDirMachine(m)
	if derr != nil {
		return derr
	}
	n := int(idx.V.ToInt64())
	result := test(dm.flagsOf(), n)
	if result && clear {
		dm.flagsOf().Clear(n)
		dm.settingsOf().syncFlag(dm.flagsOf(), n)
	}
	m.Push(boolValue(result))
	return nil
}
