/*
 * db48x - UTF-8 text objects.
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

// Package container implements the aggregate object families: text,
// list, array, program, expression, tagged value, and assignment. Each
// keeps its children as a plain Go slice of object.Value rather than
// arena.Ref offsets — the same simplification internal/object makes for
// the scalar number types — and lets Go's own tracing collector manage
// the graph while internal/arena keeps the moving-compactor discipline
// in isolation. Combinators (Get, Put, Head, Tail, Sort, Map, Reduce,
// Filter, DoList, DoSubs) are registered as builtins the same way
// internal/object/arith.go registers arithmetic operators: one
// RegisterCommand call per name in an init function, populating the
// shared dispatch table.
package container

import (
	"strings"
	"unicode/utf8"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Text is a UTF-8 string object. requires HEAD/TAIL/SIZE/Extract to
// operate on code points, not bytes; Runes decodes the string form on
// each call rather than caching it.
type Text struct {
	S string
}

func (t *Text) Size() int                      { return 8 + len(t.S) }
func (t *Text) Walk(func(arena.Ref) arena.Ref) {}
func (t *Text) Tag() object.Tag                { return object.TagText }
func (t *Text) Render(p *object.Printer)       { p.WriteByte('"'); p.WriteString(t.S); p.WriteByte('"') }
func (t *Text) Graph(c *object.Canvas, p *object.Printer) {
	t.Render(p)
	c.DrawText(0, p.String())
}
func (t *Text) Evaluate(m object.Machine) *object.Error {
	m.Push(t)
	return nil
}

// Runes returns the code points of the text, for code-point-indexed
// operations.
func (t *Text) Runes() []rune { return []rune(t.S) }

// Len reports the code-point count.
func (t *Text) Len() int { return utf8.RuneCountInString(t.S) }

func init() {
	object.RegisterLiteral(func(alloc object.Allocator, src string) (object.Value, string, error) {
		if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
			return nil, src, nil
		}
		inner := strings.ReplaceAll(src[1:len(src)-1], `""`, `"`)
		return &Text{S: inner}, "", nil
	})

	object.RegisterCommand("HEAD", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *Text:
			r := t.Runes()
			if len(r) == 0 {
				return m.Raise(object.ErrBadArgValue, "HEAD of empty text")
			}
			m.Push(&Text{S: string(r[0])})
		case *List:
			if len(t.Items) == 0 {
				return m.Raise(object.ErrBadArgValue, "HEAD of empty list")
			}
			m.Push(t.Items[0])
		default:
			return m.Raise(object.ErrBadArgType, "HEAD expects text or list")
		}
		return nil
	})

	object.RegisterCommand("TAIL", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *Text:
			r := t.Runes()
			if len(r) == 0 {
				return m.Raise(object.ErrBadArgValue, "TAIL of empty text")
			}
			m.Push(&Text{S: string(r[1:])})
		case *List:
			if len(t.Items) == 0 {
				return m.Raise(object.ErrBadArgValue, "TAIL of empty list")
			}
			rest := append([]object.Value{}, t.Items[1:]...)
			m.Push(&List{Items: rest})
		default:
			return m.Raise(object.ErrBadArgType, "TAIL expects text or list")
		}
		return nil
	})

	object.RegisterCommand("SIZE", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case *Text:
			m.Push(integerOf(t.Len()))
		case *List:
			m.Push(integerOf(len(t.Items)))
		case *Array:
			m.Push(integerOf(len(t.Data)))
		default:
			return m.Raise(object.ErrBadArgType, "SIZE expects text, list or array")
		}
		return nil
	})

	// Override "+" so that text/list concatenation composes with the
	// numeric addition object/arith.go already registered: a non-numeric
	// operand coerces to its rendered text ("concatenation with
	// non-text coerces the non-text to its rendered form").
	object.RegisterCommand("+", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		if at, ok := a.(*Text); ok {
			m.Push(&Text{S: at.S + renderValue(m, b)})
			return nil
		}
		if bt, ok := b.(*Text); ok {
			m.Push(&Text{S: renderValue(m, a) + bt.S})
			return nil
		}
		if al, ok := a.(*List); ok {
			if bl, ok := b.(*List); ok {
				items := append(append([]object.Value{}, al.Items...), bl.Items...)
				m.Push(&List{Items: items})
				return nil
			}
			m.Push(&List{Items: append(append([]object.Value{}, al.Items...), b)})
			return nil
		}
		if !a.Tag().IsNumeric() || !b.Tag().IsNumeric() {
			return m.Raise(object.ErrBadArgType, "+ expects two numbers, two texts, or two lists")
		}
		return object.AddNumeric(m, a, b)
	})
}

func renderValue(m object.Machine, v object.Value) string {
	p := object.NewPrinter(m.RenderOpts())
	v.Render(p)
	return p.String()
}
