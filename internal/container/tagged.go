/*
 * db48x - tagged value and assignment objects.
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

package container

import (
	"strings"
	"unicode"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Tagged wraps an object with a display label, `:label:obj`:
// units, named results, and Modes artifacts all reuse this wrapper
// rather than getting a bespoke type each.
type Tagged struct {
	Label string
	Value object.Value
}

func (t *Tagged) Size() int                            { return 8 + len(t.Label) }
func (t *Tagged) Walk(visit func(arena.Ref) arena.Ref) { t.Value.Walk(visit) }
func (t *Tagged) Tag() object.Tag                      { return object.TagTagged }

func (t *Tagged) Render(p *object.Printer) {
	p.WriteByte(':')
	p.WriteString(t.Label)
	p.WriteByte(':')
	t.Value.Render(p)
}

func (t *Tagged) Graph(c *object.Canvas, p *object.Printer) { t.Render(p); c.DrawText(0, p.String()) }

func (t *Tagged) Evaluate(m object.Machine) *object.Error {
	m.Push(t)
	return nil
}

// Assignment is the `name=value` object algebra's isolate/solve produce
// and consume: a bound-looking equation between a symbol
// and an expression, distinct from an Expression node's own "=" usage
// since it names which side is the target variable.
type Assignment struct {
	Name  string
	Value object.Value
}

func (a *Assignment) Size() int                            { return 8 + len(a.Name) }
func (a *Assignment) Walk(visit func(arena.Ref) arena.Ref) { a.Value.Walk(visit) }
func (a *Assignment) Tag() object.Tag                      { return object.TagAssignment }

func (a *Assignment) Render(p *object.Printer) {
	p.WriteString(a.Name)
	p.WriteByte('=')
	a.Value.Render(p)
}

func (a *Assignment) Graph(c *object.Canvas, p *object.Printer) {
	a.Render(p)
	c.DrawText(0, p.String())
}

func (a *Assignment) Evaluate(m object.Machine) *object.Error {
	return m.Store(a.Name, a.Value)
}

func init() {
	// `name=expr` assignment literal: a token whose head is a plain
	// identifier followed by '=' and a parseable expression tail. Tried
	// after every numeric family (none of which can start with a letter
	// and contain '='), ahead of the symbol fallback.
	object.RegisterLiteral(func(alloc object.Allocator, src string) (object.Value, string, error) {
		i := strings.IndexByte(src, '=')
		if i <= 0 || i == len(src)-1 {
			return nil, src, nil
		}
		name := src[:i]
		for j, r := range name {
			if !unicode.IsLetter(r) && r != '_' && !(j > 0 && unicode.IsDigit(r)) {
				return nil, src, nil
			}
		}
		e, err := ParseExpression(src[i+1:])
		if err != nil {
			return nil, src, nil
		}
		v := object.Value(e)
		if e.Leaf != nil {
			v = e.Leaf
		}
		return &Assignment{Name: name, Value: v}, "", nil
	})

	object.RegisterCommand("->TAG", func(m object.Machine) *object.Error {
		label, err := m.Pop()
		if err != nil {
			return err
		}
		val, err := m.Pop()
		if err != nil {
			m.Push(label)
			return err
		}
		lt, ok := label.(*Text)
		if !ok {
			m.Push(val)
			m.Push(label)
			return m.Raise(object.ErrBadArgType, "->TAG expects a text label")
		}
		m.Push(&Tagged{Label: lt.S, Value: val})
		return nil
	})

	object.RegisterCommand("DTAG", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		t, ok := v.(*Tagged)
		if !ok {
			return m.Raise(object.ErrBadArgType, "DTAG expects a tagged value")
		}
		m.Push(t.Value)
		return nil
	})
}
