/*
 * db48x - program objects.
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
	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Program is the `« ... »` executable sequence of Evaluating one
// runs every element in order against the current machine, the same
// way a Command's Evaluate invokes its Exec function — a program is
// simply a user-composed command. This is also what makes storing a
// program under a name and then looking that name up (Symbol.Evaluate)
// behave as a user-defined command: the looked-up value's Evaluate
// method is called, and for a Program that means "run it".
type Program struct {
	Items []object.Value
}

func (pr *Program) Size() int { return 8 + 8*len(pr.Items) }
func (pr *Program) Walk(visit func(arena.Ref) arena.Ref) {
	for _, it := range pr.Items {
		it.Walk(visit)
	}
}
func (pr *Program) Tag() object.Tag { return object.TagProgram }

func (pr *Program) Render(p *object.Printer) {
	p.WriteString("« ")
	for _, it := range pr.Items {
		it.Render(p)
		p.WriteString(" ")
	}
	p.WriteString("»")
}

func (pr *Program) Graph(c *object.Canvas, p *object.Printer) {
	pr.Render(p)
	c.DrawText(0, p.String())
}

func (pr *Program) Evaluate(m object.Machine) *object.Error {
	for _, it := range pr.Items {
		if err := it.Evaluate(m); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	object.RegisterCommand("->PROGRAM", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "->PROGRAM expects a list of steps")
		}
		m.Push(&Program{Items: append([]object.Value{}, l.Items...)})
		return nil
	})
}
