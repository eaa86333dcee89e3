/*
 * db48x - structured control-flow objects.
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

// Control-flow keywords parse into single objects carrying their
// inner bodies rather than into plain symbols; each keeps the same Tag
// as Program since it is, semantically, just a program with structured
// inner evaluation order instead of a flat sequence.

// IfThenElse implements `if COND then … [else …] end`.
type IfThenElse struct {
	Cond *Program
	Then *Program
	Else *Program
}

func (c *IfThenElse) Size() int { return c.Cond.Size() + c.Then.Size() }
func (c *IfThenElse) Walk(visit func(arena.Ref) arena.Ref) {
	c.Cond.Walk(visit)
	c.Then.Walk(visit)
	if c.Else != nil {
		c.Else.Walk(visit)
	}
}
func (c *IfThenElse) Tag() object.Tag { return object.TagProgram }

func (c *IfThenElse) Render(p *object.Printer) {
	p.WriteString("IF ")
	renderItems(p, c.Cond.Items)
	p.WriteString(" THEN ")
	renderItems(p, c.Then.Items)
	if c.Else != nil {
		p.WriteString(" ELSE ")
		renderItems(p, c.Else.Items)
	}
	p.WriteString(" END")
}

func (c *IfThenElse) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *IfThenElse) Evaluate(m object.Machine) *object.Error {
	if err := m.Run(c.Cond); err != nil {
		return err
	}
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if truthy(v) {
		return m.Run(c.Then)
	}
	if c.Else != nil {
		return m.Run(c.Else)
	}
	return nil
}

// ForLoop implements `for id START END … next/step`: Start and End are
// popped from the data stack at evaluation time (pushed by the caller
// before FOR, e.g. `1 10 FOR I … NEXT`); the loop variable is bound as a
// local visible to Body.
type ForLoop struct {
	Var    string
	Body   *Program
	IsStep bool
}

func (c *ForLoop) Size() int                            { return c.Body.Size() + len(c.Var) }
func (c *ForLoop) Walk(visit func(arena.Ref) arena.Ref) { c.Body.Walk(visit) }
func (c *ForLoop) Tag() object.Tag                      { return object.TagProgram }

func (c *ForLoop) Render(p *object.Printer) {
	p.WriteString("FOR ")
	p.WriteString(c.Var)
	p.WriteString(" ")
	renderItems(p, c.Body.Items)
	if c.IsStep {
		p.WriteString(" STEP")
	} else {
		p.WriteString(" NEXT")
	}
}

func (c *ForLoop) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *ForLoop) Evaluate(m object.Machine) *object.Error {
	end, err := m.Pop()
	if err != nil {
		return err
	}

	// `for id LIST/ARRAY ... next`: a single container argument
	// iterates its elements rather than a numeric range.
	var elems []object.Value
	switch t := end.(type) {
	case *List:
		elems = t.Items
	case *Array:
		elems = t.Data
	}
	if elems != nil {
		for _, el := range elems {
			release := m.PushFrame([]string{c.Var}, []object.Value{el})
			rerr := m.Run(c.Body)
			release()
			if rerr != nil {
				return rerr
			}
		}
		return nil
	}

	start, err := m.Pop()
	if err != nil {
		m.Push(end)
		return err
	}
	i, ierr := numericToInt64(m, start)
	if ierr != nil {
		return ierr
	}
	endN, eerr := numericToInt64(m, end)
	if eerr != nil {
		return eerr
	}
	step := int64(1)
	for (step > 0 && i <= endN) || (step < 0 && i >= endN) {
		release := m.PushFrame([]string{c.Var}, []object.Value{integerOf(int(i))})
		rerr := m.Run(c.Body)
		release()
		if rerr != nil {
			return rerr
		}
		if c.IsStep {
			sv, serr := m.Pop()
			if serr != nil {
				return serr
			}
			step, serr = numericToInt64(m, sv)
			if serr != nil {
				return serr
			}
		}
		i += step
	}
	return nil
}

// StartLoop implements `start START END … next/step`: the same
// iteration as ForLoop but with no bound loop variable.
type StartLoop struct {
	Body   *Program
	IsStep bool
}

func (c *StartLoop) Size() int                            { return c.Body.Size() }
func (c *StartLoop) Walk(visit func(arena.Ref) arena.Ref) { c.Body.Walk(visit) }
func (c *StartLoop) Tag() object.Tag                      { return object.TagProgram }

func (c *StartLoop) Render(p *object.Printer) {
	p.WriteString("START ")
	renderItems(p, c.Body.Items)
	if c.IsStep {
		p.WriteString(" STEP")
	} else {
		p.WriteString(" NEXT")
	}
}

func (c *StartLoop) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *StartLoop) Evaluate(m object.Machine) *object.Error {
	end, err := m.Pop()
	if err != nil {
		return err
	}
	start, err := m.Pop()
	if err != nil {
		m.Push(end)
		return err
	}
	i, ierr := numericToInt64(m, start)
	if ierr != nil {
		return ierr
	}
	endN, eerr := numericToInt64(m, end)
	if eerr != nil {
		return eerr
	}
	step := int64(1)
	for (step > 0 && i <= endN) || (step < 0 && i >= endN) {
		if rerr := m.Run(c.Body); rerr != nil {
			return rerr
		}
		if c.IsStep {
			sv, serr := m.Pop()
			if serr != nil {
				return serr
			}
			step, serr = numericToInt64(m, sv)
			if serr != nil {
				return serr
			}
		}
		i += step
	}
	return nil
}

// WhileLoop implements `while COND repeat BODY end` (top-tested).
type WhileLoop struct {
	Cond *Program
	Body *Program
}

func (c *WhileLoop) Size() int { return c.Cond.Size() + c.Body.Size() }
func (c *WhileLoop) Walk(visit func(arena.Ref) arena.Ref) {
	c.Cond.Walk(visit)
	c.Body.Walk(visit)
}
func (c *WhileLoop) Tag() object.Tag { return object.TagProgram }

func (c *WhileLoop) Render(p *object.Printer) {
	p.WriteString("WHILE ")
	renderItems(p, c.Cond.Items)
	p.WriteString(" REPEAT ")
	renderItems(p, c.Body.Items)
	p.WriteString(" END")
}

func (c *WhileLoop) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *WhileLoop) Evaluate(m object.Machine) *object.Error {
	for {
		if err := m.Run(c.Cond); err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		if !truthy(v) {
			return nil
		}
		if err := m.Run(c.Body); err != nil {
			return err
		}
	}
}

// DoLoop implements `do BODY until COND end` (bottom-tested).
type DoLoop struct {
	Body *Program
	Cond *Program
}

func (c *DoLoop) Size() int { return c.Body.Size() + c.Cond.Size() }
func (c *DoLoop) Walk(visit func(arena.Ref) arena.Ref) {
	c.Body.Walk(visit)
	c.Cond.Walk(visit)
}
func (c *DoLoop) Tag() object.Tag { return object.TagProgram }

func (c *DoLoop) Render(p *object.Printer) {
	p.WriteString("DO ")
	renderItems(p, c.Body.Items)
	p.WriteString(" UNTIL ")
	renderItems(p, c.Cond.Items)
	p.WriteString(" END")
}

func (c *DoLoop) Graph(cv *object.Canvas, p *object.Printer) { c.Render(p); cv.DrawText(0, p.String()) }

func (c *DoLoop) Evaluate(m object.Machine) *object.Error {
	for {
		if err := m.Run(c.Body); err != nil {
			return err
		}
		if err := m.Run(c.Cond); err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		if truthy(v) {
			return nil
		}
	}
}

// IfErrNode implements `iferr BODY then HANDLER [else SUCCESS] end`
// : BODY runs with the machine's own error-recovery frame; a raised
// error redirects control to HANDLER.
type IfErrNode struct {
	Body    *Program
	Handler *Program
	Success *Program
}

func (c *IfErrNode) Size() int { return c.Body.Size() + c.Handler.Size() }
func (c *IfErrNode) Walk(visit func(arena.Ref) arena.Ref) {
	c.Body.Walk(visit)
	c.Handler.Walk(visit)
	if c.Success != nil {
		c.Success.Walk(visit)
	}
}
func (c *IfErrNode) Tag() object.Tag { return object.TagProgram }

func (c *IfErrNode) Render(p *object.Printer) {
	p.WriteString("IFERR ")
	renderItems(p, c.Body.Items)
	p.WriteString(" THEN ")
	renderItems(p, c.Handler.Items)
	if c.Success != nil {
		p.WriteString(" ELSE ")
		renderItems(p, c.Success.Items)
	}
	p.WriteString(" END")
}

func (c *IfErrNode) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *IfErrNode) Evaluate(m object.Machine) *object.Error {
	if err := m.Run(c.Body); err != nil {
		if eh, ok := m.(interface {
			SetLastError(*object.Error)
		}); ok {
			eh.SetLastError(err)
		}
		return m.Run(c.Handler)
	}
	if c.Success != nil {
		return m.Run(c.Success)
	}
	return nil
}

// LocalBind implements `→ a b c « body »`: pops one value per
// name, rightmost name taking the top of stack, and binds them as
// locals visible to Body ahead of the directory chain.
type LocalBind struct {
	Names []string
	Body  *Program
}

func (c *LocalBind) Size() int                            { return c.Body.Size() }
func (c *LocalBind) Walk(visit func(arena.Ref) arena.Ref) { c.Body.Walk(visit) }
func (c *LocalBind) Tag() object.Tag                      { return object.TagProgram }

func (c *LocalBind) Render(p *object.Printer) {
	p.WriteString("→ ")
	for _, n := range c.Names {
		p.WriteString(n)
		p.WriteString(" ")
	}
	c.Body.Render(p)
}

func (c *LocalBind) Graph(cv *object.Canvas, p *object.Printer) {
	c.Render(p)
	cv.DrawText(0, p.String())
}

func (c *LocalBind) Evaluate(m object.Machine) *object.Error {
	values := make([]object.Value, len(c.Names))
	for i := len(c.Names) - 1; i >= 0; i-- {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		values[i] = v
	}
	release := m.PushFrame(c.Names, values)
	defer release()
	return m.Run(c.Body)
}

func init() {
	// IFT / IFTE: the command forms of if-then and if-then-else,
	// strict in a numeric or boolean condition. The branch value is run
	// (a program executes, a plain value pushes), which is what makes the
	// expression node form of IFTE return a value.
	object.RegisterCommand("IFT", func(m object.Machine) *object.Error {
		obj, err := m.Pop()
		if err != nil {
			return err
		}
		cond, err := m.Pop()
		if err != nil {
			m.Push(obj)
			return err
		}
		if truthy(cond) {
			return m.Run(obj)
		}
		return nil
	})

	object.RegisterCommand("IFTE", func(m object.Machine) *object.Error {
		elseV, err := m.Pop()
		if err != nil {
			return err
		}
		thenV, err := m.Pop()
		if err != nil {
			m.Push(elseV)
			return err
		}
		cond, err := m.Pop()
		if err != nil {
			m.Push(thenV)
			m.Push(elseV)
			return err
		}
		if truthy(cond) {
			return m.Run(thenV)
		}
		return m.Run(elseV)
	})
}

func renderItems(p *object.Printer, items []object.Value) {
	for i, it := range items {
		if i > 0 {
			p.WriteString(" ")
		}
		it.Render(p)
	}
}

func numericToInt64(m object.Machine, v object.Value) (int64, *object.Error) {
	switch t := v.(type) {
	case *object.Integer:
		return t.V.ToInt64(), nil
	case *object.DecimalValue:
		return t.V.Mantissa.ToInt64(), nil
	}
	return 0, m.Raise(object.ErrBadArgType, "expected a numeric loop bound")
}
