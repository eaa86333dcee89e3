/*
 * db48x - algebra builtins: simplify, isolate, ∂, ∫, subst.
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

package algebra

import (
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

// exprArg pops a value expected to be an expression, accepting a bare
// Symbol too (so `'x' ∂` works without forcing the caller to
// quote single variables specially).
func exprArg(m object.Machine) (*container.Expression, *object.Error) {
	v, err := m.Pop()
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *container.Expression:
		return t, nil
	case *object.Symbol:
		return &container.Expression{Leaf: t}, nil
	default:
		// A plain value (a substitution target, a constant operand) is a
		// one-leaf expression.
		return &container.Expression{Leaf: v}, nil
	}
}

func nameArg(m object.Machine) (string, *object.Error) {
	v, err := m.Pop()
	if err != nil {
		return "", err
	}
	if sym, ok := v.(*object.Symbol); ok {
		return sym.Name, nil
	}
	if e, ok := v.(*container.Expression); ok {
		if sym, ok := leafSymbol(e); ok {
			return sym, nil
		}
	}
	m.Push(v)
	return "", m.Raise(object.ErrExpectedVariableName, "expected a variable name")
}

func init() {
	object.RegisterCommand("simplify", func(m object.Machine) *object.Error {
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		m.Push(Simplify(e))
		return nil
	})

	// expand/collect: expand distributes
	// multiplication over addition and unrolls integer powers; collect
	// groups the resulting sum of products back into like terms.
	object.RegisterCommand("expand", func(m object.Machine) *object.Error {
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		m.Push(Expand(e))
		return nil
	})

	object.RegisterCommand("collect", func(m object.Machine) *object.Error {
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		m.Push(Collect(e))
		return nil
	})

	object.RegisterCommand("∂", func(m object.Machine) *object.Error {
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		d, ok := Derivative(e, name)
		if !ok {
			return m.Raise(object.ErrUnknownDerivative, "no derivative rule for this expression")
		}
		m.Push(Simplify(d))
		return nil
	})

	object.RegisterCommand("∫", func(m object.Machine) *object.Error {
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		// A definite integral carries two more numeric bounds below the
		// name/expression pair (`lo hi 'expr' 'var' ∫`); a bare symbolic
		// primitive does not, so peeking two deeper tells the two forms
		// apart without a separate command name.
		if m.Depth() >= 2 {
			hi, herr := m.Peek(0)
			lo, lerr := m.Peek(1)
			if herr == nil && lerr == nil && hi.Tag().IsNumeric() && lo.Tag().IsNumeric() {
				m.Drop(2)
				loF, _ := object.ToFloat64(lo)
				hiF, _ := object.ToFloat64(hi)
				v, ierr := integrateNumeric(m, e, name, loF, hiF)
				if ierr != nil {
					return ierr
				}
				m.Push(&object.DecimalValue{V: numeric.FromFloat64(v)})
				return nil
			}
		}
		p, ok := Primitive(e, name)
		if !ok {
			return m.Raise(object.ErrUnknownPrimitive, "no primitive rule for this expression")
		}
		m.Push(Simplify(p))
		return nil
	})

	object.RegisterCommand("subst", func(m object.Machine) *object.Error {
		value, err := exprArg(m)
		if err != nil {
			return err
		}
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		e, err := exprArg(m)
		if err != nil {
			return err
		}
		m.Push(Simplify(Subst(e, name, value)))
		return nil
	})

	object.RegisterCommand("isolate", func(m object.Machine) *object.Error {
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		v, perr := m.Pop()
		if perr != nil {
			return perr
		}
		lhs, rhs, eerr := equationSides(m, v)
		if eerr != nil {
			return eerr
		}
		sol, ok := Isolate(lhs, rhs, name)
		if !ok {
			return m.Raise(object.ErrUnableToIsolate, "cannot isolate %s", name)
		}
		m.Push(&container.Assignment{Name: name, Value: Simplify(sol)})
		return nil
	})
}

// equationSides reads an Assignment or an `=` Expression as (lhs, rhs),
// the form both isolate and ROOT (numeric.go) need from a popped equation
// value. On failure it re-pushes v so the caller's stack is left as found.
func equationSides(m object.Machine, v object.Value) (lhs, rhs *container.Expression, err *object.Error) {
	switch t := v.(type) {
	case *container.Assignment:
		lv, ok := t.Value.(*container.Expression)
		if !ok {
			lv = &container.Expression{Leaf: t.Value}
		}
		return &container.Expression{Leaf: &object.Symbol{Name: t.Name}}, lv, nil
	case *container.Expression:
		if t.Op != "=" || len(t.Args) != 2 {
			m.Push(v)
			return nil, nil, m.Raise(object.ErrBadArgType, "expected an equation")
		}
		return t.Args[0], t.Args[1], nil
	default:
		m.Push(v)
		return nil, nil, m.Raise(object.ErrBadArgType, "expected an equation")
	}
}
