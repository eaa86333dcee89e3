/*
 * db48x - uncertainty queries and uncertainty-aware rounding.
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

package library

import (
	"math"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
	"github.com/dm48x/rpl/internal/runtime"
)

// attachMachine is the capability ATTACH/DETACH assert the Machine
// against; runtime.Runtime satisfies it. Kept as an interface so a test
// harness can stub the attachment bookkeeping.
type attachMachine interface {
	Attach(lib runtime.Library)
	Detach(name string) bool
	AttachedLibraries() []string
}

// tableByName resolves an Attach/Detach operand to one of the three
// standard tables by its registered name.
func tableByName(name string) (*Table, bool) {
	for _, t := range []*Table{Constants, Equations, Xlibs} {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// libraryName reads an Attach/Detach operand: a name (symbol or text)
// or a 1-based index into the standard table order.
func libraryName(v object.Value) (string, bool) {
	switch t := v.(type) {
	case *object.Symbol:
		return t.Name, true
	case *container.Text:
		return t.S, true
	case *object.Integer:
		tables := []*Table{Constants, Equations, Xlibs}
		i := int(t.V.ToInt64())
		if i < 1 || i > len(tables) {
			return "", false
		}
		return tables[i-1].Name(), true
	}
	return "", false
}

// uncertaintyOf resolves a name to its table entry's Uncertainty,
// looking across Constants/Equations/Xlibs in that order, since
// uncertainty stays attached to whichever table carries the name.
func uncertaintyOf(name string) (*numeric.Decimal, object.Value, bool) {
	for _, t := range []*Table{Constants, Equations, Xlibs} {
		if e, ok := t.Get(name); ok {
			return e.Uncertainty, e.Definition, true
		}
	}
	return nil, nil, false
}

func nameArg(m object.Machine) (string, *object.Error) {
	v, err := m.Pop()
	if err != nil {
		return "", err
	}
	if sym, ok := v.(*object.Symbol); ok {
		return sym.Name, nil
	}
	m.Push(v)
	return "", m.Raise(object.ErrExpectedVariableName, "expected a constant name")
}

func init() {
	// ATTACH adds a library table to the session's resolution chain by
	// name or index; DETACH removes it; LIBS lists what is attached
	//.
	object.RegisterCommand("ATTACH", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		am, ok := m.(attachMachine)
		if !ok {
			m.Push(v)
			return m.Raise(object.ErrInternal, "ATTACH requires a full runtime")
		}
		name, nok := libraryName(v)
		if !nok {
			m.Push(v)
			return m.Raise(object.ErrBadArgType, "ATTACH expects a library name or index")
		}
		t, tok := tableByName(name)
		if !tok {
			m.Push(v)
			return m.Raise(object.ErrUnknownLibraryEntry, "unknown library %s", name)
		}
		am.Attach(t)
		return nil
	})

	object.RegisterCommand("DETACH", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		am, ok := m.(attachMachine)
		if !ok {
			m.Push(v)
			return m.Raise(object.ErrInternal, "DETACH requires a full runtime")
		}
		name, nok := libraryName(v)
		if !nok {
			m.Push(v)
			return m.Raise(object.ErrBadArgType, "DETACH expects a library name or index")
		}
		if !am.Detach(name) {
			return m.Raise(object.ErrUnknownLibraryEntry, "library %s is not attached", name)
		}
		return nil
	})

	object.RegisterCommand("LIBS", func(m object.Machine) *object.Error {
		am, ok := m.(attachMachine)
		if !ok {
			return m.Raise(object.ErrInternal, "LIBS requires a full runtime")
		}
		names := am.AttachedLibraries()
		items := make([]object.Value, len(names))
		for i, n := range names {
			items[i] = &container.Text{S: n}
		}
		m.Push(&container.List{Items: items})
		return nil
	})

	// Ⓢ reports a constant's standard (absolute) uncertainty.
	object.RegisterCommand("Ⓢ", func(m object.Machine) *object.Error {
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		u, _, ok := uncertaintyOf(name)
		if !ok {
			return m.Raise(object.ErrUnknownConstant, "unknown constant %s", name)
		}
		if u == nil {
			m.Push(&object.Integer{V: numericFromInt(0)})
			return nil
		}
		m.Push(&object.DecimalValue{V: *u})
		return nil
	})

	// Ⓡ reports a constant's relative uncertainty (standard uncertainty
	// divided by the constant's magnitude, ).
	object.RegisterCommand("Ⓡ", func(m object.Machine) *object.Error {
		name, err := nameArg(m)
		if err != nil {
			return err
		}
		u, def, ok := uncertaintyOf(name)
		if !ok {
			return m.Raise(object.ErrUnknownConstant, "unknown constant %s", name)
		}
		if u == nil {
			m.Push(&object.Integer{V: numericFromInt(0)})
			return nil
		}
		val, vok := object.ToFloat64(def)
		if !vok || val == 0 {
			return m.Raise(object.ErrDivByZero, "constant %s has no nonzero value to divide by", name)
		}
		m.Push(&object.DecimalValue{V: numeric.FromFloat64(u.ToFloat64() / math.Abs(val))})
		return nil
	})

	// StdRnd rounds a value to the decimal digit implied by an absolute
	// uncertainty, preserving units when the value carries one.
	object.RegisterCommand("StdRnd", func(m object.Machine) *object.Error {
		return roundByAbsUncertainty(m, func(_ float64) (float64, bool) {
			uv, err := m.Pop()
			if err != nil {
				return 0, false
			}
			u, ok := object.ToFloat64(uv)
			return u, ok
		})
	})

	// RelRnd rounds a value to the precision implied by a fractional
	// relative uncertainty (e.g. 0.001 for 0.1%).
	object.RegisterCommand("RelRnd", func(m object.Machine) *object.Error {
		return roundByAbsUncertainty(m, func(mag float64) (float64, bool) {
			uv, err := m.Pop()
			if err != nil {
				return 0, false
			}
			rel, ok := object.ToFloat64(uv)
			return rel * math.Abs(mag), ok
		})
	})

	// PrcRnd rounds a value to the precision implied by a percent
	// uncertainty (e.g. 5 for 5%).
	object.RegisterCommand("PrcRnd", func(m object.Machine) *object.Error {
		return roundByAbsUncertainty(m, func(mag float64) (float64, bool) {
			uv, err := m.Pop()
			if err != nil {
				return 0, false
			}
			pct, ok := object.ToFloat64(uv)
			return pct / 100 * math.Abs(mag), ok
		})
	})
}

// roundByAbsUncertainty implements the shared StdRnd/RelRnd/PrcRnd
// pattern: pop the uncertainty operand (via toAbs, which needs the
// value's magnitude to turn a relative/percent figure into an absolute
// one), pop the value, round it to the digit position the absolute
// uncertainty implies, and push the result back with any unit preserved.
func roundByAbsUncertainty(m object.Machine, toAbs func(mag float64) (float64, bool)) *object.Error {
	// The uncertainty operand sits on top of the stack; toAbs needs the
	// value's magnitude first for the relative/percent forms, so peek it
	// before consuming either operand.
	valv, err := m.Peek(1)
	if err != nil {
		return err
	}
	mag, ok := magnitudeOf(valv)
	if !ok {
		return m.Raise(object.ErrBadArgType, "expected a number to round")
	}
	abs, ok := toAbs(mag)
	if !ok {
		return m.Raise(object.ErrBadArgType, "expected a numeric uncertainty")
	}
	val, err := m.Pop()
	if err != nil {
		return err
	}
	m.Push(roundToUncertainty(val, abs))
	return nil
}

func magnitudeOf(v object.Value) (float64, bool) {
	if uv, ok := v.(*object.UnitValue); ok {
		return uv.Magnitude, true
	}
	return object.ToFloat64(v)
}

// roundToUncertainty rounds v's magnitude to the nearest multiple of
// 10^floor(log10(|uncertainty|)), the digit position a measurement's
// uncertainty makes significant, and rewraps any unit the value carried.
func roundToUncertainty(v object.Value, uncertainty float64) object.Value {
	uncertainty = math.Abs(uncertainty)
	if uv, ok := v.(*object.UnitValue); ok {
		return &object.UnitValue{Magnitude: roundToUncertaintyFloat(uv.Magnitude, uncertainty), Unit: uv.Unit}
	}
	mag, ok := object.ToFloat64(v)
	if !ok {
		return v
	}
	return &object.DecimalValue{V: numeric.FromFloat64(roundToUncertaintyFloat(mag, uncertainty))}
}

func roundToUncertaintyFloat(mag, uncertainty float64) float64 {
	if uncertainty == 0 || math.IsNaN(uncertainty) || math.IsInf(uncertainty, 0) {
		return mag
	}
	step := math.Pow(10, math.Floor(math.Log10(uncertainty)))
	return math.Round(mag/step) * step
}
