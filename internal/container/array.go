/*
 * db48x - vector/matrix array objects.
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

// Array is a flat, row-major object carrying dimension metadata: Dims
// has one entry for a vector, two for a matrix. Data is
// row-major with len(Data) == product(Dims).
type Array struct {
	Dims []int
	Data []object.Value
}

func (a *Array) Size() int { return 8 + 4*len(a.Dims) + 8*len(a.Data) }
func (a *Array) Walk(visit func(arena.Ref) arena.Ref) {
	for _, it := range a.Data {
		it.Walk(visit)
	}
}
func (a *Array) Tag() object.Tag { return object.TagArray }

func (a *Array) IsVector() bool { return len(a.Dims) == 1 }
func (a *Array) IsMatrix() bool { return len(a.Dims) == 2 }

func (a *Array) Render(p *object.Printer) {
	if a.IsMatrix() {
		rows, cols := a.Dims[0], a.Dims[1]
		p.WriteString("[ ")
		for r := 0; r < rows; r++ {
			p.WriteString("[ ")
			for c := 0; c < cols; c++ {
				a.Data[r*cols+c].Render(p)
				p.WriteString(" ")
			}
			p.WriteString("] ")
		}
		p.WriteString("]")
		return
	}
	p.WriteString("[ ")
	for _, v := range a.Data {
		v.Render(p)
		p.WriteString(" ")
	}
	p.WriteString("]")
}

func (a *Array) Graph(c *object.Canvas, p *object.Printer) { a.Render(p); c.DrawText(0, p.String()) }

func (a *Array) Evaluate(m object.Machine) *object.Error {
	m.Push(a)
	return nil
}

// NewVector builds a 1-D array from items.
func NewVector(items []object.Value) *Array {
	return &Array{Dims: []int{len(items)}, Data: items}
}

// NewMatrix builds a 2-D array from row-major data.
func NewMatrix(rows, cols int, data []object.Value) *Array {
	return &Array{Dims: []int{rows, cols}, Data: data}
}

func elementwise(m object.Machine, a, b *Array, op func(m object.Machine, x, y object.Value) *object.Error) (*Array, *object.Error) {
	if len(a.Data) != len(b.Data) {
		return nil, m.Raise(object.ErrDimension, "array dimensions do not match")
	}
	out := make([]object.Value, len(a.Data))
	for i := range a.Data {
		if err := op(m, a.Data[i], b.Data[i]); err != nil {
			return nil, err
		}
		v, err := m.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &Array{Dims: a.Dims, Data: out}, nil
}

func init() {
	object.RegisterCommand("CON", func(m object.Machine) *object.Error {
		val, err := m.Pop()
		if err != nil {
			return err
		}
		dimv, err := m.Pop()
		if err != nil {
			m.Push(val)
			return err
		}
		dims, derr := dimsOf(m, dimv)
		if derr != nil {
			return derr
		}
		n := 1
		for _, d := range dims {
			n *= d
		}
		data := make([]object.Value, n)
		for i := range data {
			data[i] = val
		}
		m.Push(&Array{Dims: dims, Data: data})
		return nil
	})

	object.RegisterCommand("IDN", func(m object.Machine) *object.Error {
		dimv, err := m.Pop()
		if err != nil {
			return err
		}
		n, nerr := intArg(m, dimv)
		if nerr != nil {
			return nerr
		}
		data := make([]object.Value, n*n)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				if r == c {
					data[r*n+c] = integerOf(1)
				} else {
					data[r*n+c] = integerOf(0)
				}
			}
		}
		m.Push(&Array{Dims: []int{n, n}, Data: data})
		return nil
	})

	object.RegisterCommand("TRN", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		a, ok := v.(*Array)
		if !ok || !a.IsMatrix() {
			return m.Raise(object.ErrBadArgType, "TRN expects a matrix")
		}
		rows, cols := a.Dims[0], a.Dims[1]
		data := make([]object.Value, rows*cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				data[c*rows+r] = a.Data[r*cols+c]
			}
		}
		m.Push(&Array{Dims: []int{cols, rows}, Data: data})
		return nil
	})

	object.RegisterCommand("ROW+", func(m object.Machine) *object.Error {
		row, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(row)
			return err
		}
		a, ok := v.(*Array)
		rl, rok := row.(*List)
		if !ok || !a.IsMatrix() || !rok || len(rl.Items) != a.Dims[1] {
			return m.Raise(object.ErrBadArgType, "ROW+ expects a matrix and a matching row list")
		}
		data := append(append([]object.Value{}, a.Data...), rl.Items...)
		m.Push(&Array{Dims: []int{a.Dims[0] + 1, a.Dims[1]}, Data: data})
		return nil
	})
}

func dimsOf(m object.Machine, v object.Value) ([]int, *object.Error) {
	switch t := v.(type) {
	case *object.Integer:
		return []int{int(t.V.ToInt64())}, nil
	case *List:
		dims := make([]int, len(t.Items))
		for i, it := range t.Items {
			n, err := intArg(m, it)
			if err != nil {
				return nil, err
			}
			dims[i] = n
		}
		return dims, nil
	}
	return nil, m.Raise(object.ErrBadArgType, "expected an integer or a list of dimensions")
}
