/*
 * db48x - list container and combinators.
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
	"sort"
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

// List is the `{ ... }` ordered aggregate. Iteration is
// cursor-based at the combinator call site (by Go slice index), never
// by retained raw element pointer, so the representation stays stable
// even if a future change makes Items arena-resident.
type List struct {
	Items []object.Value
}

func (l *List) Size() int { return 8 + 8*len(l.Items) }

// Walk descends through the in-place children: a list owns its items
// by copy, so the only Refs to visit are whatever the items carry.
func (l *List) Walk(visit func(arena.Ref) arena.Ref) {
	for _, it := range l.Items {
		it.Walk(visit)
	}
}
func (l *List) Tag() object.Tag { return object.TagList }

func (l *List) Render(p *object.Printer) {
	p.WriteByte('{')
	sep := " "
	if !p.Opts.HorizontalLists {
		sep = "\n"
	}
	for i, it := range l.Items {
		if i > 0 {
			p.WriteString(sep)
		} else {
			p.WriteString(" ")
		}
		it.Render(p)
	}
	p.WriteString(" }")
}

func (l *List) Graph(c *object.Canvas, p *object.Printer) { l.Render(p); c.DrawText(0, p.String()) }

func (l *List) Evaluate(m object.Machine) *object.Error {
	m.Push(l)
	return nil
}

func integerOf(n int) object.Value {
	return &object.Integer{V: numeric.FromInt64(int64(n))}
}

func intArg(m object.Machine, v object.Value) (int, *object.Error) {
	iv, ok := v.(*object.Integer)
	if !ok {
		return 0, m.Raise(object.ErrBadArgType, "expected an integer index")
	}
	return int(iv.V.ToInt64()), nil
}

// normIndex implements rotating side index (GetI/PutI): a
// 1-based index that wraps modulo the container length instead of
// erroring, and also accepts 0 or negative indices by wrapping.
func normIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	i = ((i-1)%n + n) % n
	return i + 1
}

func init() {
	object.RegisterCommand("GET", func(m object.Machine) *object.Error {
		idxv, err := m.Pop()
		if err != nil {
			return err
		}
		cv, err := m.Pop()
		if err != nil {
			m.Push(idxv)
			return err
		}
		idx, ierr := intArg(m, idxv)
		if ierr != nil {
			return ierr
		}
		switch c := cv.(type) {
		case *List:
			if idx < 1 || idx > len(c.Items) {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			m.Push(c.Items[idx-1])
		case *Array:
			if idx < 1 || idx > len(c.Data) {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			m.Push(c.Data[idx-1])
		default:
			return m.Raise(object.ErrBadArgType, "GET expects a list or array")
		}
		return nil
	})

	object.RegisterCommand("GETI", func(m object.Machine) *object.Error {
		idxv, err := m.Pop()
		if err != nil {
			return err
		}
		cv, err := m.Pop()
		if err != nil {
			m.Push(idxv)
			return err
		}
		idx, ierr := intArg(m, idxv)
		if ierr != nil {
			return ierr
		}
		switch c := cv.(type) {
		case *List:
			n := normIndex(idx, len(c.Items))
			m.Push(c)
			m.Push(c.Items[n-1])
			m.Push(integerOf(n))
		case *Array:
			n := normIndex(idx, len(c.Data))
			m.Push(c)
			m.Push(c.Data[n-1])
			m.Push(integerOf(n))
		default:
			return m.Raise(object.ErrBadArgType, "GETI expects a list or array")
		}
		return nil
	})

	object.RegisterCommand("PUT", func(m object.Machine) *object.Error {
		val, err := m.Pop()
		if err != nil {
			return err
		}
		idxv, err := m.Pop()
		if err != nil {
			m.Push(val)
			return err
		}
		cv, err := m.Pop()
		if err != nil {
			m.Push(idxv)
			m.Push(val)
			return err
		}
		idx, ierr := intArg(m, idxv)
		if ierr != nil {
			return ierr
		}
		switch c := cv.(type) {
		case *List:
			if idx < 1 || idx > len(c.Items) {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			items := append([]object.Value{}, c.Items...)
			items[idx-1] = val
			m.Push(&List{Items: items})
		case *Array:
			if idx < 1 || idx > len(c.Data) {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			data := append([]object.Value{}, c.Data...)
			data[idx-1] = val
			m.Push(&Array{Dims: c.Dims, Data: data})
		default:
			return m.Raise(object.ErrBadArgType, "PUT expects a list or array")
		}
		return nil
	})

	object.RegisterCommand("PUTI", func(m object.Machine) *object.Error {
		val, err := m.Pop()
		if err != nil {
			return err
		}
		idxv, err := m.Pop()
		if err != nil {
			m.Push(val)
			return err
		}
		cv, err := m.Pop()
		if err != nil {
			m.Push(idxv)
			m.Push(val)
			return err
		}
		idx, ierr := intArg(m, idxv)
		if ierr != nil {
			return ierr
		}
		switch c := cv.(type) {
		case *List:
			n := normIndex(idx, len(c.Items))
			items := append([]object.Value{}, c.Items...)
			items[n-1] = val
			m.Push(&List{Items: items})
			m.Push(integerOf(normIndex(n+1, len(items))))
		case *Array:
			n := normIndex(idx, len(c.Data))
			data := append([]object.Value{}, c.Data...)
			data[n-1] = val
			m.Push(&Array{Dims: c.Dims, Data: data})
			m.Push(integerOf(normIndex(n+1, len(data))))
		default:
			return m.Raise(object.ErrBadArgType, "PUTI expects a list or array")
		}
		return nil
	})

	object.RegisterCommand("EXTRACT", func(m object.Machine) *object.Error {
		lastv, err := m.Pop()
		if err != nil {
			return err
		}
		firstv, err := m.Pop()
		if err != nil {
			m.Push(lastv)
			return err
		}
		cv, err := m.Pop()
		if err != nil {
			m.Push(firstv)
			m.Push(lastv)
			return err
		}
		first, ierr := intArg(m, firstv)
		if ierr != nil {
			return ierr
		}
		last, ierr := intArg(m, lastv)
		if ierr != nil {
			return ierr
		}
		switch c := cv.(type) {
		case *List:
			if first < 1 || last > len(c.Items) || first > last {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			m.Push(&List{Items: append([]object.Value{}, c.Items[first-1:last]...)})
		case *Text:
			r := c.Runes()
			if first < 1 || last > len(r) || first > last {
				return m.Raise(object.ErrBadArgValue, "index out of range")
			}
			m.Push(&Text{S: string(r[first-1 : last])})
		default:
			return m.Raise(object.ErrBadArgType, "EXTRACT expects a list or text")
		}
		return nil
	})

	object.RegisterCommand("REVERSE", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "REVERSE expects a list")
		}
		items := append([]object.Value{}, l.Items...)
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		m.Push(&List{Items: items})
		return nil
	})

	object.RegisterCommand("SORT", sortList(valueSortLess))
	object.RegisterCommand("QUICKSORT", sortList(memorySortLess))
	object.RegisterCommand("REVERSESORT", sortList(func(a, b object.Value) bool { return valueSortLess(b, a) }))

	object.RegisterCommand("DOLIST", func(m object.Machine) *object.Error {
		return doList(m, false)
	})
	object.RegisterCommand("DOSUBS", func(m object.Machine) *object.Error {
		return doList(m, true)
	})

	object.RegisterCommand("MAP", func(m object.Machine) *object.Error {
		body, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(body)
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "MAP expects a list")
		}
		out := make([]object.Value, len(l.Items))
		for i, it := range l.Items {
			m.Push(it)
			if rerr := m.Run(body); rerr != nil {
				return rerr
			}
			res, perr := m.Pop()
			if perr != nil {
				return perr
			}
			out[i] = res
		}
		m.Push(&List{Items: out})
		return nil
	})

	object.RegisterCommand("FILTER", func(m object.Machine) *object.Error {
		body, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(body)
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "FILTER expects a list")
		}
		var out []object.Value
		for _, it := range l.Items {
			m.Push(it)
			if rerr := m.Run(body); rerr != nil {
				return rerr
			}
			res, perr := m.Pop()
			if perr != nil {
				return perr
			}
			if truthy(res) {
				out = append(out, it)
			}
		}
		m.Push(&List{Items: out})
		return nil
	})

	object.RegisterCommand("REDUCE", func(m object.Machine) *object.Error {
		body, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(body)
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "REDUCE expects a list")
		}
		if len(l.Items) == 0 {
			return m.Raise(object.ErrBadArgValue, "REDUCE of empty list")
		}
		acc := l.Items[0]
		for _, it := range l.Items[1:] {
			m.Push(acc)
			m.Push(it)
			if rerr := m.Run(body); rerr != nil {
				return rerr
			}
			res, perr := m.Pop()
			if perr != nil {
				return perr
			}
			acc = res
		}
		m.Push(acc)
		return nil
	})
}

// truthy treats a zero number as false and anything else (including
// non-numeric values) as true, per "numeric zero/non-zero or
// boolean" condition rule.
func truthy(v object.Value) bool {
	switch t := v.(type) {
	case *object.Integer:
		return !t.V.IsZero()
	case *object.DecimalValue:
		return !t.V.IsZero()
	case *object.FractionValue:
		return !t.V.Num.IsZero()
	}
	return true
}

func doList(m object.Machine, subs bool) *object.Error {
	body, err := m.Pop()
	if err != nil {
		return err
	}
	nv, err := m.Pop()
	if err != nil {
		m.Push(body)
		return err
	}
	n, nerr := intArg(m, nv)
	if nerr != nil {
		return nerr
	}
	lists := make([]*List, n)
	for i := n - 1; i >= 0; i-- {
		v, perr := m.Pop()
		if perr != nil {
			return perr
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "DOLIST/DOSUBS expects lists")
		}
		lists[i] = l
	}
	if n == 0 {
		return m.Raise(object.ErrTooFewArgs, "DOLIST/DOSUBS needs at least one list")
	}
	length := len(lists[0].Items)
	out := make([]object.Value, length)
	for i := 0; i < length; i++ {
		for _, l := range lists {
			if subs {
				m.Push(&List{Items: append([]object.Value{}, l.Items[i:]...)})
			} else if i < len(l.Items) {
				m.Push(l.Items[i])
			}
		}
		if rerr := m.Run(body); rerr != nil {
			return rerr
		}
		res, perr := m.Pop()
		if perr != nil {
			return perr
		}
		out[i] = res
	}
	m.Push(&List{Items: out})
	return nil
}

// valueSortLess implements value-sort: numbers compare by value,
// texts compare lexicographically, and a cross-type comparison falls
// back to a fixed canonical rank by tag.
func valueSortLess(a, b object.Value) bool {
	at, _ := a.(*Text)
	bt, _ := b.(*Text)
	if at != nil && bt != nil {
		return strings.Compare(at.S, bt.S) < 0
	}
	ai, aok := numericValue(a)
	bi, bok := numericValue(b)
	if aok && bok {
		return numeric.CmpDec(ai, bi) < 0
	}
	return rank(a) < rank(b)
}

// memorySortLess implements memory-sort: objects order by their
// raw representation rather than by value. Values here are not byte
// sequences, so the rendered source form stands in for the in-memory
// bytes (it is the representation the parser round-trips).
func memorySortLess(a, b object.Value) bool {
	pa := object.NewPrinter(object.DefaultRenderOpts())
	a.Render(pa)
	pb := object.NewPrinter(object.DefaultRenderOpts())
	b.Render(pb)
	return pa.String() < pb.String()
}

func numericValue(v object.Value) (numeric.Decimal, bool) {
	switch t := v.(type) {
	case *object.Integer:
		return numeric.Decimal{Mantissa: t.V, Exp: 0}, true
	case *object.DecimalValue:
		return t.V, true
	}
	return numeric.Decimal{}, false
}

func rank(v object.Value) int {
	switch v.(type) {
	case *object.Integer, *object.FractionValue, *object.DecimalValue:
		return 0
	case *Text:
		return 1
	case *List:
		return 2
	}
	return 3
}

func sortList(less func(a, b object.Value) bool) func(object.Machine) *object.Error {
	return func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		l, ok := v.(*List)
		if !ok {
			return m.Raise(object.ErrBadArgType, "SORT expects a list")
		}
		items := append([]object.Value{}, l.Items...)
		sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
		m.Push(&List{Items: items})
		return nil
	}
}
