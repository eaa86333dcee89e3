/*
 * db48x - interval/delta/percent/uncertain range value types.
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

import (
	"strconv"
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
)

// RangeValue is a closed interval `a…b`.
type RangeValue struct{ V numeric.Range }

func (r *RangeValue) Size() int                      { return 16 }
func (r *RangeValue) Walk(func(arena.Ref) arena.Ref) {}
func (r *RangeValue) Tag() Tag                       { return TagRange }
func (r *RangeValue) Render(p *Printer) {
	p.WriteString(formatFloat(r.V.Lo))
	p.WriteString("…")
	p.WriteString(formatFloat(r.V.Hi))
}
func (r *RangeValue) Evaluate(m Machine) *Error   { m.Push(r); return nil }
func (r *RangeValue) Graph(c *Canvas, p *Printer) { r.Render(p); c.DrawText(0, p.String()) }

// DRangeValue is a center±absolute-delta interval, `a±d`.
type DRangeValue struct{ Center, Delta float64 }

func (r *DRangeValue) Size() int                      { return 16 }
func (r *DRangeValue) Walk(func(arena.Ref) arena.Ref) {}
func (r *DRangeValue) Tag() Tag                       { return TagDRange }
func (r *DRangeValue) Render(p *Printer) {
	p.WriteString(formatFloat(r.Center))
	p.WriteString("±")
	p.WriteString(formatFloat(r.Delta))
}
func (r *DRangeValue) Evaluate(m Machine) *Error   { m.Push(r); return nil }
func (r *DRangeValue) Graph(c *Canvas, p *Printer) { r.Render(p); c.DrawText(0, p.String()) }
func (r *DRangeValue) toRange() numeric.Range {
	return numeric.Range{Lo: r.Center - r.Delta, Hi: r.Center + r.Delta}
}

// PRangeValue is a center±percent interval, `a±p%`.
type PRangeValue struct{ Center, Percent float64 }

func (r *PRangeValue) Size() int                      { return 16 }
func (r *PRangeValue) Walk(func(arena.Ref) arena.Ref) {}
func (r *PRangeValue) Tag() Tag                       { return TagPRange }
func (r *PRangeValue) Render(p *Printer) {
	p.WriteString(formatFloat(r.Center))
	p.WriteString("±")
	p.WriteString(formatFloat(r.Percent))
	p.WriteByte('%')
}
func (r *PRangeValue) Evaluate(m Machine) *Error   { m.Push(r); return nil }
func (r *PRangeValue) Graph(c *Canvas, p *Printer) { r.Render(p); c.DrawText(0, p.String()) }
func (r *PRangeValue) toRange() numeric.Range {
	delta := r.Center * r.Percent / 100
	if delta < 0 {
		delta = -delta
	}
	return numeric.Range{Lo: r.Center - delta, Hi: r.Center + delta}
}

// UncertainValue is a center±sigma measurement, `a±σ`.
type UncertainValue struct{ V numeric.Uncertain }

func (r *UncertainValue) Size() int                      { return 16 }
func (r *UncertainValue) Walk(func(arena.Ref) arena.Ref) {}
func (r *UncertainValue) Tag() Tag                       { return TagUncertain }
func (r *UncertainValue) Render(p *Printer) {
	p.WriteString(formatFloat(r.V.Value))
	p.WriteString("±")
	p.WriteString(formatFloat(r.V.Radius))
	p.WriteString("σ")
}
func (r *UncertainValue) Evaluate(m Machine) *Error   { m.Push(r); return nil }
func (r *UncertainValue) Graph(c *Canvas, p *Printer) { r.Render(p); c.DrawText(0, p.String()) }

// asInterval converts any of the four range-family variants, or a plain
// scalar, to the common numeric.Range representation arithmetic works
// over.
func asInterval(v Value) (numeric.Range, bool) {
	switch t := v.(type) {
	case *RangeValue:
		return t.V, true
	case *DRangeValue:
		return t.toRange(), true
	case *PRangeValue:
		return t.toRange(), true
	case *UncertainValue:
		return t.V.ToRange(), true
	default:
		if f, ok := toFloatScalar(v); ok {
			return numeric.Range{Lo: f, Hi: f}, true
		}
	}
	return numeric.Range{}, false
}

func isRangeFamily(v Value) bool {
	switch v.(type) {
	case *RangeValue, *DRangeValue, *PRangeValue, *UncertainValue:
		return true
	}
	return false
}

func init() {
	// "a…b" interval literal.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.Index(src, "…")
		if i < 0 {
			return nil, src, nil
		}
		lo, err1 := strconv.ParseFloat(src[:i], 64)
		hi, err2 := strconv.ParseFloat(src[i+len("…"):], 64)
		if err1 != nil || err2 != nil {
			return nil, src, nil
		}
		return &RangeValue{V: numeric.Range{Lo: lo, Hi: hi}}, "", nil
	})

	// "a±d", "a±p%", "a±σ" share the same split point; the trailing
	// marker picks which of the three variants the literal builds.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.Index(src, "±")
		if i < 0 {
			return nil, src, nil
		}
		center, cerr := strconv.ParseFloat(src[:i], 64)
		if cerr != nil {
			return nil, src, nil
		}
		rest := src[i+len("±"):]
		switch {
		case strings.HasSuffix(rest, "σ"):
			radius, rerr := strconv.ParseFloat(strings.TrimSuffix(rest, "σ"), 64)
			if rerr != nil {
				return nil, src, nil
			}
			return &UncertainValue{V: numeric.Uncertain{Value: center, Radius: radius}}, "", nil
		case strings.HasSuffix(rest, "%"):
			pct, perr := strconv.ParseFloat(strings.TrimSuffix(rest, "%"), 64)
			if perr != nil {
				return nil, src, nil
			}
			return &PRangeValue{Center: center, Percent: pct}, "", nil
		default:
			delta, derr := strconv.ParseFloat(rest, 64)
			if derr != nil {
				return nil, src, nil
			}
			return &DRangeValue{Center: center, Delta: delta}, "", nil
		}
	})
}
