/*
 * db48x - DMS/HMS sexagesimal and date value types.
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

// HMSValue and DMSValue share the Sexagesimal kernel; only the
// unit letter ("h" vs "°") and the literal suffix distinguish them.
type HMSValue struct{ V numeric.Sexagesimal }

func (h *HMSValue) Size() int                      { return 24 }
func (h *HMSValue) Walk(func(arena.Ref) arena.Ref) {}
func (h *HMSValue) Tag() Tag                       { return TagHMS }
func (h *HMSValue) Render(p *Printer) {
	sign := ""
	if h.V.Neg {
		sign = "-"
	}
	p.WriteString(sign)
	p.WriteString(strconv.Itoa(h.V.Units))
	p.WriteByte('h')
	p.WriteString(strconv.Itoa(h.V.Min))
	p.WriteByte('m')
	p.WriteString(strconv.Itoa(h.V.Sec))
	p.WriteByte('s')
}
func (h *HMSValue) Evaluate(m Machine) *Error   { m.Push(h); return nil }
func (h *HMSValue) Graph(c *Canvas, p *Printer) { h.Render(p); c.DrawText(0, p.String()) }

type DMSValue struct{ V numeric.Sexagesimal }

func (d *DMSValue) Size() int                      { return 24 }
func (d *DMSValue) Walk(func(arena.Ref) arena.Ref) {}
func (d *DMSValue) Tag() Tag                       { return TagDMS }
func (d *DMSValue) Render(p *Printer) {
	sign := ""
	if d.V.Neg {
		sign = "-"
	}
	p.WriteString(sign)
	p.WriteString(strconv.Itoa(d.V.Units))
	p.WriteString("°")
	p.WriteString(strconv.Itoa(d.V.Min))
	p.WriteByte('\'')
	p.WriteString(strconv.Itoa(d.V.Sec))
	p.WriteByte('"')
}
func (d *DMSValue) Evaluate(m Machine) *Error   { m.Push(d); return nil }
func (d *DMSValue) Graph(c *Canvas, p *Printer) { d.Render(p); c.DrawText(0, p.String()) }

// DateValue is a calendar date, the (year, month, day) triple; a
// fractional time-of-day component is not separately modeled here since
// nothing downstream consumes it yet.
type DateValue struct{ V numeric.Date }

func (d *DateValue) Size() int                      { return 12 }
func (d *DateValue) Walk(func(arena.Ref) arena.Ref) {}
func (d *DateValue) Tag() Tag                       { return TagDate }
func (d *DateValue) Render(p *Printer) {
	p.WriteString(strconv.Itoa(d.V.Month))
	p.WriteByte('.')
	if d.V.Day < 10 {
		p.WriteByte('0')
	}
	p.WriteString(strconv.Itoa(d.V.Day))
	p.WriteString(strconv.Itoa(d.V.Year))
}
func (d *DateValue) Evaluate(m Machine) *Error   { m.Push(d); return nil }
func (d *DateValue) Graph(c *Canvas, p *Printer) { d.Render(p); c.DrawText(0, p.String()) }

// parseDottedSexagesimal reads the `d.mmssfr` dotted notation:
// the integer part is whole units, the first two fractional digits are
// minutes, the next two are whole seconds, and anything left over is an
// exact fractional-second numerator over the matching power of ten.
func parseDottedSexagesimal(s string) (numeric.Sexagesimal, bool) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return numeric.Sexagesimal{}, false
	}
	units, err := strconv.Atoi(s[:dot])
	if err != nil {
		return numeric.Sexagesimal{}, false
	}
	frac := s[dot+1:]
	min, sec := 0, 0
	rest := ""
	switch {
	case len(frac) >= 4:
		min, _ = strconv.Atoi(frac[0:2])
		sec, _ = strconv.Atoi(frac[2:4])
		rest = frac[4:]
	case len(frac) >= 2:
		min, _ = strconv.Atoi(frac[0:2])
		rest = frac[2:]
	default:
		rest = frac
	}
	sx := numeric.Sexagesimal{Neg: neg, Units: units, Min: min, Sec: sec}
	if rest != "" {
		num, err := strconv.Atoi(rest)
		if err == nil && num != 0 {
			den := numeric.FromInt64(1)
			ten := numeric.FromInt64(10)
			for range rest {
				den = numeric.Mul(den, ten)
			}
			sx.FracSec = numeric.NewFraction(numeric.FromInt64(int64(num)), den)
		}
	}
	return sx, true
}

func init() {
	// "d.mmssfr_hms" / "d.mmssfr_dms" dotted literals. A bare dotted
	// number without one of these suffixes is an ordinary Decimal: the
	// suffix is required so numeric literals stay unambiguous, the same
	// tradeoff based.go's `#digits[hodb]` suffix and complex.go's polar
	// angle-unit note make explicit.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		body, isHMS := "", false
		switch {
		case strings.HasSuffix(src, "_hms"):
			body, isHMS = strings.TrimSuffix(src, "_hms"), true
		case strings.HasSuffix(src, "_dms"):
			body = strings.TrimSuffix(src, "_dms")
		default:
			return nil, src, nil
		}
		sx, ok := parseDottedSexagesimal(body)
		if !ok {
			return nil, src, nil
		}
		if isHMS {
			return &HMSValue{V: sx}, "", nil
		}
		return &DMSValue{V: sx}, "", nil
	})

	// "mm.ddyyyy_date" literal, the same MM.DDYYYY convention the
	// DateValue.Render above writes back out.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		if !strings.HasSuffix(src, "_date") {
			return nil, src, nil
		}
		body := strings.TrimSuffix(src, "_date")
		dot := strings.IndexByte(body, '.')
		if dot < 0 {
			return nil, src, nil
		}
		month, err := strconv.Atoi(body[:dot])
		if err != nil {
			return nil, src, nil
		}
		frac := body[dot+1:]
		if len(frac) < 3 {
			return nil, src, nil
		}
		day, err := strconv.Atoi(frac[:2])
		if err != nil {
			return nil, src, nil
		}
		year, err := strconv.Atoi(frac[2:])
		if err != nil {
			return nil, src, nil
		}
		return &DateValue{V: numeric.Date{Year: year, Month: month, Day: day}}, "", nil
	})

	RegisterCommand("→HMS", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		f, ok := toFloatScalar(v)
		if !ok {
			return m.Raise(ErrBadArgType, "→HMS expects a number")
		}
		m.Push(&HMSValue{V: numeric.FromDecimalDegrees(f)})
		return nil
	})

	RegisterCommand("HMS→", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		h, ok := v.(*HMSValue)
		if !ok {
			return m.Raise(ErrBadArgType, "HMS→ expects an hms value")
		}
		m.Push(&DecimalValue{V: numeric.FromFloat64(h.V.ToDecimalDegrees())})
		return nil
	})

	RegisterCommand("→DMS", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		f, ok := toFloatScalar(v)
		if !ok {
			return m.Raise(ErrBadArgType, "→DMS expects a number")
		}
		m.Push(&DMSValue{V: numeric.FromDecimalDegrees(f)})
		return nil
	})

	RegisterCommand("DMS→", func(m Machine) *Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		d, ok := v.(*DMSValue)
		if !ok {
			return m.Raise(ErrBadArgType, "DMS→ expects a dms value")
		}
		m.Push(&DecimalValue{V: numeric.FromFloat64(d.V.ToDecimalDegrees())})
		return nil
	})

	// DDAYS takes two dates and returns the signed day difference.
	RegisterCommand("DDAYS", func(m Machine) *Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		da, ok1 := a.(*DateValue)
		db, ok2 := b.(*DateValue)
		if !ok1 || !ok2 {
			return m.Raise(ErrBadArgType, "DDAYS expects two dates")
		}
		m.Push(&Integer{V: numeric.FromInt64(da.V.JulianDay() - db.V.JulianDay())})
		return nil
	})

	// DATE+ adds a signed integer day count to a date, normalizing the
	// result to a valid calendar date.
	RegisterCommand("DATE+", func(m Machine) *Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		da, ok := a.(*DateValue)
		if !ok {
			return m.Raise(ErrBadArgType, "DATE+ expects a date")
		}
		n, ok := toFloatScalar(b)
		if !ok {
			return m.Raise(ErrBadArgType, "DATE+ expects a day count")
		}
		m.Push(&DateValue{V: da.V.AddDays(int64(n))})
		return nil
	})
}
