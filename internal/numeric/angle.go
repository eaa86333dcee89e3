/*
 * db48x - DMS/HMS sexagesimal and date kernels.
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

package numeric

import "fmt"

// Sexagesimal is the shared representation for both DMS (degrees,
// minutes, seconds) and HMS (hours, minutes, seconds) literals: they
// differ only in how the object package renders and parses them, so one
// kernel serves both families.
type Sexagesimal struct {
	Neg             bool
	Units, Min, Sec int
	// FracSec is the exact fractional part of the seconds component,
	// kept as a Fraction so a non-terminating value (e.g. 10'20.333...")
	// never loses precision until render time truncates for display.
	FracSec *Fraction
}

// ToDecimalDegrees flattens the sexagesimal value to a single float64 in
// the base unit (degrees or hours), for use by trig/arithmetic that
// needs a scalar.
func (s Sexagesimal) ToDecimalDegrees() float64 {
	v := float64(s.Units) + float64(s.Min)/60 + float64(s.Sec)/3600
	if s.FracSec != nil {
		num := toInt64(s.FracSec.Num)
		den := toInt64(s.FracSec.Den)
		if den != 0 {
			v += (float64(num) / float64(den)) / 3600
		}
	}
	if s.Neg {
		v = -v
	}
	return v
}

// FromDecimalDegrees splits a scalar into whole units/minutes/seconds.
func FromDecimalDegrees(v float64) Sexagesimal {
	neg := v < 0
	if neg {
		v = -v
	}
	units := int(v)
	rem := (v - float64(units)) * 60
	min := int(rem)
	sec := (rem - float64(min)) * 60
	return Sexagesimal{Neg: neg, Units: units, Min: min, Sec: int(sec)}
}

func (s Sexagesimal) String() string {
	sign := ""
	if s.Neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%d'%d\"", sign, s.Units, s.Min, s.Sec)
}

// Date is a proleptic Gregorian calendar date stored as (year, month,
// day) rather than a Unix timestamp, since date literals accept
// years far outside time.Time's comfortable range and need exact
// calendar arithmetic (JulianDay below) rather than monotonic-clock
// semantics.
type Date struct {
	Year, Month, Day int
}

// JulianDay converts a Gregorian date to a Julian day number using the
// standard Fliegel & Van Flandern algorithm, the basis for date
// arithmetic (day-of-week, date differences) without pulling in a
// calendar library the retrieval pack doesn't carry.
func (d Date) JulianDay() int64 {
	a := int64((14 - d.Month) / 12)
	y := int64(d.Year) + 4800 - a
	m := int64(d.Month) + 12*a - 3
	return int64(d.Day) + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// DateFromJulianDay is the inverse of JulianDay.
func DateFromJulianDay(jd int64) Date {
	a := jd + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153
	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := 100*b + d - 4800 + m/10
	return Date{Year: int(year), Month: int(month), Day: int(day)}
}

// Weekday returns 0=Sunday..6=Saturday.
func (d Date) Weekday() int {
	w := (d.JulianDay() + 1) % 7
	if w < 0 {
		w += 7
	}
	return int(w)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int64) Date { return DateFromJulianDay(d.JulianDay() + n) }
