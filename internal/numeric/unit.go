/*
 * db48x - dimensioned unit kernel.
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

// Dimension is the exponent vector over the seven SI base quantities
// (radians vs steradians-style bookkeeping is left to the unit table,
// not encoded here).
type Dimension [7]int8

const (
	DimLength = iota
	DimMass
	DimTime
	DimCurrent
	DimTemperature
	DimSubstance
	DimLuminosity
)

// UnitDef names one entry in the unit conversion table: its dimension
// vector and the affine conversion to that dimension's SI base unit
// (scale*value + offset), the offset existing solely for the affine
// temperature scales (°C, °F).
type UnitDef struct {
	Name   string
	Dim    Dimension
	Scale  float64
	Offset float64
}

var unitTable = map[string]UnitDef{}

// RegisterUnit adds a named unit to the global conversion table. No
// package in this module calls it, so the table starts empty.
func RegisterUnit(u UnitDef) { unitTable[u.Name] = u }

// LookupUnit resolves a unit name.
func LookupUnit(name string) (UnitDef, bool) {
	u, ok := unitTable[name]
	return u, ok
}

// AddDim returns the sum of two dimension vectors (used when multiplying
// quantities).
func AddDim(a, b Dimension) Dimension {
	var r Dimension
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

// SubDim returns a-b (used when dividing quantities).
func SubDim(a, b Dimension) Dimension {
	var r Dimension
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

// SameDim reports dimensional compatibility, the gate that must pass
// before two unit objects can be added or compared (object.ErrInconsistentUnits
// otherwise).
func SameDim(a, b Dimension) bool { return a == b }

// Convert maps a value expressed in unit `from` into unit `to`'s scale,
// routing through each unit's SI base value. Returns ok=false if the two
// units' dimensions differ.
func Convert(value float64, from, to UnitDef) (float64, bool) {
	if !SameDim(from.Dim, to.Dim) {
		return 0, false
	}
	base := value*from.Scale + from.Offset
	return (base - to.Offset) / to.Scale, true
}

func (d Dimension) String() string {
	names := [7]string{"L", "M", "T", "I", "Θ", "N", "J"}
	s := ""
	for i, n := range d {
		if n != 0 {
			s += fmt.Sprintf("%s^%d", names[i], n)
		}
	}
	if s == "" {
		return "1"
	}
	return s
}
