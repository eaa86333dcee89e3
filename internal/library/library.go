/*
 * db48x - constants, equations, and xlib tables.
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

// Package library implements three parallel tables — constants,
// equations, xlibs — as ordered, categorized (name, definition,
// uncertainty?) lists, plus the Attach/Detach bookkeeping the evaluator
// consults as a symbol-resolution fallback. The registry is a
// name-keyed map filled by init-time registration, the same shape
// config/configparser uses for settings names.
package library

import (
	"sort"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

// Entry is one (name, definition, uncertainty?) row shared by all three
// tables. Definition is whatever Value the table names: a number
// for a constant, an Expression/Assignment for an equation, a Program
// for an xlib routine.
type Entry struct {
	Name        string
	Category    string
	Definition  object.Value
	Uncertainty *numeric.Decimal // nil when the entry carries no measurement uncertainty
}

// Table is an ordered, name-indexed collection implementing
// runtime.Library so it can be attached for unbound-symbol fallback
// resolution.
type Table struct {
	tableName string
	order     []string
	entries   map[string]Entry
}

// NewTable creates an empty table named name (the name Attach/Detach and
// AttachedLibraries report).
func NewTable(name string) *Table {
	return &Table{tableName: name, entries: map[string]Entry{}}
}

func (t *Table) Name() string { return t.tableName }

// Add registers or replaces an entry, preserving first-insertion order
// for category listings.
func (t *Table) Add(e Entry) {
	if _, exists := t.entries[e.Name]; !exists {
		t.order = append(t.order, e.Name)
	}
	t.entries[e.Name] = e
}

// Lookup implements runtime.Library: it resolves a bare name to the
// entry's Definition, the value an unbound-symbol fallback wants.
func (t *Table) Lookup(name string) (object.Value, bool) {
	e, ok := t.entries[name]
	if !ok {
		return nil, false
	}
	return e.Definition, true
}

// Get returns the full Entry (definition plus uncertainty), used by
// Ⓢ/Ⓡ and the rounding commands.
func (t *Table) Get(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Category lists entries sharing category, in registration order.
func (t *Table) Category(category string) []string {
	var out []string
	for _, n := range t.order {
		if t.entries[n].Category == category {
			out = append(out, n)
		}
	}
	return out
}

// Names lists every entry name, sorted (for a browse/catalog command).
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.entries))
	for n := range t.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Constants, Equations, and Xlibs are the three standard tables.
// Package-level singletons keep registration (init-time, below)
// simple; a session attaches whichever it wants via runtime.Attach.
var (
	Constants = NewTable("CONSTANTS")
	Equations = NewTable("EQUATIONS")
	Xlibs     = NewTable("XLIB")
)

func init() {
	reg := func(name, category, value string) {
		d, ok := numeric.ParseDecimal(value)
		if !ok {
			return
		}
		Constants.Add(Entry{Name: name, Category: category, Definition: &object.DecimalValue{V: d}})
	}

	regU := func(name, category, value, uncertainty string) {
		d, ok := numeric.ParseDecimal(value)
		u, uok := numeric.ParseDecimal(uncertainty)
		if !ok || !uok {
			return
		}
		Constants.Add(Entry{Name: name, Category: category, Definition: &object.DecimalValue{V: d}, Uncertainty: &u})
	}

	// A representative slice of the standard constants table;
	// values are the CODATA/SI constants in SI units; of the measured
	// (non-defining) constants, only G carries its reported uncertainty.
	reg("c", "Physics", "299792458")
	regU("G", "Physics", "6.67430e-11", "1.5e-15")
	reg("h", "Physics", "6.62607015e-34")
	reg("k", "Physics", "1.380649e-23")
	reg("NA", "Chemistry", "6.02214076e23")
	reg("R", "Chemistry", "8.314462618")
	reg("e", "Physics", "1.602176634e-19")
	reg("eps0", "Physics", "8.8541878128e-12")
	reg("mu0", "Physics", "1.25663706212e-6")
	reg("me", "Physics", "9.1093837015e-31")
	reg("mp", "Physics", "1.67262192369e-27")
	reg("g", "Physics", "9.80665")
	reg("pi", "Math", "3.14159265358979323846")

	Xlibs.Add(Entry{
		Name:       "QUAD",
		Category:   "Math",
		Definition: &container.Program{},
	})

	sym := func(name string) *container.Expression {
		return &container.Expression{Leaf: &object.Symbol{Name: name}}
	}
	bin := func(op string, a, b *container.Expression) *container.Expression {
		return &container.Expression{Op: op, Args: []*container.Expression{a, b}}
	}

	// Ohm's law, V = I*R.
	Equations.Add(Entry{
		Name:     "Ohm",
		Category: "Electricity",
		Definition: &container.Assignment{
			Name:  "V",
			Value: bin("*", sym("I"), sym("R")),
		},
	})

	one := &container.Expression{Leaf: &object.Integer{V: numericFromInt(1)}}
	two := &container.Expression{Leaf: &object.Integer{V: numericFromInt(2)}}

	// Kinetic energy, Ek = 1/2*m*v^2.
	Equations.Add(Entry{
		Name:     "KineticEnergy",
		Category: "Mechanics",
		Definition: &container.Assignment{
			Name:  "Ek",
			Value: bin("*", bin("/", one, two), bin("*", sym("m"), bin("^", sym("v"), two))),
		},
	})
}

func numericFromInt(n int) *numeric.BigInt { return numeric.FromInt64(int64(n)) }
