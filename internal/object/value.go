/*
 * db48x - RPL object value interface and evaluator contract.
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
	"strings"

	"github.com/dm48x/rpl/internal/arena"
)

// Value is satisfied by every concrete object type (bignum, text, list,
// program, expression, command, ...). It composes arena.Object (so every
// value is GC-relocatable) with the three of the five uniform operations
// that are naturally object methods: size is arena.Object.Size, render
// and evaluate are below, and parse is a package-level function per
// family (constructors, not methods, since parsing produces a value
// rather than consuming one) registered in the parser tables, and graph
// is Graph below.
//
// Objects are self-contained: a composite owns its children in place,
// by copy, never through an arena Ref, so cycles are impossible by
// construction and the Refs the collector tracks live only in the
// roots (stack, directories). Walk on a composite descends through its
// in-place children; Walk on a childless leaf is empty.
type Value interface {
	arena.Object
	Tag() Tag
	Render(p *Printer)
	Evaluate(m Machine) *Error
	Graph(c *Canvas, p *Printer)
}

// RenderOpts carries every display setting lists that affects how a
// number or container is printed. The runtime's settings store produces
// one of these on every render call; object itself has no notion of a
// global settings singleton, which keeps this package free of any
// dependency on internal/settings.
type RenderOpts struct {
	Base              int // 2..36, default-base rendering for unmarked based integers
	Precision         int // decimal working precision
	SignificantDigits int // display significant digits, 0 = unset
	FixedDigits       int // Fix n, -1 if not fixed
	Notation          int // NotationStd/Sci/Eng
	FractionMode      int // FractionImproper/Mixed/Small/Big
	MantissaSpacing   int // digit group size, 0 = no grouping
	FractionSpacing   int
	BasedSpacing      int
	Separator         rune // grouping glyph
	DecimalRadix      rune // '.' or ','
	AngleUnit         int  // AngleDeg/Rad/Grad/PiRadians
	FancyExponent     bool
	TrailingDecimal   bool // keep "500." dot
	CompatibleBased   bool // subscript-style based numbers vs `#xxxh` suffix
	SingleLine        bool // stack rendering: one line vs multi-line
	HorizontalVectors bool
	HorizontalLists   bool
}

const (
	NotationStd = iota
	NotationFixed
	NotationSci
	NotationEng
)

const (
	FractionImproper = iota
	FractionMixed
	FractionSmall
	FractionBig
)

const (
	AngleDeg = iota
	AngleRad
	AngleGrad
	AnglePiRadians
)

// DefaultRenderOpts are the display defaults (base 10, standard
// notation) in force before any settings script has run.
func DefaultRenderOpts() RenderOpts {
	return RenderOpts{
		Base:            10,
		Precision:       24,
		FixedDigits:     -1,
		Notation:        NotationStd,
		FractionMode:    FractionImproper,
		Separator:       ' ',
		DecimalRadix:    '.',
		AngleUnit:       AngleDeg,
		TrailingDecimal: true,
	}
}

// Printer is the append-only output sink every Render implementation
// writes to, bundled with the options controlling its formatting, so
// rendering always happens under the current display settings.
type Printer struct {
	strings.Builder
	Opts RenderOpts
}

// NewPrinter creates a Printer using opts.
func NewPrinter(opts RenderOpts) *Printer {
	return &Printer{Opts: opts}
}

// Canvas is the minimal raster sink Graph renders to. A full bitmap/pixmap
// typesetter (stacked fractions, integrals, matrices) is outside this
// runtime's core (LCD/graphics drivers are an external collaborator);
// Graph exists so every Value satisfies a uniform five-operation
// interface, and its default implementation renders the same text the
// Renderer would produce into a single-row canvas, which is sufficient
// for the grob/bitmap/pixmap container types in to round-trip.
type Canvas struct {
	Width, Height int
	Rows          [][]byte
}

// NewCanvas allocates a canvas of the given size, zero-filled.
func NewCanvas(w, h int) *Canvas {
	rows := make([][]byte, h)
	for i := range rows {
		rows[i] = make([]byte, w)
	}
	return &Canvas{Width: w, Height: h, Rows: rows}
}

// DrawText is the fallback single-row typesetter used by Graph
// implementations that do not need stacked layout.
func (c *Canvas) DrawText(row int, text string) {
	if row < 0 || row >= len(c.Rows) {
		return
	}
	for i, ch := range []byte(text) {
		if i >= len(c.Rows[row]) {
			break
		}
		c.Rows[row][i] = ch
	}
}

// Machine is the minimal surface Evaluate methods need from the runtime.
// Defining it here (rather than importing internal/runtime) keeps object
// a leaf package: runtime implements Machine, object only consumes it —
// the low-level package names the contract, the orchestrator satisfies
// it.
type Machine interface {
	Push(Value)
	Pop() (Value, *Error)
	Peek(depth int) (Value, *Error) // 0-based from top
	Depth() int
	Drop(n int) *Error

	Lookup(name string) (Value, bool)
	Store(name string, v Value) *Error

	// Run evaluates a body value in the current frame (used by control
	// flow objects, iferr handlers, and user-defined function calls).
	Run(body Value) *Error

	// PushFrame binds names to values as locals visible to nested Run
	// calls until the returned function is invoked; it must be called via
	// defer to guarantee release on every exit path, including errors.
	PushFrame(names []string, values []Value) func()

	Raise(kind ErrorKind, format string, args ...any) *Error

	Alloc(o arena.Object) arena.Ref
	Resolve(r arena.Ref) Value

	RenderOpts() RenderOpts
}

// ArgRecorder is an optional capability a Machine may implement so that
// Command.Evaluate can bracket a builtin's execution and let the
// LastArgs buffer fill itself from whatever the builtin
// pops, instead of requiring every builtin to report its own arguments.
type ArgRecorder interface {
	BeginCapture()
	EndCapture()
}
