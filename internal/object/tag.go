/*
 * db48x - RPL object type tags.
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

// Package object defines the closed tagged-type system every RPL value
// belongs to and the five uniform operations each variant supports:
// size, parse, render, evaluate, graph. Dispatch is a table indexed by
// a small integer tag, built once at package load.
package object

import "fmt"

// Tag is the plain uint16 discriminator every object begins with
// . It is a closed enumeration; family boundaries below
// mirror the table in exactly.
type Tag uint16

const (
	TagNone Tag = iota

	// Exact numbers.
	TagInteger
	TagNegInteger
	TagBigNum
	TagNegBigNum
	TagFraction
	TagNegFraction
	TagBigFraction
	TagNegBigFraction
	TagBasedInteger

	// Inexact numbers.
	TagDecimal
	TagNegDecimal
	TagHWFloat
	TagHWDouble

	// Complex.
	TagRectangular
	TagPolar

	// Ranges.
	TagRange
	TagDRange
	TagPRange
	TagUncertain

	// Units.
	TagUnit

	// Time / date.
	TagHMS
	TagDMS
	TagDate

	// Symbolic.
	TagSymbol
	TagExpression
	TagPolynomial
	TagLocal

	// Aggregate.
	TagText
	TagList
	TagArray
	TagProgram
	TagTagged // the `:label:obj` tagged-value wrapper; also used for Modes/settings artifacts
	TagAssignment

	// Raster.
	TagGrob
	TagBitmap
	TagPixmap

	// Commands: one logical variant per built-in operator/function. They
	// carry no payload beyond a CommandID selecting which builtin, so the
	// family is represented by a single tag plus a sub-discriminator
	// (see command.go) rather than one Tag constant per builtin, which
	// keeps the family closed while still covering the ~100+ builtin
	// names.
	TagCommand

	tagCount
)

var tagNames = [...]string{
	TagNone:           "none",
	TagInteger:        "integer",
	TagNegInteger:     "neg_integer",
	TagBigNum:         "bignum",
	TagNegBigNum:      "neg_bignum",
	TagFraction:       "fraction",
	TagNegFraction:    "neg_fraction",
	TagBigFraction:    "big_fraction",
	TagNegBigFraction: "neg_big_fraction",
	TagBasedInteger:   "based_integer",
	TagDecimal:        "decimal",
	TagNegDecimal:     "neg_decimal",
	TagHWFloat:        "hwfloat",
	TagHWDouble:       "hwdouble",
	TagRectangular:    "rectangular",
	TagPolar:          "polar",
	TagRange:          "range",
	TagDRange:         "drange",
	TagPRange:         "prange",
	TagUncertain:      "uncertain",
	TagUnit:           "unit",
	TagHMS:            "hms",
	TagDMS:            "dms",
	TagDate:           "date",
	TagSymbol:         "symbol",
	TagExpression:     "expression",
	TagPolynomial:     "polynomial",
	TagLocal:          "local",
	TagText:           "text",
	TagList:           "list",
	TagArray:          "array",
	TagProgram:        "program",
	TagTagged:         "tagged",
	TagAssignment:     "assignment",
	TagGrob:           "grob",
	TagBitmap:         "bitmap",
	TagPixmap:         "pixmap",
	TagCommand:        "command",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) && tagNames[t] != "" {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", t)
}

// IsExact reports whether values of this tag participate in exact
// (integer/rational) arithmetic rather than inexact (decimal/hw-float).
func (t Tag) IsExact() bool {
	switch t {
	case TagInteger, TagNegInteger, TagBigNum, TagNegBigNum,
		TagFraction, TagNegFraction, TagBigFraction, TagNegBigFraction,
		TagBasedInteger:
		return true
	}
	return false
}

// IsNumeric reports whether the tag denotes any scalar number (exact,
// inexact, complex, range, unit, or time value participate in arithmetic
// dispatch together).
func (t Tag) IsNumeric() bool {
	switch t {
	case TagInteger, TagNegInteger, TagBigNum, TagNegBigNum,
		TagFraction, TagNegFraction, TagBigFraction, TagNegBigFraction,
		TagBasedInteger, TagDecimal, TagNegDecimal, TagHWFloat, TagHWDouble,
		TagRectangular, TagPolar, TagRange, TagDRange, TagPRange, TagUncertain,
		TagUnit, TagHMS, TagDMS, TagDate:
		return true
	}
	return false
}
