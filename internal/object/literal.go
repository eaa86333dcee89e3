/*
 * db48x - numeric literal constructors.
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
	"github.com/dm48x/rpl/internal/numeric"
)

// Symbol is a bound or unbound name: evaluating one looks it up in the
// current directory path and evaluates the result, or raises
// ErrUndefinedName. A quoted symbol ('NAME) is pushed by the
// parser as the argument to a quote wrapper rather than handled here.
type Symbol struct {
	Name string
}

func (s *Symbol) Size() int                      { return 8 + len(s.Name) }
func (s *Symbol) Walk(func(arena.Ref) arena.Ref) {}
func (s *Symbol) Tag() Tag                       { return TagSymbol }
func (s *Symbol) Render(p *Printer)              { p.WriteString(s.Name) }
func (s *Symbol) Graph(c *Canvas, p *Printer)    { s.Render(p); c.DrawText(0, p.String()) }
func (s *Symbol) Evaluate(m Machine) *Error {
	v, ok := m.Lookup(s.Name)
	if !ok {
		if id, ok := LookupCommand(s.Name); ok {
			return (&Command{ID: id}).Evaluate(m)
		}
		return m.Raise(ErrUndefinedName, "%s", s.Name).WithCulprit(s)
	}
	return v.Evaluate(m)
}

func init() {
	// Integer literal: an optional sign followed by all decimal digits.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		if src == "" {
			return nil, src, nil
		}
		b, ok := numeric.ParseBigInt(src)
		if !ok {
			return nil, src, nil
		}
		return &Integer{V: b}, "", nil
	})

	// Decimal literal: contains a '.' or an exponent marker and parses as
	// a valid decimal; tried after the integer constructor so that a
	// plain integer string stays exact rather than becoming inexact.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		if !strings.ContainsAny(src, ".eE") {
			return nil, src, nil
		}
		d, ok := numeric.ParseDecimal(src)
		if !ok {
			return nil, src, nil
		}
		return &DecimalValue{V: d}, "", nil
	})

	// Fraction literal: "num/den" with both sides plain integers.
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.IndexByte(src, '/')
		if i <= 0 || i == len(src)-1 {
			return nil, src, nil
		}
		num, ok1 := numeric.ParseBigInt(src[:i])
		den, ok2 := numeric.ParseBigInt(src[i+1:])
		if !ok1 || !ok2 || den.IsZero() {
			return nil, src, nil
		}
		return simplifyFraction(numeric.NewFraction(num, den)), "", nil
	})

	RegisterSymbolConstructor(func(alloc Allocator, src string) (Value, string, error) {
		return &Symbol{Name: src}, "", nil
	})
}
