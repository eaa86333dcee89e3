/*
 * db48x - based (radix-prefixed) integer value type.
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

// BasedInteger is a radix-tagged machine word (based_integer
// family, `b#xxx` / `#xxx[hodb]` literal forms). Unlike Integer it
// is always treated as an unsigned word of WordSize bits; Radix only
// controls how it parses and renders.
type BasedInteger struct {
	V     *numeric.BigInt
	Radix int
}

func (b *BasedInteger) Size() int                      { return 12 + 4*len(b.V.Limbs) }
func (b *BasedInteger) Walk(func(arena.Ref) arena.Ref) {}
func (b *BasedInteger) Tag() Tag                       { return TagBasedInteger }

func (b *BasedInteger) Render(p *Printer) {
	radix := b.Radix
	if radix == 0 {
		radix = p.Opts.Base
	}
	if radix == 0 {
		radix = 16
	}
	p.WriteString(strconv.Itoa(radix))
	p.WriteByte('#')
	p.WriteString(numeric.FormatBasedDigits(b.V, radix))
}

func (b *BasedInteger) Evaluate(m Machine) *Error {
	m.Push(b)
	return nil
}

func (b *BasedInteger) Graph(c *Canvas, p *Printer) { b.Render(p); c.DrawText(0, p.String()) }

// basedSuffixRadix maps the `#xxx[hodb]` trailing-letter shorthand to a
// radix: hex, octal, decimal, binary.
var basedSuffixRadix = map[byte]int{'h': 16, 'o': 8, 'd': 10, 'b': 2}

func init() {
	// "radix#digits" form, e.g. "16#FF", "2#1010".
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		i := strings.IndexByte(src, '#')
		if i <= 0 {
			return nil, src, nil
		}
		radix, err := strconv.Atoi(src[:i])
		if err != nil || radix < 2 || radix > 36 {
			return nil, src, nil
		}
		v, ok := numeric.ParseBasedDigits(src[i+1:], radix)
		if !ok {
			return nil, src, nil
		}
		return &BasedInteger{V: v, Radix: radix}, "", nil
	})

	// "#digits[hodb]" form, e.g. "#FFh", "#777o"; radix defaults to hex
	// when no suffix letter is present, matching the fixed-base-objects
	// option's most common use (hexadecimal memory addresses).
	RegisterLiteral(func(alloc Allocator, src string) (Value, string, error) {
		if len(src) < 2 || src[0] != '#' {
			return nil, src, nil
		}
		body := src[1:]
		radix := 16
		if last := body[len(body)-1]; last >= 'A' && last <= 'Z' || last >= 'a' && last <= 'z' {
			if r, ok := basedSuffixRadix[lower(last)]; ok {
				radix = r
				body = body[:len(body)-1]
			}
		}
		v, ok := numeric.ParseBasedDigits(body, radix)
		if !ok {
			return nil, src, nil
		}
		return &BasedInteger{V: v, Radix: radix}, "", nil
	})
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
