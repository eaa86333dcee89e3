/*
 * db48x - recursive-descent object parser.
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
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dm48x/rpl/internal/arena"
)

// Constructor builds a Value out of source text recognized by a parser
// rule. Families register one in init() (numeric literals, symbols,
// text, aggregates), the same register-a-callback shape
// config/configparser uses, instead of a hard-coded switch over every
// object kind. The finished object is registered with the Allocator by
// ParseToken, so individual constructors only need alloc when they
// build nested structure of their own.
type Constructor func(alloc Allocator, src string) (Value, string, error)

// Allocator is the arena surface the parser emits finished objects
// into; runtime.Runtime supplies it (the Machine interface carries the
// same two methods). A nil Allocator parses without registering
// anything, which the isolated kernel tests rely on.
type Allocator interface {
	Alloc(o arena.Object) arena.Ref
	Resolve(r arena.Ref) Value
}

// Scanner tokenizes RPL source text into raw unparsed lexemes: the
// parser proper recognizes each lexeme's family (number, symbol, string,
// delimiter) and hands the source slice to that family's constructor.
// The two-level split keeps lexing generic while each family owns its
// own grammar.
type Scanner struct {
	src string
	pos int
}

// NewScanner wraps src for tokenization starting at offset 0.
func NewScanner(src string) *Scanner { return &Scanner{src: src} }

// Eof reports whether the scanner has consumed all input.
func (s *Scanner) Eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) skipSpace() {
	for s.pos < len(s.src) {
		r, n := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += n
	}
}

// delimRunes lists every single-rune token the reader splits out on its
// own: program «», list/array {}[](), expression/quote ', tag :, and
// the double quote that opens/closes a text literal.
const delimRunes = "{}[]()'\":«»"

func isDelim(r rune) bool { return strings.ContainsRune(delimRunes, r) }

// Peek returns the next non-space rune without consuming it, or 0 at
// end of input.
func (s *Scanner) Peek() rune {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

// Token reads the next whitespace- or delimiter-separated lexeme. The
// delimiter runes «{[('"»:») and the matching closers are returned as
// single-rune tokens of their own; a double quote instead opens a text
// literal that runs, with `""` as an escaped quote, to its closing
// quote and is returned whole (quotes included). Everything else runs
// until the next space or delimiter.
func (s *Scanner) Token() (string, bool) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return "", false
	}
	r, n := utf8.DecodeRuneInString(s.src[s.pos:])
	if r == '"' {
		start := s.pos
		s.pos += n
		for s.pos < len(s.src) {
			c, cn := utf8.DecodeRuneInString(s.src[s.pos:])
			if c == '"' {
				s.pos += cn
				// `""` inside the literal is an escaped quote, not the close.
				if s.pos < len(s.src) {
					if c2, c2n := utf8.DecodeRuneInString(s.src[s.pos:]); c2 == '"' {
						s.pos += c2n
						continue
					}
				}
				break
			}
			s.pos += cn
		}
		return s.src[start:s.pos], true
	}
	if isDelim(r) {
		s.pos += n
		return string(r), true
	}
	start := s.pos
	for s.pos < len(s.src) {
		c, cn := utf8.DecodeRuneInString(s.src[s.pos:])
		if unicode.IsSpace(c) || isDelim(c) {
			break
		}
		s.pos += cn
	}
	return s.src[start:s.pos], true
}

// Rest returns the unconsumed remainder of the source, used when a
// container constructor needs to recurse into the scanner's tail
// (lists/programs/arrays parse their own balanced-delimiter body).
func (s *Scanner) Rest() string { return s.src[s.pos:] }

// Advance moves the scanner position forward by n bytes, used after a
// nested parse consumes part of Rest().
func (s *Scanner) Advance(n int) { s.pos += n }

// ParseError reports a malformed literal, the "Syntax error" taxonomy
// entry.
type ParseError struct {
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Detail)
}

// literalConstructors and symbolConstructor are populated by init
// functions via RegisterLiteral / RegisterSymbolConstructor below: this
// package's own literal files (literal.go, based.go, complex.go and
// others) and the container package's. Registration keeps this package
// free of a dependency on internal/container.
var literalConstructors []Constructor

var symbolConstructor Constructor

// RegisterLiteral adds a candidate literal constructor, tried in
// registration order by ParseToken. Numeric families register
// increasingly permissive constructors last (decimal falls back from
// integer, for instance) so the most specific match wins before a
// catch-all.
func RegisterLiteral(c Constructor) {
	literalConstructors = append(literalConstructors, c)
}

// RegisterSymbolConstructor installs the fallback constructor used when
// no numeric literal matches: an unquoted token becomes a symbol, which
// runs the builtin of the same name, if any, when it is evaluated.
func RegisterSymbolConstructor(c Constructor) {
	symbolConstructor = c
}

// ParseToken tries every registered literal constructor against tok in
// order, falling back to the symbol constructor. It returns the parsed
// Value and any trailing text the constructor did not consume (used by
// container constructors that parse a whole bracketed body as a single
// "token"). A non-nil alloc receives every finished object: this is the
// bump-tip emission point where parsed objects become arena-resident.
func ParseToken(alloc Allocator, tok string) (Value, string, error) {
	for _, c := range literalConstructors {
		if v, rest, err := c(alloc, tok); v != nil || err != nil {
			if v != nil && alloc != nil {
				alloc.Alloc(v)
			}
			return v, rest, err
		}
	}
	if symbolConstructor != nil {
		v, rest, err := symbolConstructor(alloc, tok)
		if v != nil && alloc != nil {
			alloc.Alloc(v)
		}
		return v, rest, err
	}
	return nil, tok, &ParseError{Detail: "no constructor matched " + tok}
}
