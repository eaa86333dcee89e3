/*
 * db48x - recursive bracket-aware object reader.
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

package container

import (
	"fmt"
	"io"
	"strings"

	"github.com/dm48x/rpl/internal/object"
)

// Reader builds a tree of container values out of a token stream:
// object.Scanner only ever hands back one leaf lexeme at a time, so
// balancing `{ }`, `[ ]`, `« »`, `: :` and `' '` falls to this package,
// keeping the scanner free of any nesting state.
type Reader struct {
	sc    *object.Scanner
	alloc object.Allocator
}

// NewReader wraps src for recursive parsing without an arena, for
// isolated parsing in tests and render round trips.
func NewReader(src string) *Reader { return &Reader{sc: object.NewScanner(src)} }

// NewReaderWith parses into alloc's arena: every object the reader
// completes lands at the bump tip, so a following collection sees
// exactly what the evaluator's roots still reach.
func NewReaderWith(alloc object.Allocator, src string) *Reader {
	return &Reader{sc: object.NewScanner(src), alloc: alloc}
}

// Parse reads every top-level object out of src in order (a REPL line
// is an implicit sequence: "1 2 +" parses as three objects, run in
// turn by the evaluator).
func Parse(src string) ([]object.Value, error) {
	return NewReader(src).ReadAll()
}

// ParseWith is Parse emitting into alloc's arena; the REPL and every
// other evaluating caller use this form.
func ParseWith(alloc object.Allocator, src string) ([]object.Value, error) {
	return NewReaderWith(alloc, src).ReadAll()
}

// ReadAll consumes every remaining top-level object, registering each
// completed one with the arena when the reader has one.
func (r *Reader) ReadAll() ([]object.Value, error) {
	var out []object.Value
	for {
		v, err := r.readOne()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if r.alloc != nil {
			r.alloc.Alloc(v)
		}
		out = append(out, v)
	}
}

func (r *Reader) readOne() (object.Value, error) {
	tok, ok := r.sc.Token()
	if !ok {
		return nil, io.EOF
	}
	return r.fromToken(tok)
}

// fromToken dispatches a single already-consumed token to the
// construction rule for its delimiter family, or to object.ParseToken
// for a plain leaf. Shared by readOne (top level, list/array bodies)
// and readProgramUntil (program bodies, which also recognize control
// keywords before falling back to this).
func (r *Reader) fromToken(tok string) (object.Value, error) {
	switch tok {
	case "{":
		items, err := r.readUntil('}')
		if err != nil {
			return nil, err
		}
		return &List{Items: items}, nil
	case "[":
		return r.readArray()
	case "«":
		items, err := r.readProgramUntil('»')
		if err != nil {
			return nil, err
		}
		return &Program{Items: items}, nil
	case ":":
		return r.readTagged()
	case "'":
		return r.readExpression()
	case "}", "]", "»":
		return nil, &object.ParseError{Detail: fmt.Sprintf("unexpected closing delimiter %q", tok)}
	default:
		v, _, err := object.ParseToken(r.alloc, tok)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// readUntil accumulates objects until closer is the next unconsumed
// rune, consuming the closer itself. Used for list/array bodies, which
// have no structured keywords of their own.
func (r *Reader) readUntil(closer rune) ([]object.Value, error) {
	var items []object.Value
	for {
		if r.sc.Eof() {
			return nil, &object.ParseError{Detail: fmt.Sprintf("unterminated, expected %q", closer)}
		}
		if r.sc.Peek() == closer {
			r.sc.Token()
			return items, nil
		}
		v, err := r.readOne()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// programKeywords opens a structured control object; readProgramUntil
// recognizes these before falling back to fromToken.
var programKeywords = map[string]bool{
	"IF": true, "FOR": true, "START": true, "WHILE": true, "DO": true,
	"IFERR": true, "→": true,
}

// readProgramUntil is readUntil specialized for `« … »` bodies: bare
// keyword tokens (IF, FOR, START, WHILE, DO, IFERR, →) are parsed into
// structured control objects instead of being handed to
// object.ParseToken as plain symbols.
func (r *Reader) readProgramUntil(closer rune) ([]object.Value, error) {
	var items []object.Value
	for {
		if r.sc.Eof() {
			return nil, &object.ParseError{Detail: fmt.Sprintf("unterminated, expected %q", closer)}
		}
		if r.sc.Peek() == closer {
			r.sc.Token()
			return items, nil
		}
		tok, ok := r.sc.Token()
		if !ok {
			return nil, &object.ParseError{Detail: fmt.Sprintf("unterminated, expected %q", closer)}
		}
		if programKeywords[tok] {
			v, err := r.parseKeyword(tok)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
			continue
		}
		v, err := r.fromToken(tok)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// readUntilKeyword accumulates program-body objects until one of
// stopWords is seen as a bare token at the current nesting level;
// nested structured keywords are parsed whole (consuming their own
// terminator) via parseKeyword before the outer scan continues, so
// nesting never confuses which END/NEXT/UNTIL closes which construct.
func (r *Reader) readUntilKeyword(stopWords ...string) ([]object.Value, string, error) {
	var items []object.Value
	for {
		if r.sc.Eof() {
			return nil, "", &object.ParseError{Detail: fmt.Sprintf("unterminated, expected one of %v", stopWords)}
		}
		tok, ok := r.sc.Token()
		if !ok {
			return nil, "", &object.ParseError{Detail: fmt.Sprintf("unterminated, expected one of %v", stopWords)}
		}
		for _, w := range stopWords {
			if tok == w {
				return items, tok, nil
			}
		}
		if programKeywords[tok] {
			v, err := r.parseKeyword(tok)
			if err != nil {
				return nil, "", err
			}
			items = append(items, v)
			continue
		}
		v, err := r.fromToken(tok)
		if err != nil {
			return nil, "", err
		}
		items = append(items, v)
	}
}

func (r *Reader) parseKeyword(kw string) (object.Value, error) {
	switch kw {
	case "IF":
		return r.parseIf()
	case "FOR":
		return r.parseFor()
	case "START":
		return r.parseStart()
	case "WHILE":
		return r.parseWhile()
	case "DO":
		return r.parseDo()
	case "IFERR":
		return r.parseIferr()
	case "→":
		return r.parseLocal()
	}
	return nil, &object.ParseError{Detail: "unknown keyword " + kw}
}

func (r *Reader) parseIf() (object.Value, error) {
	condItems, _, err := r.readUntilKeyword("THEN")
	if err != nil {
		return nil, err
	}
	thenItems, kw, err := r.readUntilKeyword("ELSE", "END")
	if err != nil {
		return nil, err
	}
	var elseProg *Program
	if kw == "ELSE" {
		elseItems, _, err := r.readUntilKeyword("END")
		if err != nil {
			return nil, err
		}
		elseProg = &Program{Items: elseItems}
	}
	return &IfThenElse{Cond: &Program{Items: condItems}, Then: &Program{Items: thenItems}, Else: elseProg}, nil
}

func (r *Reader) parseFor() (object.Value, error) {
	name, ok := r.sc.Token()
	if !ok {
		return nil, &object.ParseError{Detail: "FOR expects a loop variable name"}
	}
	bodyItems, kw, err := r.readUntilKeyword("NEXT", "STEP")
	if err != nil {
		return nil, err
	}
	return &ForLoop{Var: name, Body: &Program{Items: bodyItems}, IsStep: kw == "STEP"}, nil
}

func (r *Reader) parseStart() (object.Value, error) {
	bodyItems, kw, err := r.readUntilKeyword("NEXT", "STEP")
	if err != nil {
		return nil, err
	}
	return &StartLoop{Body: &Program{Items: bodyItems}, IsStep: kw == "STEP"}, nil
}

func (r *Reader) parseWhile() (object.Value, error) {
	condItems, _, err := r.readUntilKeyword("REPEAT")
	if err != nil {
		return nil, err
	}
	bodyItems, _, err := r.readUntilKeyword("END")
	if err != nil {
		return nil, err
	}
	return &WhileLoop{Cond: &Program{Items: condItems}, Body: &Program{Items: bodyItems}}, nil
}

func (r *Reader) parseDo() (object.Value, error) {
	bodyItems, _, err := r.readUntilKeyword("UNTIL")
	if err != nil {
		return nil, err
	}
	condItems, _, err := r.readUntilKeyword("END")
	if err != nil {
		return nil, err
	}
	return &DoLoop{Body: &Program{Items: bodyItems}, Cond: &Program{Items: condItems}}, nil
}

func (r *Reader) parseIferr() (object.Value, error) {
	bodyItems, _, err := r.readUntilKeyword("THEN")
	if err != nil {
		return nil, err
	}
	handlerItems, kw, err := r.readUntilKeyword("ELSE", "END")
	if err != nil {
		return nil, err
	}
	var success *Program
	if kw == "ELSE" {
		successItems, _, err := r.readUntilKeyword("END")
		if err != nil {
			return nil, err
		}
		success = &Program{Items: successItems}
	}
	return &IfErrNode{Body: &Program{Items: bodyItems}, Handler: &Program{Items: handlerItems}, Success: success}, nil
}

func (r *Reader) parseLocal() (object.Value, error) {
	var names []string
	for {
		if r.sc.Peek() == '«' {
			break
		}
		tok, ok := r.sc.Token()
		if !ok {
			return nil, &object.ParseError{Detail: "unterminated local binding, expected «"}
		}
		names = append(names, tok)
	}
	r.sc.Token() // consume «
	bodyItems, err := r.readProgramUntil('»')
	if err != nil {
		return nil, err
	}
	return &LocalBind{Names: names, Body: &Program{Items: bodyItems}}, nil
}

// readArray builds a vector from scalar items, or a matrix when every
// item is itself a vector (nested `[ ]` rows) of matching length.
func (r *Reader) readArray() (object.Value, error) {
	items, err := r.readUntil(']')
	if err != nil {
		return nil, err
	}
	cols := -1
	allRows := len(items) > 0
	for _, it := range items {
		a, ok := it.(*Array)
		if !ok || !a.IsVector() {
			allRows = false
			break
		}
		if cols == -1 {
			cols = a.Dims[0]
		} else if a.Dims[0] != cols {
			allRows = false
			break
		}
	}
	if allRows {
		data := make([]object.Value, 0, len(items)*cols)
		for _, it := range items {
			data = append(data, it.(*Array).Data...)
		}
		return &Array{Dims: []int{len(items), cols}, Data: data}, nil
	}
	return &Array{Dims: []int{len(items)}, Data: items}, nil
}

func (r *Reader) readTagged() (object.Value, error) {
	label, ok := r.sc.Token()
	if !ok {
		return nil, &object.ParseError{Detail: "unterminated tag, expected label"}
	}
	closer, ok := r.sc.Token()
	if !ok || closer != ":" {
		return nil, &object.ParseError{Detail: "unterminated tag, expected closing :"}
	}
	v, err := r.readOne()
	if err != nil {
		return nil, err
	}
	return &Tagged{Label: label, Value: v}, nil
}

func (r *Reader) readExpression() (object.Value, error) {
	rest := r.sc.Rest()
	idx := strings.IndexByte(rest, '\'')
	if idx < 0 {
		return nil, &object.ParseError{Detail: "unterminated expression, expected closing '"}
	}
	body := rest[:idx]
	r.sc.Advance(idx + 1)
	v, _, err := object.ParseToken(r.alloc, "'"+body+"'")
	if err != nil {
		return nil, err
	}
	return v, nil
}
