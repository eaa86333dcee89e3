/*
 * db48x - algebraic expression objects.
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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Expression is the `'...'` quoted algebraic object: an
// operator tree over leaves that are either concrete values (numbers,
// text) or unresolved symbols. Unlike a program, evaluating an
// expression does not run a sequence of commands for effect; it walks
// the tree bottom-up, replacing any subtree whose leaves are all bound
// with its computed value and leaving the rest symbolic (auto-simplify
// is internal/algebra's job; this is the substrate it rewrites).
type Expression struct {
	Op   string
	Args []*Expression
	Leaf object.Value
}

func leafExpr(v object.Value) *Expression { return &Expression{Leaf: v} }

func (e *Expression) Size() int {
	n := 8
	for _, a := range e.Args {
		n += a.Size()
	}
	return n
}

func (e *Expression) Walk(visit func(arena.Ref) arena.Ref) {
	if e.Leaf != nil {
		e.Leaf.Walk(visit)
		return
	}
	for _, a := range e.Args {
		a.Walk(visit)
	}
}
func (e *Expression) Tag() object.Tag { return object.TagExpression }

// precedence ranks binary operators; higher binds tighter. Matches the
// conventional algebraic order asks Render to reproduce.
var precedence = map[string]int{
	"|": 0,
	"=": 1,
	"+": 2, "-": 2,
	"*": 3, "/": 3,
	"^": 4,
}

func (e *Expression) Render(p *object.Printer) { e.render(p, 0) }

func (e *Expression) render(p *object.Printer, minPrec int) {
	if e.Leaf != nil {
		e.Leaf.Render(p)
		return
	}
	if e.Op == "neg" {
		p.WriteByte('-')
		e.Args[0].render(p, precedence["^"]+1)
		return
	}
	if _, isOperator := precedence[e.Op]; !isOperator || len(e.Args) != 2 {
		// Function call syntax: name(arg1, arg2, ...).
		p.WriteString(e.Op)
		p.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				p.WriteString(", ")
			}
			a.render(p, 0)
		}
		p.WriteByte(')')
		return
	}
	prec := precedence[e.Op]
	paren := prec < minPrec
	if paren {
		p.WriteByte('(')
	}
	rightAssoc := e.Op == "^"
	leftMin, rightMin := prec, prec+1
	if rightAssoc {
		leftMin, rightMin = prec+1, prec
	}
	e.Args[0].render(p, leftMin)
	p.WriteString(e.Op)
	e.Args[1].render(p, rightMin)
	if paren {
		p.WriteByte(')')
	}
}

func (e *Expression) Graph(c *object.Canvas, p *object.Printer) {
	e.Render(p)
	c.DrawText(0, p.String())
}

func (e *Expression) Evaluate(m object.Machine) *object.Error {
	// A quoted bare name ('X') pushes the name itself, not its binding:
	// that is what makes the 'NAME' STO / 'NAME' RCL idiom work.
	// Resolution happens when the symbol itself is evaluated (EVAL).
	if e.Leaf != nil {
		m.Push(e.Leaf)
		return nil
	}
	v, err := e.eval(m)
	if err != nil {
		return err
	}
	m.Push(v)
	return nil
}

// eval walks the tree bottom-up. A leaf symbol that resolves via
// m.Lookup is replaced by its bound value; one that does not stays
// symbolic rather than raising "Undefined name" the way a bare
// Symbol.Evaluate would, since an unbound variable inside an expression
// is routine algebra, not an error.
func (e *Expression) eval(m object.Machine) (object.Value, *object.Error) {
	// `expr|v=val` substitutes before evaluating; the binding arm
	// is read structurally rather than evaluated, since `v=val` as an
	// expression would otherwise compute an equality test.
	if e.Op == "|" && len(e.Args) == 2 {
		b := e.Args[1]
		if b.Op == "=" && len(b.Args) == 2 {
			if sym, ok := b.Args[0].Leaf.(*object.Symbol); ok {
				return substituteSym(e.Args[0], sym.Name, b.Args[1]).eval(m)
			}
		}
		return nil, m.Raise(object.ErrBadArgType, "| expects a name=value binding")
	}
	if e.Leaf != nil {
		if sym, ok := e.Leaf.(*object.Symbol); ok {
			if v, found := m.Lookup(sym.Name); found {
				return v, nil
			}
			return e, nil
		}
		return e.Leaf, nil
	}

	results := make([]object.Value, len(e.Args))
	allConcrete := true
	for i, a := range e.Args {
		v, err := a.eval(m)
		if err != nil {
			return nil, err
		}
		results[i] = v
		if _, sym := v.(*Expression); sym {
			allConcrete = false
		}
	}
	if !allConcrete {
		args := make([]*Expression, len(results))
		for i, v := range results {
			if sub, ok := v.(*Expression); ok {
				args[i] = sub
			} else {
				args[i] = leafExpr(v)
			}
		}
		return &Expression{Op: e.Op, Args: args}, nil
	}

	id, ok := object.LookupCommand(e.Op)
	if !ok {
		return nil, m.Raise(object.ErrUndefinedName, "unknown operator %s", e.Op)
	}
	for _, v := range results {
		m.Push(v)
	}
	cmd := object.Command{ID: id}
	if err := cmd.Evaluate(m); err != nil {
		return nil, err
	}
	return m.Pop()
}

// substituteSym replaces every free occurrence of name in e with value,
// the structural walk `|` needs locally (the richer subst command with
// bound-variable awareness lives in the algebra package).
func substituteSym(e *Expression, name string, value *Expression) *Expression {
	if e == nil {
		return nil
	}
	if e.Leaf != nil {
		if sym, ok := e.Leaf.(*object.Symbol); ok && sym.Name == name {
			return value
		}
		return e
	}
	args := make([]*Expression, len(e.Args))
	for i, a := range e.Args {
		args[i] = substituteSym(a, name, value)
	}
	return &Expression{Op: e.Op, Args: args}
}

// ParseExpression parses the infix algebraic text between a pair of
// quotes (the quotes themselves are not included in src) into an
// Expression tree.
func ParseExpression(src string) (*Expression, error) {
	toks, err := lexExpr(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in expression", p.toks[p.pos].text)
	}
	return e, nil
}

func init() {
	object.RegisterLiteral(func(alloc object.Allocator, src string) (object.Value, string, error) {
		if len(src) < 2 || src[0] != '\'' || src[len(src)-1] != '\'' {
			return nil, src, nil
		}
		e, err := ParseExpression(src[1 : len(src)-1])
		if err != nil {
			return nil, src, err
		}
		return e, "", nil
	})

	object.RegisterCommand("EVAL", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return v.Evaluate(m)
	})
}

const (
	exprTokNum = iota
	exprTokIdent
	exprTokOp
	exprTokLParen
	exprTokRParen
	exprTokComma
)

type exprToken struct {
	kind int
	text string
}

func lexExpr(s string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += n
		case r == '(':
			toks = append(toks, exprToken{exprTokLParen, "("})
			i += n
		case r == ')':
			toks = append(toks, exprToken{exprTokRParen, ")"})
			i += n
		case r == ',':
			toks = append(toks, exprToken{exprTokComma, ","})
			i += n
		case strings.ContainsRune("+-*/^=|", r):
			toks = append(toks, exprToken{exprTokOp, string(r)})
			i += n
		case unicode.IsDigit(r):
			j := i
			for j < len(s) {
				c, cn := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsDigit(c) && c != '.' {
					break
				}
				j += cn
			}
			toks = append(toks, exprToken{exprTokNum, s[i:j]})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(s) {
				c, cn := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
					break
				}
				j += cn
			}
			toks = append(toks, exprToken{exprTokIdent, s[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q in expression", r)
		}
	}
	return toks, nil
}

type exprParser struct {
	toks []exprToken
	pos  int
}

func (p *exprParser) peek() (exprToken, bool) {
	if p.pos >= len(p.toks) {
		return exprToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) parseExpr(minPrec int) (*Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != exprTokOp {
			return left, nil
		}
		prec, known := precedence[t.text]
		if !known || prec < minPrec {
			return left, nil
		}
		p.pos++
		nextMin := prec + 1
		if t.text == "^" {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Expression{Op: t.text, Args: []*Expression{left, right}}
	}
}

func (p *exprParser) parseUnary() (*Expression, error) {
	if t, ok := p.peek(); ok && t.kind == exprTokOp && t.text == "-" {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expression{Op: "neg", Args: []*Expression{inner}}, nil
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (*Expression, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case exprTokNum:
		p.pos++
		v, _, err := object.ParseToken(nil, t.text)
		if err != nil || v == nil {
			return nil, fmt.Errorf("invalid number %q", t.text)
		}
		return leafExpr(v), nil
	case exprTokIdent:
		p.pos++
		if nt, ok := p.peek(); ok && nt.kind == exprTokLParen {
			p.pos++
			var args []*Expression
			if ct, ok := p.peek(); !ok || ct.kind != exprTokRParen {
				for {
					arg, err := p.parseExpr(0)
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					nt, ok := p.peek()
					if !ok {
						return nil, fmt.Errorf("expected ) after %s(", t.text)
					}
					if nt.kind == exprTokComma {
						p.pos++
						continue
					}
					break
				}
			}
			if ct, ok := p.peek(); !ok || ct.kind != exprTokRParen {
				return nil, fmt.Errorf("expected ) after %s(", t.text)
			}
			p.pos++
			return &Expression{Op: t.text, Args: args}, nil
		}
		return leafExpr(&object.Symbol{Name: t.text}), nil
	case exprTokLParen:
		p.pos++
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if ct, ok := p.peek(); !ok || ct.kind != exprTokRParen {
			return nil, fmt.Errorf("expected closing )")
		}
		p.pos++
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected token %q in expression", t.text)
}
