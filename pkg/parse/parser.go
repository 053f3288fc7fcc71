// Package parse reads infix expressions into expr trees.
//
// Grammar:
//
//	expr    := term {("+" | "-") term}
//	term    := unary {("*" | "/") unary}
//	unary   := "-" unary | power
//	power   := primary ["^" ("2" | "3")]
//	primary := number | ident | fn "(" expr ")" | "(" expr ")"
//	fn      := "sqrt" | "sin" | "cos" | "square" | "cube"
//
// Every node goes through the expr builders, so the result is already
// simplified.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

// ErrSyntax is wrapped by every error that comes from malformed input.
var ErrSyntax = errors.New("syntax error")

var functions = map[string]func(expr.Node) expr.Node{
	"sqrt":   expr.Sqrt,
	"sin":    expr.Sin,
	"cos":    expr.Cos,
	"square": expr.Square,
	"cube":   expr.Cube,
}

type parser struct {
	scanner.Scanner
	tok   rune
	scope *Scope
	err   error
}

// Parse reads src, interning identifiers in scope. A nil scope uses a
// fresh one.
func Parse(src string, scope *Scope) (expr.Node, error) {
	if scope == nil {
		scope = NewScope()
	}
	p := &parser{scope: scope}
	p.Init(strings.NewReader(src))
	p.Mode = scanner.ScanIdents | scanner.ScanFloats
	p.Error = func(s *scanner.Scanner, msg string) {
		p.fail(errors.Wrapf(ErrSyntax, "%s: %s", s.Pos(), msg))
	}

	p.next()
	n := p.expression()
	if p.err == nil && p.tok != scanner.EOF {
		p.unexpected()
	}
	if p.err != nil {
		return nil, p.err
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string, scope *Scope) expr.Node {
	n, err := Parse(src, scope)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) next() {
	p.tok = p.Scan()
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) failf(format string, args ...any) {
	p.fail(errors.Wrapf(ErrSyntax, "%s: %s", p.Position, fmt.Sprintf(format, args...)))
}

func (p *parser) unexpected() {
	if p.tok == scanner.EOF {
		p.failf("unexpected end of input")
		return
	}
	p.failf("unexpected %q", p.TokenText())
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.failf("expected %q, found %s", string(tok), p.describe())
		return
	}
	p.next()
}

func (p *parser) describe() string {
	if p.tok == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(p.TokenText())
}

func (p *parser) expression() expr.Node {
	n := p.term()
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		r := p.term()
		if op == '+' {
			n = expr.Add(n, r)
		} else {
			n = expr.Sub(n, r)
		}
	}
	return n
}

func (p *parser) term() expr.Node {
	n := p.unary()
	for p.err == nil && (p.tok == '*' || p.tok == '/') {
		op := p.tok
		pos := p.Position
		p.next()
		r := p.unary()
		if p.err != nil {
			break
		}
		if op == '*' {
			n = expr.Mul(n, r)
			continue
		}
		q, err := expr.Div(n, r)
		if err != nil {
			p.fail(errors.WithMessagef(err, "%s", pos))
			break
		}
		n = q
	}
	return n
}

func (p *parser) unary() expr.Node {
	if p.tok == '-' {
		p.next()
		return expr.Neg(p.unary())
	}
	return p.power()
}

func (p *parser) power() expr.Node {
	n := p.primary()
	if p.err != nil || p.tok != '^' {
		return n
	}
	p.next()
	if p.tok != scanner.Int {
		p.failf("exponent must be 2 or 3, found %s", p.describe())
		return n
	}
	switch p.TokenText() {
	case "2":
		n = expr.Square(n)
	case "3":
		n = expr.Cube(n)
	default:
		p.failf("exponent must be 2 or 3, found %s", p.describe())
		return n
	}
	p.next()
	return n
}

func (p *parser) primary() expr.Node {
	switch p.tok {
	case scanner.Int, scanner.Float:
		v, err := strconv.ParseFloat(p.TokenText(), 64)
		if err != nil {
			p.failf("bad number %s", p.describe())
			return expr.Zero{}
		}
		p.next()
		return expr.Const(v)

	case scanner.Ident:
		name := p.TokenText()
		p.next()
		fn, ok := functions[name]
		if !ok {
			return p.scope.Var(name)
		}
		p.expect('(')
		if p.err != nil {
			return expr.Zero{}
		}
		arg := p.expression()
		p.expect(')')
		return fn(arg)

	case '(':
		p.next()
		n := p.expression()
		p.expect(')')
		return n

	default:
		p.unexpected()
		return expr.Zero{}
	}
}
