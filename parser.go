package trs

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads an expression in the infix notation printed by String.
//
// Besides the usual operators it accepts implicit multiplication (3a, ab,
// a(b + c)), log_b(x), log(x, b), ln x, sqrt x, |x|, derivatives d/dx f and
// [f]', integrals int f dx and int_a^b f dx, brackets [F]_a^b, equations
// a = b, conjunction a ^^ b and disjunction a vv b. The word raise aborts
// parsing with ErrAbort.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return e, nil
}

// MustParse is Parse for trusted input; it panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	toks     []token
	pos      int
	absDepth int
	intDepth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(k tokenKind) bool {
	if p.peek().kind == k {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return t, p.errorf(t, "expected %s", what)
	}
	p.pos++
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if t.kind == tokEOF {
		msg += " at end of input"
	}
	return &SyntaxError{Pos: t.pos, Msg: msg}
}

// or := and (vv and)*
func (p *parser) parseOr() (Expr, error) {
	return p.binaryChain(OpOr, tokOr, p.parseAnd)
}

// and := eq (^^ eq)*
func (p *parser) parseAnd() (Expr, error) {
	return p.binaryChain(OpAnd, tokAnd, p.parseEq)
}

func (p *parser) binaryChain(op Op, tok tokenKind, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.accept(tok) {
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = N(op, left, right)
	}
	return left, nil
}

// eq := sum (= sum)?
func (p *parser) parseEq() (Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokEquals) {
		return left, nil
	}
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return eq(left, right), nil
}

// sum := -? term ((+ | -) term)*
//
// a - b is the sum of a and the negated b.
func (p *parser) parseSum() (Expr, error) {
	var left Expr
	var err error
	if p.accept(tokMinus) {
		if left, err = p.parseTerm(); err != nil {
			return nil, err
		}
		left = Negate(left)
	} else if left, err = p.parseTerm(); err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = add(left, right)
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = add(left, Negate(right))
		default:
			return left, nil
		}
	}
}

// startsOperand reports whether t can start an implicitly multiplied
// factor.
func (p *parser) startsOperand(t token) bool {
	switch t.kind {
	case tokNumber, tokIdent, tokFunc, tokInt, tokDeriv, tokLParen, tokLBracket:
		return true
	case tokPipe:
		return p.absDepth == 0
	case tokDiff:
		return p.intDepth == 0
	}
	return false
}

// term := factor ((* | / | juxtaposition) factor)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.kind == tokStar:
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = mul(left, right)
		case t.kind == tokSlash:
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = div(left, right)
		case p.startsOperand(t):
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = mul(left, right)
		default:
			return left, nil
		}
	}
}

// factor := - factor | power
func (p *parser) parseFactor() (Expr, error) {
	if p.accept(tokMinus) {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return Negate(f), nil
	}
	return p.parsePower()
}

// power := primary (^ exponent)?, right associative; the exponent may be
// negated: a^-2.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokCaret) {
		return base, nil
	}
	exponent, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return pow(base, exponent), nil
}

func (p *parser) parseExponent() (Expr, error) {
	if p.accept(tokMinus) {
		e, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return Negate(e), nil
	}
	return p.parsePower()
}

// bound parses an integral bound: a primary, optionally negated.
func (p *parser) parseBound() (Expr, error) {
	if p.accept(tokMinus) {
		b, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return Negate(b), nil
	}
	return p.parsePrimary()
}

func (p *parser) parseBounds() (lower, upper Expr, err error) {
	if lower, err = p.parseBound(); err != nil {
		return nil, nil, err
	}
	if _, err = p.expect(tokCaret, "^ after the lower bound"); err != nil {
		return nil, nil, err
	}
	if upper, err = p.parseBound(); err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t)
	case tokIdent:
		return Ident(t.text), nil
	case tokRaise:
		return nil, errors.Wrapf(ErrAbort, "at %d", t.pos)
	case tokLParen:
		return p.parseGroup(tokRParen, ")")
	case tokPipe:
		p.absDepth++
		e, err := p.parseOr()
		p.absDepth--
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokPipe, "closing |"); err != nil {
			return nil, err
		}
		return N(OpAbs, e), nil
	case tokFunc:
		return p.parseFunction(t)
	case tokDeriv:
		f, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return Der(f, t.text), nil
	case tokInt:
		return p.parseIntegral()
	case tokLBracket:
		return p.parseBracket()
	case tokDiff:
		// a stray "dx" outside an integral is the product d x
		return mul(Ident("d"), Ident(t.text)), nil
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) parseGroup(closing tokenKind, what string) (Expr, error) {
	abs, integral := p.absDepth, p.intDepth
	p.absDepth, p.intDepth = 0, 0
	e, err := p.parseOr()
	p.absDepth, p.intDepth = abs, integral
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(closing, what); err != nil {
		return nil, err
	}
	return e, nil
}

func parseNumber(t token) (Expr, error) {
	if strings.Contains(t.text, ".") {
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: t.pos, Msg: "invalid number " + t.text}
		}
		return Float(f), nil
	}
	v, ok := new(big.Int).SetString(t.text, 10)
	if !ok {
		return nil, &SyntaxError{Pos: t.pos, Msg: "invalid number " + t.text}
	}
	return BigInt(v), nil
}

// parseFunction reads sin, cos, tan, sqrt, ln and log. A parenthesised
// argument makes the application a primary, so sin(x)^2 squares the sine;
// without parentheses the argument is a power: sin x^2 is sin(x^2).
func (p *parser) parseFunction(t token) (Expr, error) {
	var base Expr
	if t.text == "log" && p.accept(tokUnderscore) {
		b, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		base = b
	}
	var arg Expr
	var err error
	if p.accept(tokLParen) {
		abs, integral := p.absDepth, p.intDepth
		p.absDepth, p.intDepth = 0, 0
		arg, err = p.parseOr()
		if err == nil && t.text == "log" && base == nil && p.accept(tokComma) {
			base, err = p.parseOr()
		}
		p.absDepth, p.intDepth = abs, integral
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
	} else if arg, err = p.parseFactor(); err != nil {
		return nil, err
	}
	switch t.text {
	case "sin":
		return N(OpSin, arg), nil
	case "cos":
		return N(OpCos, arg), nil
	case "tan":
		return N(OpTan, arg), nil
	case "sqrt":
		return N(OpSqrt, arg), nil
	case "ln":
		return Ln(arg), nil
	}
	return Log(arg, base), nil
}

// parseIntegral reads int f dx and int_a^b f dx. Without dx the variable
// is the single variable of f, or x.
func (p *parser) parseIntegral() (Expr, error) {
	var lower, upper Expr
	if p.accept(tokUnderscore) {
		var err error
		if lower, upper, err = p.parseBounds(); err != nil {
			return nil, err
		}
	}
	p.intDepth++
	f, err := p.parseSum()
	p.intDepth--
	if err != nil {
		return nil, err
	}
	var x string
	if t := p.peek(); t.kind == tokDiff {
		p.next()
		x = t.text
	} else if x, err = resolveVariable(f, f, nil); err != nil {
		return nil, err
	}
	return Integral(f, x, lower, upper), nil
}

// parseBracket reads [f]' and [F]_a^b.
func (p *parser) parseBracket() (Expr, error) {
	f, err := p.parseGroup(tokRBracket, "]")
	if err != nil {
		return nil, err
	}
	if p.accept(tokPrime) {
		return Der(f, ""), nil
	}
	if _, err := p.expect(tokUnderscore, "' or _ after ]"); err != nil {
		return nil, err
	}
	lower, upper, err := p.parseBounds()
	if err != nil {
		return nil, err
	}
	x, err := resolveVariable(f, f, nil)
	if err != nil {
		return nil, err
	}
	return IntDef(f, x, lower, upper), nil
}
