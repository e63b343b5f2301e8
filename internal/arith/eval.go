package arith

import (
	"math"
	"strconv"
	"strings"
)

// Eval parses and evaluates expr. The result is always finite.
func Eval(expr string) (float64, error) {
	if len(expr) > MaxExpressionLength {
		return 0, ErrTooLong
	}
	if strings.TrimSpace(expr) == "" {
		return 0, ErrEmpty
	}
	toks, err := lex(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return 0, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.String()}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// Format renders v the way a calculator would: integral values without a
// fractional part, everything else in the shortest exact decimal form.
func Format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		if v == 0 {
			return "0" // drops the sign of -0
		}
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) error {
	t := p.next()
	if t.kind != k {
		return &SyntaxError{Pos: t.pos, Msg: "expected " + what + ", found " + t.String()}
	}
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			left *= right
		case tokSlash:
			p.next()
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

// unary := ('+' | '-') unary | power
//
// Unary minus binds looser than exponent, so -2^2 is -4.
func (p *parser) unary() (float64, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.peek().kind {
	case tokMinus:
		p.next()
		v, err := p.unary()
		return -v, err
	case tokPlus:
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := primary (('^' | '**') unary)?
func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	return pow(base, exp)
}

// primary := number | '(' expr ')' | 'pow' '(' expr ',' expr ')'
func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen, `")"`); err != nil {
			return 0, err
		}
		return v, nil
	case tokPowFunc:
		if err := p.expect(tokLParen, `"(" after pow`); err != nil {
			return 0, err
		}
		base, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokComma, `","`); err != nil {
			return 0, err
		}
		exp, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen, `")"`); err != nil {
			return 0, err
		}
		return pow(base, exp)
	}
	return 0, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.String()}
}

func pow(base, exp float64) (float64, error) {
	if base == 0 && exp < 0 {
		return 0, ErrDivisionByZero
	}
	v := math.Pow(base, exp)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}
