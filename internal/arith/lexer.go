// Package arith evaluates a deliberately small arithmetic language: numeric
// literals, + - * /, ^ or ** for exponent, pow(a, b) and parentheses.
// Anything outside that grammar is a syntax error; there is no identifier
// lookup and no way to reach code beyond the evaluator itself.
package arith

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxExpressionLength bounds the input accepted by Eval, in bytes.
	MaxExpressionLength = 1024
	// MaxDepth bounds parenthesis and unary nesting.
	MaxDepth = 64
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrTooLong        = fmt.Errorf("expression longer than %d bytes", MaxExpressionLength)
	ErrTooDeep        = fmt.Errorf("expression nested deeper than %d levels", MaxDepth)
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotFinite      = errors.New("math domain error: result is not a finite number")
)

// SyntaxError reports input the grammar does not accept.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at position %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow // ^ or **
	tokLParen
	tokRParen
	tokComma
	tokPowFunc // the identifier "pow"
)

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// lex splits the input into tokens. It rejects any identifier other than pow.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, pos: i, text: "+"})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, pos: i, text: "-"})
			i++
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				toks = append(toks, token{kind: tokPow, pos: i, text: "**"})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokStar, pos: i, text: "*"})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, pos: i, text: "/"})
			i++
		case c == '^':
			toks = append(toks, token{kind: tokPow, pos: i, text: "^"})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, pos: i, text: ","})
			i++
		case isDigit(c) || c == '.':
			end := scanNumber(src, i)
			text := src[i:end]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("malformed number %q", text)}
			}
			toks = append(toks, token{kind: tokNumber, pos: i, text: text, num: v})
			i = end
		case isLetter(c):
			end := i
			for end < len(src) && (isLetter(src[end]) || isDigit(src[end])) {
				end++
			}
			word := src[i:end]
			if !strings.EqualFold(word, "pow") {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("name %q is not defined", word)}
			}
			toks = append(toks, token{kind: tokPowFunc, pos: i, text: word})
			i = end
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// scanNumber returns the end offset of the numeric literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
