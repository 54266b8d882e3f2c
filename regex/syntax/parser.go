package syntax

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEnd   = errors.New("unexpected end of pattern")
)

// ParseError reports where parsing stopped. A nil Token means the token
// stream ended while a construct was still open.
type ParseError struct {
	Token *Token
	Index int
}

func (e *ParseError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("parser error at %d: unexpected end of pattern", e.Index)
	}
	return fmt.Sprintf("parser error at %d: unexpected %s", e.Index, e.Token)
}

func (e *ParseError) Is(target error) bool {
	if e.Token == nil {
		return target == ErrUnexpectedEnd
	}
	return target == ErrUnexpectedToken
}

func newParseError(tokens []Token, i int) *ParseError {
	if i >= len(tokens) {
		return &ParseError{Index: i}
	}
	t := tokens[i]
	return &ParseError{Token: &t, Index: i}
}

type Parser interface {
	Parse(tokens []Token) (*Regexp, error)
}

// Parse tokenizes and parses pattern with the recursive descent parser.
func Parse(pattern string) (*Regexp, error) {
	return RecursiveDescent{}.Parse(Tokenize(pattern))
}

type RecursiveDescent struct{}

func (RecursiveDescent) Parse(tokens []Token) (*Regexp, error) {
	p := &descent{tokens: tokens}
	alt, err := p.alt()
	if err != nil {
		return nil, err
	}
	// anything left over was not consumed by the grammar, e.g. a stray ')'
	if p.i < len(tokens) {
		return nil, newParseError(tokens, p.i)
	}
	return &Regexp{Alt: *alt}, nil
}

type descent struct {
	tokens []Token
	i      int
}

func (p *descent) peek() (Token, bool) {
	if p.i >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.i], true
}

// <alt> ::= ε | <concat> | <concat>? "|" <alt>
func (p *descent) alt() (*Alt, error) {
	a := &Alt{}
	if t, ok := p.peek(); ok && t.Kind != Selector && t.Kind != Rparen {
		c, err := p.concat()
		if err != nil {
			return nil, err
		}
		a.Concat = c
	}

	if t, ok := p.peek(); ok && t.Kind == Selector {
		p.i++
		tail, err := p.alt()
		if err != nil {
			return nil, err
		}
		a.Tail = tail
	}
	return a, nil
}

// <concat> ::= <factor> <concat>?
func (p *descent) concat() (*Concat, error) {
	f, err := p.factor()
	if err != nil {
		return nil, err
	}
	c := &Concat{Factor: *f}

	if t, ok := p.peek(); ok && (t.Kind == Char || t.Kind == Lparen) {
		tail, err := p.concat()
		if err != nil {
			return nil, err
		}
		c.Tail = tail
	}
	return c, nil
}

// <factor> ::= <base> <quantifier>?
func (p *descent) factor() (*Factor, error) {
	b, err := p.base()
	if err != nil {
		return nil, err
	}
	f := &Factor{Base: *b}

	if t, ok := p.peek(); ok && t.Kind == Quantifier {
		p.i++
		f.Quantifier = &t
	}
	return f, nil
}

// <base> ::= <char> | "(" <alt> ")"
func (p *descent) base() (*Base, error) {
	t, ok := p.peek()
	if !ok {
		return nil, newParseError(p.tokens, p.i)
	}

	switch t.Kind {
	case Char:
		p.i++
		return &Base{Char: &t}, nil
	case Lparen:
		p.i++
		inner, err := p.alt()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.peek(); !ok || closing.Kind != Rparen {
			return nil, newParseError(p.tokens, p.i)
		}
		p.i++
		return &Base{Group: inner}, nil
	}
	return nil, newParseError(p.tokens, p.i)
}
