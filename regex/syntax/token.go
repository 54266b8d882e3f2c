package syntax

import "fmt"

type Kind uint8

const (
	Char Kind = iota
	Quantifier
	Selector
	Lparen
	Rparen
)

func (k Kind) String() string {
	switch k {
	case Char:
		return "Char"
	case Quantifier:
		return "Quantifier"
	case Selector:
		return "Selector"
	case Lparen:
		return "Lparen"
	case Rparen:
		return "Rparen"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one classified byte of a pattern. Char is the raw byte for every
// kind, so a token stream can always be turned back into its pattern.
type Token struct {
	Kind Kind
	Char byte
}

func (t Token) String() string {
	switch t.Kind {
	case Char, Quantifier:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Char)
	}
	return t.Kind.String()
}

// Tokenize classifies every byte of the pattern. It never fails: bytes
// without a special meaning become Char tokens.
func Tokenize(pattern string) []Token {
	tokens := make([]Token, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		tokens = append(tokens, classify(pattern[i]))
	}
	return tokens
}

func classify(c byte) Token {
	switch c {
	case '*', '?':
		return Token{Kind: Quantifier, Char: c}
	case '|':
		return Token{Kind: Selector, Char: c}
	case '(':
		return Token{Kind: Lparen, Char: c}
	case ')':
		return Token{Kind: Rparen, Char: c}
	}
	return Token{Kind: Char, Char: c}
}

// Render is the inverse of Tokenize.
func Render(tokens []Token) string {
	b := make([]byte, len(tokens))
	for i, t := range tokens {
		b[i] = t.Char
	}
	return string(b)
}
