package syntax

import (
	"errors"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The participle grammar flattens the right recursive Alt/Concat chains
// into slices; toAlt folds them back into the shared AST.

type grammarRegexp struct {
	Head  []*grammarFactor `parser:"@@*"`
	Tails []*grammarBranch `parser:"@@*"`
}

type grammarBranch struct {
	Factors []*grammarFactor `parser:"'|' @@*"`
}

type grammarFactor struct {
	Base       *grammarBase `parser:"@@"`
	Quantifier *string      `parser:"@Quantifier?"`
}

type grammarBase struct {
	Char  *string       `parser:"  @Char"`
	Group *grammarGroup `parser:"| @@"`
}

type grammarGroup struct {
	Head  []*grammarFactor `parser:"'(' @@*"`
	Tails []*grammarBranch `parser:"@@* ')'"`
}

var grammarParser = participle.MustBuild[grammarRegexp](
	participle.Lexer(tokenDefinition{}),
)

// Grammar is a Parser generated by participle from struct tags. It yields
// the same AST as RecursiveDescent. The grammar decides acceptance, but
// participle reports where its lookahead gave up rather than where the
// pattern went wrong, so rejected patterns are located by RecursiveDescent.
type Grammar struct{}

func (Grammar) Parse(tokens []Token) (*Regexp, error) {
	g, err := grammarParser.ParseString("", Render(tokens))
	if err != nil {
		if _, derr := (RecursiveDescent{}).Parse(tokens); derr != nil {
			return nil, derr
		}
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, newParseError(tokens, perr.Position().Offset)
		}
		return nil, err
	}
	return &Regexp{Alt: *toAlt(g.Head, g.Tails)}, nil
}

func toAlt(head []*grammarFactor, tails []*grammarBranch) *Alt {
	branches := make([][]*grammarFactor, 0, len(tails)+1)
	branches = append(branches, head)
	for _, t := range tails {
		branches = append(branches, t.Factors)
	}

	var alt *Alt
	for i := len(branches) - 1; i >= 0; i-- {
		alt = &Alt{Concat: toConcat(branches[i]), Tail: alt}
	}
	return alt
}

func toConcat(factors []*grammarFactor) *Concat {
	var c *Concat
	for i := len(factors) - 1; i >= 0; i-- {
		c = &Concat{Factor: toFactor(factors[i]), Tail: c}
	}
	return c
}

func toFactor(f *grammarFactor) Factor {
	var out Factor
	if f.Base.Group != nil {
		out.Base.Group = toAlt(f.Base.Group.Head, f.Base.Group.Tails)
	} else {
		out.Base.Char = &Token{Kind: Char, Char: (*f.Base.Char)[0]}
	}
	if f.Quantifier != nil {
		out.Quantifier = &Token{Kind: Quantifier, Char: (*f.Quantifier)[0]}
	}
	return out
}

// tokenDefinition feeds participle with Tokenize output so both parsers
// agree on classification. Offsets are token indexes.
type tokenDefinition struct{}

func symbol(k Kind) lexer.TokenType {
	return lexer.TokenType(k) + 1
}

func (tokenDefinition) Symbols() map[string]lexer.TokenType {
	symbols := map[string]lexer.TokenType{"EOF": lexer.EOF}
	for _, k := range []Kind{Char, Quantifier, Selector, Lparen, Rparen} {
		symbols[k.String()] = symbol(k)
	}
	return symbols
}

func (tokenDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &tokenStream{filename: filename, tokens: Tokenize(string(raw))}, nil
}

type tokenStream struct {
	filename string
	tokens   []Token
	i        int
}

func (s *tokenStream) Next() (lexer.Token, error) {
	pos := lexer.Position{Filename: s.filename, Offset: s.i, Line: 1, Column: s.i + 1}
	if s.i >= len(s.tokens) {
		return lexer.Token{Type: lexer.EOF, Pos: pos}, nil
	}
	t := s.tokens[s.i]
	s.i++
	return lexer.Token{Type: symbol(t.Kind), Value: string([]byte{t.Char}), Pos: pos}, nil
}
