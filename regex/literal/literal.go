// Package literal rejects haystacks early for patterns whose every match is
// one of a fixed set of strings.
package literal

import (
	"errors"
	"fmt"
	"slices"

	"github.com/coregx/ahocorasick"
)

var ErrNoLiterals = errors.New("literal: no literals")

// Prefilter answers whether a haystack contains at least one of its
// literals. A false answer proves that the pattern it was built for cannot
// match; a true answer proves nothing about where the match is.
type Prefilter struct {
	automaton *ahocorasick.Automaton
	literals  []string
}

func New(literals []string) (*Prefilter, error) {
	if len(literals) == 0 {
		return nil, ErrNoLiterals
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		if lit == "" {
			return nil, fmt.Errorf("literal: empty literal in %q", literals)
		}
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("literal: failed to build automaton: %w", err)
	}

	return &Prefilter{
		automaton: auto,
		literals:  slices.Clone(literals),
	}, nil
}

func (p *Prefilter) MayMatch(haystack []byte) bool {
	return p.automaton.IsMatch(haystack)
}

func (p *Prefilter) Literals() []string {
	return slices.Clone(p.literals)
}
