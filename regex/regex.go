// Package regex compiles patterns in a small regular expression language
// (literal bytes, `.`, `*`, `?`, `|` and groups) into a priority-annotated
// NFA and finds greedy, leftmost, non-overlapping matches with a
// backtracking search.
package regex

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/mfroeh/nfagrep/regex/backtrack"
	"github.com/mfroeh/nfagrep/regex/literal"
	"github.com/mfroeh/nfagrep/regex/nfa"
	"github.com/mfroeh/nfagrep/regex/syntax"
)

type Regex struct {
	pattern   string
	nfa       *nfa.NFA
	matcher   *backtrack.Backtracker
	prefilter *literal.Prefilter
}

type Match struct {
	Offset int
	Str    string
}

func (m Match) End() int {
	return m.Offset + len(m.Str)
}

type Option func(*options)

type options struct {
	parser      syntax.Parser
	builder     nfa.Builder
	maxSteps    int
	noPrefilter bool
}

func WithParser(p syntax.Parser) Option {
	return func(o *options) {
		o.parser = p
	}
}

func WithBuilder(b nfa.Builder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithMaxSteps bounds every FindAllContext call. It has no effect on the
// other methods, which always run to completion.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		o.maxSteps = n
	}
}

func WithoutPrefilter() Option {
	return func(o *options) {
		o.noPrefilter = true
	}
}

func Compile(pattern string, opts ...Option) (*Regex, error) {
	o := options{
		parser:  syntax.RecursiveDescent{},
		builder: nfa.Thompson{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	ast, err := o.parser.Parse(syntax.Tokenize(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to construct regex from %q: %w", pattern, err)
	}
	n := o.builder.Build(ast)

	re := &Regex{
		pattern: pattern,
		nfa:     n,
		matcher: backtrack.New(n, backtrack.WithMaxSteps(o.maxSteps)),
	}
	if !o.noPrefilter {
		if lits, ok := syntax.Literals(ast); ok {
			// without a prefilter every search still runs, just slower
			if pf, err := literal.New(lits); err == nil {
				re.prefilter = pf
			}
		}
	}
	return re, nil
}

func MustCompile(pattern string, opts ...Option) *Regex {
	re, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return re
}

func (re *Regex) String() string {
	return re.pattern
}

func (re *Regex) NFA() *nfa.NFA {
	return re.nfa
}

func (re *Regex) excluded(s string) bool {
	return re.prefilter != nil && !re.prefilter.MayMatch([]byte(s))
}

// FindAllIndex returns the [begin, end) offsets of up to n matches in s.
// To return all matches pass a negative n.
func (re *Regex) FindAllIndex(s string, n int) [][2]int {
	if n == 0 || re.excluded(s) {
		return nil
	}
	return re.matcher.ExecIndex(s, n)
}

func (re *Regex) FindAll(s string, n int) []Match {
	return toMatches(s, re.FindAllIndex(s, n))
}

// FindAllString is FindAll without offsets.
func (re *Regex) FindAllString(s string, n int) []string {
	var out []string
	for _, m := range re.FindAllIndex(s, n) {
		out = append(out, s[m[0]:m[1]])
	}
	return out
}

// FindAllContext is FindAll for untrusted patterns or inputs: it stops when
// ctx is done or the WithMaxSteps budget runs out, returning the matches
// found so far together with the error.
func (re *Regex) FindAllContext(ctx context.Context, s string, n int) ([]Match, error) {
	if n == 0 || re.excluded(s) {
		return nil, ctx.Err()
	}
	spans, err := re.matcher.ExecContext(ctx, s, n)
	return toMatches(s, spans), err
}

func (re *Regex) Find(s string) (Match, bool) {
	matches := re.FindAll(s, 1)
	if len(matches) < 1 {
		return Match{}, false
	}
	return matches[0], true
}

func (re *Regex) Match(s string) bool {
	_, ok := re.Find(s)
	return ok
}

// ReplaceAll replaces every match in s with the template with, in which $0
// stands for the match and $$ for a literal $. Other $n expand to nothing
// since the language has no capture groups.
func (re *Regex) ReplaceAll(s string, with string) string {
	out := strings.Builder{}
	last := 0
	for _, m := range re.FindAllIndex(s, -1) {
		out.WriteString(s[last:m[0]])
		expand(&out, with, s[m[0]:m[1]])
		last = m[1]
	}
	out.WriteString(s[last:])
	return out.String()
}

func expand(out *strings.Builder, with string, match string) {
	for i := 0; i < len(with); i++ {
		switch {
		case with[i] == '$' && i+1 < len(with) && with[i+1] == '$':
			out.WriteByte('$')
			i++
		case with[i] == '$' && i+1 < len(with) && unicode.IsDigit(rune(with[i+1])):
			num := 0
			for j := i + 1; j < len(with) && unicode.IsDigit(rune(with[j])); j++ {
				num *= 10
				num += int(with[j] - '0')
				i++
			}

			if num == 0 {
				out.WriteString(match)
			}
		default:
			out.WriteByte(with[i])
		}
	}
}

func toMatches(s string, spans [][2]int) []Match {
	if len(spans) == 0 {
		return nil
	}
	out := make([]Match, len(spans))
	for i, m := range spans {
		out[i] = Match{Offset: m[0], Str: s[m[0]:m[1]]}
	}
	return out
}
