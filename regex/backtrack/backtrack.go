// Package backtrack runs a priority-annotated NFA against text with a
// depth-first search, producing leftmost, greedy, non-overlapping matches.
package backtrack

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/mfroeh/nfagrep/regex/nfa"
)

var ErrStepLimit = errors.New("backtrack: step limit exceeded")

// how often a bounded search polls its context
const pollEvery = 1024

type Matcher interface {
	Exec(input string) []string
}

type Option func(*Backtracker)

// WithMaxSteps bounds the number of states ExecContext may visit over one
// whole scan. Zero or less means unbounded.
func WithMaxSteps(n int) Option {
	return func(b *Backtracker) {
		b.maxSteps = n
	}
}

// Backtracker holds no per-search state and may be shared between
// goroutines.
type Backtracker struct {
	nfa      *nfa.NFA
	maxSteps int
}

func New(n *nfa.NFA, opts ...Option) *Backtracker {
	b := &Backtracker{nfa: n}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Exec returns every match in scan order.
func (b *Backtracker) Exec(input string) []string {
	var out []string
	for _, m := range b.ExecIndex(input, -1) {
		out = append(out, input[m[0]:m[1]])
	}
	return out
}

// ExecIndex returns the [begin, end) offsets of up to n matches, or of all
// matches if n is negative.
func (b *Backtracker) ExecIndex(input string, n int) [][2]int {
	// an unbounded search without a context cannot fail
	out, _ := b.scan(b.newSearch(context.Background(), input, 0), n)
	return out
}

// ExecContext is ExecIndex with cancellation and the WithMaxSteps budget.
// On error it returns the matches found so far.
func (b *Backtracker) ExecContext(ctx context.Context, input string, n int) ([][2]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.scan(b.newSearch(ctx, input, b.maxSteps), n)
}

// MatchAt runs a single anchored search from the initial state at begin and
// returns the end offset of the first accepting path.
func (b *Backtracker) MatchAt(input string, begin int) (int, bool) {
	if begin < 0 || begin > len(input) {
		return 0, false
	}
	return b.newSearch(context.Background(), input, 0).dfs(b.nfa.Init(), begin)
}

func (b *Backtracker) scan(s *search, n int) ([][2]int, error) {
	var out [][2]int
	for begin := 0; begin <= len(s.input); {
		if n >= 0 && len(out) >= n {
			break
		}

		end, ok := s.dfs(b.nfa.Init(), begin)
		if s.err != nil {
			return out, s.err
		}
		if !ok {
			begin++
			continue
		}

		out = append(out, [2]int{begin, end})
		if end > begin {
			begin = end
		} else {
			// empty match, step over it
			begin++
		}
	}
	return out, nil
}

type visit struct {
	state  nfa.State
	offset int
}

type candidate struct {
	node    nfa.Node
	consume bool
}

type search struct {
	nfa      *nfa.NFA
	input    string
	ctx      context.Context
	maxSteps int
	steps    int
	err      error
	// states entered at an offset on the current path; re-entering one
	// means an epsilon cycle that can never reach acceptance
	onPath map[visit]struct{}
}

func (b *Backtracker) newSearch(ctx context.Context, input string, maxSteps int) *search {
	return &search{
		nfa:      b.nfa,
		input:    input,
		ctx:      ctx,
		maxSteps: maxSteps,
		onPath:   make(map[visit]struct{}),
	}
}

func (s *search) dfs(state nfa.State, offset int) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	if state == s.nfa.Accept() {
		return offset, true
	}
	if !s.step() {
		return 0, false
	}

	v := visit{state: state, offset: offset}
	if _, ok := s.onPath[v]; ok {
		return 0, false
	}
	s.onPath[v] = struct{}{}
	defer delete(s.onPath, v)

	for _, c := range s.candidates(state, offset) {
		next := offset
		if c.consume {
			next++
		}
		if end, ok := s.dfs(c.node.State, next); ok {
			return end, true
		}
	}
	return 0, false
}

// candidates lists epsilon targets, then targets on the byte at offset,
// stable-sorted by priority.
func (s *search) candidates(state nfa.State, offset int) []candidate {
	eps := s.nfa.Step(state, nfa.Epsilon)
	var on []nfa.Node
	if offset < len(s.input) {
		on = s.nfa.Step(state, nfa.On(s.input[offset]))
	}

	out := make([]candidate, 0, len(eps)+len(on))
	for _, n := range eps {
		out = append(out, candidate{node: n})
	}
	for _, n := range on {
		out = append(out, candidate{node: n, consume: true})
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		return cmp.Compare(a.node.Priority, b.node.Priority)
	})
	return out
}

func (s *search) step() bool {
	s.steps++
	if s.maxSteps > 0 && s.steps > s.maxSteps {
		s.err = ErrStepLimit
		return false
	}
	if s.steps%pollEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	return true
}
