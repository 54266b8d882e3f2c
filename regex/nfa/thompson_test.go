package nfa

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mfroeh/nfagrep/regex/syntax"
)

func build(t *testing.T, b Builder, pattern string) *NFA {
	t.Helper()
	re, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return b.Build(re)
}

func to(s State, p Priority) Node {
	return Node{State: s, Priority: p}
}

func TestThompsonShapes(t *testing.T) {
	tests := map[string]struct {
		givenPattern string
		givenBuilder Thompson
		wantInit     State
		wantAccept   State
		wantStates   []State
		wantEdges    []Edge
	}{
		"symbol": {
			givenPattern: "a",
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2},
			wantEdges:    []Edge{{From: 1, On: On('a'), To: to(2, 1)}},
		},
		"empty pattern": {
			givenPattern: "",
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2},
			wantEdges:    []Edge{{From: 1, On: Epsilon, To: to(2, 1)}},
		},
		"concat drops the tail init": {
			givenPattern: "ab",
			wantInit:     1,
			wantAccept:   4,
			wantStates:   []State{1, 2, 4},
			wantEdges: []Edge{
				{From: 1, On: On('a'), To: to(2, 1)},
				{From: 2, On: On('b'), To: to(4, 1)},
			},
		},
		"alternation": {
			givenPattern: "a|b",
			wantInit:     3,
			wantAccept:   4,
			wantStates:   []State{1, 2, 3, 4, 5, 6},
			wantEdges: []Edge{
				{From: 1, On: On('a'), To: to(2, 1)},
				{From: 2, On: Epsilon, To: to(4, 1)},
				{From: 3, On: Epsilon, To: to(1, 1)},
				{From: 3, On: Epsilon, To: to(5, 1)},
				{From: 5, On: On('b'), To: to(6, 1)},
				{From: 6, On: Epsilon, To: to(4, 1)},
			},
		},
		"empty left alternative": {
			givenPattern: "|b",
			wantInit:     3,
			wantAccept:   4,
			wantStates:   []State{1, 2, 3, 4, 5, 6},
			wantEdges: []Edge{
				{From: 1, On: Epsilon, To: to(2, 1)},
				{From: 2, On: Epsilon, To: to(4, 1)},
				{From: 3, On: Epsilon, To: to(1, 1)},
				{From: 3, On: Epsilon, To: to(5, 1)},
				{From: 5, On: On('b'), To: to(6, 1)},
				{From: 6, On: Epsilon, To: to(4, 1)},
			},
		},
		"star repeats before leaving": {
			givenPattern: "a*",
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2, 3, 4},
			wantEdges: []Edge{
				{From: 1, On: Epsilon, To: to(2, 2)},
				{From: 1, On: Epsilon, To: to(3, 1)},
				{From: 3, On: On('a'), To: to(4, 1)},
				{From: 4, On: Epsilon, To: to(2, 2)},
				{From: 4, On: Epsilon, To: to(3, 1)},
			},
		},
		"optional is bounded": {
			givenPattern: "a?",
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2, 3, 4},
			wantEdges: []Edge{
				{From: 1, On: Epsilon, To: to(2, 2)},
				{From: 1, On: Epsilon, To: to(3, 1)},
				{From: 3, On: On('a'), To: to(4, 1)},
				{From: 4, On: Epsilon, To: to(2, 1)},
			},
		},
		"optional as star": {
			givenPattern: "a?",
			givenBuilder: Thompson{OptionalAsStar: true},
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2, 3, 4},
			wantEdges: []Edge{
				{From: 1, On: Epsilon, To: to(2, 2)},
				{From: 1, On: Epsilon, To: to(3, 1)},
				{From: 3, On: On('a'), To: to(4, 1)},
				{From: 4, On: Epsilon, To: to(2, 2)},
				{From: 4, On: Epsilon, To: to(3, 1)},
			},
		},
		"groups add no states": {
			givenPattern: "((a))",
			wantInit:     1,
			wantAccept:   2,
			wantStates:   []State{1, 2},
			wantEdges:    []Edge{{From: 1, On: On('a'), To: to(2, 1)}},
		},
		"star followed by symbol": {
			givenPattern: "a*a",
			wantInit:     1,
			wantAccept:   6,
			wantStates:   []State{1, 2, 3, 4, 6},
			wantEdges: []Edge{
				{From: 1, On: Epsilon, To: to(2, 2)},
				{From: 1, On: Epsilon, To: to(3, 1)},
				{From: 2, On: On('a'), To: to(6, 1)},
				{From: 3, On: On('a'), To: to(4, 1)},
				{From: 4, On: Epsilon, To: to(2, 2)},
				{From: 4, On: Epsilon, To: to(3, 1)},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			got := build(t, tt.givenBuilder, tt.givenPattern)

			// then
			if err := got.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got.Init() != tt.wantInit || got.Accept() != tt.wantAccept {
				t.Errorf("got init=%d accept=%d, want init=%d accept=%d", got.Init(), got.Accept(), tt.wantInit, tt.wantAccept)
			}
			if d := cmp.Diff(tt.wantStates, got.States()); d != "" {
				t.Errorf("states diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantEdges, got.Edges()); d != "" {
				t.Errorf("edges diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestThompsonWildcard(t *testing.T) {
	got := build(t, Thompson{}, ".")

	edges := got.Edges()
	if want := len(Alphabet()); len(edges) != want {
		t.Fatalf("got %d wildcard edges, want %d", len(edges), want)
	}
	for i, c := range Alphabet() {
		if edges[i].On != On(c) {
			t.Errorf("edge %d on %v, want %v", i, edges[i].On, On(c))
		}
	}
	for _, c := range []byte{' ', 'a', 'Z', '0', '}', '<'} {
		if len(got.Step(got.Init(), On(c))) != 1 {
			t.Errorf("wildcard should accept %q", c)
		}
	}
	for _, c := range []byte{'~', '\n', '\t', 0x7f, 0xff} {
		if len(got.Step(got.Init(), On(c))) != 0 {
			t.Errorf("wildcard should not accept %q", c)
		}
	}
}

func TestAlphabet(t *testing.T) {
	got := Alphabet()

	if len(got) != 94 || got[0] != ' ' || got[len(got)-1] != '}' {
		t.Fatalf("got %q", got)
	}
	for _, c := range []byte{'a', 'Z', '0', '.', '|', '{'} {
		if !bytes.Contains(got, []byte{c}) {
			t.Errorf("missing %q", c)
		}
	}
	for _, c := range []byte{'~', '\n', 0x7f} {
		if bytes.Contains(got, []byte{c}) {
			t.Errorf("unexpected %q", c)
		}
	}
}

func TestThompsonValidates(t *testing.T) {
	patterns := []string{
		"", "|", "||", "()", "()*", "(a*)*", "(|a)?", "abc*(d.*e)|(fg*|hi)*",
		"(0|1|2|3|4|5|6|7|8|9)(0|1|2|3|4|5|6|7|8|9)*", "<.*>.*</.*>", "a(aa|b)bb",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			got := build(t, Thompson{}, p)
			if err := got.Validate(); err != nil {
				t.Error(err)
			}
			for _, e := range got.Edges() {
				if e.From == got.Accept() {
					t.Errorf("accept state %d has an outgoing edge %+v", got.Accept(), e)
				}
			}
		})
	}
}

func TestThompsonDeterministic(t *testing.T) {
	a := build(t, Thompson{}, "abc*(d.*e)|(fg*|hi)*")
	b := build(t, Thompson{}, "abc*(d.*e)|(fg*|hi)*")

	if d := cmp.Diff(a.Edges(), b.Edges()); d != "" {
		t.Errorf("two builds differ (-first +second):\n%s", d)
	}
}

func TestAssembleRoundTrip(t *testing.T) {
	original := build(t, Thompson{}, "a(aa|b)bb|x.?")

	// when
	got, err := Assemble(original.Init(), original.Accept(), original.Edges())

	// then
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(original.Edges(), got.Edges()); d != "" {
		t.Errorf("edges diff (-want +got):\n%s", d)
	}
	if d := cmp.Diff(original.States(), got.States()); d != "" {
		t.Errorf("states diff (-want +got):\n%s", d)
	}
	if got.Init() != original.Init() || got.Accept() != original.Accept() {
		t.Errorf("init/accept changed")
	}
}

func TestAssembleRejectsBadTrigger(t *testing.T) {
	_, err := Assemble(1, 2, []Edge{{From: 1, On: 300, To: to(2, 1)}})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestValidateReportsUnknownStates(t *testing.T) {
	got := build(t, Thompson{}, "ab")
	got.transitions[Key{From: 99, On: Epsilon}] = []Node{to(1, 1)}

	if err := got.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestWriteDOT(t *testing.T) {
	got := build(t, Thompson{}, "a.|b*")

	var out strings.Builder
	if err := got.WriteDOT(&out); err != nil {
		t.Fatal(err)
	}

	dot := out.String()
	for _, want := range []string{
		"digraph nfa {",
		"q1 -> q2 [label=\"a/1\"];",
		"q2 -> q4 [label=\"./1\"];",
		"[shape=doublecircle];",
		"_start -> q5;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestTriggerLabel(t *testing.T) {
	tests := map[string]struct {
		given []Trigger
		want  string
	}{
		"epsilon":   {given: []Trigger{Epsilon}, want: "ε"},
		"single":    {given: []Trigger{On('x')}, want: "x"},
		"short run": {given: []Trigger{On('a'), On('b')}, want: "a,b"},
		"range":     {given: []Trigger{On('a'), On('b'), On('c'), On('e')}, want: "a-c,e"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := triggerLabel(tt.given); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
