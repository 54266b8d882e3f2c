// Package nfa holds the priority-annotated automaton produced by Thompson
// construction, and the builder that produces it from a parsed pattern.
package nfa

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

type State uint32

// Priority orders candidate transitions during search: lower is tried first.
type Priority uint8

const (
	PriorityFirst  Priority = 1
	PrioritySecond Priority = 2
)

type Node struct {
	State    State
	Priority Priority
}

// Trigger is either an input byte or Epsilon.
type Trigger int16

const Epsilon Trigger = -1

func On(c byte) Trigger {
	return Trigger(c)
}

func (t Trigger) String() string {
	if t == Epsilon {
		return "ε"
	}
	return fmt.Sprintf("%q", byte(t))
}

type Key struct {
	From State
	On   Trigger
}

// NFA is immutable once built and safe for concurrent readers.
type NFA struct {
	states      map[State]struct{}
	transitions map[Key][]Node
	init        State
	accept      State
}

func (n *NFA) Init() State {
	return n.init
}

func (n *NFA) Accept() State {
	return n.accept
}

func (n *NFA) Len() int {
	return len(n.states)
}

func (n *NFA) States() []State {
	return slices.Sorted(maps.Keys(n.states))
}

// Step returns the targets of from on trigger in search order. The slice is
// shared with the automaton and must not be modified.
func (n *NFA) Step(from State, on Trigger) []Node {
	return n.transitions[Key{From: from, On: on}]
}

// Edge is one entry of a transition list, flattened.
type Edge struct {
	From State
	On   Trigger
	To   Node
}

// Edges lists every transition ordered by source state, then trigger, then
// position within the transition list.
func (n *NFA) Edges() []Edge {
	keys := slices.SortedFunc(maps.Keys(n.transitions), func(a, b Key) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.On, b.On)
	})

	var edges []Edge
	for _, k := range keys {
		for _, to := range n.transitions[k] {
			edges = append(edges, Edge{From: k.From, On: k.On, To: to})
		}
	}
	return edges
}

// Validate checks that init, accept and every transition endpoint are
// states of the automaton.
func (n *NFA) Validate() error {
	if _, ok := n.states[n.init]; !ok {
		return fmt.Errorf("init state %d is not a member of the automaton", n.init)
	}
	if _, ok := n.states[n.accept]; !ok {
		return fmt.Errorf("accept state %d is not a member of the automaton", n.accept)
	}
	for k, nodes := range n.transitions {
		if _, ok := n.states[k.From]; !ok {
			return fmt.Errorf("transition source %d on %s is not a member of the automaton", k.From, k.On)
		}
		for _, to := range nodes {
			if _, ok := n.states[to.State]; !ok {
				return fmt.Errorf("transition %d -%s-> %d targets an unknown state", k.From, k.On, to.State)
			}
		}
	}
	return nil
}

// Assemble rebuilds an automaton from the output of Edges. States are the
// edge endpoints plus init and accept.
func Assemble(init, accept State, edges []Edge) (*NFA, error) {
	n := &NFA{
		states:      map[State]struct{}{init: {}, accept: {}},
		transitions: make(map[Key][]Node),
		init:        init,
		accept:      accept,
	}
	for _, e := range edges {
		if e.On < Epsilon || e.On > 0xff {
			return nil, fmt.Errorf("edge %d -> %d has invalid trigger %d", e.From, e.To.State, e.On)
		}
		n.states[e.From] = struct{}{}
		n.states[e.To.State] = struct{}{}
		k := Key{From: e.From, On: e.On}
		n.transitions[k] = append(n.transitions[k], e.To)
	}
	return n, nil
}

func MustAssemble(init, accept State, edges []Edge) *NFA {
	n, err := Assemble(init, accept, edges)
	if err != nil {
		panic(err)
	}
	return n
}
