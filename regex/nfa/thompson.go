package nfa

import "github.com/mfroeh/nfagrep/regex/syntax"

// The wildcard expands to every byte in [AlphabetFirst, AlphabetLast].
const (
	AlphabetFirst byte = 0x20
	AlphabetLast  byte = 0x7d
)

// Alphabet lists the bytes the wildcard matches in ascending order.
func Alphabet() []byte {
	out := make([]byte, 0, int(AlphabetLast-AlphabetFirst)+1)
	for c := int(AlphabetFirst); c <= int(AlphabetLast); c++ {
		out = append(out, byte(c))
	}
	return out
}

type Builder interface {
	Build(re *syntax.Regexp) *NFA
}

// Thompson builds one fragment per AST node and composes them, tagging
// epsilon edges with priorities so that quantifiers are greedy.
//
// `?` builds a loop-free fragment (at most one repetition) unless
// OptionalAsStar is set, in which case it builds the same unbounded
// fragment as `*`.
type Thompson struct {
	OptionalAsStar bool
}

func (t Thompson) Build(re *syntax.Regexp) *NFA {
	b := &builder{optionalAsStar: t.OptionalAsStar}
	return b.alt(&re.Alt)
}

// builder is scoped to one Build call; state ids are unique within it.
type builder struct {
	last           State
	optionalAsStar bool
}

func (b *builder) state() State {
	b.last++
	return b.last
}

func fragment(init, accept State) *NFA {
	return &NFA{
		states:      map[State]struct{}{init: {}, accept: {}},
		transitions: make(map[Key][]Node),
		init:        init,
		accept:      accept,
	}
}

func (n *NFA) add(from State, on Trigger, to ...Node) {
	k := Key{From: from, On: on}
	n.transitions[k] = append(n.transitions[k], to...)
}

// absorb moves the states and transitions of other into n. other is
// consumed and must not be used afterwards.
func (n *NFA) absorb(other *NFA) {
	for s := range other.states {
		n.states[s] = struct{}{}
	}
	for k, nodes := range other.transitions {
		n.transitions[k] = append(n.transitions[k], nodes...)
	}
}

func (b *builder) alt(a *syntax.Alt) *NFA {
	var left *NFA
	if a.Concat == nil {
		left = b.empty()
	} else {
		left = b.concat(a.Concat)
	}
	if a.Tail == nil {
		return left
	}

	init, accept := b.state(), b.state()
	right := b.alt(a.Tail)

	n := fragment(init, accept)
	n.add(init, Epsilon, Node{State: left.init, Priority: PriorityFirst}, Node{State: right.init, Priority: PriorityFirst})
	n.add(left.accept, Epsilon, Node{State: accept, Priority: PriorityFirst})
	n.add(right.accept, Epsilon, Node{State: accept, Priority: PriorityFirst})
	n.absorb(left)
	n.absorb(right)
	return n
}

// concat splices the tail onto the head: edges leaving the tail's init
// now leave the head's accept, and the tail's init disappears.
func (b *builder) concat(c *syntax.Concat) *NFA {
	head := b.factor(&c.Factor)
	if c.Tail == nil {
		return head
	}
	tail := b.concat(c.Tail)

	delete(tail.states, tail.init)
	for k, nodes := range tail.transitions {
		if k.From != tail.init {
			continue
		}
		delete(tail.transitions, k)
		head.add(head.accept, k.On, nodes...)
	}
	head.absorb(tail)
	head.accept = tail.accept
	return head
}

func (b *builder) factor(f *syntax.Factor) *NFA {
	if f.Quantifier == nil {
		return b.base(&f.Base)
	}
	return b.reps(f)
}

// reps wraps the quantified base. Priority 1 (enter the child again) is
// tried before priority 2 (leave), which makes the repetition greedy.
func (b *builder) reps(f *syntax.Factor) *NFA {
	init, accept := b.state(), b.state()
	child := b.base(&f.Base)

	n := fragment(init, accept)
	n.add(init, Epsilon, Node{State: accept, Priority: PrioritySecond}, Node{State: child.init, Priority: PriorityFirst})
	if f.Quantifier.Char == '?' && !b.optionalAsStar {
		n.add(child.accept, Epsilon, Node{State: accept, Priority: PriorityFirst})
	} else {
		n.add(child.accept, Epsilon, Node{State: accept, Priority: PrioritySecond}, Node{State: child.init, Priority: PriorityFirst})
	}
	n.absorb(child)
	return n
}

func (b *builder) base(base *syntax.Base) *NFA {
	if base.Group != nil {
		return b.alt(base.Group)
	}
	return b.symbol(base.Char.Char)
}

func (b *builder) symbol(c byte) *NFA {
	init, accept := b.state(), b.state()
	n := fragment(init, accept)
	to := Node{State: accept, Priority: PriorityFirst}
	if c != syntax.Wildcard {
		n.add(init, On(c), to)
		return n
	}
	for _, x := range Alphabet() {
		n.add(init, On(x), to)
	}
	return n
}

// empty is the fragment of the empty alternative: a single epsilon edge.
func (b *builder) empty() *NFA {
	init, accept := b.state(), b.state()
	n := fragment(init, accept)
	n.add(init, Epsilon, Node{State: accept, Priority: PriorityFirst})
	return n
}
