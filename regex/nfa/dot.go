package nfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDOT renders the automaton as a Graphviz digraph. Parallel byte edges
// between the same pair of states are merged into one label, and a label
// covering the whole wildcard alphabet is printed as ".".
func (n *NFA) WriteDOT(w io.Writer) error {
	type arc struct {
		from, to State
		priority Priority
	}

	var order []arc
	labels := make(map[arc][]Trigger)
	for _, e := range n.Edges() {
		a := arc{from: e.From, to: e.To.State, priority: e.To.Priority}
		if _, ok := labels[a]; !ok {
			order = append(order, a)
		}
		labels[a] = append(labels[a], e.On)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph nfa {")
	fmt.Fprintln(bw, "    rankdir=LR;")
	for _, s := range n.States() {
		shape := "circle"
		if s == n.accept {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "    q%d [shape=%s];\n", s, shape)
	}
	for _, a := range order {
		label := fmt.Sprintf("%s/%d", triggerLabel(labels[a]), a.priority)
		fmt.Fprintf(bw, "    q%d -> q%d [label=%s];\n", a.from, a.to, strconv.Quote(label))
	}
	fmt.Fprintf(bw, "    _start [shape=point]; _start -> q%d;\n", n.init)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// triggerLabel expects triggers in ascending order, as produced by Edges.
func triggerLabel(triggers []Trigger) string {
	alphabet := Alphabet()
	if len(triggers) == len(alphabet) &&
		triggers[0] == On(alphabet[0]) && triggers[len(triggers)-1] == On(alphabet[len(alphabet)-1]) {
		return "."
	}

	var parts []string
	for i := 0; i < len(triggers); {
		j := i
		for j+1 < len(triggers) && triggers[j+1] == triggers[j]+1 && triggers[j] != Epsilon {
			j++
		}
		switch {
		case triggers[i] == Epsilon:
			parts = append(parts, "ε")
		case j-i >= 2:
			parts = append(parts, fmt.Sprintf("%c-%c", byte(triggers[i]), byte(triggers[j])))
		default:
			for k := i; k <= j; k++ {
				parts = append(parts, string([]byte{byte(triggers[k])}))
			}
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
