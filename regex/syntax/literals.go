package syntax

// maxLiterals bounds the cross product Literals is willing to expand.
const maxLiterals = 256

// Literals returns the complete, finite language of re when every match is
// one of a small set of non-empty plain strings, e.g. `foo|ba(r|z)`. It
// reports false for anything containing a wildcard, a quantifier or an
// empty alternative.
func Literals(re *Regexp) ([]string, bool) {
	lits, ok := altLiterals(&re.Alt)
	if !ok {
		return nil, false
	}
	for _, l := range lits {
		if l == "" {
			return nil, false
		}
	}
	return lits, true
}

func altLiterals(a *Alt) ([]string, bool) {
	var out []string
	for ; a != nil; a = a.Tail {
		if a.Concat == nil {
			return nil, false
		}
		lits, ok := concatLiterals(a.Concat)
		if !ok {
			return nil, false
		}
		out = append(out, lits...)
		if len(out) > maxLiterals {
			return nil, false
		}
	}
	return out, true
}

func concatLiterals(c *Concat) ([]string, bool) {
	out := []string{""}
	for ; c != nil; c = c.Tail {
		if c.Factor.Quantifier != nil {
			return nil, false
		}

		var parts []string
		if c.Factor.Base.Group != nil {
			var ok bool
			if parts, ok = altLiterals(c.Factor.Base.Group); !ok {
				return nil, false
			}
		} else {
			if c.Factor.Base.Char.Char == Wildcard {
				return nil, false
			}
			parts = []string{string([]byte{c.Factor.Base.Char.Char})}
		}

		if len(out)*len(parts) > maxLiterals {
			return nil, false
		}
		next := make([]string, 0, len(out)*len(parts))
		for _, prefix := range out {
			for _, p := range parts {
				next = append(next, prefix+p)
			}
		}
		out = next
	}
	return out, true
}
