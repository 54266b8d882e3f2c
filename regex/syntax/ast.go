package syntax

import "strings"

// Wildcard is the Char token matching any byte of the supported alphabet.
const Wildcard byte = '.'

type Regexp struct {
	Alt Alt
}

// Alt is `ε | Concat | Concat "|" Alt`. A nil Concat is the empty
// alternative, a nil Tail ends the chain.
type Alt struct {
	Concat *Concat
	Tail   *Alt
}

type Concat struct {
	Factor Factor
	Tail   *Concat
}

type Factor struct {
	Base       Base
	Quantifier *Token
}

// Base holds exactly one of Char or Group.
type Base struct {
	Char  *Token
	Group *Alt
}

func (re *Regexp) String() string {
	var b strings.Builder
	re.Alt.write(&b)
	return b.String()
}

func (a *Alt) write(b *strings.Builder) {
	if a.Concat != nil {
		a.Concat.write(b)
	}
	if a.Tail != nil {
		b.WriteByte('|')
		a.Tail.write(b)
	}
}

func (c *Concat) write(b *strings.Builder) {
	for ; c != nil; c = c.Tail {
		c.Factor.write(b)
	}
}

func (f *Factor) write(b *strings.Builder) {
	if f.Base.Group != nil {
		b.WriteByte('(')
		f.Base.Group.write(b)
		b.WriteByte(')')
	} else {
		b.WriteByte(f.Base.Char.Char)
	}
	if f.Quantifier != nil {
		b.WriteByte(f.Quantifier.Char)
	}
}
