// Package codegen writes Go source that rebuilds a pattern's NFA at init
// time, so that programs embedding a fixed pattern skip parsing and
// construction.
package codegen

import (
	"fmt"
	"go/token"
	"io"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/mfroeh/nfagrep/regex/nfa"
	"github.com/mfroeh/nfagrep/regex/syntax"
)

const nfaPath = "github.com/mfroeh/nfagrep/regex/nfa"

type Config struct {
	Package string
	// Name of the generated package-level variable.
	Name    string
	Pattern string
	// Parser defaults to syntax.RecursiveDescent{} and Builder to
	// nfa.Thompson{}.
	Parser  syntax.Parser
	Builder nfa.Builder
}

func (cfg Config) validate() error {
	if !token.IsIdentifier(cfg.Package) {
		return fmt.Errorf("codegen: invalid package name %q", cfg.Package)
	}
	if !token.IsIdentifier(cfg.Name) {
		return fmt.Errorf("codegen: invalid variable name %q", cfg.Name)
	}
	return nil
}

// Generate compiles cfg.Pattern and writes a formatted Go file declaring
//
//	var <Name> = nfa.MustAssemble(init, accept, []nfa.Edge{...})
func Generate(w io.Writer, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	parser := cfg.Parser
	if parser == nil {
		parser = syntax.RecursiveDescent{}
	}
	re, err := parser.Parse(syntax.Tokenize(cfg.Pattern))
	if err != nil {
		return fmt.Errorf("failed to construct regex from %q: %w", cfg.Pattern, err)
	}
	builder := cfg.Builder
	if builder == nil {
		builder = nfa.Thompson{}
	}
	n := builder.Build(re)

	f := jen.NewFile(cfg.Package)
	f.HeaderComment("Code generated by nfagrep for pattern: " + strconv.Quote(cfg.Pattern) + ". DO NOT EDIT.")

	edges := make([]jen.Code, 0, len(n.Edges()))
	for _, e := range n.Edges() {
		edges = append(edges, jen.Line().Values(jen.Dict{
			jen.Id("From"): jen.Lit(int(e.From)),
			jen.Id("On"):   trigger(e.On),
			jen.Id("To"): jen.Qual(nfaPath, "Node").Values(jen.Dict{
				jen.Id("State"):    jen.Lit(int(e.To.State)),
				jen.Id("Priority"): jen.Lit(int(e.To.Priority)),
			}),
		}))
	}
	edges = append(edges, jen.Line())

	f.Commentf("%s accepts the language of %s (%d states, %d edges).", cfg.Name, strconv.Quote(cfg.Pattern), n.Len(), len(n.Edges()))
	f.Var().Id(cfg.Name).Op("=").Qual(nfaPath, "MustAssemble").Call(
		jen.Lit(int(n.Init())),
		jen.Lit(int(n.Accept())),
		jen.Index().Qual(nfaPath, "Edge").Values(edges...),
	)

	if err := f.Render(w); err != nil {
		return fmt.Errorf("codegen: failed to render %s: %w", cfg.Name, err)
	}
	return nil
}

func trigger(t nfa.Trigger) jen.Code {
	if t == nfa.Epsilon {
		return jen.Qual(nfaPath, "Epsilon")
	}
	return jen.Qual(nfaPath, "On").Call(jen.LitRune(rune(t)))
}
