package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mfroeh/nfagrep/regex"
	"github.com/mfroeh/nfagrep/regex/codegen"
	"github.com/mfroeh/nfagrep/regex/nfa"
	"github.com/mfroeh/nfagrep/regex/syntax"
)

const defaultConfig = "~/.config/nfagrep.json"

type app struct {
	Globals globals         `embed:""`
	Config  kong.ConfigFlag `help:"Load flag defaults from a JSON file." placeholder:"FILE"`

	Grep grepCmd `cmd:"" default:"withargs" help:"Recursively search paths for lines matching a pattern."`
	Dot  dotCmd  `cmd:"" help:"Print the NFA of a pattern as a Graphviz digraph."`
	Gen  genCmd  `cmd:"" help:"Generate Go source that rebuilds the NFA of a pattern."`
}

type globals struct {
	Parser         string `enum:"descent,grammar" default:"descent" env:"NFAGREP_PARSER" help:"Pattern parser to use (${enum})."`
	OptionalAsStar bool   `env:"NFAGREP_OPTIONAL_AS_STAR" help:"Let ? repeat like * instead of matching at most once."`
	MaxSteps       int    `env:"NFAGREP_MAX_STEPS" help:"Give up on a line after this many search steps (0 means unbounded)."`
	Verbose        bool   `short:"v" env:"NFAGREP_VERBOSE" help:"Log diagnostics to stderr."`

	out io.Writer
	log *log.Logger
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	if !verbose {
		w = io.Discard
	}
	return log.New(w, "nfagrep: ", 0)
}

func (g *globals) builder() nfa.Builder {
	return nfa.Thompson{OptionalAsStar: g.OptionalAsStar}
}

func (g *globals) parser() syntax.Parser {
	if g.Parser == "grammar" {
		return syntax.Grammar{}
	}
	return syntax.RecursiveDescent{}
}

func (g *globals) compile(pattern string) (*regex.Regex, error) {
	re, err := regex.Compile(pattern,
		regex.WithParser(g.parser()),
		regex.WithBuilder(g.builder()),
		regex.WithMaxSteps(g.MaxSteps),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build regex: %w", err)
	}
	g.log.Printf("compiled %q with the %s parser into %d states", pattern, g.Parser, re.NFA().Len())
	return re, nil
}

// writeTo runs write against stdout for "-" and against a new file
// otherwise.
func (g *globals) writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(g.out)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	g.log.Printf("wrote %s", path)
	return f.Close()
}

type dotCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Regex pattern to draw."`
	Output  string `short:"o" default:"-" help:"File to write to, - for stdout."`
}

func (c *dotCmd) Run(g *globals) error {
	re, err := g.compile(c.Pattern)
	if err != nil {
		return err
	}
	return g.writeTo(c.Output, re.NFA().WriteDOT)
}

type genCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Regex pattern to compile."`
	Name    string `default:"Pattern" help:"Name of the generated variable."`
	Package string `default:"main" help:"Package clause of the generated file."`
	Output  string `short:"o" default:"-" help:"File to write to, - for stdout."`
}

func (c *genCmd) Run(g *globals) error {
	return g.writeTo(c.Output, func(w io.Writer) error {
		return codegen.Generate(w, codegen.Config{
			Package: c.Package,
			Name:    c.Name,
			Pattern: c.Pattern,
			Parser:  g.parser(),
			Builder: g.builder(),
		})
	})
}

func newParser(cli *app, options ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("nfagrep"),
		kong.Description("Recursively searches paths for lines matching a regex pattern."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, defaultConfig),
	}, options...)...)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("nfagrep: ")

	var cli app
	parser, err := newParser(&cli)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cli.Globals.out = os.Stdout
	cli.Globals.log = newLogger(os.Stderr, cli.Globals.Verbose)
	if err := ctx.Run(&cli.Globals); err != nil {
		log.Fatalf("%v", err)
	}
}
