package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mfroeh/nfagrep/regex"
)

// files with a NUL byte in this prefix are treated as binary and skipped
const binarySniffLen = 512

var matchColor = color.New(color.FgRed, color.Bold)

type grepCmd struct {
	Pattern      string        `arg:"" name:"pattern" help:"Regex pattern to use in search."`
	Paths        []string      `arg:"" optional:"" name:"path" help:"Paths to search." type:"path"`
	Count        bool          `short:"c" help:"Print only the number of matching lines per file."`
	OnlyMatching bool          `short:"o" help:"Print only the non-empty matched parts of each line."`
	NoColor      bool          `help:"Disable colored output."`
	Timeout      time.Duration `env:"NFAGREP_TIMEOUT" help:"Abort the whole search after this long (0 means no timeout)."`
}

func (c *grepCmd) Run(g *globals) error {
	re, err := g.compile(c.Pattern)
	if err != nil {
		return err
	}
	if c.NoColor {
		color.NoColor = true
	}
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	s := &searcher{
		re:           re,
		out:          g.out,
		log:          g.log,
		highlight:    matchColor,
		count:        c.Count,
		onlyMatching: c.OnlyMatching,
	}
	for _, path := range c.Paths {
		if err := s.searchPath(ctx, path); err != nil {
			return err
		}
	}
	g.log.Printf("%d of %d files matched", s.matchedFiles, s.files)
	return nil
}

type searcher struct {
	re           *regex.Regex
	out          io.Writer
	log          *log.Logger
	highlight    *color.Color
	count        bool
	onlyMatching bool

	files        int
	matchedFiles int
}

func (s *searcher) searchPath(ctx context.Context, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return s.searchDir(ctx, path)
	}
	return s.searchFile(ctx, path)
}

func (s *searcher) searchDir(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// resolve symlinks, broken ones are ignored
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.log.Printf("skipping broken symlink %s", path)
				return nil
			}
			return err
		}
		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return s.searchFile(ctx, path)
	})
}

func (s *searcher) searchFile(ctx context.Context, path string) error {
	content, release, err := readFile(path)
	if err != nil {
		return err
	}
	defer release()

	if bytes.IndexByte(content[:min(len(content), binarySniffLen)], 0) >= 0 {
		s.log.Printf("skipping binary file %s", path)
		return nil
	}
	s.files++

	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	if len(content) == 0 {
		lines = nil
	}

	matchingLines := 0
	for i, line := range lines {
		matches, err := s.re.FindAllContext(ctx, line, -1)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		if s.onlyMatching {
			matches = nonEmpty(matches)
		}
		if len(matches) == 0 {
			continue
		}

		matchingLines++
		if s.count {
			continue
		}
		if matchingLines == 1 {
			fmt.Fprintln(s.out, path, ":")
		}

		if s.onlyMatching {
			for _, m := range matches {
				fmt.Fprintf(s.out, "%d:%s\n", i+1, s.highlight.Sprint(m.Str))
			}
			continue
		}
		fmt.Fprintf(s.out, "%d:%s\n", i+1, s.formatLine(line, matches))
	}

	if matchingLines > 0 {
		s.matchedFiles++
	}
	if s.count {
		fmt.Fprintf(s.out, "%s:%d\n", path, matchingLines)
	} else if matchingLines > 0 {
		fmt.Fprintln(s.out)
	}
	return nil
}

// nonEmpty filters matches in place.
func nonEmpty(matches []regex.Match) []regex.Match {
	out := matches[:0]
	for _, m := range matches {
		if m.Str != "" {
			out = append(out, m)
		}
	}
	return out
}

func (s *searcher) formatLine(line string, matches []regex.Match) string {
	out := strings.Builder{}
	lastMatchEnd := 0
	for _, m := range matches {
		out.WriteString(line[lastMatchEnd:m.Offset])
		if m.Str != "" {
			s.highlight.Fprint(&out, m.Str)
		}
		lastMatchEnd = m.End()
	}
	out.WriteString(line[lastMatchEnd:])
	return out.String()
}
