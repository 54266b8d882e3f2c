package literal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMayMatch(t *testing.T) {
	tests := map[string]struct {
		givenLiterals []string
		givenHaystack string
		want          bool
	}{
		"single hit": {
			givenLiterals: []string{"foo"},
			givenHaystack: "xxfooxx",
			want:          true,
		},
		"single miss": {
			givenLiterals: []string{"foo"},
			givenHaystack: "fo o",
		},
		"second literal": {
			givenLiterals: []string{"bar", "baz", "qux"},
			givenHaystack: "a qux",
			want:          true,
		},
		"overlapping literals": {
			givenLiterals: []string{"abcd", "bc"},
			givenHaystack: "abc",
			want:          true,
		},
		"empty haystack": {
			givenLiterals: []string{"a"},
			givenHaystack: "",
		},
		"non printable bytes": {
			givenLiterals: []string{"\x00\xff"},
			givenHaystack: "..\x00\xff..",
			want:          true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := New(tt.givenLiterals)
			if err != nil {
				t.Fatal(err)
			}

			// when
			got := p.MayMatch([]byte(tt.givenHaystack))

			// then
			if got != tt.want {
				t.Errorf("MayMatch(%q) = %v, want %v", tt.givenHaystack, got, tt.want)
			}
		})
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoLiterals) {
		t.Errorf("got %v, want ErrNoLiterals", err)
	}
	if _, err := New([]string{"a", ""}); err == nil {
		t.Error("expected an error for an empty literal")
	}
}

func TestLiteralsAreCopied(t *testing.T) {
	given := []string{"a", "b"}
	p, err := New(given)
	if err != nil {
		t.Fatal(err)
	}
	given[0] = "z"

	if d := cmp.Diff([]string{"a", "b"}, p.Literals()); d != "" {
		t.Errorf("literals diff (-want +got):\n%s", d)
	}
}
