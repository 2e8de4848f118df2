package theme

import (
	"strings"
	"unicode/utf16"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Selector picks a palette for a destination: the first palette, in order,
// with a keyword contained in the name, else a stable hash of the name. Only
// the empty string maps to DEFAULT; whitespace is hashed like any other name.
type Selector struct {
	matchers []matcher
}

type matcher struct {
	palette string
	ac      ahocorasick.AhoCorasick
}

func NewSelector() *Selector {
	s := &Selector{matchers: make([]matcher, 0, len(order))}
	for _, name := range order {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
			DFA:                  true,
		})
		s.matchers = append(s.matchers, matcher{palette: name, ac: builder.Build(keywords[name])})
	}
	return s
}

func (s *Selector) Select(destination string) Palette {
	if destination == "" {
		return palettes[Default]
	}
	dest := strings.ToLower(destination)

	for _, m := range s.matchers {
		if len(m.ac.FindAll(dest)) > 0 {
			return palettes[m.palette]
		}
	}

	return palettes[order[hash(dest)%len(order)]]
}

// hash sums UTF-16 code units so the bucket matches what browsers compute
// for the same name.
func hash(s string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(s)) {
		sum += int(u)
	}
	return sum
}
