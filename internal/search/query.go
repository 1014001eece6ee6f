// Package search implements the per-keystroke multi-word search engine
// (spec §4.5, C6): tokenization with boolean negation, first-letter
// anchoring, path mode, and fuzzy n-gram fallback, plus the barcode
// playlist shortcut and the list sort modes. Grounded on
// original_source/src/searchmp3berg.c's do_search (word split, `!`
// negation, first-char anchor, only_searchables projection) and
// common.c's fuzzy()/NGramMatch, reimplemented natively because the
// scoring formula is load-bearing for spec §8's testable behavior.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// Mode selects which field a query matches against and how.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAnchor
	ModePath
	ModeFuzzy
)

// Token is one space-separated query word.
type Token struct {
	Text   string // upper-cased, mode-prefix and '!' already stripped
	Negate bool
}

// Query is a parsed search string, ready to run against a memcatalog.
type Query struct {
	Mode   Mode
	Tokens []Token

	// FuzzyNeedle is the full remaining text (mode prefix stripped, spaces
	// preserved) used by fuzzy mode, which scores the whole phrase rather
	// than token-by-token.
	FuzzyNeedle string
}

// IsBarcode reports whether s is the §4.5/§6.4 "barcode" shortcut: an
// all-digits string naming a playlist file directly.
func IsBarcode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Parse builds a Query from raw per §4.5's mode-detection rules: first
// character uppercase => anchor, '/' => path, '%' => fuzzy, otherwise
// normal. Negation (any '!' anywhere in the token, not just a leading one)
// applies independently per token in every mode.
func Parse(raw string) Query {
	if strings.TrimSpace(raw) == "" {
		return Query{Mode: ModeNormal}
	}

	mode := ModeNormal
	first, _ := utf8.DecodeRuneInString(raw)
	stripped := raw
	switch {
	case first == '/':
		mode = ModePath
		stripped = raw[1:]
	case first == '%':
		mode = ModeFuzzy
		stripped = raw[1:]
	case unicode.IsUpper(first):
		mode = ModeAnchor
	}

	fields := strings.Fields(stripped)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		negate := strings.Contains(f, "!")
		if negate {
			f = strings.ReplaceAll(f, "!", "")
		}
		tokens = append(tokens, Token{Text: strings.ToUpper(f), Negate: negate})
	}

	return Query{
		Mode:        mode,
		Tokens:      tokens,
		FuzzyNeedle: strings.ToUpper(strings.TrimSpace(stripped)),
	}
}

// Matches reports whether t satisfies the query (boolean AND across
// non-negated tokens, AND NOT across negated ones; §4.5's "A track is kept
// iff every non-negated token matches and no negated token matches").
func (q Query) Matches(t *tuneinfo.Track) bool {
	if q.Mode == ModeFuzzy {
		if q.FuzzyNeedle == "" {
			return true
		}
		return FuzzyScore(t.Search, q.FuzzyNeedle) > 50
	}

	haystack := t.Search
	if q.Mode == ModePath {
		haystack = strings.ToUpper(t.Path)
	}

	for i, tok := range q.Tokens {
		if tok.Negate {
			// Boundary: a lone "!" negates the empty string, which is a
			// no-op (matches anything, excludes nothing).
			if tok.Text == "" {
				continue
			}
			if strings.Contains(haystack, tok.Text) {
				return false
			}
			continue
		}

		if i == 0 && q.Mode == ModeAnchor && !anchorMatches(t, tok.Text) {
			return false
		}

		if tok.Text == "" {
			continue
		}
		if !strings.Contains(haystack, tok.Text) {
			return false
		}
	}
	return true
}

// anchorMatches implements the first-letter anchor rule: the token's first
// character must equal the first character of either Display or Search.
func anchorMatches(t *tuneinfo.Track, tokUpper string) bool {
	if tokUpper == "" {
		return true
	}
	want := tokUpper[0]

	if len(t.Search) > 0 && t.Search[0] == want {
		return true
	}
	for i := 0; i < len(t.Display); i++ {
		c := t.Display[i]
		if c >= 0x80 {
			break // multi-byte lead byte, ascii anchor can't match here
		}
		if isAlnumByte(c) {
			return upperByte(c) == want
		}
	}
	return false
}

func isAlnumByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Run filters cat against q, returning matching tracks in catalog order.
// Anchor-mode queries scan only the matching first-letter bucket, the
// same optimization the bucket index (I4) exists to enable.
func Run(cat *memcatalog.Catalog, q Query) []*tuneinfo.Track {
	var out []*tuneinfo.Track

	if q.Mode == ModeAnchor && len(q.Tokens) > 0 && q.Tokens[0].Text != "" {
		b := cat.Bucket(q.Tokens[0].Text[0])
		for i := b.Lo; i < b.Hi; i++ {
			t := cat.At(i)
			if q.Matches(t) {
				out = append(out, t)
			}
		}
		return out
	}

	all := cat.All()
	for i := range all {
		if q.Matches(&all[i]) {
			out = append(out, &all[i])
		}
	}
	return out
}
