package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

func track(path, display, search string) tuneinfo.Track {
	return tuneinfo.Track{Path: path, Display: display, Search: search}
}

func displaysOf(tracks []*tuneinfo.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Display
	}
	return out
}

// S4: "aphex !bucephalus" filters to "Aphex Twin - Alberto" only.
func TestSearchNegation(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "Aphex Twin - Alberto", "APHEXTWINALBERTO"),
		track("/2", "Aphex Twin - Bucephalus", "APHEXTWINBUCEPHALUS"),
		track("/3", "Autechre - Gantz Graf", "AUTECHREGANTZGRAF"),
	})

	q := Parse("aphex !bucephalus")
	results := Run(cat, q)
	assert.Equal(t, []string{"Aphex Twin - Alberto"}, displaysOf(results))
}

// S5: "Cure" (uppercase first letter) anchors to display/search starting
// with 'C'. "The Cure - Lovesong" starts with 'T', so nothing matches.
func TestSearchFirstLetterAnchor(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "Aphex Twin - Alberto", "APHEXTWINALBERTO"),
		track("/2", "Aphex Twin - Bucephalus", "APHEXTWINBUCEPHALUS"),
		track("/3", "Autechre - Gantz Graf", "AUTECHREGANTZGRAF"),
		track("/4", "The Cure - Lovesong", "THECURELOVESONG"),
	})

	q := Parse("Cure")
	results := Run(cat, q)
	assert.Equal(t, []string{}, displaysOf(results))
}

func TestSearchLowercaseIsNotAnchored(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "The Cure - Lovesong", "THECURELOVESONG"),
		track("/2", "Aphex Twin - Cure For A Broken Heart", "APHEXTWINCUREFORABROKENHEART"),
	})

	q := Parse("cure")
	results := Run(cat, q)
	assert.Len(t, results, 2, "lowercase first letter is a normal substring search, not anchored")
}

func TestSearchPathMode(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/music/live/show.mp3", "Show", "SHOW"),
		track("/music/studio/show.mp3", "Show", "SHOW"),
	})

	q := Parse("/live")
	results := Run(cat, q)
	assert.Len(t, results, 1)
	assert.Equal(t, "/music/live/show.mp3", results[0].Path)
}

func TestSearchFuzzyMode(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "Bohemian Rhapsody", "BOHEMIANRHAPSODY"),
		track("/2", "Unrelated Track", "UNRELATEDTRACK"),
	})

	q := Parse("%BOHEMIAN RAPSODY") // deliberate typo
	results := Run(cat, q)
	assert.Len(t, results, 1)
	assert.Equal(t, "Bohemian Rhapsody", results[0].Display)
}

// Boundary: a lone "!" is a no-op negation that matches anything.
func TestLoneNegationIsNoOp(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "Track One", "TRACKONE"),
	})

	q := Parse("!")
	results := Run(cat, q)
	assert.Len(t, results, 1)
}

// A '!' embedded anywhere in a token negates it, not just a leading one.
func TestSearchNegationNotJustPrefix(t *testing.T) {
	cat := memcatalog.Load([]tuneinfo.Track{
		track("/1", "Aphex Twin - Alberto", "APHEXTWINALBERTO"),
		track("/2", "Aphex Twin - Bucephalus", "APHEXTWINBUCEPHALUS"),
	})

	q := Parse("aphex bu!cephalus")
	assert.True(t, q.Tokens[1].Negate)
	assert.Equal(t, "BUCEPHALUS", q.Tokens[1].Text)

	results := Run(cat, q)
	assert.Equal(t, []string{"Aphex Twin - Alberto"}, displaysOf(results))
}

func TestIsBarcode(t *testing.T) {
	assert.True(t, IsBarcode("12345"))
	assert.False(t, IsBarcode("12a45"))
	assert.False(t, IsBarcode(""))
}

func TestFuzzyScoreFormula(t *testing.T) {
	score := FuzzyScore("HELLOWORLD", "HELLOWORLD")
	assert.Equal(t, 100.0, score)

	score = FuzzyScore("COMPLETELYDIFFERENT", "ZZZ")
	assert.Equal(t, 0.0, score)
}
