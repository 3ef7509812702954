package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testcases := map[string]string{
		"Accessories":       "accessories",
		" Sea --- Spray ":   "sea-spray",
		"Stella 32 Sport":   "stella-32-sport",
		"Über Hafen!":       "uber-hafen",
		"--already-a-slug-": "already-a-slug",
		"!@#$%":             "",
		"":                  "",
		"a_b.c/d":           "a-b-c-d",
		"Pilot Cutter 28'":  "pilot-cutter-28",
	}

	for input, expected := range testcases {
		assert.Equal(t, expected, Slugify(input), "Slugify(%q)", input)
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{
		"Accessories", " Sea --- Spray ", "Stella 32 Sport", "Café  Résumé", "a_b.c/d", "日本語 boat", "--x--",
	}
	for _, s := range inputs {
		once := Slugify(s)
		assert.Equal(t, once, Slugify(once), "input %q", s)
		if once != "" {
			assert.True(t, IsSlug(once))
		}
	}
}

func TestIsSlug(t *testing.T) {
	for _, s := range []string{"stella-32-sport", "accessories", "28"} {
		assert.True(t, IsSlug(s), s)
	}
	for _, s := range []string{"", "Stella", "sea--spray", "-x", "x-", " x", "a_b"} {
		assert.False(t, IsSlug(s), s)
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"sport", "Cruiser", "teak"}, ParseTags(" sport, Cruiser,, teak , SPORT "))
	assert.Empty(t, ParseTags("  , ,"))
}
