package text

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorRuns = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL safe token from a human readable string. Accents are
// folded and any run of characters outside [a-z0-9] counts as one separator
// before go-slug lowercases, joins and trims. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	folded, err := Normalize(s)
	if err != nil {
		folded = s
	}
	// go-slug drops punctuation outright; "a.b" must still read as two words
	spaced := separatorRuns.ReplaceAllString(strings.ToLower(folded), " ")
	out, err := slug.Normalize(spaced)
	if err != nil {
		return ""
	}
	return out
}

// IsSlug reports whether s is already in slug form
func IsSlug(s string) bool {
	return s == strings.TrimSpace(s) && slug.IsValid(s)
}

// ParseTags splits comma separated free text into trimmed, non empty,
// de-duplicated tags in their original order.
func ParseTags(raw string) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		tags = append(tags, t)
	}
	return tags
}

// StyleFilteredText underlines the runes of haystack matched by needles
func StyleFilteredText(haystack, needles string, defaultStyle termenv.Style) string {
	if needles == "" {
		return defaultStyle.Styled(haystack)
	}
	b := strings.Builder{}

	normalizedHay, _ := Normalize(haystack)

	matches := fuzzy.Find(needles, []string{normalizedHay})
	if len(matches) == 0 {
		return defaultStyle.Styled(haystack)
	}

	matched := map[int]bool{}
	for _, mi := range matches[0].MatchedIndexes { // only one match exists
		matched[mi] = true
	}
	for i, r := range []rune(haystack) {
		if matched[i] {
			b.WriteString(defaultStyle.Underline().Styled(string(r)))
		} else {
			b.WriteString(defaultStyle.Styled(string(r)))
		}
	}

	return b.String()
}

// Normalize text to aid in the filtering process. In particular, we remove
// diacritics, "ö" becomes "o". Note that Mn is the unicode key for nonspacing
// marks.
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, in)
	return out, err
}

func TruncateWithTail(txt string, width uint, ellipsis string) string {
	return truncate.StringWithTail(txt, width, ellipsis)
}
