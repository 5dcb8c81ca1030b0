package biblio

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugSuffixes are the disambiguation suffixes tried in order when an
// author-date slug collides with an existing publication.
var SlugSuffixes = func() []string {
	s := []string{""}
	for c := 'a'; c <= 'z'; c++ {
		s = append(s, string(c))
	}
	return s
}()

var asciiFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldASCII lowercases a string, strips diacritics via Unicode
// normalization, and drops any remaining non-ASCII runes along with
// whitespace.
func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if r > unicode.MaxASCII || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AuthorDateKey derives the base citation slug from the author list and
// year: "<surname><yy>", "<s1>_and_<s2><yy>", or "<s1>_etal<yy>" for
// one, two, or three-plus authors. Entries without authors use
// "anonymous" as the surname.
func AuthorDateKey(names []Name, year int) string {
	yy := fmt.Sprintf("%02d", ((year % 100) + 100) % 100)

	switch len(names) {
	case 0:
		return "anonymous" + yy
	case 1:
		return FoldASCII(names[0].FamilyPart()) + yy
	case 2:
		return FoldASCII(names[0].FamilyPart()) + "_and_" +
			FoldASCII(names[1].FamilyPart()) + yy
	default:
		return FoldASCII(names[0].FamilyPart()) + "_etal" + yy
	}
}

// SlugCandidates returns all candidate slugs for a base key, in the
// order they must be tried.
func SlugCandidates(base string) []string {
	out := make([]string, len(SlugSuffixes))
	for i, sfx := range SlugSuffixes {
		out[i] = base + sfx
	}
	return out
}

// StripSlugSuffix removes a trailing single-letter disambiguation
// suffix from a slug, returning the base author-date key. Slugs whose
// final character is a digit are already base keys.
func StripSlugSuffix(slug string) string {
	if slug == "" {
		return slug
	}
	last := slug[len(slug)-1]
	if last >= 'a' && last <= 'z' {
		return slug[:len(slug)-1]
	}
	return slug
}

// SlugExhaustedError creates an error for when every disambiguation
// suffix for a base slug is taken.
func SlugExhaustedError(base string) error {
	msg := `Cannot generate a unique citation slug for <em>%s</em>

<em>Possible causes:</em>
  - More than 27 publications share the same author-date key

<em>How to fix:</em>
  1. Assign a slug manually for the conflicting publication
  2. Check for duplicate imports of the same bibliography`

	return &gn.Error{
		Code: errcode.ImportSlugExhaustedError,
		Msg:  msg,
		Vars: []any{base},
		Err:  fmt.Errorf("slug candidates exhausted for %q", base),
	}
}
