package biblio

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// Entry is a normalized bibliographic record, the common output of the
// BibTeX and CSL-JSON parsers.
type Entry struct {
	// Key is the citation key (BibTeX) or item id (CSL-JSON). May be
	// empty for CSL items without an id.
	Key string

	// Type is the CSL-like type tag (article-journal, book...).
	Type string

	Title    string
	Year     int
	DOI      string
	URL      string
	Abstract string

	// People holds role-tagged person lists in original order.
	People map[string][]Name

	// Extra holds residual CSL-JSON fields not consumed by field
	// mapping, already serialized for meta-tagging. Structured values
	// carry the "json:" marker prefix.
	Extra map[string]string
}

// Roles returns the entry's roles sorted alphabetically so iteration
// over People is deterministic.
func (e *Entry) Roles() []string {
	roles := make([]string, 0, len(e.People))
	for role := range e.People {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Authors returns the "author" person list, which drives slug
// generation.
func (e *Entry) Authors() []Name {
	return e.People["author"]
}

var yearRx = regexp.MustCompile(`\d{4}`)

// yearFromDate extracts the first 4-digit run from a date string.
func yearFromDate(date string) (int, bool) {
	m := yearRx.FindString(date)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ParseError wraps a parser failure as a validation error, retaining
// the original parser message for diagnostics.
func ParseError(format string, err error) error {
	msg := `Cannot parse bibliographic input (<em>` + format + `</em>)

<em>Possible causes:</em>
  - Malformed ` + format + ` syntax
  - Truncated or mis-encoded input

<em>How to fix:</em>
  1. Validate the input with a reference tool
  2. Check the parser message below for the failing location`

	return &gn.Error{
		Code: errcode.ImportParseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("parse %s: %w", format, err),
	}
}

// YearMissingError creates an error for an entry without any
// year-bearing field.
func YearMissingError(key string) error {
	msg := `No year in entry <em>%s</em>

<em>Possible causes:</em>
  - Neither a 'year' field nor a dated 'issued'/'date' field exists

<em>How to fix:</em>
  1. Add a year to the source entry and re-import`

	return &gn.Error{
		Code: errcode.ImportYearMissingError,
		Msg:  msg,
		Vars: []any{key},
		Err:  fmt.Errorf("no year in entry %q", key),
	}
}
