// Package biblio parses bibliographic sources (BibTeX, CSL-JSON) into
// normalized entries, renders canonical alias strings for authors, and
// generates author-date citation slugs.
//
// The package is pure: it never touches a database. The importer in
// internal/ioimport resolves parsed names against stored aliases and
// upserts publications.
package biblio

import (
	"strings"
	"unicode"
)

// Name is one person entry from a bibliographic source.
type Name struct {
	// Given holds first and middle names.
	Given string

	// Family is the family name without particle.
	Family string

	// Particle is a non-dropping particle ("von", "van der") that
	// prefixes the family name.
	Particle string

	// Suffix is a generational suffix (Jr, III).
	Suffix string

	// Literal overrides all other parts for institutional names
	// ("{NOAA}" in BibTeX, "literal" in CSL-JSON).
	Literal string
}

// FamilyPart returns the family name with its particle prefix.
func (n Name) FamilyPart() string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Particle != "" {
		return n.Particle + " " + n.Family
	}
	return n.Family
}

// Alias renders the canonical alias string for the name:
// "von Family, Suffix, Given" with empty parts skipped. Alias strings
// are the lookup key for person resolution during import, so the
// rendering must stay stable.
func (n Name) Alias() string {
	if n.Literal != "" {
		return n.Literal
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{n.FamilyPart(), n.Suffix, n.Given} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// GivenNames returns the given names for a created Person entity.
func (n Name) GivenNames() string {
	return n.Given
}

// LastName returns the last name (with particle) for a created Person.
func (n Name) LastName() string {
	return n.FamilyPart()
}

// ParseNameList splits a BibTeX author field on the "and" keyword and
// parses each name.
func ParseNameList(field string) []Name {
	var names []Name
	for _, chunk := range splitAnd(field) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		names = append(names, ParseName(chunk))
	}
	return names
}

// ParseName parses a single BibTeX name in either the
// "von Last, Jr, First" or the "First von Last" form. A fully braced
// name is treated as a literal.
func ParseName(text string) Name {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		inner := strings.TrimSpace(text[1 : len(text)-1])
		if !strings.ContainsAny(inner, "{}") {
			return Name{Literal: inner}
		}
	}

	text = stripBraces(text)

	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		return parseFirstVonLast(parts[0])
	case 2:
		n := parseVonLast(parts[0])
		n.Given = parts[1]
		return n
	default:
		n := parseVonLast(parts[0])
		n.Suffix = parts[1]
		n.Given = strings.Join(parts[2:], ", ")
		return n
	}
}

// parseVonLast splits "von Last": leading lower-case tokens form the
// particle, the rest is the family name.
func parseVonLast(text string) Name {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Name{}
	}

	i := 0
	for i < len(tokens)-1 && startsLower(tokens[i]) {
		i++
	}
	return Name{
		Particle: strings.Join(tokens[:i], " "),
		Family:   strings.Join(tokens[i:], " "),
	}
}

// parseFirstVonLast splits "First von Last": tokens before the first
// lower-case token are given names; lower-case tokens are the particle;
// the remainder is the family name. Without a particle the final token
// is the family name.
func parseFirstVonLast(text string) Name {
	tokens := strings.Fields(text)
	switch len(tokens) {
	case 0:
		return Name{}
	case 1:
		return Name{Family: tokens[0]}
	}

	first := -1
	last := -1
	for i, tok := range tokens {
		if startsLower(tok) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	if first <= 0 || last == len(tokens)-1 {
		// no particle, or nothing left for the family name
		return Name{
			Given:  strings.Join(tokens[:len(tokens)-1], " "),
			Family: tokens[len(tokens)-1],
		}
	}

	return Name{
		Given:    strings.Join(tokens[:first], " "),
		Particle: strings.Join(tokens[first:last+1], " "),
		Family:   strings.Join(tokens[last+1:], " "),
	}
}

func startsLower(tok string) bool {
	for _, r := range tok {
		return unicode.IsLower(r)
	}
	return false
}

// splitAnd splits a name list on the "and" keyword, ignoring
// occurrences inside braces.
func splitAnd(field string) []string {
	var chunks []string
	var cur []string
	depth := 0
	for _, tok := range strings.Fields(field) {
		if tok == "and" && depth == 0 {
			chunks = append(chunks, strings.Join(cur, " "))
			cur = nil
			continue
		}
		depth += strings.Count(tok, "{") - strings.Count(tok, "}")
		cur = append(cur, tok)
	}
	chunks = append(chunks, strings.Join(cur, " "))
	return chunks
}

// stripBraces removes BibTeX grouping braces from a value.
func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")
	return strings.TrimSpace(s)
}
