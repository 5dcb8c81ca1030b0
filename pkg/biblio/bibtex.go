package biblio

import (
	"strconv"
	"strings"

	"github.com/nickng/bibtex"
)

// bibtexRoles are the BibTeX fields holding name lists.
var bibtexRoles = []string{"author", "editor", "translator"}

// ParseBibTeX parses BibTeX text into normalized entries. The citation
// key of each entry becomes Entry.Key and, on import, the publication
// slug. Entries without a year-bearing field fail with a validation
// error.
func ParseBibTeX(text string) ([]Entry, error) {
	bib, err := bibtex.Parse(strings.NewReader(text))
	if err != nil {
		return nil, ParseError("BibTeX", err)
	}

	entries := make([]Entry, 0, len(bib.Entries))
	for _, be := range bib.Entries {
		entry, err := entryFromBibTeX(be)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromBibTeX(be *bibtex.BibEntry) (Entry, error) {
	e := Entry{
		Key:    be.CiteName,
		Type:   be.Type,
		People: map[string][]Name{},
	}

	e.Title = stripBraces(bibField(be, "title"))
	if e.Title == "" {
		e.Title = "Untitled"
	}
	e.DOI = bibField(be, "doi")
	e.URL = bibField(be, "url")
	e.Abstract = bibField(be, "abstract")

	if yearStr := bibField(be, "year"); yearStr != "" {
		y, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			return e, YearMissingError(be.CiteName)
		}
		e.Year = y
	} else if date := bibField(be, "date"); date != "" {
		y, ok := yearFromDate(date)
		if !ok {
			return e, YearMissingError(be.CiteName)
		}
		e.Year = y
	} else {
		return e, YearMissingError(be.CiteName)
	}

	for _, role := range bibtexRoles {
		if field := bibField(be, role); field != "" {
			e.People[role] = ParseNameList(field)
		}
	}

	return e, nil
}

func bibField(be *bibtex.BibEntry, key string) string {
	v, ok := be.Fields[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}
