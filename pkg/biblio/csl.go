package biblio

import (
	"bytes"
	"encoding/json"
	"strings"
)

// cslRoles are the CSL-JSON name variables resolved into People.
var cslRoles = []string{
	"author", "editor", "translator",
	"container-author", "collection-editor",
	"director", "interviewer", "recipient",
}

// cslConsumed lists the fields consumed by field mapping; everything
// else lands in Entry.Extra and is stored as a "meta" tag on import.
var cslConsumed = map[string]bool{
	"id": true, "type": true, "title": true, "abstract": true,
	"DOI": true, "URL": true, "issued": true, "year": true,
}

// cslName is one entry of a CSL-JSON name variable.
type cslName struct {
	Family              string `json:"family"`
	Given               string `json:"given"`
	Suffix              string `json:"suffix"`
	NonDroppingParticle string `json:"non-dropping-particle"`
	DroppingParticle    string `json:"dropping-particle"`
	Literal             string `json:"literal"`
}

// cslDate is the CSL-JSON date structure.
type cslDate struct {
	DateParts [][]json.Number `json:"date-parts"`
	Raw       string          `json:"raw"`
	Literal   string          `json:"literal"`
}

// ParseCSLJSON parses CSL-JSON (a single object or an array of
// objects) into normalized entries.
func ParseCSLJSON(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)

	var raws []map[string]json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, ParseError("CSL-JSON", err)
		}
	} else {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, ParseError("CSL-JSON", err)
		}
		raws = append(raws, raw)
	}

	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		entry, err := entryFromCSL(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromCSL(raw map[string]json.RawMessage) (Entry, error) {
	e := Entry{
		People: map[string][]Name{},
		Extra:  map[string]string{},
	}

	e.Key = jsonString(raw["id"])
	e.Type = jsonString(raw["type"])
	e.Title = jsonString(raw["title"])
	e.Abstract = jsonString(raw["abstract"])
	e.DOI = jsonString(raw["DOI"])
	e.URL = jsonString(raw["URL"])

	year, ok := cslYear(raw)
	if !ok {
		return e, YearMissingError(e.Key)
	}
	e.Year = year

	consumed := map[string]bool{}
	for k, v := range cslConsumed {
		consumed[k] = v
	}

	for _, role := range cslRoles {
		rawNames, ok := raw[role]
		if !ok {
			continue
		}
		consumed[role] = true

		var cnames []cslName
		if err := json.Unmarshal(rawNames, &cnames); err != nil {
			return e, ParseError("CSL-JSON", err)
		}
		names := make([]Name, 0, len(cnames))
		for _, cn := range cnames {
			names = append(names, nameFromCSL(cn))
		}
		if len(names) > 0 {
			e.People[role] = names
		}
	}

	for key, value := range raw {
		if consumed[key] {
			continue
		}
		e.Extra[key] = serializeExtra(value)
	}

	return e, nil
}

func nameFromCSL(cn cslName) Name {
	given := cn.Given
	if cn.DroppingParticle != "" {
		given = strings.TrimSpace(given + " " + cn.DroppingParticle)
	}
	return Name{
		Given:    given,
		Family:   cn.Family,
		Particle: cn.NonDroppingParticle,
		Suffix:   cn.Suffix,
		Literal:  cn.Literal,
	}
}

// cslYear extracts the publication year from "issued" (date-parts or a
// raw/literal date string) or from a plain "year" field.
func cslYear(raw map[string]json.RawMessage) (int, bool) {
	if issued, ok := raw["issued"]; ok {
		var d cslDate
		if err := json.Unmarshal(issued, &d); err == nil {
			if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
				if y, err := d.DateParts[0][0].Int64(); err == nil {
					return int(y), true
				}
			}
			for _, s := range []string{d.Raw, d.Literal} {
				if y, ok := yearFromDate(s); ok {
					return y, true
				}
			}
		}
	}

	if yr, ok := raw["year"]; ok {
		if y, ok := yearFromDate(jsonString(yr)); ok {
			return y, true
		}
	}

	return 0, false
}

// jsonString decodes a raw value as a string; numbers are rendered via
// their JSON text.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// serializeExtra renders a residual field for tag storage. Scalars are
// stored as their text; lists and objects are serialized with a "json:"
// marker prefix so consumers can round-trip them.
func serializeExtra(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "json:" + string(trimmed)
		}
		return "json:" + buf.String()
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
