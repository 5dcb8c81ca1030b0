package biblio_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/biblio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cslSample = `[
  {
    "id": "smith2019",
    "type": "article-journal",
    "title": "A Holocene lake sediment record",
    "DOI": "10.1000/xyz123",
    "issued": {"date-parts": [[2019, 4, 1]]},
    "author": [
      {"family": "Smith", "given": "Jane"}
    ],
    "container-title": "Journal of Paleolimnology",
    "page": "1-20",
    "keyword": ["paleoclimate", "lake sediment"]
  },
  {
    "id": "berg2012",
    "type": "book",
    "title": "Glacier Dynamics",
    "issued": {"raw": "2012-01"},
    "author": [
      {"family": "Berg", "given": "Piet", "non-dropping-particle": "van der"},
      {"literal": "National Snow and Ice Data Center"}
    ]
  }
]`

func TestParseCSLJSON(t *testing.T) {
	entries, err := biblio.ParseCSLJSON([]byte(cslSample))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	smith := entries[0]
	assert.Equal(t, "smith2019", smith.Key)
	assert.Equal(t, "article-journal", smith.Type)
	assert.Equal(t, 2019, smith.Year)
	require.Len(t, smith.Authors(), 1)
	assert.Equal(t, "Smith, Jane", smith.Authors()[0].Alias())

	// residual fields are preserved for meta tagging
	assert.Equal(t, "Journal of Paleolimnology", smith.Extra["container-title"])
	assert.Equal(t, "1-20", smith.Extra["page"])
	assert.Equal(t,
		`json:["paleoclimate","lake sediment"]`,
		smith.Extra["keyword"],
	)

	berg := entries[1]
	assert.Equal(t, 2012, berg.Year)
	require.Len(t, berg.Authors(), 2)
	assert.Equal(t, "van der Berg, Piet", berg.Authors()[0].Alias())
	assert.Equal(t,
		"National Snow and Ice Data Center",
		berg.Authors()[1].Alias(),
	)
}

func TestParseCSLJSONSingleObject(t *testing.T) {
	entries, err := biblio.ParseCSLJSON([]byte(
		`{"id": "solo", "title": "Solo", "year": "1987"}`,
	))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1987, entries[0].Year)
}

func TestParseCSLJSONNoYear(t *testing.T) {
	_, err := biblio.ParseCSLJSON([]byte(`{"id": "x", "title": "No year"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no year in entry")
}

func TestParseCSLJSONMalformed(t *testing.T) {
	_, err := biblio.ParseCSLJSON([]byte(`{"id": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse CSL-JSON")
}

func TestEntryRolesSorted(t *testing.T) {
	e := biblio.Entry{People: map[string][]biblio.Name{
		"translator": {{Family: "T"}},
		"author":     {{Family: "A"}},
		"editor":     {{Family: "E"}},
	}}
	assert.Equal(t, []string{"author", "editor", "translator"}, e.Roles())
}
