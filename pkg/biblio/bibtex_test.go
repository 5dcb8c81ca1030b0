package biblio_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/biblio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bibtexSample = `
@article{smith19,
  author = {Smith, Jane and Doe, John},
  title = {A {Holocene} lake sediment record},
  journal = {Journal of Paleolimnology},
  year = {2019},
  doi = {10.1000/xyz123}
}

@book{jones05,
  author = {Jones, Jr, Robert},
  editor = {Brown, Alice},
  title = {Ice Cores},
  date = {2005-06-01},
  url = {https://example.com/ice-cores}
}
`

func TestParseBibTeX(t *testing.T) {
	entries, err := biblio.ParseBibTeX(bibtexSample)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	smith := entries[0]
	assert.Equal(t, "smith19", smith.Key)
	assert.Equal(t, "article", smith.Type)
	assert.Equal(t, "A Holocene lake sediment record", smith.Title)
	assert.Equal(t, 2019, smith.Year)
	assert.Equal(t, "10.1000/xyz123", smith.DOI)
	require.Len(t, smith.People["author"], 2)
	assert.Equal(t, "Smith, Jane", smith.People["author"][0].Alias())
	assert.Equal(t, "Doe, John", smith.People["author"][1].Alias())

	jones := entries[1]
	assert.Equal(t, "jones05", jones.Key)
	assert.Equal(t, 2005, jones.Year)
	assert.Equal(t, "https://example.com/ice-cores", jones.URL)
	require.Len(t, jones.People["author"], 1)
	assert.Equal(t, "Jones, Jr, Robert", jones.People["author"][0].Alias())
	require.Len(t, jones.People["editor"], 1)
	assert.Equal(t, "Brown, Alice", jones.People["editor"][0].Alias())
}

func TestParseBibTeXNoYear(t *testing.T) {
	_, err := biblio.ParseBibTeX(`@article{noyear, title = {Missing}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no year in entry")
}

func TestParseBibTeXMalformed(t *testing.T) {
	_, err := biblio.ParseBibTeX(`@article{broken`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse BibTeX")
}

func TestParseBibTeXUntitled(t *testing.T) {
	entries, err := biblio.ParseBibTeX(
		`@misc{anon99, year = {1999}}`,
	)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Untitled", entries[0].Title)
	assert.Empty(t, entries[0].Authors())
}
