package biblio_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/biblio"
	"github.com/stretchr/testify/assert"
)

func TestFoldASCII(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Smith", "smith"},
		{"Müller", "muller"},
		{"Szymański", "szymanski"},
		{"van der Berg", "vanderberg"},
		{"Æbelø", "bel"}, // non-decomposable runes are dropped
		{"O'Neil", "o'neil"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, biblio.FoldASCII(tt.in), tt.in)
	}
}

func TestAuthorDateKey(t *testing.T) {
	smith := biblio.Name{Family: "Smith"}
	jones := biblio.Name{Family: "Jones"}
	muller := biblio.Name{Family: "Müller"}

	tests := []struct {
		name     string
		names    []biblio.Name
		year     int
		expected string
	}{
		{"no authors", nil, 2019, "anonymous19"},
		{"sole author", []biblio.Name{smith}, 2019, "smith19"},
		{"two authors", []biblio.Name{smith, jones}, 2019, "smith_and_jones19"},
		{
			"three plus",
			[]biblio.Name{smith, jones, muller}, 2019,
			"smith_etal19",
		},
		{"diacritics folded", []biblio.Name{muller}, 2005, "muller05"},
		{"year 2000", []biblio.Name{smith}, 2000, "smith00"},
		{
			"particle in surname",
			[]biblio.Name{{Particle: "van der", Family: "Berg"}}, 2012,
			"vanderberg12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, biblio.AuthorDateKey(tt.names, tt.year))
		})
	}
}

func TestSlugCandidates(t *testing.T) {
	cands := biblio.SlugCandidates("smith19")
	assert.Len(t, cands, 27)
	assert.Equal(t, "smith19", cands[0])
	assert.Equal(t, "smith19a", cands[1])
	assert.Equal(t, "smith19z", cands[26])
}

func TestStripSlugSuffix(t *testing.T) {
	assert.Equal(t, "smith19", biblio.StripSlugSuffix("smith19"))
	assert.Equal(t, "smith19", biblio.StripSlugSuffix("smith19a"))
	assert.Equal(t, "smith19", biblio.StripSlugSuffix("smith19z"))
	assert.Equal(t, "", biblio.StripSlugSuffix(""))
}
