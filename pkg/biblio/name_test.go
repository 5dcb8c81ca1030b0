package biblio_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/biblio"
	"github.com/stretchr/testify/assert"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected biblio.Name
	}{
		{
			"last comma first",
			"Smith, Jane",
			biblio.Name{Given: "Jane", Family: "Smith"},
		},
		{
			"first last",
			"Jane Smith",
			biblio.Name{Given: "Jane", Family: "Smith"},
		},
		{
			"von last comma first",
			"van der Berg, Piet",
			biblio.Name{Given: "Piet", Particle: "van der", Family: "Berg"},
		},
		{
			"first von last",
			"Piet van der Berg",
			biblio.Name{Given: "Piet", Particle: "van der", Family: "Berg"},
		},
		{
			"suffix form",
			"Jones, Jr, Robert",
			biblio.Name{Given: "Robert", Family: "Jones", Suffix: "Jr"},
		},
		{
			"multi-word family",
			"Ponce de Leon, Juan",
			biblio.Name{Given: "Juan", Family: "Ponce de Leon"},
		},
		{
			"literal institution",
			"{National Snow and Ice Data Center}",
			biblio.Name{Literal: "National Snow and Ice Data Center"},
		},
		{
			"braced given names",
			"Smith, {J. A.}",
			biblio.Name{Given: "J. A.", Family: "Smith"},
		},
		{
			"single token",
			"Aristotle",
			biblio.Name{Family: "Aristotle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, biblio.ParseName(tt.text))
		})
	}
}

func TestParseNameList(t *testing.T) {
	names := biblio.ParseNameList("Smith, Jane and Doe, John and {NOAA}")
	assert.Len(t, names, 3)
	assert.Equal(t, "Smith", names[0].Family)
	assert.Equal(t, "Doe", names[1].Family)
	assert.Equal(t, "NOAA", names[2].Literal)
}

func TestAlias(t *testing.T) {
	tests := []struct {
		name     string
		in       biblio.Name
		expected string
	}{
		{
			"family and given",
			biblio.Name{Given: "Jane", Family: "Smith"},
			"Smith, Jane",
		},
		{
			"with particle",
			biblio.Name{Given: "Piet", Particle: "van der", Family: "Berg"},
			"van der Berg, Piet",
		},
		{
			"with suffix",
			biblio.Name{Given: "Robert", Family: "Jones", Suffix: "Jr"},
			"Jones, Jr, Robert",
		},
		{
			"literal wins",
			biblio.Name{Literal: "NOAA", Family: "ignored"},
			"NOAA",
		},
		{
			"family only",
			biblio.Name{Family: "Aristotle"},
			"Aristotle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Alias())
		})
	}
}
