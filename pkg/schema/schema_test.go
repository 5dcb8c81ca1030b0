package schema_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	assert.Len(t, models, 15)
}

func TestEntityKinds(t *testing.T) {
	tests := []struct {
		entity schema.Entity
		kind   schema.EntityKind
	}{
		{&schema.Person{ID: 1}, schema.KindPerson},
		{&schema.Publication{ID: 2}, schema.KindPublication},
		{&schema.Feature{ID: 3}, schema.KindFeature},
		{&schema.Record{ID: 4}, schema.KindRecord},
		{&schema.Parameter{ID: 5}, schema.KindParameter},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.entity.Kind())
		assert.NotZero(t, tt.entity.PK())
	}
}

func TestPersonName(t *testing.T) {
	p := &schema.Person{GivenNames: "Jane", LastName: "Smith"}
	assert.Equal(t, "Jane Smith", p.Name())

	p = &schema.Person{LastName: "Smith"}
	assert.Equal(t, "Smith", p.Name())
}

func TestKeyPattern(t *testing.T) {
	valid := []string{"a", "A1", "core_depth", "X_2020"}
	invalid := []string{"", "with space", "da-sh", "dot.", "ünïcode"}

	for _, k := range valid {
		assert.True(t, schema.KeyPattern.MatchString(k), k)
	}
	for _, k := range invalid {
		assert.False(t, schema.KeyPattern.MatchString(k), k)
	}
}

func TestCacheBounds(t *testing.T) {
	t.Run("point", func(t *testing.T) {
		g := schema.GeoCache{WKT: "POINT (-71.5 46.8)"}
		g.CacheBounds()
		assert.Equal(t, "POINT", g.Type)
		require.NotNil(t, g.XMin)
		assert.Equal(t, -71.5, *g.XMin)
		assert.Equal(t, -71.5, *g.XMax)
		assert.Equal(t, 46.8, *g.YMin)
		assert.Equal(t, 46.8, *g.YMax)
	})

	t.Run("blank clears cache", func(t *testing.T) {
		g := schema.GeoCache{WKT: "POINT (1 2)"}
		g.CacheBounds()
		require.NotNil(t, g.XMin)

		g.WKT = ""
		g.CacheBounds()
		assert.Empty(t, g.Type)
		assert.Nil(t, g.XMin)
		assert.Nil(t, g.XMax)
		assert.Nil(t, g.YMin)
		assert.Nil(t, g.YMax)
	})

	t.Run("recompute after wkt change", func(t *testing.T) {
		g := schema.GeoCache{WKT: "POINT (1 2)"}
		g.CacheBounds()

		g.WKT = "LINESTRING (0 0, 4 4)"
		g.CacheBounds()
		assert.Equal(t, "LINESTRING", g.Type)
		assert.Equal(t, 0.0, *g.XMin)
		assert.Equal(t, 4.0, *g.XMax)
	})
}
