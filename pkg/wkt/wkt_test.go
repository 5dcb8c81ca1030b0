package wkt_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/pkg/wkt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected wkt.GeometryType
		ok       bool
	}{
		{"blank is empty", "", wkt.Empty, true},
		{"point", "POINT (30 10)", wkt.Point, true},
		{"point negative", "POINT (-30.5 10.2)", wkt.Point, true},
		{"point exponent", "POINT (1e3 -2.5E-2)", wkt.Point, true},
		{"linestring", "LINESTRING (30 10, 10 30, 40 40)", wkt.LineString, true},
		{
			"polygon",
			"POLYGON ((30 10, 40 40, 20 40, 10 20, 30 10))",
			wkt.Polygon, true,
		},
		{
			"polygon with hole",
			"POLYGON ((35 10, 45 45, 15 40, 10 20, 35 10), (20 30, 35 35, 30 20, 20 30))",
			wkt.Polygon, true,
		},
		{
			"multipoint parenthesized form",
			"MULTIPOINT ((10 40), (40 30), (20 20), (30 10))",
			wkt.MultiPoint, true,
		},
		{
			"multipoint bare form",
			"MULTIPOINT (10 40, 40 30, 20 20, 30 10)",
			wkt.MultiPoint, true,
		},
		{
			"multilinestring",
			"MULTILINESTRING ((10 10, 20 20, 10 40), (40 40, 30 30, 40 20, 30 10))",
			wkt.MultiLineString, true,
		},
		{
			"multipolygon",
			"MULTIPOLYGON (((30 20, 45 40, 10 40, 30 20)), ((15 5, 40 10, 10 20, 5 10, 15 5)))",
			wkt.MultiPolygon, true,
		},
		{"lowercase keyword", "point (30 10)", "", false},
		{"unknown keyword", "CIRCLE (30 10)", "", false},
		{"trailing garbage", "POINT (30 10) extra", "", false},
		{"missing coordinate", "POINT (30)", "", false},
		{"unbalanced parens", "LINESTRING (30 10, 10 30", "", false},
		{"not wkt at all", "fish", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt, ok := wkt.Identify(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, gt)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, wkt.Validate(""))
	assert.NoError(t, wkt.Validate("POINT (1 2)"))

	err := wkt.Validate("POINT (fish fish)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WKT")
}

func TestCalcBounds(t *testing.T) {
	t.Run("blank has nil bounds", func(t *testing.T) {
		b := wkt.CalcBounds("")
		assert.Nil(t, b.XMin)
		assert.Nil(t, b.XMax)
		assert.Nil(t, b.YMin)
		assert.Nil(t, b.YMax)
	})

	t.Run("single point", func(t *testing.T) {
		b := wkt.CalcBounds("POINT (1 2)")
		require.NotNil(t, b.XMin)
		assert.Equal(t, 1.0, *b.XMin)
		assert.Equal(t, 1.0, *b.XMax)
		assert.Equal(t, 2.0, *b.YMin)
		assert.Equal(t, 2.0, *b.YMax)
	})

	t.Run("linestring", func(t *testing.T) {
		b := wkt.CalcBounds("LINESTRING (0 0, 4 4)")
		require.NotNil(t, b.XMin)
		assert.Equal(t, 0.0, *b.XMin)
		assert.Equal(t, 4.0, *b.XMax)
		assert.Equal(t, 0.0, *b.YMin)
		assert.Equal(t, 4.0, *b.YMax)
	})

	t.Run("negative coordinates", func(t *testing.T) {
		b := wkt.CalcBounds("LINESTRING (-10 -20, 5 15)")
		require.NotNil(t, b.XMin)
		assert.Equal(t, -10.0, *b.XMin)
		assert.Equal(t, 5.0, *b.XMax)
		assert.Equal(t, -20.0, *b.YMin)
		assert.Equal(t, 15.0, *b.YMax)
	})

	t.Run("bounds work on partially well-formed text", func(t *testing.T) {
		// not a valid geometry, but the coordinate scan still applies
		b := wkt.CalcBounds("NOT_A_GEOMETRY (1 2, 3 4")
		require.NotNil(t, b.XMin)
		assert.Equal(t, 1.0, *b.XMin)
		assert.Equal(t, 3.0, *b.XMax)
		assert.Equal(t, 2.0, *b.YMin)
		assert.Equal(t, 4.0, *b.YMax)
	})

	t.Run("no coordinates yields nil bounds", func(t *testing.T) {
		b := wkt.CalcBounds("POINT EMPTY")
		assert.Nil(t, b.XMin)
	})
}
