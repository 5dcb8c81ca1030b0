package schema

import (
	"github.com/paleolimbot/strativerse/pkg/wkt"
)

// GeoCache carries a WKT geometry and its derived cache columns.
// Embed it into geometry-carrying models. The cached bounding box and
// geometry type are derived from WKT and must be recomputed whenever
// WKT changes; CacheBounds is the only writer.
type GeoCache struct {
	// WKT is the well-known text geometry, validated on save.
	WKT string `gorm:"column:geo_wkt"`

	// Error is the horizontal positional uncertainty in meters.
	Error float64 `gorm:"column:geo_error;not null;default:0"`

	// Elev is the elevation in meters above sea level.
	Elev float64 `gorm:"column:geo_elev;not null;default:0"`

	// ElevError is the elevation uncertainty in meters.
	ElevError float64 `gorm:"column:geo_elev_error;not null;default:0"`

	// Derived columns, written only by CacheBounds.
	Type string   `gorm:"column:geo_type;size:55"`
	XMin *float64 `gorm:"column:geo_xmin"`
	XMax *float64 `gorm:"column:geo_xmax"`
	YMin *float64 `gorm:"column:geo_ymin"`
	YMax *float64 `gorm:"column:geo_ymax"`
}

// CacheBounds recomputes the derived geometry columns from WKT.
// It is a pure in-memory step: callers compute, then persist.
func (g *GeoCache) CacheBounds() {
	gt, ok := wkt.Identify(g.WKT)
	if !ok {
		g.Type = ""
	} else if gt == wkt.Empty {
		g.Type = ""
	} else {
		g.Type = string(gt)
	}

	b := wkt.CalcBounds(g.WKT)
	g.XMin = b.XMin
	g.XMax = b.XMax
	g.YMin = b.YMin
	g.YMax = b.YMax
}
