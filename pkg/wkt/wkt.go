// Package wkt parses and validates well-known text geometries.
// It recognizes the subset of WKT used for curated site geometries:
// POINT, LINESTRING, POLYGON and their MULTI- variants.
//
// The package is pure: it computes geometry types and bounding boxes
// without touching a database. Callers persist the results as cached
// columns on geometry-carrying entities.
package wkt

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// GeometryType is the recognized type of a WKT string.
type GeometryType string

const (
	Empty           GeometryType = "EMPTY"
	Point           GeometryType = "POINT"
	LineString      GeometryType = "LINESTRING"
	Polygon         GeometryType = "POLYGON"
	MultiPoint      GeometryType = "MULTIPOINT"
	MultiLineString GeometryType = "MULTILINESTRING"
	MultiPolygon    GeometryType = "MULTIPOLYGON"
)

// The grammar is built from a signed decimal/exponential number,
// a coordinate (two whitespace-separated numbers), a parenthesized
// comma-separated coordinate list, and a parenthesized list of such
// lists (polygon rings). MULTIPOINT accepts both the bare
// coordinate-list form and the parenthesized point-list form.
const (
	numberPat     = `[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?`
	coordinatePat = `\s*(` + numberPat + `)\s+(` + numberPat + `)\s*`
)

var (
	coordinatesPat = `\((?:` + coordinatePat + `)(?:,` + coordinatePat + `)*\)`

	pointCoordPat   = `\s*\(` + coordinatePat + `\s*\)`
	multiPointPat   = `\((?:` + pointCoordPat + `)(?:,` + pointCoordPat + `)*\)`
	polygonCoordPat = `\(\s*` + coordinatesPat + `\s*(?:,\s*` + coordinatesPat + `\s*)*\)`

	coordinateRx = regexp.MustCompile(coordinatePat)

	pointRx      = regexp.MustCompile(`^POINT\s+\(` + coordinatePat + `\)$`)
	lineStringRx = regexp.MustCompile(`^LINESTRING\s+` + coordinatesPat + `$`)
	polygonRx    = regexp.MustCompile(`^POLYGON\s+` + polygonCoordPat + `$`)
	multiPointRx = regexp.MustCompile(
		`^MULTIPOINT\s+(?:(?:` + multiPointPat + `)|(?:` + coordinatesPat + `))$`,
	)
	multiLineStringRx = regexp.MustCompile(`^MULTILINESTRING\s+` + polygonCoordPat + `$`)
	multiPolygonRx    = regexp.MustCompile(
		`^MULTIPOLYGON\s+\(\s*` + polygonCoordPat + `\s*(?:,\s*` + polygonCoordPat + `\s*)*\)$`,
	)
)

// Identify returns the geometry type of a WKT string. Blank input is
// reported as Empty. Input that matches no geometry production returns
// ok == false.
func Identify(value string) (GeometryType, bool) {
	if value == "" {
		return Empty, true
	}

	switch {
	case pointRx.MatchString(value):
		return Point, true
	case lineStringRx.MatchString(value):
		return LineString, true
	case polygonRx.MatchString(value):
		return Polygon, true
	case multiPointRx.MatchString(value):
		return MultiPoint, true
	case multiLineStringRx.MatchString(value):
		return MultiLineString, true
	case multiPolygonRx.MatchString(value):
		return MultiPolygon, true
	}
	return "", false
}

// Validate returns an error when a non-empty value is not valid
// well-known text.
func Validate(value string) error {
	if _, ok := Identify(value); !ok {
		return InvalidWKTError(value)
	}
	return nil
}

// Bounds is a bounding box over all coordinates found in a WKT string.
// All fields are nil when the text contains no coordinates.
type Bounds struct {
	XMin *float64
	XMax *float64
	YMin *float64
	YMax *float64
}

// CalcBounds extracts every coordinate pair found anywhere in the text
// and returns the min/max over all X and Y values. The scan is
// intentionally permissive: it uses only the coordinate sub-grammar, so
// bounds can be computed even for partially well-formed text.
func CalcBounds(value string) Bounds {
	var b Bounds
	if value == "" {
		return b
	}

	for _, m := range coordinateRx.FindAllStringSubmatch(value, -1) {
		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			continue
		}

		if b.XMin == nil || x < *b.XMin {
			b.XMin = ptr(x)
		}
		if b.XMax == nil || x > *b.XMax {
			b.XMax = ptr(x)
		}
		if b.YMin == nil || y < *b.YMin {
			b.YMin = ptr(y)
		}
		if b.YMax == nil || y > *b.YMax {
			b.YMax = ptr(y)
		}
	}
	return b
}

func ptr(f float64) *float64 {
	return &f
}

// InvalidWKTError creates an error for text that is not
// valid well-known text.
func InvalidWKTError(value string) error {
	msg := `The value is not valid well-known text

<em>Possible causes:</em>
  - Geometry keyword is misspelled or lowercase
  - Coordinate lists are not parenthesized correctly
  - Coordinates are not 'X Y' number pairs

<em>How to fix:</em>
  1. Use one of POINT, LINESTRING, POLYGON, MULTIPOINT,
     MULTILINESTRING, MULTIPOLYGON
  2. Check parentheses and comma placement`

	return &gn.Error{
		Code: errcode.WKTInvalidError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("invalid WKT: %q", value),
	}
}
