package geom

import (
	"fmt"
	"strings"
)

// ID identifies a geometric object across the tool boundary.
// It is either the vendor's stable identifier (pass-through) or a
// registry-issued handle; callers treat it as opaque.
type ID string

// ObjectType enumerates the geometric object kinds understood by the system.
type ObjectType string

const (
	TypePoint   ObjectType = "point"
	TypeLine    ObjectType = "line"
	TypeArc     ObjectType = "arc"
	TypeSpline  ObjectType = "spline"
	TypeSurface ObjectType = "surface"
	TypeVolume  ObjectType = "volume"
)

// Coord is a position in the model's active unit system.
// No implicit unit conversion happens anywhere in this module; callers supply
// coordinates in the system reported by getUnits.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.X, c.Y, c.Z)
}

// IsZero reports whether the coordinate is the origin. Used to reject
// degenerate sweep vectors.
func (c Coord) IsZero() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

// Point is an identifier plus a position. Immutable once created; the vendor
// may have merged it with a pre-existing coincident point, in which case the
// ID refers to that point.
type Point struct {
	ID    ID    `json:"id"`
	Coord Coord `json:"coord"`
}

// Line is an identifier plus its defining points: two endpoints for a
// straight line, three control points for an arc, two or more for a spline.
// Line geometry is owned by the vendor model and never cached here.
type Line struct {
	ID     ID   `json:"id"`
	Points []ID `json:"points"`
}

// Surface is an identifier plus an ordered boundary. Winding order is
// significant (face orientation derives from it) and is preserved exactly as
// received from the caller.
type Surface struct {
	ID    ID   `json:"id"`
	Lines []ID `json:"lines,omitempty"`
}

// Volume is an identifier plus its closed set of bounding surfaces.
type Volume struct {
	ID       ID   `json:"id"`
	Surfaces []ID `json:"surfaces,omitempty"`
}

// UnitSystem describes the active model units as reported by the vendor.
// Read-only from this system's perspective. Fields the vendor does not report
// are left empty.
type UnitSystem struct {
	Force       string `json:"force,omitempty"`
	Length      string `json:"length,omitempty"`
	Mass        string `json:"mass,omitempty"`
	Time        string `json:"time,omitempty"`
	Temperature string `json:"temperature,omitempty"`
}

func (u UnitSystem) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{u.Force, u.Length, u.Mass, u.Time, u.Temperature} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Attributes carries the defining data of a geometry in the normalized
// result schema. Only the fields relevant to the object type are populated.
type Attributes struct {
	Coords   []Coord `json:"coords,omitempty"`
	Points   []ID    `json:"points,omitempty"`
	Lines    []ID    `json:"lines,omitempty"`
	Surfaces []ID    `json:"surfaces,omitempty"`
	Selected bool    `json:"selected,omitempty"`
}

// Geometry is the uniform {type, id, attributes} record every vendor-specific
// result shape is flattened into.
type Geometry struct {
	Type       ObjectType `json:"type"`
	ID         ID         `json:"id"`
	Attributes Attributes `json:"attributes"`
}
