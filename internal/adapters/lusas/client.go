package lusas

import "context"

// Modeller is the slice of the LUSAS LPI automation surface the adapter
// drives. The real implementation wraps the COM object model of a running
// LUSAS Modeller; tests substitute an in-memory fake. Calls are synchronous
// and must not run concurrently.
type Modeller interface {
	// ExistsDatabase also doubles as the liveness probe: an error means the
	// automation reference went dead and the adapter should re-attach.
	ExistsDatabase() (bool, error)
	NewProject() error
	DB() Database
	Selection() SelectionSet
	ScaleToFit() error
}

// Database mirrors IFDatabase. Geometry is created by handing a recipe
// (GeometryData) either to the database or to an object set holding the
// lower-order geometry.
type Database interface {
	ModelUnits() (string, error)
	GeometryData() GeometryData
	NewObjectSet() ObjectSet

	CreatePoint(gd GeometryData) (ObjectSet, error)
	CreateLine(gd GeometryData) (ObjectSet, error)
	CreateSurface(gd GeometryData) (ObjectSet, error)

	CreateTranslationTransAttr(name string, x, y, z float64) (TransAttr, error)
	DeleteAttribute(attr TransAttr) error

	// Objects enumerates by plural kind name ("Points", "Lines", ...).
	Objects(kind string) ([]Object, error)
	// Object fetches one object by singular kind name and vendor ID.
	Object(kind string, id int) (Object, error)

	BeginCommandBatch(title string, undoable bool) error
	CloseCommandBatch() error
}

// GeometryData mirrors IFGeometryData: a mutable recipe describing what to
// create and from which lower-order geometry. Setters chain.
type GeometryData interface {
	SetAllDefaults() GeometryData
	SetCreateMethod(method string) GeometryData
	SetLowerOrderGeometryType(kind string) GeometryData
	AddCoords(x, y, z float64) GeometryData
	KeepMinor() GeometryData
	SetStartMiddleEnd() GeometryData
	CloseEndPoints(close bool) GeometryData
	UseSelectionOrder(use bool) GeometryData
	SetExtractAllVolumes() GeometryData
	SetMaximumDimension(dim int) GeometryData
	SetTransformation(attr TransAttr) GeometryData
	SweptArcType(kind string) GeometryData
}

// ObjectSet mirrors IFObjectSet.
type ObjectSet interface {
	Add(kind string, id int) error
	CreateLine(gd GeometryData) (ObjectSet, error)
	CreateSurface(gd GeometryData) (ObjectSet, error)
	CreateVolume(gd GeometryData) (ObjectSet, error)
	Sweep(gd GeometryData) (ObjectSet, error)
	// AddLowerOrder folds the lower-order geometry of the set's contents
	// into the set ("points" under a line, and so on).
	AddLowerOrder(kind string) (ObjectSet, error)
	Objects(kind string) ([]Object, error)
}

// TransAttr mirrors the transformation attribute used to drive sweeps.
type TransAttr interface {
	SetSweepType(kind string) error
	SetHofType(kind string) error
}

// Object mirrors the common surface of IFPoint/IFLine/IFSurface/IFVolume.
// Coordinates are only meaningful for points.
type Object interface {
	ID() int
	X() float64
	Y() float64
	Z() float64
	IsSelected() bool
}

// SelectionSet mirrors the modeller selection.
type SelectionSet interface {
	Remove(kind string) error
	Add(kind string, id int) error
}

// Dialer attaches to a running LUSAS Modeller of the given version string
// (e.g. "21.1"). The default dialer goes through COM and only exists on
// windows builds.
type Dialer func(ctx context.Context, version string) (Modeller, error)
