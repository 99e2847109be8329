package fea

import (
	"context"

	"github.com/feamcp/feamcp/pkg/geom"
)

// Software identifies the bound vendor application.
type Software struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LineSpec describes a line creation request. Exactly one of PointIDs or
// Coords must be populated: existing point identifiers, or raw coordinates
// (the adapter creates the needed points first, relying on the vendor's own
// coincident-point merging rather than duplicating points).
type LineSpec struct {
	Kind     geom.ObjectType // TypeLine, TypeArc or TypeSpline
	PointIDs []geom.ID
	Coords   []geom.Coord
	Closed   bool // splines only: join the end points
}

// SurfaceSpec describes a surface creation request: an ordered boundary of
// existing lines, or raw corner coordinates. Ordering is preserved exactly;
// the surface normal derives from the winding.
type SurfaceSpec struct {
	LineIDs []geom.ID
	Coords  []geom.Coord
}

// Selection is the set of identifiers to mark selected, grouped by type.
// Applying a selection replaces the vendor's current selection set.
type Selection struct {
	Points   []geom.ID `json:"points,omitempty"`
	Lines    []geom.ID `json:"lines,omitempty"`
	Surfaces []geom.ID `json:"surfaces,omitempty"`
	Volumes  []geom.ID `json:"volumes,omitempty"`
}

// Empty reports whether the selection names no objects.
func (s Selection) Empty() bool {
	return len(s.Points) == 0 && len(s.Lines) == 0 && len(s.Surfaces) == 0 && len(s.Volumes) == 0
}

// BatchResult is the outcome of one batch item. Exactly one of Geometry or
// Err is set. Results are returned in caller-supplied order.
type BatchResult struct {
	Index    int
	Geometry *geom.Geometry
	Err      error
}

// Adapter is the generic-operation contract every vendor variant implements.
//
// An adapter owns the single live connection to one running vendor
// application instance. Vendor automation interfaces are not reentrant;
// callers must serialize access (the router does).
//
// Operations outside the adapter's capability set return an
// UnsupportedOperationError without touching the vendor.
type Adapter interface {
	// Connect attaches to a running vendor instance. Idempotent: calling
	// when already connected is a no-op.
	Connect(ctx context.Context) error

	// Software reports the bound vendor name and configured version.
	Software() Software

	// Capabilities returns the variant's static capability set.
	Capabilities() CapabilitySet

	// Units returns the active model unit system.
	Units(ctx context.Context) (geom.UnitSystem, error)

	// CreatePoint creates or reuses a point at the given coordinates. The
	// vendor may merge coincident points; the returned ID is whichever the
	// vendor hands back, even if it refers to a pre-existing point.
	CreatePoint(ctx context.Context, c geom.Coord) (geom.Point, error)

	// CreatePoints creates several points in one call (capability-gated).
	CreatePoints(ctx context.Context, coords []geom.Coord) ([]geom.Point, error)

	CreateLine(ctx context.Context, spec LineSpec) (geom.Line, error)
	CreateSurface(ctx context.Context, spec SurfaceSpec) (geom.Surface, error)
	CreateVolume(ctx context.Context, surfaceIDs []geom.ID) (geom.Volume, error)

	// CreateBatch processes items strictly in caller order; per-item failures
	// are isolated and never abort sibling items.
	CreateBatch(ctx context.Context, req geom.BatchRequest) ([]BatchResult, error)

	// Enumeration. Results reflect live vendor model state at call time;
	// nothing is cached across calls. Objects first observed here become
	// addressable through the registry.
	Geometries(ctx context.Context) ([]geom.Geometry, error)
	Points(ctx context.Context) ([]geom.Geometry, error)
	Lines(ctx context.Context) ([]geom.Geometry, error)
	Surfaces(ctx context.Context) ([]geom.Geometry, error)
	Volumes(ctx context.Context) ([]geom.Geometry, error)
	Frames(ctx context.Context) ([]geom.Geometry, error)
	Areas(ctx context.Context) ([]geom.Geometry, error)

	// Sweeps extrude along vector, producing the next-higher-order objects.
	// Degenerate input (zero vector, empty id list) fails with a geometry
	// error before any vendor call.
	SweepPoints(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error)
	SweepLines(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error)
	SweepSurfaces(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error)

	// Select replaces the vendor's current selection with exactly the given
	// identifiers. All-or-nothing: an unknown identifier fails with a
	// not-found error and leaves the prior selection unchanged.
	Select(ctx context.Context, sel Selection) error
}
