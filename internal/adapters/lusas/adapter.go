// Package lusas implements the vendor adapter for LUSAS Modeller.
//
// LUSAS exposes the full geometry hierarchy (points, lines, surfaces,
// volumes) with stable per-type integer IDs, so identifier mapping is
// pass-through on the decimal rendering of the vendor ID. Creation goes
// through geometry-data recipes ("straight", "arc", "coons", "solidVolume");
// sweeps are driven by a temporary translation transformation attribute that
// is deleted after use.
package lusas

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
	"github.com/feamcp/feamcp/pkg/registry"
)

var capabilities = fea.Caps(
	fea.CapUnits,
	fea.CapCreateObjects,
	fea.CapGetAllGeometries,
	fea.CapGetPoints,
	fea.CapGetLines,
	fea.CapGetSurfaces,
	fea.CapGetVolumes,
	fea.CapSweep,
	fea.CapSelect,
	fea.CapMultiPointCreate,
	fea.CapArc,
)

// kindName maps object types to the LPI singular kind names.
var kindName = map[geom.ObjectType]string{
	geom.TypePoint:   "point",
	geom.TypeLine:    "line",
	geom.TypeSurface: "surface",
	geom.TypeVolume:  "volume",
}

// Adapter drives one running LUSAS Modeller instance.
type Adapter struct {
	dial    Dialer
	version string
	log     *slog.Logger
	reg     *registry.Registry

	mu  sync.Mutex
	mod Modeller
}

type Option func(*Adapter)

// WithDialer overrides how the adapter attaches to LUSAS.
func WithDialer(d Dialer) Option {
	return func(a *Adapter) { a.dial = d }
}

// WithVersion sets the modeller version string used for the COM prog ID.
func WithVersion(v string) Option {
	return func(a *Adapter) { a.version = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		dial:    comDial,
		version: "21.1",
		log:     slog.Default(),
		reg:     registry.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Software() fea.Software {
	return fea.Software{Name: "LUSAS", Version: a.version}
}

func (a *Adapter) Capabilities() fea.CapabilitySet { return capabilities }

// Connect attaches to a running modeller, creating a project when none is
// open. Idempotent while the automation reference stays alive.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mod != nil {
		if _, err := a.mod.ExistsDatabase(); err == nil {
			return nil
		}
		// Dead reference: fall through and re-attach.
		a.mod = nil
	}
	mod, err := a.dial(ctx, a.version)
	if err != nil {
		return fea.Wrap(fea.ConnectionError, "lusas.connect", err)
	}
	exists, err := mod.ExistsDatabase()
	if err != nil {
		return fea.Wrap(fea.ConnectionError, "lusas.connect", err)
	}
	if !exists {
		if err := mod.NewProject(); err != nil {
			return fea.Wrap(fea.ConnectionError, "lusas.connect", err)
		}
	}
	a.mod = mod
	a.log.Info("LUSAS connected", "version", a.version)
	return nil
}

// modeller returns the live automation reference, re-attaching once if the
// current one went dead (the vendor process restarted or dropped us).
func (a *Adapter) modeller(ctx context.Context) (Modeller, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mod == nil {
		return nil, fea.Errorf(fea.NotConnectedError, "lusas", "connect to LUSAS first")
	}
	if _, err := a.mod.ExistsDatabase(); err != nil {
		a.log.Warn("invalid modeller reference, reconnecting", "err", err)
		mod, derr := a.dial(ctx, a.version)
		if derr != nil {
			a.mod = nil
			return nil, fea.Wrap(fea.ConnectionError, "lusas", derr)
		}
		a.mod = mod
	}
	return a.mod, nil
}

func (a *Adapter) Units(ctx context.Context) (geom.UnitSystem, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return geom.UnitSystem{}, err
	}
	name, err := mod.DB().ModelUnits()
	if err != nil {
		return geom.UnitSystem{}, fea.Wrap(fea.ConnectionError, "lusas.getUnits", err)
	}
	// Unit set names read "kN,m,t,s,C": force, length, mass, time,
	// temperature.
	parts := strings.Split(name, ",")
	u := geom.UnitSystem{}
	fields := []*string{&u.Force, &u.Length, &u.Mass, &u.Time, &u.Temperature}
	for i := 0; i < len(parts) && i < len(fields); i++ {
		*fields[i] = strings.TrimSpace(parts[i])
	}
	return u, nil
}

// observe registers a vendor object under its decimal ID.
func (a *Adapter) observe(t geom.ObjectType, obj Object) geom.ID {
	return a.reg.Observe(t, strconv.Itoa(obj.ID()), obj)
}

// resolve maps an external identifier back to the vendor's integer ID,
// checking both the registry and the live model. A registered object the
// model no longer has is marked stale.
func (a *Adapter) resolve(db Database, t geom.ObjectType, id geom.ID) (int, error) {
	e, err := a.reg.Resolve(t, id)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(e.Native)
	if err != nil {
		return 0, fea.Errorf(fea.NotFoundError, "lusas", "malformed native id %q", e.Native)
	}
	if _, err := db.Object(kindName[t], n); err != nil {
		a.reg.MarkStale(t, id)
		return 0, fea.Errorf(fea.StaleReferenceError, "lusas",
			"%s %q is gone from the model", t, id)
	}
	return n, nil
}

// firstObject pulls the single created object out of a creation result set.
func firstObject(set ObjectSet, kind string, op string) (Object, error) {
	objs, err := set.Objects(kind)
	if err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}
	if len(objs) == 0 {
		return nil, fea.Errorf(fea.GeometryError, op, "vendor returned no %s", kind)
	}
	return objs[0], nil
}

func (a *Adapter) CreatePoint(ctx context.Context, c geom.Coord) (geom.Point, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return geom.Point{}, err
	}
	return a.createPoint(mod.DB(), c)
}

func (a *Adapter) createPoint(db Database, c geom.Coord) (geom.Point, error) {
	gd := db.GeometryData().SetAllDefaults().SetLowerOrderGeometryType("coordinates")
	gd.AddCoords(c.X, c.Y, c.Z)
	set, err := db.CreatePoint(gd)
	if err != nil {
		return geom.Point{}, fea.Wrap(fea.GeometryError, "lusas.createPoint", err)
	}
	obj, err := firstObject(set, "Point", "lusas.createPoint")
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{ID: a.observe(geom.TypePoint, obj), Coord: c}, nil
}

func (a *Adapter) CreatePoints(ctx context.Context, coords []geom.Coord) ([]geom.Point, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	db := mod.DB()
	out := make([]geom.Point, 0, len(coords))
	for _, c := range coords {
		p, err := a.createPoint(db, c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (a *Adapter) CreateLine(ctx context.Context, spec fea.LineSpec) (geom.Line, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return geom.Line{}, err
	}
	db := mod.DB()
	switch spec.Kind {
	case geom.TypeLine, "":
		return a.createStraightLine(db, spec)
	case geom.TypeArc:
		return a.createArc(db, spec)
	case geom.TypeSpline:
		return a.createSpline(db, spec)
	default:
		return geom.Line{}, fea.Errorf(fea.ValidationError, "lusas.createLine",
			"unknown line kind %q", spec.Kind)
	}
}

func (a *Adapter) createStraightLine(db Database, spec fea.LineSpec) (geom.Line, error) {
	const op = "lusas.createLine"
	switch {
	case len(spec.Coords) == 2:
		gd := db.GeometryData().SetAllDefaults().
			SetCreateMethod("straight").
			SetLowerOrderGeometryType("coordinates")
		for _, c := range spec.Coords {
			gd.AddCoords(c.X, c.Y, c.Z)
		}
		set, err := db.CreateLine(gd)
		if err != nil {
			return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
		}
		obj, err := firstObject(set, "Line", op)
		if err != nil {
			return geom.Line{}, err
		}
		return a.lineWithEndpoints(db, obj)
	case len(spec.PointIDs) == 2:
		set := db.NewObjectSet()
		for _, id := range spec.PointIDs {
			n, err := a.resolve(db, geom.TypePoint, id)
			if err != nil {
				return geom.Line{}, err
			}
			if err := set.Add("point", n); err != nil {
				return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
			}
		}
		gd := db.GeometryData().SetAllDefaults().
			SetCreateMethod("straight").
			SetLowerOrderGeometryType("points")
		created, err := set.CreateLine(gd)
		if err != nil {
			return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
		}
		obj, err := firstObject(created, "Line", op)
		if err != nil {
			return geom.Line{}, err
		}
		return geom.Line{ID: a.observe(geom.TypeLine, obj), Points: spec.PointIDs}, nil
	default:
		return geom.Line{}, fea.Errorf(fea.ValidationError, op,
			"a straight line takes exactly 2 endpoints")
	}
}

// createArc builds an arc through three points (start, middle, end). Point
// identifiers are resolved to live coordinates first, as the arc recipe only
// accepts coordinates.
func (a *Adapter) createArc(db Database, spec fea.LineSpec) (geom.Line, error) {
	const op = "lusas.createArc"
	coords := spec.Coords
	if len(coords) == 0 {
		if len(spec.PointIDs) != 3 {
			return geom.Line{}, fea.Errorf(fea.ValidationError, op,
				"an arc takes exactly 3 control points")
		}
		for _, id := range spec.PointIDs {
			n, err := a.resolve(db, geom.TypePoint, id)
			if err != nil {
				return geom.Line{}, err
			}
			obj, err := db.Object("point", n)
			if err != nil {
				return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
			}
			coords = append(coords, geom.Coord{X: obj.X(), Y: obj.Y(), Z: obj.Z()})
		}
	}
	if len(coords) != 3 {
		return geom.Line{}, fea.Errorf(fea.ValidationError, op,
			"an arc takes exactly 3 control points, got %d", len(coords))
	}
	gd := db.GeometryData().SetAllDefaults().
		SetCreateMethod("arc").
		KeepMinor().
		SetStartMiddleEnd()
	for _, c := range coords {
		gd.AddCoords(c.X, c.Y, c.Z)
	}
	gd.SetLowerOrderGeometryType("coordinates")
	set, err := db.CreateLine(gd)
	if err != nil {
		return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
	}
	obj, err := firstObject(set, "Line", op)
	if err != nil {
		return geom.Line{}, err
	}
	return a.lineWithEndpoints(db, obj)
}

func (a *Adapter) createSpline(db Database, spec fea.LineSpec) (geom.Line, error) {
	const op = "lusas.createSpline"
	if len(spec.Coords) < 3 {
		return geom.Line{}, fea.Errorf(fea.ValidationError, op,
			"a spline needs at least 3 coordinates, got %d", len(spec.Coords))
	}
	gd := db.GeometryData().SetAllDefaults().
		SetCreateMethod("spline").
		UseSelectionOrder(true)
	if spec.Closed {
		gd.CloseEndPoints(true)
	}
	gd.SetLowerOrderGeometryType("coordinates")
	for _, c := range spec.Coords {
		gd.AddCoords(c.X, c.Y, c.Z)
	}
	set, err := db.CreateLine(gd)
	if err != nil {
		return geom.Line{}, fea.Wrap(fea.GeometryError, op, err)
	}
	obj, err := firstObject(set, "Line", op)
	if err != nil {
		return geom.Line{}, err
	}
	return a.lineWithEndpoints(db, obj)
}

// lineWithEndpoints registers a created line and the points the vendor made
// (or merged) underneath it, so implicitly created points round-trip through
// getPoints and stay addressable.
func (a *Adapter) lineWithEndpoints(db Database, line Object) (geom.Line, error) {
	id := a.observe(geom.TypeLine, line)
	set := db.NewObjectSet()
	if err := set.Add("line", line.ID()); err != nil {
		return geom.Line{ID: id}, nil
	}
	lower, err := set.AddLowerOrder("points")
	if err != nil {
		return geom.Line{ID: id}, nil
	}
	points, err := lower.Objects("Points")
	if err != nil {
		return geom.Line{ID: id}, nil
	}
	ids := make([]geom.ID, 0, len(points))
	for _, p := range points {
		ids = append(ids, a.observe(geom.TypePoint, p))
	}
	return geom.Line{ID: id, Points: ids}, nil
}

func (a *Adapter) CreateSurface(ctx context.Context, spec fea.SurfaceSpec) (geom.Surface, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return geom.Surface{}, err
	}
	db := mod.DB()
	const op = "lusas.createSurface"
	switch {
	case len(spec.Coords) >= 3:
		gd := db.GeometryData().SetAllDefaults().
			SetCreateMethod("coons").
			SetLowerOrderGeometryType("coordinates")
		for _, c := range spec.Coords {
			gd.AddCoords(c.X, c.Y, c.Z)
		}
		set, err := db.CreateSurface(gd)
		if err != nil {
			return geom.Surface{}, fea.Wrap(fea.GeometryError, op, err)
		}
		obj, err := firstObject(set, "Surface", op)
		if err != nil {
			return geom.Surface{}, err
		}
		return geom.Surface{ID: a.observe(geom.TypeSurface, obj)}, nil
	case len(spec.LineIDs) >= 3:
		set := db.NewObjectSet()
		for _, id := range spec.LineIDs {
			n, err := a.resolve(db, geom.TypeLine, id)
			if err != nil {
				return geom.Surface{}, err
			}
			if err := set.Add("line", n); err != nil {
				return geom.Surface{}, fea.Wrap(fea.GeometryError, op, err)
			}
		}
		gd := db.GeometryData().SetAllDefaults().
			SetCreateMethod("coons").
			SetLowerOrderGeometryType("lines")
		created, err := set.CreateSurface(gd)
		if err != nil {
			return geom.Surface{}, fea.Wrap(fea.GeometryError, op, err)
		}
		obj, err := firstObject(created, "Surface", op)
		if err != nil {
			return geom.Surface{}, err
		}
		return geom.Surface{ID: a.observe(geom.TypeSurface, obj), Lines: spec.LineIDs}, nil
	default:
		return geom.Surface{}, fea.Errorf(fea.ValidationError, op,
			"a surface needs at least 3 corners or 3 boundary lines")
	}
}

func (a *Adapter) CreateVolume(ctx context.Context, surfaceIDs []geom.ID) (geom.Volume, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return geom.Volume{}, err
	}
	db := mod.DB()
	const op = "lusas.createVolume"
	if len(surfaceIDs) < 4 {
		return geom.Volume{}, fea.Errorf(fea.ValidationError, op,
			"a closed volume needs at least 4 bounding surfaces, got %d", len(surfaceIDs))
	}
	set := db.NewObjectSet()
	for _, id := range surfaceIDs {
		n, err := a.resolve(db, geom.TypeSurface, id)
		if err != nil {
			return geom.Volume{}, err
		}
		if err := set.Add("surface", n); err != nil {
			return geom.Volume{}, fea.Wrap(fea.GeometryError, op, err)
		}
	}
	gd := db.GeometryData().SetAllDefaults().
		SetCreateMethod("solidVolume").
		SetExtractAllVolumes()
	created, err := set.CreateVolume(gd)
	if err != nil {
		return geom.Volume{}, fea.Wrap(fea.GeometryError, op, err)
	}
	obj, err := firstObject(created, "Volume", op)
	if err != nil {
		return geom.Volume{}, err
	}
	return geom.Volume{ID: a.observe(geom.TypeVolume, obj), Surfaces: surfaceIDs}, nil
}

// CreateBatch processes items in caller order inside one vendor command
// batch. Per-item failures are isolated; earlier successes stand.
func (a *Adapter) CreateBatch(ctx context.Context, req geom.BatchRequest) ([]fea.BatchResult, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	db := mod.DB()
	if err := db.BeginCommandBatch("create objects", true); err != nil {
		return nil, fea.Wrap(fea.ConnectionError, "lusas.createObjects", err)
	}
	defer func() {
		_ = db.CloseCommandBatch()
		_ = mod.ScaleToFit()
	}()

	results := make([]fea.BatchResult, 0, len(req.Items))
	for i, item := range req.Items {
		g, err := a.createBatchItem(db, item)
		if err != nil {
			results = append(results, fea.BatchResult{Index: i, Err: err})
			continue
		}
		results = append(results, fea.BatchResult{Index: i, Geometry: g})
	}
	return results, nil
}

func (a *Adapter) createBatchItem(db Database, item geom.BatchItem) (*geom.Geometry, error) {
	if err := item.Validate(); err != nil {
		return nil, fea.Wrap(fea.ValidationError, "lusas.createObjects", err)
	}
	switch item.Type {
	case geom.TypePoint:
		p, err := a.createPoint(db, item.Coords[0])
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypePoint, ID: p.ID,
			Attributes: geom.Attributes{Coords: []geom.Coord{p.Coord}}}, nil
	case geom.TypeLine:
		l, err := a.createStraightLine(db, fea.LineSpec{Kind: geom.TypeLine, Coords: item.Coords})
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeLine, ID: l.ID,
			Attributes: geom.Attributes{Points: l.Points, Coords: item.Coords}}, nil
	case geom.TypeArc:
		l, err := a.createArc(db, fea.LineSpec{Kind: geom.TypeArc, Coords: item.Coords})
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeArc, ID: l.ID,
			Attributes: geom.Attributes{Points: l.Points, Coords: item.Coords}}, nil
	case geom.TypeSpline:
		l, err := a.createSpline(db, fea.LineSpec{Kind: geom.TypeSpline, Coords: item.Coords})
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeSpline, ID: l.ID,
			Attributes: geom.Attributes{Points: l.Points, Coords: item.Coords}}, nil
	case geom.TypeSurface:
		s, err := a.CreateSurfaceFromDB(db, item.Coords)
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeSurface, ID: s.ID,
			Attributes: geom.Attributes{Coords: item.Coords}}, nil
	default:
		return nil, fea.Errorf(fea.ValidationError, "lusas.createObjects",
			"unsupported batch object type %q", item.Type)
	}
}

// CreateSurfaceFromDB is the coordinate surface path without the connection
// round-trip, for use inside a command batch.
func (a *Adapter) CreateSurfaceFromDB(db Database, coords []geom.Coord) (geom.Surface, error) {
	const op = "lusas.createSurface"
	gd := db.GeometryData().SetAllDefaults().
		SetCreateMethod("coons").
		SetLowerOrderGeometryType("coordinates")
	for _, c := range coords {
		gd.AddCoords(c.X, c.Y, c.Z)
	}
	set, err := db.CreateSurface(gd)
	if err != nil {
		return geom.Surface{}, fea.Wrap(fea.GeometryError, op, err)
	}
	obj, err := firstObject(set, "Surface", op)
	if err != nil {
		return geom.Surface{}, err
	}
	return geom.Surface{ID: a.observe(geom.TypeSurface, obj)}, nil
}

// enumerate lists all objects of one type, resolving the defining points of
// higher-order geometry so results carry coordinates.
func (a *Adapter) enumerate(db Database, t geom.ObjectType, plural string, op string) ([]geom.Geometry, error) {
	objs, err := db.Objects(plural)
	if err != nil {
		return nil, fea.Wrap(fea.ConnectionError, op, err)
	}
	out := make([]geom.Geometry, 0, len(objs))
	for _, obj := range objs {
		g := geom.Geometry{Type: t, ID: a.observe(t, obj),
			Attributes: geom.Attributes{Selected: obj.IsSelected()}}
		if t == geom.TypePoint {
			g.Attributes.Coords = []geom.Coord{{X: obj.X(), Y: obj.Y(), Z: obj.Z()}}
		} else {
			set := db.NewObjectSet()
			if err := set.Add(kindName[t], obj.ID()); err == nil {
				if lower, err := set.AddLowerOrder("points"); err == nil {
					if points, err := lower.Objects("Points"); err == nil {
						for _, p := range points {
							g.Attributes.Points = append(g.Attributes.Points, a.observe(geom.TypePoint, p))
							g.Attributes.Coords = append(g.Attributes.Coords,
								geom.Coord{X: p.X(), Y: p.Y(), Z: p.Z()})
						}
					}
				}
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (a *Adapter) Points(ctx context.Context) ([]geom.Geometry, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	return a.enumerate(mod.DB(), geom.TypePoint, "Points", "lusas.getPoints")
}

func (a *Adapter) Lines(ctx context.Context) ([]geom.Geometry, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	return a.enumerate(mod.DB(), geom.TypeLine, "Lines", "lusas.getLines")
}

func (a *Adapter) Surfaces(ctx context.Context) ([]geom.Geometry, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	return a.enumerate(mod.DB(), geom.TypeSurface, "Surfaces", "lusas.getSurfaces")
}

func (a *Adapter) Volumes(ctx context.Context) ([]geom.Geometry, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	return a.enumerate(mod.DB(), geom.TypeVolume, "Volumes", "lusas.getVolumes")
}

// Geometries walks the full hierarchy. Reflects live model state; nothing is
// cached between calls.
func (a *Adapter) Geometries(ctx context.Context) ([]geom.Geometry, error) {
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	db := mod.DB()
	var out []geom.Geometry
	for _, span := range []struct {
		t      geom.ObjectType
		plural string
	}{
		{geom.TypePoint, "Points"},
		{geom.TypeLine, "Lines"},
		{geom.TypeSurface, "Surfaces"},
		{geom.TypeVolume, "Volumes"},
	} {
		gs, err := a.enumerate(db, span.t, span.plural, "lusas.getAllGeometries")
		if err != nil {
			return nil, err
		}
		out = append(out, gs...)
	}
	return out, nil
}

func (a *Adapter) Frames(ctx context.Context) ([]geom.Geometry, error) {
	return nil, fea.Errorf(fea.UnsupportedOperationError, "lusas.getFrames",
		"frames are an ETABS concept; use getLines")
}

func (a *Adapter) Areas(ctx context.Context) ([]geom.Geometry, error) {
	return nil, fea.Errorf(fea.UnsupportedOperationError, "lusas.getAreas",
		"areas are an ETABS concept; use getSurfaces")
}

func (a *Adapter) SweepPoints(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return a.sweep(ctx, geom.TypePoint, ids, vector, "Line", geom.TypeLine)
}

func (a *Adapter) SweepLines(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return a.sweep(ctx, geom.TypeLine, ids, vector, "Surface", geom.TypeSurface)
}

func (a *Adapter) SweepSurfaces(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return a.sweep(ctx, geom.TypeSurface, ids, vector, "Volume", geom.TypeVolume)
}

// hofDimension orders the geometry hierarchy for the sweep recipe.
var hofDimension = map[string]int{"Point": 0, "Line": 1, "Surface": 2, "Volume": 3}

// sweep extrudes the given objects along vector, producing objects of
// hofType. A temporary translation attribute drives the sweep and is deleted
// afterwards, success or not.
func (a *Adapter) sweep(ctx context.Context, src geom.ObjectType, ids []geom.ID, vector geom.Coord, hofType string, dst geom.ObjectType) ([]geom.Geometry, error) {
	op := "lusas.sweep" + hofType + "s"
	if len(ids) == 0 {
		return nil, fea.Errorf(fea.ValidationError, op, "no objects to sweep")
	}
	if vector.IsZero() {
		return nil, fea.Errorf(fea.GeometryError, op,
			"sweep vector is zero; the result would be degenerate")
	}
	mod, err := a.modeller(ctx)
	if err != nil {
		return nil, err
	}
	db := mod.DB()

	set := db.NewObjectSet()
	for _, id := range ids {
		n, err := a.resolve(db, src, id)
		if err != nil {
			return nil, err
		}
		if err := set.Add(kindName[src], n); err != nil {
			return nil, fea.Wrap(fea.GeometryError, op, err)
		}
	}

	attr, err := db.CreateTranslationTransAttr("Temp_SweepTranslation", vector.X, vector.Y, vector.Z)
	if err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}
	defer func() { _ = db.DeleteAttribute(attr) }()
	if err := attr.SetSweepType("straight"); err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}
	if err := attr.SetHofType(hofType); err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}

	gd := db.GeometryData().SetAllDefaults().
		SetMaximumDimension(hofDimension[hofType]).
		SetTransformation(attr).
		SweptArcType("straight")
	swept, err := set.Sweep(gd)
	if err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}
	objs, err := swept.Objects(hofType + "s")
	if err != nil {
		return nil, fea.Wrap(fea.GeometryError, op, err)
	}
	if len(objs) == 0 {
		return nil, fea.Errorf(fea.GeometryError, op, "sweep produced no geometry")
	}
	out := make([]geom.Geometry, 0, len(objs))
	for _, obj := range objs {
		out = append(out, geom.Geometry{Type: dst, ID: a.observe(dst, obj)})
	}
	return out, nil
}

// Select replaces the current vendor selection with exactly the given
// identifiers. Every identifier is resolved before the selection is touched,
// so an unknown or stale one leaves the prior selection unchanged.
func (a *Adapter) Select(ctx context.Context, sel fea.Selection) error {
	const op = "lusas.select"
	mod, err := a.modeller(ctx)
	if err != nil {
		return err
	}
	db := mod.DB()

	type target struct {
		kind string
		id   int
	}
	var targets []target
	for _, group := range []struct {
		t   geom.ObjectType
		ids []geom.ID
	}{
		{geom.TypePoint, sel.Points},
		{geom.TypeLine, sel.Lines},
		{geom.TypeSurface, sel.Surfaces},
		{geom.TypeVolume, sel.Volumes},
	} {
		for _, id := range group.ids {
			n, err := a.resolve(db, group.t, id)
			if err != nil {
				return err
			}
			targets = append(targets, target{kind: kindName[group.t], id: n})
		}
	}

	selection := mod.Selection()
	if err := selection.Remove("all"); err != nil {
		return fea.Wrap(fea.ConnectionError, op, err)
	}
	for _, t := range targets {
		if err := selection.Add(t.kind, t.id); err != nil {
			return fea.Wrap(fea.ConnectionError, op, err)
		}
	}
	return nil
}
