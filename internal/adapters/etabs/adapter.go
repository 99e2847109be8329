// Package etabs implements the vendor adapter for CSI ETABS.
//
// ETABS works in terms of joints, frames and areas addressed by stable
// string names, so identifier mapping is pass-through. Lines and surfaces
// are only creatable from coordinates (the OAPI has no create-by-boundary
// for the shapes this system uses), and sweeps and selection are not part
// of the automation surface, so those capabilities are absent.
package etabs

import (
	"context"
	"log/slog"
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
	fea.CapGetFrames,
	fea.CapGetAreas,
)

// Adapter drives one running ETABS instance.
type Adapter struct {
	dial    Dialer
	version string
	log     *slog.Logger
	reg     *registry.Registry

	mu    sync.Mutex
	model SapModel
}

type Option func(*Adapter)

// WithDialer overrides how the adapter attaches to ETABS.
func WithDialer(d Dialer) Option {
	return func(a *Adapter) { a.dial = d }
}

// WithVersion sets the expected application version from configuration.
func WithVersion(v string) Option {
	return func(a *Adapter) { a.version = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		dial: comDial,
		log:  slog.Default(),
		reg:  registry.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Software() fea.Software {
	return fea.Software{Name: "ETABS", Version: a.version}
}

func (a *Adapter) Capabilities() fea.CapabilitySet { return capabilities }

// Connect attaches to a running ETABS instance. Idempotent.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		return nil
	}
	model, err := a.dial(ctx)
	if err != nil {
		return fea.Wrap(fea.ConnectionError, "etabs.connect", err)
	}
	if a.version != "" {
		got, verr := model.GetVersion()
		if verr != nil {
			return fea.Wrap(fea.ConnectionError, "etabs.connect", verr)
		}
		if !strings.HasPrefix(got, a.version) {
			return fea.Errorf(fea.ConnectionError, "etabs.connect",
				"version mismatch: configured %s, running %s", a.version, got)
		}
	}
	a.model = model
	a.log.Info("ETABS connected", "version", a.version)
	return nil
}

// sap returns the live model or a not-connected error.
func (a *Adapter) sap() (SapModel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return nil, fea.Errorf(fea.NotConnectedError, "etabs", "connect to ETABS first")
	}
	return a.model, nil
}

func (a *Adapter) Units(ctx context.Context) (geom.UnitSystem, error) {
	m, err := a.sap()
	if err != nil {
		return geom.UnitSystem{}, err
	}
	idx, err := m.GetPresentUnits()
	if err != nil {
		return geom.UnitSystem{}, fea.Wrap(fea.ConnectionError, "etabs.getUnits", err)
	}
	if idx < 1 || idx > len(presetUnits) {
		return geom.UnitSystem{}, fea.Errorf(fea.ConnectionError, "etabs.getUnits",
			"unit index %d outside preset table", idx)
	}
	parts := strings.Split(presetUnits[idx-1], ", ")
	return geom.UnitSystem{Force: parts[0], Length: parts[1], Temperature: parts[2]}, nil
}

// CreatePoint adds a joint. ETABS merges coincident joints itself and
// returns the surviving name; that name is surfaced as-is.
func (a *Adapter) CreatePoint(ctx context.Context, c geom.Coord) (geom.Point, error) {
	m, err := a.sap()
	if err != nil {
		return geom.Point{}, err
	}
	name, err := m.PointAddCartesian(c.X, c.Y, c.Z)
	if err != nil {
		return geom.Point{}, fea.Wrap(fea.GeometryError, "etabs.createPoint", err)
	}
	_ = m.RefreshView()
	id := a.reg.Observe(geom.TypePoint, name, nil)
	return geom.Point{ID: id, Coord: c}, nil
}

func (a *Adapter) CreatePoints(ctx context.Context, coords []geom.Coord) ([]geom.Point, error) {
	return nil, fea.Errorf(fea.UnsupportedOperationError, "etabs.createPoints",
		"multi-point create is not available on ETABS")
}

// CreateLine adds a frame. Endpoints given as identifiers are resolved to
// coordinates first; the OAPI then reuses the existing joints rather than
// duplicating them.
func (a *Adapter) CreateLine(ctx context.Context, spec fea.LineSpec) (geom.Line, error) {
	m, err := a.sap()
	if err != nil {
		return geom.Line{}, err
	}
	if spec.Kind == geom.TypeArc || spec.Kind == geom.TypeSpline {
		return geom.Line{}, fea.Errorf(fea.UnsupportedOperationError, "etabs.createLine",
			"%s lines are not available on ETABS", spec.Kind)
	}

	var start, end geom.Coord
	switch {
	case len(spec.Coords) == 2:
		start, end = spec.Coords[0], spec.Coords[1]
	case len(spec.PointIDs) == 2:
		if start, err = a.pointCoord(m, spec.PointIDs[0]); err != nil {
			return geom.Line{}, err
		}
		if end, err = a.pointCoord(m, spec.PointIDs[1]); err != nil {
			return geom.Line{}, err
		}
	default:
		return geom.Line{}, fea.Errorf(fea.ValidationError, "etabs.createLine",
			"a straight line takes exactly 2 endpoints")
	}

	name, err := m.FrameAddByCoord(start.X, start.Y, start.Z, end.X, end.Y, end.Z)
	if err != nil {
		return geom.Line{}, fea.Wrap(fea.GeometryError, "etabs.createLine", err)
	}
	_ = m.RefreshView()
	id := a.reg.Observe(geom.TypeLine, name, nil)

	i, j, err := m.FramePoints(name)
	if err != nil {
		return geom.Line{ID: id}, nil
	}
	return geom.Line{ID: id, Points: []geom.ID{
		a.reg.Observe(geom.TypePoint, i, nil),
		a.reg.Observe(geom.TypePoint, j, nil),
	}}, nil
}

// pointCoord resolves a registered point ID to live coordinates, marking the
// entry stale if ETABS no longer knows the joint.
func (a *Adapter) pointCoord(m SapModel, id geom.ID) (geom.Coord, error) {
	e, err := a.reg.Resolve(geom.TypePoint, id)
	if err != nil {
		return geom.Coord{}, err
	}
	x, y, z, err := m.PointCoord(e.Native)
	if err != nil {
		a.reg.MarkStale(geom.TypePoint, id)
		return geom.Coord{}, fea.Errorf(fea.StaleReferenceError, "etabs",
			"joint %q is gone from the model", id)
	}
	return geom.Coord{X: x, Y: y, Z: z}, nil
}

func (a *Adapter) CreateSurface(ctx context.Context, spec fea.SurfaceSpec) (geom.Surface, error) {
	m, err := a.sap()
	if err != nil {
		return geom.Surface{}, err
	}
	if len(spec.LineIDs) > 0 {
		return geom.Surface{}, fea.Errorf(fea.UnsupportedOperationError, "etabs.createSurface",
			"ETABS areas are defined by corner coordinates, not boundary lines")
	}
	if len(spec.Coords) < 3 {
		return geom.Surface{}, fea.Errorf(fea.ValidationError, "etabs.createSurface",
			"an area needs at least 3 corners, got %d", len(spec.Coords))
	}
	xs := make([]float64, len(spec.Coords))
	ys := make([]float64, len(spec.Coords))
	zs := make([]float64, len(spec.Coords))
	for i, c := range spec.Coords {
		xs[i], ys[i], zs[i] = c.X, c.Y, c.Z
	}
	name, err := m.AreaAddByCoord(xs, ys, zs)
	if err != nil {
		return geom.Surface{}, fea.Wrap(fea.GeometryError, "etabs.createSurface", err)
	}
	_ = m.RefreshView()
	return geom.Surface{ID: a.reg.Observe(geom.TypeSurface, name, nil)}, nil
}

func (a *Adapter) CreateVolume(ctx context.Context, surfaceIDs []geom.ID) (geom.Volume, error) {
	return geom.Volume{}, fea.Errorf(fea.UnsupportedOperationError, "etabs.createVolume",
		"solid creation is not available through the ETABS automation surface")
}

// CreateBatch processes items in caller order. Per-item failures are
// reported in place and never abort the remaining items.
func (a *Adapter) CreateBatch(ctx context.Context, req geom.BatchRequest) ([]fea.BatchResult, error) {
	if _, err := a.sap(); err != nil {
		return nil, err
	}
	results := make([]fea.BatchResult, 0, len(req.Items))
	for i, item := range req.Items {
		g, err := a.createBatchItem(ctx, item)
		if err != nil {
			results = append(results, fea.BatchResult{Index: i, Err: err})
			continue
		}
		results = append(results, fea.BatchResult{Index: i, Geometry: g})
	}
	return results, nil
}

func (a *Adapter) createBatchItem(ctx context.Context, item geom.BatchItem) (*geom.Geometry, error) {
	if err := item.Validate(); err != nil {
		return nil, fea.Wrap(fea.ValidationError, "etabs.createObjects", err)
	}
	switch item.Type {
	case geom.TypePoint:
		p, err := a.CreatePoint(ctx, item.Coords[0])
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypePoint, ID: p.ID,
			Attributes: geom.Attributes{Coords: []geom.Coord{p.Coord}}}, nil
	case geom.TypeLine:
		l, err := a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, Coords: item.Coords})
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeLine, ID: l.ID,
			Attributes: geom.Attributes{Points: l.Points, Coords: item.Coords}}, nil
	case geom.TypeSurface:
		s, err := a.CreateSurface(ctx, fea.SurfaceSpec{Coords: item.Coords})
		if err != nil {
			return nil, err
		}
		return &geom.Geometry{Type: geom.TypeSurface, ID: s.ID,
			Attributes: geom.Attributes{Coords: item.Coords}}, nil
	default:
		return nil, fea.Errorf(fea.UnsupportedOperationError, "etabs.createObjects",
			"%s objects are not available on ETABS", item.Type)
	}
}

func (a *Adapter) Points(ctx context.Context) ([]geom.Geometry, error) {
	m, err := a.sap()
	if err != nil {
		return nil, err
	}
	names, err := m.PointNameList()
	if err != nil {
		return nil, fea.Wrap(fea.ConnectionError, "etabs.getPoints", err)
	}
	out := make([]geom.Geometry, 0, len(names))
	for _, name := range names {
		x, y, z, err := m.PointCoord(name)
		if err != nil {
			return nil, fea.Wrap(fea.ConnectionError, "etabs.getPoints", err)
		}
		id := a.reg.Observe(geom.TypePoint, name, nil)
		out = append(out, geom.Geometry{Type: geom.TypePoint, ID: id,
			Attributes: geom.Attributes{Coords: []geom.Coord{{X: x, Y: y, Z: z}}}})
	}
	return out, nil
}

func (a *Adapter) Frames(ctx context.Context) ([]geom.Geometry, error) {
	m, err := a.sap()
	if err != nil {
		return nil, err
	}
	names, err := m.FrameNameList()
	if err != nil {
		return nil, fea.Wrap(fea.ConnectionError, "etabs.getFrames", err)
	}
	out := make([]geom.Geometry, 0, len(names))
	for _, name := range names {
		i, j, err := m.FramePoints(name)
		if err != nil {
			return nil, fea.Wrap(fea.ConnectionError, "etabs.getFrames", err)
		}
		id := a.reg.Observe(geom.TypeLine, name, nil)
		out = append(out, geom.Geometry{Type: geom.TypeLine, ID: id,
			Attributes: geom.Attributes{Points: []geom.ID{
				a.reg.Observe(geom.TypePoint, i, nil),
				a.reg.Observe(geom.TypePoint, j, nil),
			}}})
	}
	return out, nil
}

func (a *Adapter) Areas(ctx context.Context) ([]geom.Geometry, error) {
	m, err := a.sap()
	if err != nil {
		return nil, err
	}
	names, err := m.AreaNameList()
	if err != nil {
		return nil, fea.Wrap(fea.ConnectionError, "etabs.getAreas", err)
	}
	out := make([]geom.Geometry, 0, len(names))
	for _, name := range names {
		corners, err := m.AreaPoints(name)
		if err != nil {
			return nil, fea.Wrap(fea.ConnectionError, "etabs.getAreas", err)
		}
		ids := make([]geom.ID, len(corners))
		for k, p := range corners {
			ids[k] = a.reg.Observe(geom.TypePoint, p, nil)
		}
		id := a.reg.Observe(geom.TypeSurface, name, nil)
		out = append(out, geom.Geometry{Type: geom.TypeSurface, ID: id,
			Attributes: geom.Attributes{Points: ids}})
	}
	return out, nil
}

// Geometries enumerates everything ETABS can report: joints, frames, areas.
func (a *Adapter) Geometries(ctx context.Context) ([]geom.Geometry, error) {
	points, err := a.Points(ctx)
	if err != nil {
		return nil, err
	}
	frames, err := a.Frames(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := a.Areas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]geom.Geometry, 0, len(points)+len(frames)+len(areas))
	out = append(out, points...)
	out = append(out, frames...)
	out = append(out, areas...)
	return out, nil
}

func (a *Adapter) Lines(ctx context.Context) ([]geom.Geometry, error) {
	return nil, a.unsupported("getLines")
}

func (a *Adapter) Surfaces(ctx context.Context) ([]geom.Geometry, error) {
	return nil, a.unsupported("getSurfaces")
}

func (a *Adapter) Volumes(ctx context.Context) ([]geom.Geometry, error) {
	return nil, a.unsupported("getVolumes")
}

func (a *Adapter) SweepPoints(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return nil, a.unsupported("sweepPoints")
}

func (a *Adapter) SweepLines(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return nil, a.unsupported("sweepLines")
}

func (a *Adapter) SweepSurfaces(ctx context.Context, ids []geom.ID, vector geom.Coord) ([]geom.Geometry, error) {
	return nil, a.unsupported("sweepSurfaces")
}

func (a *Adapter) Select(ctx context.Context, sel fea.Selection) error {
	return a.unsupported("select")
}

func (a *Adapter) unsupported(op string) error {
	return fea.Errorf(fea.UnsupportedOperationError, "etabs."+op,
		"operation is not available on ETABS")
}
