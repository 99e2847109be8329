package router

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
)

// ErrorDescriptor is the client-facing failure shape. Code is one of the
// fea taxonomy codes; Message is human-readable and never contains
// vendor-internal representations.
type ErrorDescriptor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the dispatch envelope. Exactly one of Result or Error is set.
type Response struct {
	Result any              `json:"result,omitempty"`
	Error  *ErrorDescriptor `json:"error,omitempty"`
}

type handler func(ctx context.Context, args map[string]any) (any, error)

type operation struct {
	// cap gates dispatch against the bound adapter's capability set.
	// Empty means the operation is available on every vendor.
	cap fea.Capability
	run handler
}

// Router maps named operations onto the single bound vendor adapter. It owns
// request serialization: vendor automation interfaces are not reentrant, so
// dispatches run one at a time under a mutex.
type Router struct {
	adapter fea.Adapter
	log     *slog.Logger

	mu  sync.Mutex
	ops map[string]operation
}

// New builds a router bound to one adapter for the process lifetime.
func New(adapter fea.Adapter, log *slog.Logger) *Router {
	r := &Router{adapter: adapter, log: log}
	r.ops = map[string]operation{
		"connect":     {run: r.connect},
		"getSoftware": {run: r.getSoftware},
		"getUnits":    {cap: fea.CapUnits, run: r.getUnits},

		"createPoint":                {cap: fea.CapCreateObjects, run: r.createPoint},
		"createLine":                 {cap: fea.CapCreateObjects, run: r.createLine},
		"createLineByPoints":         {cap: fea.CapCreateObjects, run: r.createLineByPoints},
		"createArc":                  {cap: fea.CapArc, run: r.createArc},
		"createSurface":              {cap: fea.CapCreateObjects, run: r.createSurface},
		"createSurfaceByLines":       {cap: fea.CapGetLines, run: r.createSurfaceByLines},
		"createVolume":               {cap: fea.CapGetVolumes, run: r.createVolume},
		"createObjectsByCoordinates": {cap: fea.CapCreateObjects, run: r.createObjects},

		"getAllGeometries": {cap: fea.CapGetAllGeometries, run: r.getAllGeometries},
		"getPoints":        {cap: fea.CapGetPoints, run: r.getPoints},
		"getFrames":        {cap: fea.CapGetFrames, run: r.getFrames},
		"getAreas":         {cap: fea.CapGetAreas, run: r.getAreas},
		"getLines":         {cap: fea.CapGetLines, run: r.getLines},
		"getSurfaces":      {cap: fea.CapGetSurfaces, run: r.getSurfaces},
		"getVolumes":       {cap: fea.CapGetVolumes, run: r.getVolumes},

		"sweepPoints":   {cap: fea.CapSweep, run: r.sweepPoints},
		"sweepLines":    {cap: fea.CapSweep, run: r.sweepLines},
		"sweepSurfaces": {cap: fea.CapSweep, run: r.sweepSurfaces},

		"select": {cap: fea.CapSelect, run: r.selectObjects},
	}
	return r
}

// Operations lists the dispatchable operation names, sorted.
func (r *Router) Operations() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one named operation. Unknown names and malformed arguments
// fail with a validation error; operations outside the bound vendor's
// capability set fail with an unsupported-operation error without the
// adapter being touched.
func (r *Router) Dispatch(ctx context.Context, op string, args map[string]any) Response {
	o, ok := r.ops[op]
	if !ok {
		return fail(fea.Errorf(fea.ValidationError, "router", "unknown operation %q", op))
	}
	if o.cap != "" && !r.adapter.Capabilities().Has(o.cap) {
		return fail(fea.Errorf(fea.UnsupportedOperationError, op,
			"not supported by %s", r.adapter.Software().Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := o.run(ctx, args)
	if err != nil {
		r.log.Error("operation failed", "op", op, "error", err)
		return fail(err)
	}
	r.log.Debug("operation done", "op", op)
	return Response{Result: result}
}

func fail(err error) Response {
	return Response{Error: &ErrorDescriptor{
		Code:    string(fea.CodeOf(err)),
		Message: err.Error(),
	}}
}

// decode maps the raw MCP argument map into a typed argument struct. Weak
// typing tolerates JSON numbers arriving as float64 for integer fields.
func decode(op string, args map[string]any, into any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return fea.Wrap(fea.ValidationError, op, err)
	}
	if err := dec.Decode(args); err != nil {
		return fea.Wrap(fea.ValidationError, op, err)
	}
	return nil
}

func (r *Router) connect(ctx context.Context, _ map[string]any) (any, error) {
	if err := r.adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return map[string]any{"connected": true, "software": r.adapter.Software()}, nil
}

func (r *Router) getSoftware(context.Context, map[string]any) (any, error) {
	return r.adapter.Software(), nil
}

func (r *Router) getUnits(ctx context.Context, _ map[string]any) (any, error) {
	return r.adapter.Units(ctx)
}

func (r *Router) createPoint(ctx context.Context, args map[string]any) (any, error) {
	var c geom.Coord
	if err := decode("createPoint", args, &c); err != nil {
		return nil, err
	}
	p, err := r.adapter.CreatePoint(ctx, c)
	if err != nil {
		return nil, err
	}
	return pointRecord(p), nil
}

type coordsArgs struct {
	Coords []geom.Coord `json:"coords"`
}

func (r *Router) createLine(ctx context.Context, args map[string]any) (any, error) {
	var a coordsArgs
	if err := decode("createLine", args, &a); err != nil {
		return nil, err
	}
	if len(a.Coords) != 2 {
		return nil, fea.Errorf(fea.ValidationError, "createLine",
			"a line takes exactly 2 coordinates, got %d", len(a.Coords))
	}
	l, err := r.adapter.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, Coords: a.Coords})
	if err != nil {
		return nil, err
	}
	return lineRecord(geom.TypeLine, l), nil
}

func (r *Router) createLineByPoints(ctx context.Context, args map[string]any) (any, error) {
	var a struct {
		PointIDs []geom.ID `json:"pointIds"`
	}
	if err := decode("createLineByPoints", args, &a); err != nil {
		return nil, err
	}
	if len(a.PointIDs) != 2 {
		return nil, fea.Errorf(fea.ValidationError, "createLineByPoints",
			"a line takes exactly 2 point ids, got %d", len(a.PointIDs))
	}
	l, err := r.adapter.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, PointIDs: a.PointIDs})
	if err != nil {
		return nil, err
	}
	return lineRecord(geom.TypeLine, l), nil
}

func (r *Router) createArc(ctx context.Context, args map[string]any) (any, error) {
	var a struct {
		Coords   []geom.Coord `json:"coords"`
		PointIDs []geom.ID    `json:"pointIds"`
	}
	if err := decode("createArc", args, &a); err != nil {
		return nil, err
	}
	spec := fea.LineSpec{Kind: geom.TypeArc, Coords: a.Coords, PointIDs: a.PointIDs}
	switch {
	case len(a.Coords) > 0 && len(a.PointIDs) > 0:
		return nil, fea.Errorf(fea.ValidationError, "createArc",
			"supply either coords or pointIds, not both")
	case len(a.Coords) > 0 && len(a.Coords) != 3:
		return nil, fea.Errorf(fea.ValidationError, "createArc",
			"an arc takes exactly 3 coordinates, got %d", len(a.Coords))
	case len(a.PointIDs) > 0 && len(a.PointIDs) != 3:
		return nil, fea.Errorf(fea.ValidationError, "createArc",
			"an arc takes exactly 3 point ids, got %d", len(a.PointIDs))
	case len(a.Coords) == 0 && len(a.PointIDs) == 0:
		return nil, fea.Errorf(fea.ValidationError, "createArc",
			"supply 3 coords or 3 pointIds")
	}
	l, err := r.adapter.CreateLine(ctx, spec)
	if err != nil {
		return nil, err
	}
	return lineRecord(geom.TypeArc, l), nil
}

func (r *Router) createSurface(ctx context.Context, args map[string]any) (any, error) {
	var a coordsArgs
	if err := decode("createSurface", args, &a); err != nil {
		return nil, err
	}
	if len(a.Coords) < 3 {
		return nil, fea.Errorf(fea.ValidationError, "createSurface",
			"a surface takes at least 3 corner coordinates, got %d", len(a.Coords))
	}
	s, err := r.adapter.CreateSurface(ctx, fea.SurfaceSpec{Coords: a.Coords})
	if err != nil {
		return nil, err
	}
	return surfaceRecord(s), nil
}

func (r *Router) createSurfaceByLines(ctx context.Context, args map[string]any) (any, error) {
	var a struct {
		LineIDs []geom.ID `json:"lineIds"`
	}
	if err := decode("createSurfaceByLines", args, &a); err != nil {
		return nil, err
	}
	if len(a.LineIDs) < 3 {
		return nil, fea.Errorf(fea.ValidationError, "createSurfaceByLines",
			"a surface boundary takes at least 3 lines, got %d", len(a.LineIDs))
	}
	s, err := r.adapter.CreateSurface(ctx, fea.SurfaceSpec{LineIDs: a.LineIDs})
	if err != nil {
		return nil, err
	}
	return surfaceRecord(s), nil
}

func (r *Router) createVolume(ctx context.Context, args map[string]any) (any, error) {
	var a struct {
		SurfaceIDs []geom.ID `json:"surfaceIds"`
	}
	if err := decode("createVolume", args, &a); err != nil {
		return nil, err
	}
	if len(a.SurfaceIDs) < 4 {
		return nil, fea.Errorf(fea.ValidationError, "createVolume",
			"a volume takes at least 4 bounding surfaces, got %d", len(a.SurfaceIDs))
	}
	v, err := r.adapter.CreateVolume(ctx, a.SurfaceIDs)
	if err != nil {
		return nil, err
	}
	return volumeRecord(v), nil
}

// batchEntry mirrors fea.BatchResult in envelope form: per item, a geometry
// record or an error descriptor, never both.
type batchEntry struct {
	Geometry *geom.Geometry   `json:"geometry,omitempty"`
	Error    *ErrorDescriptor `json:"error,omitempty"`
}

func (r *Router) createObjects(ctx context.Context, args map[string]any) (any, error) {
	var a struct {
		Objects []geom.BatchItem `json:"objects"`
	}
	if err := decode("createObjectsByCoordinates", args, &a); err != nil {
		return nil, err
	}
	if len(a.Objects) == 0 {
		return nil, fea.Errorf(fea.ValidationError, "createObjectsByCoordinates",
			"objects list is empty")
	}
	results, err := r.adapter.CreateBatch(ctx, geom.BatchRequest{Items: a.Objects})
	if err != nil {
		return nil, err
	}
	entries := make([]batchEntry, len(results))
	for _, res := range results {
		e := batchEntry{Geometry: res.Geometry}
		if res.Err != nil {
			e.Error = &ErrorDescriptor{Code: string(fea.CodeOf(res.Err)), Message: res.Err.Error()}
		}
		entries[res.Index] = e
	}
	return map[string]any{"objects": entries}, nil
}

func (r *Router) getAllGeometries(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Geometries(ctx))
}

func (r *Router) getPoints(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Points(ctx))
}

func (r *Router) getFrames(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Frames(ctx))
}

func (r *Router) getAreas(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Areas(ctx))
}

func (r *Router) getLines(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Lines(ctx))
}

func (r *Router) getSurfaces(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Surfaces(ctx))
}

func (r *Router) getVolumes(ctx context.Context, _ map[string]any) (any, error) {
	return r.enumerate(r.adapter.Volumes(ctx))
}

func (r *Router) enumerate(gs []geom.Geometry, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if gs == nil {
		gs = []geom.Geometry{}
	}
	return map[string]any{"count": len(gs), "geometries": gs}, nil
}

type sweepArgs struct {
	IDs    []geom.ID  `json:"ids"`
	Vector geom.Coord `json:"vector"`
}

func (r *Router) sweepPoints(ctx context.Context, args map[string]any) (any, error) {
	var a sweepArgs
	if err := decode("sweepPoints", args, &a); err != nil {
		return nil, err
	}
	return r.enumerate(r.adapter.SweepPoints(ctx, a.IDs, a.Vector))
}

func (r *Router) sweepLines(ctx context.Context, args map[string]any) (any, error) {
	var a sweepArgs
	if err := decode("sweepLines", args, &a); err != nil {
		return nil, err
	}
	return r.enumerate(r.adapter.SweepLines(ctx, a.IDs, a.Vector))
}

func (r *Router) sweepSurfaces(ctx context.Context, args map[string]any) (any, error) {
	var a sweepArgs
	if err := decode("sweepSurfaces", args, &a); err != nil {
		return nil, err
	}
	return r.enumerate(r.adapter.SweepSurfaces(ctx, a.IDs, a.Vector))
}

func (r *Router) selectObjects(ctx context.Context, args map[string]any) (any, error) {
	var sel fea.Selection
	if err := decode("select", args, &sel); err != nil {
		return nil, err
	}
	if err := r.adapter.Select(ctx, sel); err != nil {
		return nil, err
	}
	return map[string]any{
		"selected": len(sel.Points) + len(sel.Lines) + len(sel.Surfaces) + len(sel.Volumes),
	}, nil
}

func pointRecord(p geom.Point) geom.Geometry {
	return geom.Geometry{
		Type:       geom.TypePoint,
		ID:         p.ID,
		Attributes: geom.Attributes{Coords: []geom.Coord{p.Coord}},
	}
}

func lineRecord(kind geom.ObjectType, l geom.Line) geom.Geometry {
	return geom.Geometry{
		Type:       kind,
		ID:         l.ID,
		Attributes: geom.Attributes{Points: l.Points},
	}
}

func surfaceRecord(s geom.Surface) geom.Geometry {
	return geom.Geometry{
		Type:       geom.TypeSurface,
		ID:         s.ID,
		Attributes: geom.Attributes{Lines: s.Lines},
	}
}

func volumeRecord(v geom.Volume) geom.Geometry {
	return geom.Geometry{
		Type:       geom.TypeVolume,
		ID:         v.ID,
		Attributes: geom.Attributes{Surfaces: v.Surfaces},
	}
}
