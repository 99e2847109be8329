package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feamcp/feamcp/internal/logging"
	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
)

// stubAdapter records calls and returns canned results. Its capability set is
// configurable so gating can be tested without a vendor fake.
type stubAdapter struct {
	caps  fea.CapabilitySet
	calls []string

	point geom.Point
	line  geom.Line
	batch []fea.BatchResult
	geoms []geom.Geometry
	err   error
}

func (s *stubAdapter) called(op string) { s.calls = append(s.calls, op) }

func (s *stubAdapter) Connect(ctx context.Context) error {
	s.called("connect")
	return s.err
}

func (s *stubAdapter) Software() fea.Software {
	return fea.Software{Name: "STUB", Version: "0.0"}
}

func (s *stubAdapter) Capabilities() fea.CapabilitySet { return s.caps }

func (s *stubAdapter) Units(ctx context.Context) (geom.UnitSystem, error) {
	s.called("units")
	return geom.UnitSystem{Force: "kN", Length: "m"}, s.err
}

func (s *stubAdapter) CreatePoint(ctx context.Context, c geom.Coord) (geom.Point, error) {
	s.called("createPoint")
	return s.point, s.err
}

func (s *stubAdapter) CreatePoints(ctx context.Context, coords []geom.Coord) ([]geom.Point, error) {
	s.called("createPoints")
	return nil, s.err
}

func (s *stubAdapter) CreateLine(ctx context.Context, spec fea.LineSpec) (geom.Line, error) {
	s.called("createLine")
	return s.line, s.err
}

func (s *stubAdapter) CreateSurface(ctx context.Context, spec fea.SurfaceSpec) (geom.Surface, error) {
	s.called("createSurface")
	return geom.Surface{ID: "S1", Lines: spec.LineIDs}, s.err
}

func (s *stubAdapter) CreateVolume(ctx context.Context, surfaceIDs []geom.ID) (geom.Volume, error) {
	s.called("createVolume")
	return geom.Volume{ID: "V1", Surfaces: surfaceIDs}, s.err
}

func (s *stubAdapter) CreateBatch(ctx context.Context, req geom.BatchRequest) ([]fea.BatchResult, error) {
	s.called("createBatch")
	return s.batch, s.err
}

func (s *stubAdapter) Geometries(ctx context.Context) ([]geom.Geometry, error) {
	s.called("geometries")
	return s.geoms, s.err
}

func (s *stubAdapter) Points(ctx context.Context) ([]geom.Geometry, error) {
	s.called("points")
	return s.geoms, s.err
}

func (s *stubAdapter) Lines(ctx context.Context) ([]geom.Geometry, error) {
	s.called("lines")
	return s.geoms, s.err
}

func (s *stubAdapter) Surfaces(ctx context.Context) ([]geom.Geometry, error) {
	s.called("surfaces")
	return s.geoms, s.err
}

func (s *stubAdapter) Volumes(ctx context.Context) ([]geom.Geometry, error) {
	s.called("volumes")
	return s.geoms, s.err
}

func (s *stubAdapter) Frames(ctx context.Context) ([]geom.Geometry, error) {
	s.called("frames")
	return s.geoms, s.err
}

func (s *stubAdapter) Areas(ctx context.Context) ([]geom.Geometry, error) {
	s.called("areas")
	return s.geoms, s.err
}

func (s *stubAdapter) SweepPoints(ctx context.Context, ids []geom.ID, v geom.Coord) ([]geom.Geometry, error) {
	s.called("sweepPoints")
	return s.geoms, s.err
}

func (s *stubAdapter) SweepLines(ctx context.Context, ids []geom.ID, v geom.Coord) ([]geom.Geometry, error) {
	s.called("sweepLines")
	return s.geoms, s.err
}

func (s *stubAdapter) SweepSurfaces(ctx context.Context, ids []geom.ID, v geom.Coord) ([]geom.Geometry, error) {
	s.called("sweepSurfaces")
	return s.geoms, s.err
}

func (s *stubAdapter) Select(ctx context.Context, sel fea.Selection) error {
	s.called("select")
	return s.err
}

func allCaps() fea.CapabilitySet {
	return fea.Caps(
		fea.CapUnits, fea.CapCreateObjects, fea.CapGetAllGeometries,
		fea.CapGetPoints, fea.CapGetFrames, fea.CapGetAreas,
		fea.CapGetLines, fea.CapGetSurfaces, fea.CapGetVolumes,
		fea.CapSweep, fea.CapSelect, fea.CapMultiPointCreate, fea.CapArc,
	)
}

func newTestRouter(caps fea.CapabilitySet) (*Router, *stubAdapter) {
	stub := &stubAdapter{
		caps:  caps,
		point: geom.Point{ID: "P1", Coord: geom.Coord{X: 1}},
		line:  geom.Line{ID: "L1", Points: []geom.ID{"P1", "P2"}},
	}
	return New(stub, logging.NewNop()), stub
}

func TestUnknownOperation(t *testing.T) {
	r, stub := newTestRouter(allCaps())
	resp := r.Dispatch(context.Background(), "teleport", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.ValidationError), resp.Error.Code)
	assert.Empty(t, stub.calls)
}

func TestCapabilityGateSkipsAdapter(t *testing.T) {
	r, stub := newTestRouter(fea.Caps(fea.CapUnits))

	resp := r.Dispatch(context.Background(), "sweepPoints", map[string]any{
		"ids":    []any{"1"},
		"vector": map[string]any{"x": 0, "y": 0, "z": 1.0},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.UnsupportedOperationError), resp.Error.Code)
	// The gate fails fast; the adapter is never contacted.
	assert.Empty(t, stub.calls)
}

func TestEnvelopeExactlyOneSet(t *testing.T) {
	r, _ := newTestRouter(allCaps())

	ok := r.Dispatch(context.Background(), "getUnits", nil)
	assert.NotNil(t, ok.Result)
	assert.Nil(t, ok.Error)

	bad := r.Dispatch(context.Background(), "createLine", map[string]any{"coords": []any{}})
	assert.Nil(t, bad.Result)
	assert.NotNil(t, bad.Error)
}

func TestCreatePointNormalizesResult(t *testing.T) {
	r, _ := newTestRouter(allCaps())
	resp := r.Dispatch(context.Background(), "createPoint", map[string]any{"x": 1.0, "y": 0.0, "z": 0.0})
	require.Nil(t, resp.Error)

	g, ok := resp.Result.(geom.Geometry)
	require.True(t, ok)
	assert.Equal(t, geom.TypePoint, g.Type)
	assert.Equal(t, geom.ID("P1"), g.ID)
	assert.Equal(t, []geom.Coord{{X: 1}}, g.Attributes.Coords)
}

func TestCreateLineValidation(t *testing.T) {
	r, stub := newTestRouter(allCaps())

	resp := r.Dispatch(context.Background(), "createLine", map[string]any{
		"coords": []any{map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.ValidationError), resp.Error.Code)
	assert.Empty(t, stub.calls)
}

func TestCreateArcRejectsBothSources(t *testing.T) {
	r, stub := newTestRouter(allCaps())
	resp := r.Dispatch(context.Background(), "createArc", map[string]any{
		"coords":   []any{map[string]any{"x": 0.0}, map[string]any{"x": 1.0}, map[string]any{"x": 2.0}},
		"pointIds": []any{"1", "2", "3"},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.ValidationError), resp.Error.Code)
	assert.Empty(t, stub.calls)
}

func TestCreateObjectsValidation(t *testing.T) {
	r, stub := newTestRouter(allCaps())

	resp := r.Dispatch(context.Background(), "createObjectsByCoordinates", map[string]any{
		"objects": []any{},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.ValidationError), resp.Error.Code)
	assert.Empty(t, stub.calls)
}

func TestCreateObjectsBatchEnvelope(t *testing.T) {
	r, stub := newTestRouter(allCaps())
	stub.batch = []fea.BatchResult{
		{Index: 0, Geometry: &geom.Geometry{Type: geom.TypePoint, ID: "1"}},
		{Index: 1, Err: fea.Errorf(fea.ValidationError, "stub", "bad item")},
	}

	resp := r.Dispatch(context.Background(), "createObjectsByCoordinates", map[string]any{
		"objects": []any{
			map[string]any{"type": "point", "coords": []any{map[string]any{"x": 0.0}}},
			map[string]any{"type": "line", "coords": []any{map[string]any{"x": 0.0}}},
		},
	})
	require.Nil(t, resp.Error)

	out, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	entries, ok := out["objects"].([]batchEntry)
	require.True(t, ok)
	require.Len(t, entries, 2)

	assert.NotNil(t, entries[0].Geometry)
	assert.Nil(t, entries[0].Error)
	assert.Nil(t, entries[1].Geometry)
	require.NotNil(t, entries[1].Error)
	assert.Equal(t, string(fea.ValidationError), entries[1].Error.Code)
}

func TestEnumerationEnvelope(t *testing.T) {
	r, stub := newTestRouter(allCaps())
	stub.geoms = []geom.Geometry{
		{Type: geom.TypePoint, ID: "1"},
		{Type: geom.TypeLine, ID: "1"},
	}

	resp := r.Dispatch(context.Background(), "getAllGeometries", nil)
	require.Nil(t, resp.Error)
	out := resp.Result.(map[string]any)
	assert.Equal(t, 2, out["count"])

	// Empty enumerations come back as an empty list, not null.
	stub.geoms = nil
	resp = r.Dispatch(context.Background(), "getPoints", nil)
	require.Nil(t, resp.Error)
	out = resp.Result.(map[string]any)
	assert.Equal(t, 0, out["count"])
	assert.NotNil(t, out["geometries"])
}

func TestAdapterErrorSurfacesCode(t *testing.T) {
	r, stub := newTestRouter(allCaps())
	stub.err = fea.Errorf(fea.NotConnectedError, "stub", "connect first")

	resp := r.Dispatch(context.Background(), "getUnits", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(fea.NotConnectedError), resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "connect first")
}

func TestSelectDecoding(t *testing.T) {
	r, stub := newTestRouter(allCaps())

	resp := r.Dispatch(context.Background(), "select", map[string]any{
		"points": []any{"1", "2"},
		"lines":  []any{"3"},
	})
	require.Nil(t, resp.Error)
	assert.Equal(t, []string{"select"}, stub.calls)

	out := resp.Result.(map[string]any)
	assert.Equal(t, 3, out["selected"])
}

func TestWeaklyTypedArguments(t *testing.T) {
	r, _ := newTestRouter(allCaps())

	// JSON numbers arrive as float64; integers in strings still decode.
	resp := r.Dispatch(context.Background(), "createPoint", map[string]any{
		"x": float64(2), "y": "3", "z": 0,
	})
	assert.Nil(t, resp.Error)
}

func TestOperationsListsFullSet(t *testing.T) {
	r, _ := newTestRouter(allCaps())
	ops := r.Operations()
	for _, want := range []string{
		"getUnits", "createObjectsByCoordinates", "getAllGeometries",
		"getPoints", "getFrames", "getAreas", "getLines", "getSurfaces",
		"getVolumes", "sweepPoints", "sweepLines", "sweepSurfaces", "select",
	} {
		assert.Contains(t, ops, want)
	}
}
