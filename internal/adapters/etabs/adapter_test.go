package etabs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feamcp/feamcp/internal/logging"
	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
)

// fakeModel is an in-memory SapModel. It mimics the OAPI behaviors the
// adapter depends on, notably merging coincident joints on add.
type fakeModel struct {
	version string
	units   int

	joints     map[string]geom.Coord
	jointOrder []string
	frames     map[string][2]string
	frameOrder []string
	areas      map[string][]string
	areaOrder  []string

	nextJoint int
	nextFrame int
	nextArea  int

	failAdd bool
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		version: "21.1.0",
		units:   6, // kN, m, C
		joints:  map[string]geom.Coord{},
		frames:  map[string][2]string{},
		areas:   map[string][]string{},
	}
}

func (f *fakeModel) GetPresentUnits() (int, error) { return f.units, nil }
func (f *fakeModel) GetVersion() (string, error)   { return f.version, nil }

func (f *fakeModel) addJoint(c geom.Coord) string {
	for name, existing := range f.joints {
		if existing == c {
			return name
		}
	}
	f.nextJoint++
	name := fmt.Sprintf("%d", f.nextJoint)
	f.joints[name] = c
	f.jointOrder = append(f.jointOrder, name)
	return name
}

func (f *fakeModel) PointAddCartesian(x, y, z float64) (string, error) {
	if f.failAdd {
		return "", errors.New("add failed")
	}
	return f.addJoint(geom.Coord{X: x, Y: y, Z: z}), nil
}

func (f *fakeModel) PointNameList() ([]string, error) { return f.jointOrder, nil }

func (f *fakeModel) PointCoord(name string) (float64, float64, float64, error) {
	c, ok := f.joints[name]
	if !ok {
		return 0, 0, 0, errors.New("no such joint")
	}
	return c.X, c.Y, c.Z, nil
}

func (f *fakeModel) FrameAddByCoord(xi, yi, zi, xj, yj, zj float64) (string, error) {
	if f.failAdd {
		return "", errors.New("add failed")
	}
	i := f.addJoint(geom.Coord{X: xi, Y: yi, Z: zi})
	j := f.addJoint(geom.Coord{X: xj, Y: yj, Z: zj})
	f.nextFrame++
	name := fmt.Sprintf("F%d", f.nextFrame)
	f.frames[name] = [2]string{i, j}
	f.frameOrder = append(f.frameOrder, name)
	return name, nil
}

func (f *fakeModel) FrameNameList() ([]string, error) { return f.frameOrder, nil }

func (f *fakeModel) FramePoints(name string) (string, string, error) {
	fr, ok := f.frames[name]
	if !ok {
		return "", "", errors.New("no such frame")
	}
	return fr[0], fr[1], nil
}

func (f *fakeModel) AreaAddByCoord(x, y, z []float64) (string, error) {
	if f.failAdd {
		return "", errors.New("add failed")
	}
	corners := make([]string, len(x))
	for i := range x {
		corners[i] = f.addJoint(geom.Coord{X: x[i], Y: y[i], Z: z[i]})
	}
	f.nextArea++
	name := fmt.Sprintf("A%d", f.nextArea)
	f.areas[name] = corners
	f.areaOrder = append(f.areaOrder, name)
	return name, nil
}

func (f *fakeModel) AreaNameList() ([]string, error) { return f.areaOrder, nil }

func (f *fakeModel) AreaPoints(name string) ([]string, error) {
	corners, ok := f.areas[name]
	if !ok {
		return nil, errors.New("no such area")
	}
	return corners, nil
}

func (f *fakeModel) RefreshView() error { return nil }

func newTestAdapter(t *testing.T, model *fakeModel, opts ...Option) *Adapter {
	t.Helper()
	opts = append([]Option{
		WithDialer(func(ctx context.Context) (SapModel, error) { return model, nil }),
		WithLogger(logging.NewNop()),
	}, opts...)
	a := New(opts...)
	require.NoError(t, a.Connect(context.Background()))
	return a
}

func TestConnectVersionMismatch(t *testing.T) {
	model := newFakeModel()
	model.version = "20.3.0"
	a := New(
		WithDialer(func(ctx context.Context) (SapModel, error) { return model, nil }),
		WithVersion("21.1"),
		WithLogger(logging.NewNop()),
	)
	err := a.Connect(context.Background())
	assert.True(t, fea.IsCode(err, fea.ConnectionError))
}

func TestNotConnected(t *testing.T) {
	a := New(
		WithDialer(func(ctx context.Context) (SapModel, error) { return nil, errors.New("down") }),
		WithLogger(logging.NewNop()),
	)
	_, err := a.Units(context.Background())
	assert.True(t, fea.IsCode(err, fea.NotConnectedError))

	err = a.Connect(context.Background())
	assert.True(t, fea.IsCode(err, fea.ConnectionError))
}

func TestUnits(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	u, err := a.Units(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geom.UnitSystem{Force: "kN", Length: "m", Temperature: "C"}, u)
}

func TestCreatePointRoundTrip(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	p, err := a.CreatePoint(ctx, geom.Coord{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	points, err := a.Points(ctx)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, p.ID, points[0].ID)
	assert.Equal(t, []geom.Coord{{X: 1, Y: 2, Z: 3}}, points[0].Attributes.Coords)
}

func TestCreatePointMergesCoincident(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	p1, err := a.CreatePoint(ctx, geom.Coord{X: 5, Y: 5, Z: 0})
	require.NoError(t, err)
	p2, err := a.CreatePoint(ctx, geom.Coord{X: 5, Y: 5, Z: 0})
	require.NoError(t, err)

	// ETABS merges coincident joints; the surviving name comes back both times.
	assert.Equal(t, p1.ID, p2.ID)

	points, err := a.Points(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestCreateLineByCoords(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	l, err := a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, Coords: []geom.Coord{
		{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0},
	}})
	require.NoError(t, err)
	require.Len(t, l.Points, 2)

	// The implicitly created endpoints are addressable afterwards.
	points, err := a.Points(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestCreateLineByExistingPoints(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	p1, err := a.CreatePoint(ctx, geom.Coord{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	p2, err := a.CreatePoint(ctx, geom.Coord{X: 0, Y: 4, Z: 0})
	require.NoError(t, err)

	l, err := a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, PointIDs: []geom.ID{p1.ID, p2.ID}})
	require.NoError(t, err)
	// The frame reuses the existing joints instead of duplicating them.
	assert.Equal(t, []geom.ID{p1.ID, p2.ID}, l.Points)

	points, err := a.Points(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestCreateLineUnknownPoint(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	_, err := a.CreateLine(context.Background(), fea.LineSpec{
		Kind: geom.TypeLine, PointIDs: []geom.ID{"1", "2"},
	})
	assert.True(t, fea.IsCode(err, fea.NotFoundError))
}

func TestCreateLineStalePoint(t *testing.T) {
	model := newFakeModel()
	a := newTestAdapter(t, model)
	ctx := context.Background()

	p1, err := a.CreatePoint(ctx, geom.Coord{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	p2, err := a.CreatePoint(ctx, geom.Coord{X: 1, Y: 0, Z: 0})
	require.NoError(t, err)

	// Joint deleted behind our back (e.g. in the vendor UI).
	delete(model.joints, string(p2.ID))

	_, err = a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, PointIDs: []geom.ID{p1.ID, p2.ID}})
	assert.True(t, fea.IsCode(err, fea.StaleReferenceError))

	// The entry is poisoned, not evicted.
	_, err = a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, PointIDs: []geom.ID{p1.ID, p2.ID}})
	assert.True(t, fea.IsCode(err, fea.StaleReferenceError))
}

func TestArcUnsupported(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	_, err := a.CreateLine(context.Background(), fea.LineSpec{Kind: geom.TypeArc, Coords: []geom.Coord{
		{X: 0}, {X: 1, Y: 1}, {X: 2},
	}})
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
}

func TestCreateSurface(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	s, err := a.CreateSurface(ctx, fea.SurfaceSpec{Coords: []geom.Coord{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}})
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	areas, err := a.Areas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, s.ID, areas[0].ID)
	assert.Len(t, areas[0].Attributes.Points, 4)
}

func TestCreateSurfaceByLinesUnsupported(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	_, err := a.CreateSurface(context.Background(), fea.SurfaceSpec{LineIDs: []geom.ID{"F1", "F2", "F3"}})
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
}

func TestCreateBatchOrderAndIsolation(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	results, err := a.CreateBatch(ctx, geom.BatchRequest{Items: []geom.BatchItem{
		{Type: geom.TypePoint, Coords: []geom.Coord{{X: 1}}},
		{Type: geom.TypeLine, Coords: []geom.Coord{{X: 0}}}, // wrong arity
		{Type: geom.TypeLine, Coords: []geom.Coord{{X: 0}, {X: 5}}},
	}})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0, results[0].Index)
	require.NotNil(t, results[0].Geometry)
	assert.Equal(t, geom.TypePoint, results[0].Geometry.Type)

	assert.Equal(t, 1, results[1].Index)
	assert.Nil(t, results[1].Geometry)
	assert.True(t, fea.IsCode(results[1].Err, fea.ValidationError))

	// The failing item did not abort the one after it.
	assert.Equal(t, 2, results[2].Index)
	require.NotNil(t, results[2].Geometry)
	assert.Equal(t, geom.TypeLine, results[2].Geometry.Type)
}

func TestGeometriesListsEverything(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	_, err := a.CreatePoint(ctx, geom.Coord{X: 9, Y: 9, Z: 9})
	require.NoError(t, err)
	_, err = a.CreateLine(ctx, fea.LineSpec{Kind: geom.TypeLine, Coords: []geom.Coord{{X: 0}, {X: 1}}})
	require.NoError(t, err)
	_, err = a.CreateSurface(ctx, fea.SurfaceSpec{Coords: []geom.Coord{{X: 20}, {X: 21}, {X: 20, Y: 1}}})
	require.NoError(t, err)

	gs, err := a.Geometries(ctx)
	require.NoError(t, err)
	counts := map[geom.ObjectType]int{}
	for _, g := range gs {
		counts[g.Type]++
	}
	assert.Equal(t, 1, counts[geom.TypeLine])
	assert.Equal(t, 1, counts[geom.TypeSurface])
	assert.Equal(t, 6, counts[geom.TypePoint])
}

func TestUnsupportedOperations(t *testing.T) {
	a := newTestAdapter(t, newFakeModel())
	ctx := context.Background()

	_, err := a.Lines(ctx)
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
	_, err = a.Volumes(ctx)
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
	_, err = a.SweepPoints(ctx, []geom.ID{"1"}, geom.Coord{Z: 1})
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
	err = a.Select(ctx, fea.Selection{Points: []geom.ID{"1"}})
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
	_, err = a.CreateVolume(ctx, []geom.ID{"A1", "A2", "A3", "A4"})
	assert.True(t, fea.IsCode(err, fea.UnsupportedOperationError))
}

func TestCapabilities(t *testing.T) {
	a := New(WithLogger(logging.NewNop()))
	caps := a.Capabilities()
	assert.True(t, caps.Has(fea.CapGetFrames))
	assert.True(t, caps.Has(fea.CapGetAreas))
	assert.False(t, caps.Has(fea.CapSweep))
	assert.False(t, caps.Has(fea.CapSelect))
	assert.False(t, caps.Has(fea.CapGetLines))
}
