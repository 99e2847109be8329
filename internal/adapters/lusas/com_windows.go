//go:build windows

package lusas

import (
	"context"
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// comDial attaches to the active LUSAS Modeller registered under
// "Lusas.Modeller.<version>". LUSAS must already be running; this bridge
// never launches the application.
func comDial(ctx context.Context, version string) (Modeller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = ole.CoInitialize(0)

	unknown, err := oleutil.GetActiveObject("Lusas.Modeller." + version)
	if err != nil {
		return nil, fmt.Errorf("no running LUSAS %s instance: %w", version, err)
	}
	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("LUSAS automation handshake failed: %w", err)
	}
	return &comModeller{disp: disp}, nil
}

func call(disp *ole.IDispatch, name string, args ...any) (*ole.VARIANT, error) {
	v, err := oleutil.CallMethod(disp, name, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func callDispatch(disp *ole.IDispatch, name string, args ...any) (*ole.IDispatch, error) {
	v, err := call(disp, name, args...)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("%s returned no object", name)
	}
	return d, nil
}

type comModeller struct {
	disp *ole.IDispatch
}

func (m *comModeller) ExistsDatabase() (bool, error) {
	v, err := call(m.disp, "existsDatabase")
	if err != nil {
		return false, err
	}
	b, _ := v.Value().(bool)
	return b, nil
}

func (m *comModeller) NewProject() error {
	_, err := call(m.disp, "newProject")
	return err
}

func (m *comModeller) DB() Database {
	return &comDatabase{owner: m.disp}
}

func (m *comModeller) Selection() SelectionSet {
	return &comSelection{owner: m.disp}
}

func (m *comModeller) ScaleToFit() error {
	view, err := callDispatch(m.disp, "view")
	if err != nil {
		return err
	}
	_, err = call(view, "scaleToFit")
	return err
}

type comDatabase struct {
	owner *ole.IDispatch
}

func (d *comDatabase) db() (*ole.IDispatch, error) {
	return callDispatch(d.owner, "db")
}

func (d *comDatabase) ModelUnits() (string, error) {
	db, err := d.db()
	if err != nil {
		return "", err
	}
	units, err := callDispatch(db, "getModelUnits")
	if err != nil {
		return "", err
	}
	v, err := call(units, "getName")
	if err != nil {
		return "", err
	}
	return v.ToString(), nil
}

func (d *comDatabase) GeometryData() GeometryData {
	gd := &comGeometryData{}
	db, err := d.db()
	if err != nil {
		gd.err = err
		return gd
	}
	gd.disp, gd.err = callDispatch(db, "geometryData")
	return gd
}

func (d *comDatabase) NewObjectSet() ObjectSet {
	set := &comObjectSet{}
	disp, err := callDispatch(d.owner, "newObjectSet")
	if err != nil {
		set.err = err
		return set
	}
	set.disp = disp
	return set
}

func (d *comDatabase) create(method string, gd GeometryData) (ObjectSet, error) {
	cgd, err := comGeometryDataOf(gd)
	if err != nil {
		return nil, err
	}
	db, err := d.db()
	if err != nil {
		return nil, err
	}
	disp, err := callDispatch(db, method, cgd.disp)
	if err != nil {
		return nil, err
	}
	return &comObjectSet{disp: disp}, nil
}

func (d *comDatabase) CreatePoint(gd GeometryData) (ObjectSet, error) {
	return d.create("createPoint", gd)
}

func (d *comDatabase) CreateLine(gd GeometryData) (ObjectSet, error) {
	return d.create("createLine", gd)
}

func (d *comDatabase) CreateSurface(gd GeometryData) (ObjectSet, error) {
	return d.create("createSurface", gd)
}

func (d *comDatabase) CreateTranslationTransAttr(name string, x, y, z float64) (TransAttr, error) {
	db, err := d.db()
	if err != nil {
		return nil, err
	}
	disp, err := callDispatch(db, "createTranslationTransAttr", name, []float64{x, y, z})
	if err != nil {
		return nil, err
	}
	return &comTransAttr{disp: disp}, nil
}

func (d *comDatabase) DeleteAttribute(attr TransAttr) error {
	ca, ok := attr.(*comTransAttr)
	if !ok {
		return fmt.Errorf("foreign attribute handle")
	}
	db, err := d.db()
	if err != nil {
		return err
	}
	_, err = call(db, "deleteAttribute", ca.disp)
	return err
}

func (d *comDatabase) Objects(kind string) ([]Object, error) {
	db, err := d.db()
	if err != nil {
		return nil, err
	}
	v, err := call(db, "getObjects", kind)
	if err != nil {
		return nil, err
	}
	return dispatchObjects(v), nil
}

func (d *comDatabase) Object(kind string, id int) (Object, error) {
	db, err := d.db()
	if err != nil {
		return nil, err
	}
	disp, err := callDispatch(db, "getObject", kind, id)
	if err != nil {
		return nil, err
	}
	return &comObject{disp: disp}, nil
}

func (d *comDatabase) BeginCommandBatch(title string, undoable bool) error {
	db, err := d.db()
	if err != nil {
		return err
	}
	_, err = call(db, "beginCommandBatch", title, undoable)
	return err
}

func (d *comDatabase) CloseCommandBatch() error {
	db, err := d.db()
	if err != nil {
		return err
	}
	_, err = call(db, "closeCommandBatch")
	return err
}

// comGeometryData latches the first error; the adapter only observes it when
// the recipe is consumed by a create call.
type comGeometryData struct {
	disp *ole.IDispatch
	err  error
}

func comGeometryDataOf(gd GeometryData) (*comGeometryData, error) {
	cgd, ok := gd.(*comGeometryData)
	if !ok {
		return nil, fmt.Errorf("foreign geometry data handle")
	}
	if cgd.err != nil {
		return nil, cgd.err
	}
	return cgd, nil
}

func (g *comGeometryData) set(name string, args ...any) GeometryData {
	if g.err != nil {
		return g
	}
	_, g.err = call(g.disp, name, args...)
	return g
}

func (g *comGeometryData) SetAllDefaults() GeometryData      { return g.set("setAllDefaults") }
func (g *comGeometryData) SetCreateMethod(m string) GeometryData {
	return g.set("setCreateMethod", m)
}
func (g *comGeometryData) SetLowerOrderGeometryType(k string) GeometryData {
	return g.set("setLowerOrderGeometryType", k)
}
func (g *comGeometryData) AddCoords(x, y, z float64) GeometryData {
	return g.set("addCoords", x, y, z)
}
func (g *comGeometryData) KeepMinor() GeometryData         { return g.set("keepMinor") }
func (g *comGeometryData) SetStartMiddleEnd() GeometryData { return g.set("setStartMiddleEnd") }
func (g *comGeometryData) CloseEndPoints(c bool) GeometryData {
	return g.set("closeEndPoints", c)
}
func (g *comGeometryData) UseSelectionOrder(u bool) GeometryData {
	return g.set("useSelectionOrder", u)
}
func (g *comGeometryData) SetExtractAllVolumes() GeometryData {
	return g.set("setExtractAllVolumes")
}
func (g *comGeometryData) SetMaximumDimension(dim int) GeometryData {
	return g.set("setMaximumDimension", dim)
}
func (g *comGeometryData) SetTransformation(attr TransAttr) GeometryData {
	if g.err != nil {
		return g
	}
	ca, ok := attr.(*comTransAttr)
	if !ok {
		g.err = fmt.Errorf("foreign attribute handle")
		return g
	}
	return g.set("setTransformation", ca.disp)
}
func (g *comGeometryData) SweptArcType(k string) GeometryData {
	return g.set("sweptArcType", k)
}

type comObjectSet struct {
	disp *ole.IDispatch
	err  error
}

func (s *comObjectSet) Add(kind string, id int) error {
	if s.err != nil {
		return s.err
	}
	_, err := call(s.disp, "add", kind, id)
	return err
}

func (s *comObjectSet) consume(method string, gd GeometryData) (ObjectSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	cgd, err := comGeometryDataOf(gd)
	if err != nil {
		return nil, err
	}
	disp, err := callDispatch(s.disp, method, cgd.disp)
	if err != nil {
		return nil, err
	}
	return &comObjectSet{disp: disp}, nil
}

func (s *comObjectSet) CreateLine(gd GeometryData) (ObjectSet, error) {
	return s.consume("createLine", gd)
}

func (s *comObjectSet) CreateSurface(gd GeometryData) (ObjectSet, error) {
	return s.consume("createSurface", gd)
}

func (s *comObjectSet) CreateVolume(gd GeometryData) (ObjectSet, error) {
	return s.consume("createVolume", gd)
}

func (s *comObjectSet) Sweep(gd GeometryData) (ObjectSet, error) {
	return s.consume("sweep", gd)
}

func (s *comObjectSet) AddLowerOrder(kind string) (ObjectSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	disp, err := callDispatch(s.disp, "addLOF", kind)
	if err != nil {
		return nil, err
	}
	return &comObjectSet{disp: disp}, nil
}

func (s *comObjectSet) Objects(kind string) ([]Object, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, err := call(s.disp, "getObjects", kind)
	if err != nil {
		return nil, err
	}
	return dispatchObjects(v), nil
}

func dispatchObjects(v *ole.VARIANT) []Object {
	arr := v.ToArray()
	if arr == nil {
		return nil
	}
	values := arr.ToValueArray()
	out := make([]Object, 0, len(values))
	for _, raw := range values {
		if disp, ok := raw.(*ole.IDispatch); ok {
			out = append(out, &comObject{disp: disp})
		}
	}
	return out
}

type comObject struct {
	disp *ole.IDispatch
}

func (o *comObject) intProp(name string) int {
	v, err := call(o.disp, name)
	if err != nil {
		return 0
	}
	return int(v.Val)
}

func (o *comObject) floatProp(name string) float64 {
	v, err := call(o.disp, name)
	if err != nil {
		return 0
	}
	if f, ok := v.Value().(float64); ok {
		return f
	}
	return 0
}

func (o *comObject) ID() int     { return o.intProp("getID") }
func (o *comObject) X() float64  { return o.floatProp("getX") }
func (o *comObject) Y() float64  { return o.floatProp("getY") }
func (o *comObject) Z() float64  { return o.floatProp("getZ") }
func (o *comObject) IsSelected() bool {
	v, err := call(o.disp, "isSelected")
	if err != nil {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}

type comTransAttr struct {
	disp *ole.IDispatch
}

func (a *comTransAttr) SetSweepType(kind string) error {
	_, err := call(a.disp, "setSweepType", kind)
	return err
}

func (a *comTransAttr) SetHofType(kind string) error {
	_, err := call(a.disp, "setHofType", kind)
	return err
}

type comSelection struct {
	owner *ole.IDispatch
}

func (s *comSelection) selection() (*ole.IDispatch, error) {
	return callDispatch(s.owner, "selection")
}

func (s *comSelection) Remove(kind string) error {
	sel, err := s.selection()
	if err != nil {
		return err
	}
	_, err = call(sel, "remove", kind)
	return err
}

func (s *comSelection) Add(kind string, id int) error {
	sel, err := s.selection()
	if err != nil {
		return err
	}
	_, err = call(sel, "add", kind, id)
	return err
}
