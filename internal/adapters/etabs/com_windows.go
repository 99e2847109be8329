//go:build windows

package etabs

import (
	"context"
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// comDial attaches to the running ETABS instance registered in the COM
// running object table and returns its SapModel. ETABS must already be
// running; this bridge never launches the application.
func comDial(ctx context.Context) (SapModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// S_FALSE when the thread is already initialized; harmless.
	_ = ole.CoInitialize(0)

	unknown, err := oleutil.GetActiveObject("CSI.ETABS.API.ETABSObject")
	if err != nil {
		return nil, fmt.Errorf("no running ETABS instance: %w", err)
	}
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("ETABS automation handshake failed: %w", err)
	}
	sap, err := oleutil.GetProperty(app, "SapModel")
	if err != nil {
		return nil, fmt.Errorf("SapModel unavailable: %w", err)
	}
	return &comModel{sap: sap.ToIDispatch()}, nil
}

// comModel drives the OAPI over late-bound COM dispatch. Out-parameters are
// passed as by-ref variants; every OAPI call also returns a status long
// where zero means success.
type comModel struct {
	sap *ole.IDispatch
}

func (m *comModel) obj(name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(m.sap, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v.ToIDispatch(), nil
}

func checkRet(v *ole.VARIANT, err error, call string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", call, err)
	}
	if ret := int(v.Val); ret != 0 {
		return fmt.Errorf("%s returned status %d", call, ret)
	}
	return nil
}

func (m *comModel) GetPresentUnits() (int, error) {
	v, err := oleutil.CallMethod(m.sap, "GetPresentUnits")
	if err != nil {
		return 0, fmt.Errorf("GetPresentUnits: %w", err)
	}
	return int(v.Val), nil
}

func (m *comModel) GetVersion() (string, error) {
	version := ole.NewVariant(ole.VT_BSTR, 0)
	number := ole.NewVariant(ole.VT_R8, 0)
	ret, err := oleutil.CallMethod(m.sap, "GetVersion", &version, &number)
	if err := checkRet(ret, err, "GetVersion"); err != nil {
		return "", err
	}
	return version.ToString(), nil
}

func (m *comModel) PointAddCartesian(x, y, z float64) (string, error) {
	points, err := m.obj("PointObj")
	if err != nil {
		return "", err
	}
	name := ole.NewVariant(ole.VT_BSTR, 0)
	ret, err := oleutil.CallMethod(points, "AddCartesian", x, y, z, &name)
	if err := checkRet(ret, err, "PointObj.AddCartesian"); err != nil {
		return "", err
	}
	return name.ToString(), nil
}

func (m *comModel) PointNameList() ([]string, error) {
	points, err := m.obj("PointObj")
	if err != nil {
		return nil, err
	}
	count := ole.NewVariant(ole.VT_I4, 0)
	names := ole.NewVariant(ole.VT_BSTR|ole.VT_ARRAY, 0)
	ret, err := oleutil.CallMethod(points, "GetNameList", &count, &names)
	if err := checkRet(ret, err, "PointObj.GetNameList"); err != nil {
		return nil, err
	}
	return names.ToArray().ToStringArray(), nil
}

func (m *comModel) PointCoord(name string) (float64, float64, float64, error) {
	points, err := m.obj("PointObj")
	if err != nil {
		return 0, 0, 0, err
	}
	x := ole.NewVariant(ole.VT_R8, 0)
	y := ole.NewVariant(ole.VT_R8, 0)
	z := ole.NewVariant(ole.VT_R8, 0)
	ret, err := oleutil.CallMethod(points, "GetCoordCartesian", name, &x, &y, &z)
	if err := checkRet(ret, err, "PointObj.GetCoordCartesian"); err != nil {
		return 0, 0, 0, err
	}
	return variantFloat(&x), variantFloat(&y), variantFloat(&z), nil
}

func (m *comModel) FrameAddByCoord(xi, yi, zi, xj, yj, zj float64) (string, error) {
	frames, err := m.obj("FrameObj")
	if err != nil {
		return "", err
	}
	name := ole.NewVariant(ole.VT_BSTR, 0)
	ret, err := oleutil.CallMethod(frames, "AddByCoord", xi, yi, zi, xj, yj, zj, &name)
	if err := checkRet(ret, err, "FrameObj.AddByCoord"); err != nil {
		return "", err
	}
	return name.ToString(), nil
}

func (m *comModel) FrameNameList() ([]string, error) {
	frames, err := m.obj("FrameObj")
	if err != nil {
		return nil, err
	}
	count := ole.NewVariant(ole.VT_I4, 0)
	names := ole.NewVariant(ole.VT_BSTR|ole.VT_ARRAY, 0)
	ret, err := oleutil.CallMethod(frames, "GetNameList", &count, &names)
	if err := checkRet(ret, err, "FrameObj.GetNameList"); err != nil {
		return nil, err
	}
	return names.ToArray().ToStringArray(), nil
}

func (m *comModel) FramePoints(name string) (string, string, error) {
	frames, err := m.obj("FrameObj")
	if err != nil {
		return "", "", err
	}
	i := ole.NewVariant(ole.VT_BSTR, 0)
	j := ole.NewVariant(ole.VT_BSTR, 0)
	ret, err := oleutil.CallMethod(frames, "GetPoints", name, &i, &j)
	if err := checkRet(ret, err, "FrameObj.GetPoints"); err != nil {
		return "", "", err
	}
	return i.ToString(), j.ToString(), nil
}

func (m *comModel) AreaAddByCoord(x, y, z []float64) (string, error) {
	areas, err := m.obj("AreaObj")
	if err != nil {
		return "", err
	}
	name := ole.NewVariant(ole.VT_BSTR, 0)
	ret, err := oleutil.CallMethod(areas, "AddByCoord", len(x), x, y, z, &name)
	if err := checkRet(ret, err, "AreaObj.AddByCoord"); err != nil {
		return "", err
	}
	return name.ToString(), nil
}

func (m *comModel) AreaNameList() ([]string, error) {
	areas, err := m.obj("AreaObj")
	if err != nil {
		return nil, err
	}
	count := ole.NewVariant(ole.VT_I4, 0)
	names := ole.NewVariant(ole.VT_BSTR|ole.VT_ARRAY, 0)
	ret, err := oleutil.CallMethod(areas, "GetNameList", &count, &names)
	if err := checkRet(ret, err, "AreaObj.GetNameList"); err != nil {
		return nil, err
	}
	return names.ToArray().ToStringArray(), nil
}

func (m *comModel) AreaPoints(name string) ([]string, error) {
	areas, err := m.obj("AreaObj")
	if err != nil {
		return nil, err
	}
	count := ole.NewVariant(ole.VT_I4, 0)
	points := ole.NewVariant(ole.VT_BSTR|ole.VT_ARRAY, 0)
	ret, err := oleutil.CallMethod(areas, "GetPoints", name, &count, &points)
	if err := checkRet(ret, err, "AreaObj.GetPoints"); err != nil {
		return nil, err
	}
	return points.ToArray().ToStringArray(), nil
}

func (m *comModel) RefreshView() error {
	view, err := m.obj("View")
	if err != nil {
		return err
	}
	ret, err := oleutil.CallMethod(view, "RefreshView")
	return checkRet(ret, err, "View.RefreshView")
}

func variantFloat(v *ole.VARIANT) float64 {
	if f, ok := v.Value().(float64); ok {
		return f
	}
	return 0
}
