package etabs

import "context"

// SapModel is the slice of the CSI OAPI automation surface the adapter
// drives. The real implementation wraps the COM object model of a running
// ETABS instance; tests substitute an in-memory fake. All calls are
// synchronous and must not run concurrently: the automation interface is
// not reentrant.
type SapModel interface {
	// GetPresentUnits returns the 1-based index into the preset unit table.
	GetPresentUnits() (int, error)
	GetVersion() (string, error)

	PointAddCartesian(x, y, z float64) (name string, err error)
	PointNameList() ([]string, error)
	PointCoord(name string) (x, y, z float64, err error)

	FrameAddByCoord(xi, yi, zi, xj, yj, zj float64) (name string, err error)
	FrameNameList() ([]string, error)
	FramePoints(name string) (i, j string, err error)

	AreaAddByCoord(x, y, z []float64) (name string, err error)
	AreaNameList() ([]string, error)
	AreaPoints(name string) ([]string, error)

	RefreshView() error
}

// Dialer attaches to a running ETABS instance and returns its model.
// The default dialer goes through COM and only exists on windows builds.
type Dialer func(ctx context.Context) (SapModel, error)

// presetUnits is the table indexed by GetPresentUnits (force, length,
// temperature). Order is fixed by the OAPI.
var presetUnits = []string{
	"lb, in, F", "lb, ft, F", "kip, in, F", "kip, ft, F",
	"kN, mm, C", "kN, m, C", "kgf, mm, C", "kgf, m, C",
	"N, mm, C", "N, m, C", "Ton, mm, C", "Ton, m, C",
	"kN, cm, C", "kgf, cm, C", "N, cm, C", "Ton, cm, C",
}
