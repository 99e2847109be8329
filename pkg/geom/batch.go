package geom

import "fmt"

// BatchItem is one creation request inside a batch. Objects are defined by
// raw coordinates; lower-order geometry (points under a line, lines under a
// surface) is created implicitly by the vendor.
type BatchItem struct {
	Type   ObjectType `json:"type" mapstructure:"type"`
	Coords []Coord    `json:"coords" mapstructure:"coords"`
}

// BatchRequest is an ordered sequence of heterogeneous creation requests.
// Items are processed strictly in order because later items may reference
// geometry created by earlier ones. There is no transactional guarantee:
// one item failing neither skips later items nor rolls back earlier ones.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// minCoords is the minimum number of coordinates each object type needs.
var minCoords = map[ObjectType]int{
	TypePoint:   1,
	TypeLine:    2,
	TypeArc:     3,
	TypeSpline:  3,
	TypeSurface: 3,
}

// Validate checks the item's shape. It does not touch any vendor state.
func (it BatchItem) Validate() error {
	min, ok := minCoords[it.Type]
	if !ok {
		return fmt.Errorf("unsupported batch object type %q", it.Type)
	}
	if len(it.Coords) < min {
		return fmt.Errorf("%s needs at least %d coordinates, got %d", it.Type, min, len(it.Coords))
	}
	switch it.Type {
	case TypePoint:
		if len(it.Coords) != 1 {
			return fmt.Errorf("point takes exactly 1 coordinate, got %d", len(it.Coords))
		}
	case TypeLine:
		if len(it.Coords) != 2 {
			return fmt.Errorf("line takes exactly 2 coordinates, got %d", len(it.Coords))
		}
	case TypeArc:
		if len(it.Coords) != 3 {
			return fmt.Errorf("arc takes exactly 3 coordinates, got %d", len(it.Coords))
		}
	}
	return nil
}
