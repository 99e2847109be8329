package fea

// Capability names a generic operation (or operation family) a vendor
// adapter may or may not support. The router consults the bound adapter's
// capability set before dispatch and fails fast rather than forwarding to a
// vendor call that does not exist.
type Capability string

const (
	CapUnits            Capability = "units"
	CapCreateObjects    Capability = "createObjects"
	CapGetAllGeometries Capability = "getAllGeometries"
	CapGetPoints        Capability = "getPoints"
	CapGetFrames        Capability = "getFrames"
	CapGetAreas         Capability = "getAreas"
	CapGetLines         Capability = "getLines"
	CapGetSurfaces      Capability = "getSurfaces"
	CapGetVolumes       Capability = "getVolumes"
	CapSweep            Capability = "sweep"
	CapSelect           Capability = "select"
	CapMultiPointCreate Capability = "multiPointCreate"
	CapArc              Capability = "arc"
)

// CapabilitySet is the static capability set an adapter variant exposes.
type CapabilitySet map[Capability]struct{}

// Caps builds a capability set.
func Caps(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}
