// Package registry maintains the per-adapter mapping between
// externally-visible geometry identifiers and vendor-native references.
//
// Vendors differ in what their creation calls return: some hand back stable
// persistent IDs directly usable as the external identifier (pass-through
// mapping), others only transient handles that must be wrapped in a
// registry-issued stable identifier. Entries are created on successful
// creation and on first observation during enumeration, so objects created
// outside this system (e.g. manually in the vendor UI) become addressable
// once listed. Entries are never proactively evicted: a lookup against a
// vendor-deleted object fails with a stale-reference error, never by
// returning wrong geometry.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
)

// Entry associates an external identifier with a vendor-native reference.
type Entry struct {
	ID     geom.ID
	Type   geom.ObjectType
	Native string // vendor-native key (name or numeric id); empty if none
	Ref    any    // opaque vendor handle, owned by the vendor process
	Stale  bool
}

// Registry is the bidirectional identifier map for one adapter instance.
// Its lifetime is bound to the vendor application session.
type Registry struct {
	mu       sync.RWMutex
	byID     map[string]*Entry
	byNative map[string]geom.ID
}

func New() *Registry {
	return &Registry{
		byID:     make(map[string]*Entry),
		byNative: make(map[string]geom.ID),
	}
}

func key(t geom.ObjectType, s string) string {
	return string(t) + "/" + s
}

// Observe records a vendor object with a stable native key, returning its
// external identifier. Pass-through: the native key doubles as the external
// ID. Observing an already-known object returns the existing ID and clears
// any stale mark (the vendor evidently still has it).
func (r *Registry) Observe(t geom.ObjectType, native string, ref any) geom.ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byNative[key(t, native)]; ok {
		e := r.byID[key(t, string(id))]
		e.Ref = ref
		e.Stale = false
		return id
	}

	id := geom.ID(native)
	e := &Entry{ID: id, Type: t, Native: native, Ref: ref}
	r.byID[key(t, string(id))] = e
	r.byNative[key(t, native)] = id
	return id
}

// Issue records a vendor object that has no stable native key, wrapping the
// opaque handle in a registry-issued identifier.
func (r *Registry) Issue(t geom.ObjectType, ref any) geom.ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := geom.ID(uuid.NewString())
	r.byID[key(t, string(id))] = &Entry{ID: id, Type: t, Ref: ref}
	return id
}

// Resolve returns the entry for an external identifier. Unknown identifiers
// fail with NotFoundError; identifiers whose vendor-side object is known to
// be gone fail with StaleReferenceError.
func (r *Registry) Resolve(t geom.ObjectType, id geom.ID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[key(t, string(id))]
	if !ok {
		return nil, fea.Errorf(fea.NotFoundError, "registry", "no %s with id %q", t, id)
	}
	if e.Stale {
		return nil, fea.Errorf(fea.StaleReferenceError, "registry", "%s %q no longer exists in the vendor model", t, id)
	}
	return e, nil
}

// MarkStale flags an entry whose vendor-side object turned out to be gone.
// The entry stays; subsequent resolves fail explicitly.
func (r *Registry) MarkStale(t geom.ObjectType, id geom.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byID[key(t, string(id))]; ok {
		e.Stale = true
	}
}

// Len reports the number of entries, stale included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
