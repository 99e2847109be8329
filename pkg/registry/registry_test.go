package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/geom"
)

func TestObservePassThrough(t *testing.T) {
	r := New()

	id := r.Observe(geom.TypePoint, "42", nil)
	assert.Equal(t, geom.ID("42"), id)

	e, err := r.Resolve(geom.TypePoint, id)
	require.NoError(t, err)
	assert.Equal(t, "42", e.Native)
	assert.Equal(t, geom.TypePoint, e.Type)
}

func TestObserveIsIdempotent(t *testing.T) {
	r := New()

	first := r.Observe(geom.TypeLine, "7", nil)
	second := r.Observe(geom.TypeLine, "7", nil)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestTypeScopedIdentifiers(t *testing.T) {
	r := New()

	// LUSAS numbers points and lines independently, so the same decimal key
	// can exist under both types.
	pid := r.Observe(geom.TypePoint, "1", nil)
	lid := r.Observe(geom.TypeLine, "1", nil)
	assert.Equal(t, pid, lid)

	_, err := r.Resolve(geom.TypePoint, pid)
	assert.NoError(t, err)
	_, err = r.Resolve(geom.TypeLine, lid)
	assert.NoError(t, err)

	_, err = r.Resolve(geom.TypeSurface, pid)
	assert.True(t, fea.IsCode(err, fea.NotFoundError))
}

func TestIssueWrapsUnstableHandles(t *testing.T) {
	r := New()

	handle := struct{ ptr int }{ptr: 7}
	id := r.Issue(geom.TypeVolume, handle)
	require.NotEmpty(t, id)

	e, err := r.Resolve(geom.TypeVolume, id)
	require.NoError(t, err)
	assert.Equal(t, handle, e.Ref)
	assert.Empty(t, e.Native)

	other := r.Issue(geom.TypeVolume, handle)
	assert.NotEqual(t, id, other)
}

func TestResolveUnknown(t *testing.T) {
	r := New()

	_, err := r.Resolve(geom.TypePoint, "nope")
	assert.True(t, fea.IsCode(err, fea.NotFoundError))
}

func TestMarkStale(t *testing.T) {
	r := New()
	id := r.Observe(geom.TypeSurface, "3", nil)

	r.MarkStale(geom.TypeSurface, id)
	_, err := r.Resolve(geom.TypeSurface, id)
	assert.True(t, fea.IsCode(err, fea.StaleReferenceError))

	// The entry is never evicted; the failure stays explicit.
	assert.Equal(t, 1, r.Len())

	// Re-observing the same native key clears the stale mark.
	again := r.Observe(geom.TypeSurface, "3", nil)
	assert.Equal(t, id, again)
	_, err = r.Resolve(geom.TypeSurface, id)
	assert.NoError(t, err)
}
