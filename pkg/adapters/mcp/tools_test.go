package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feamcp/feamcp/internal/logging"
	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/router"
)

// minimalAdapter satisfies fea.Adapter through an embedded nil interface;
// only the methods the router touches before dispatch matter here.
type minimalAdapter struct {
	fea.Adapter
}

func (minimalAdapter) Capabilities() fea.CapabilitySet { return fea.Caps() }
func (minimalAdapter) Software() fea.Software          { return fea.Software{Name: "NONE"} }

func TestToolTableMatchesRouter(t *testing.T) {
	r := router.New(minimalAdapter{}, logging.NewNop())

	byName := map[string]bool{}
	for _, def := range toolDefs {
		require.False(t, byName[def.Name], "duplicate tool %q", def.Name)
		byName[def.Name] = true
	}

	// One tool per routed operation, nothing extra, nothing missing.
	ops := r.Operations()
	assert.Len(t, toolDefs, len(ops))
	for _, op := range ops {
		assert.True(t, byName[op], "operation %q has no tool definition", op)
	}
}

func TestToolSchemasAreObjects(t *testing.T) {
	for _, def := range toolDefs {
		assert.Equal(t, "object", def.InputSchema.Type, "tool %q", def.Name)
		assert.NotEmpty(t, def.Description, "tool %q", def.Name)
	}
}
