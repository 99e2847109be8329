package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFileTees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feamcp.log")

	logger, closer, err := NewWithFile(0, path)
	require.NoError(t, err)
	logger.Info("model opened", "error", "none")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model opened")
	// The error key is rewritten on every handler.
	assert.Contains(t, string(data), "err=none")
	assert.NotContains(t, string(data), "error=none")
}

func TestNopLoggerDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error("ignored", "error", "x")
	})
}
