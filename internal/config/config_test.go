package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "FEA MCP", cfg.Server.Name)
	assert.Equal(t, "1.0.0", cfg.Server.Version)
	assert.Equal(t, SoftwareLUSAS, cfg.FEA.Software)
	assert.Equal(t, "21.1", cfg.FEA.SoftwareVersion())
}

func TestLoadFullFile(t *testing.T) {
	path := write(t, `
server:
  name: my-fea-server
  version: "2.3.0"
fea:
  software: ETABS
  version: "22.0"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-fea-server", cfg.Server.Name)
	assert.Equal(t, "2.3.0", cfg.Server.Version)
	assert.Equal(t, SoftwareETABS, cfg.FEA.Software)
	assert.Equal(t, "22.0", cfg.FEA.SoftwareVersion())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := write(t, `
fea:
  software: etabs
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FEA MCP", cfg.Server.Name)
	assert.Equal(t, SoftwareETABS, cfg.FEA.Software)
	assert.Equal(t, "21.1", cfg.FEA.SoftwareVersion())
}

func TestSoftwareNameNormalized(t *testing.T) {
	path := write(t, `
fea:
  software: " lusas "
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SoftwareLUSAS, cfg.FEA.Software)
}

func TestUnsupportedSoftware(t *testing.T) {
	path := write(t, `
fea:
  software: ANSYS
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported software")
}

func TestVersionNormalizedToOneDecimal(t *testing.T) {
	cases := map[string]string{
		"21":    "21.0",
		"21.1":  "21.1",
		"21.10": "21.1",
	}
	for in, want := range cases {
		path := write(t, "fea:\n  version: \""+in+"\"\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, want, cfg.FEA.SoftwareVersion(), "input %q", in)
	}
}

func TestBareFloatVersion(t *testing.T) {
	path := write(t, `
fea:
  software: LUSAS
  version: 21.1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "21.1", cfg.FEA.SoftwareVersion())
}

func TestMalformedYAML(t *testing.T) {
	path := write(t, "fea: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}
