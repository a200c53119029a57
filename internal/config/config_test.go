package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches the working directory to a fresh temp dir so Load
// does not pick up a real config file.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultExcludePatterns, cfg.ExcludePatterns)
	assert.Equal(t, DefaultDisplayWidth, cfg.Display.Width)
	assert.Equal(t, "gocovmerge", cfg.Tools.Gocovmerge)
}

func TestLoad_FromFile(t *testing.T) {
	dir := chdirTemp(t)

	configContent := `
exclude_patterns:
  - 'mock_.*\.go'
display:
  width: 80
tools:
  gocovmerge: /opt/tools/gocovmerge
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "covreport.yaml"), []byte(configContent), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{`mock_.*\.go`}, cfg.ExcludePatterns)
	assert.Equal(t, 80, cfg.Display.Width)
	assert.Equal(t, "/opt/tools/gocovmerge", cfg.Tools.Gocovmerge)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "covreport.yaml"), []byte("display:\n  width: 120\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Display.Width)
	assert.Equal(t, DefaultExcludePatterns, cfg.ExcludePatterns)
	assert.Equal(t, "gocovmerge", cfg.Tools.Gocovmerge)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "covreport.yaml"), []byte(":\t:::not yaml"), 0644))

	_, err := Load()
	assert.Error(t, err)
}
