package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()

	paths, err := NewPaths(PathsConfig{BaseDir: base, DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "uploads"), paths.UploadsDir)
	assert.Equal(t, filepath.Join(base, "data", "outputs"), paths.OutputsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestNewPaths_AbsoluteDirsIgnoreBase(t *testing.T) {
	base := t.TempDir()
	logs := filepath.Join(t.TempDir(), "elsewhere")

	paths, err := NewPaths(PathsConfig{BaseDir: base, DataDir: "data", LogsDir: logs})
	require.NoError(t, err)

	assert.Equal(t, logs, paths.LogsDir)
}

func TestNewPaths_DefaultsToExecutableDir(t *testing.T) {
	paths, err := NewPaths(PathsConfig{DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.BaseDir))
}

func TestPaths_RunArtifacts(t *testing.T) {
	paths, err := NewPaths(PathsConfig{BaseDir: t.TempDir(), DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	runID := "2d1f4c1e-8a0b-4c8e-9f3a-0c6f1d2e3b4a"
	runDir := filepath.Join(paths.OutputsDir, runID)

	assert.Equal(t, runDir, paths.RunDir(runID))
	assert.Equal(t, filepath.Join(runDir, "cleaned_data.csv"), paths.OutputPath(runID))
	assert.Equal(t, filepath.Join(runDir, "missing_heatmap.png"), paths.HeatmapPath(runID))
	assert.Equal(t, filepath.Join(runDir, "preview.html"), paths.PreviewPath(runID))
	assert.Equal(t, filepath.Join(runDir, "report.md"), paths.ReportPath(runID))
	assert.Equal(t, filepath.Join(paths.LogsDir, "datacleaner.log"), paths.GetLogPath(LogFileName))
}

func TestPaths_UploadPathStripsDirectories(t *testing.T) {
	paths, err := NewPaths(PathsConfig{BaseDir: t.TempDir(), DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	got := paths.UploadPath("run", "../../etc/passwd")

	assert.Equal(t, filepath.Join(paths.UploadsDir, "run", "passwd"), got)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths, err := NewPaths(PathsConfig{BaseDir: t.TempDir(), DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.UploadsDir, paths.OutputsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
