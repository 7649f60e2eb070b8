package files

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/internal/config"
	apperrors "datacleaner/internal/errors"
	"datacleaner/internal/shared/testutil"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir(), DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	logger, _ := testutil.NewTestLogger(t)
	return NewManager(paths, logger)
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name  string
		runID string
		valid bool
	}{
		{"generated", NewRunID(), true},
		{"empty", "", false},
		{"traversal", "../etc", false},
		{"uppercase", strings.ToUpper(NewRunID()), false},
		{"braced", "{" + NewRunID() + "}", false},
		{"garbage", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.runID)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
			}
		})
	}
}

func TestNewRun(t *testing.T) {
	m := newTestManager(t)

	first, err := m.NewRun()
	require.NoError(t, err)
	second, err := m.NewRun()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.DirExists(t, m.Paths().RunDir(first))
	assert.DirExists(t, m.Paths().RunDir(second))
}

func TestSaveUpload(t *testing.T) {
	m := newTestManager(t)
	runID := NewRunID()

	t.Run("stores under base name", func(t *testing.T) {
		path, err := m.SaveUpload(runID, "../../sneaky.csv", strings.NewReader("a,b\n1,2\n"), 1024)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(m.Paths().UploadDir(runID), "sneaky.csv"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
	})

	t.Run("exactly at limit", func(t *testing.T) {
		_, err := m.SaveUpload(runID, "limit.csv", bytes.NewReader(make([]byte, 16)), 16)
		assert.NoError(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := m.SaveUpload(runID, "big.csv", bytes.NewReader(make([]byte, 17)), 16)
		assert.True(t, errors.Is(err, ErrUploadTooLarge))
		assert.NoFileExists(t, m.Paths().UploadPath(runID, "big.csv"))
	})

	t.Run("unusable file names", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "/", "uploads/.."} {
			_, err := m.SaveUpload(runID, name, strings.NewReader("a\n1\n"), 16)
			assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err), "name %q", name)
		}
	})

	t.Run("invalid run", func(t *testing.T) {
		_, err := m.SaveUpload("..", "x.csv", strings.NewReader(""), 16)
		assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
	})
}

func TestArtifacts(t *testing.T) {
	m := newTestManager(t)
	runID, err := m.NewRun()
	require.NoError(t, err)

	path, err := m.WriteArtifact(runID, config.ReportFileName, []byte("# report"))
	require.NoError(t, err)
	assert.Equal(t, m.Paths().ReportPath(runID), path)

	got, err := m.RunArtifact(runID, config.ReportFileName)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = m.RunArtifact(runID, config.HeatmapFileName)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	_, err = m.RunArtifact(runID, "passwd")
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	_, err = m.RunArtifact("bogus", config.ReportFileName)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))

	_, err = m.WriteArtifact(runID, "other.txt", nil)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestRemoveRun(t *testing.T) {
	m := newTestManager(t)
	runID, err := m.NewRun()
	require.NoError(t, err)
	_, err = m.SaveUpload(runID, "in.csv", strings.NewReader("a\n1\n"), 1024)
	require.NoError(t, err)

	require.NoError(t, m.RemoveRun(runID))
	assert.NoDirExists(t, m.Paths().RunDir(runID))
	assert.NoDirExists(t, m.Paths().UploadDir(runID))

	// removing twice is fine
	assert.NoError(t, m.RemoveRun(runID))
}

func TestCleanupRuns(t *testing.T) {
	m := newTestManager(t)

	oldRun, err := m.NewRun()
	require.NoError(t, err)
	_, err = m.SaveUpload(oldRun, "in.csv", strings.NewReader("a\n"), 1024)
	require.NoError(t, err)
	freshRun, err := m.NewRun()
	require.NoError(t, err)

	// unrelated directories are never touched
	foreign := filepath.Join(m.Paths().OutputsDir, "keep-me")
	require.NoError(t, os.MkdirAll(foreign, 0755))

	past := time.Now().Add(-48 * time.Hour)
	for _, dir := range []string{m.Paths().RunDir(oldRun), m.Paths().UploadDir(oldRun), foreign} {
		require.NoError(t, os.Chtimes(dir, past, past))
	}

	removed, err := m.CleanupRuns(24 * time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.NoDirExists(t, m.Paths().RunDir(oldRun))
	assert.NoDirExists(t, m.Paths().UploadDir(oldRun))
	assert.DirExists(t, m.Paths().RunDir(freshRun))
	assert.DirExists(t, foreign)
}
