package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/internal/shared/testutil"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "data.csv", testutil.SampleCSV)
			},
		},
		{
			name: "upper case extension",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "DATA.CSV", testutil.SampleCSV)
			},
		},
		{
			name: "tsv file",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "data.tsv", "a\tb\n1\t2\n")
			},
		},
		{
			name: "empty file passes",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "empty.csv", "")
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "folder.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "image.png", "PNG")
			},
			wantErr:       true,
			errorContains: "unsupported file type .png",
		},
		{
			name: "no extension",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteFixture(t, t.TempDir(), "README", "text")
			},
			wantErr:       true,
			errorContains: "has no extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			err := v.ValidateInputFile(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file must be removed")
	})

	t.Run("path is a file", func(t *testing.T) {
		file := testutil.WriteFixture(t, t.TempDir(), "taken", "x")
		err := v.ValidateOutputDirectory(file)
		assert.Error(t, err)
	})
}
