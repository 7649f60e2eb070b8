package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDirectories(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	for i, name := range []string{"newest", "oldest", "middle"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(dir, 0755))
		mod := now.Add(-time.Duration([]int{1, 3, 2}[i]) * time.Hour)
		require.NoError(t, os.Chtimes(dir, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0644))

	dirs, err := ListDirectories(root)
	require.NoError(t, err)

	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.Name
		assert.True(t, d.IsDir)
	}
	assert.Equal(t, []string{"oldest", "middle", "newest"}, names)

	expired, err := FindExpiredDirectories(root, now.Add(-90*time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, "oldest", expired[0].Name)
	assert.Equal(t, "middle", expired[1].Name)
}

func TestListDirectoriesMissingRoot(t *testing.T) {
	dirs, err := ListDirectories(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Empty(t, dirs)
}
