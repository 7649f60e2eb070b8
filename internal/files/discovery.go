package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileInfo represents information about a discovered file or directory
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// ListDirectories lists the subdirectories of dir, oldest first.
// A missing dir yields an empty list.
func ListDirectories(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var dirs []FileInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			IsDir:   true,
		})
	}

	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].ModTime.Before(dirs[j].ModTime)
	})
	return dirs, nil
}

// FindExpiredDirectories returns the subdirectories of dir last modified
// before cutoff
func FindExpiredDirectories(dir string, cutoff time.Time) ([]FileInfo, error) {
	dirs, err := ListDirectories(dir)
	if err != nil {
		return nil, err
	}

	var expired []FileInfo
	for _, d := range dirs {
		if d.ModTime.Before(cutoff) {
			expired = append(expired, d)
		}
	}
	return expired, nil
}
