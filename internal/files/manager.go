package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"datacleaner/internal/config"
	apperrors "datacleaner/internal/errors"
)

// ErrUploadTooLarge is returned by SaveUpload when the input exceeds the limit
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// artifactNames are the only file names RunArtifact will resolve
var artifactNames = map[string]bool{
	config.CleanedFileName: true,
	config.HeatmapFileName: true,
	config.PreviewFileName: true,
	config.ReportFileName:  true,
}

// Manager owns the run and upload directories
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	return &Manager{
		paths:  paths,
		logger: logger.With(slog.String("component", "file_manager")),
		now:    time.Now,
	}
}

// Paths returns the directory layout the manager works in
func (m *Manager) Paths() *config.Paths {
	return m.paths
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.New().String()
}

// ValidateRunID accepts only canonical UUID strings, which keeps run IDs
// usable as single path elements
func ValidateRunID(runID string) error {
	id, err := uuid.Parse(runID)
	if err != nil || id.String() != runID {
		return apperrors.NewAppValidationError("invalid run id").WithContext("run_id", runID)
	}
	return nil
}

// NewRun allocates a run ID and creates its output directory
func (m *Manager) NewRun() (string, error) {
	runID := NewRunID()
	if err := os.MkdirAll(m.paths.RunDir(runID), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create run directory", err)
	}

	m.logger.Debug("Run directory created", slog.String("run_id", runID))
	return runID, nil
}

// SaveUpload copies r into the upload directory of runID under the base name
// of filename, refusing inputs larger than maxBytes
func (m *Manager) SaveUpload(runID, filename string, r io.Reader, maxBytes int64) (string, error) {
	if err := ValidateRunID(runID); err != nil {
		return "", err
	}
	switch filepath.Base(filename) {
	case ".", "..", string(filepath.Separator):
		return "", apperrors.NewAppValidationError(fmt.Sprintf("invalid upload file name %q", filename))
	}

	path := m.paths.UploadPath(runID, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create upload directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create upload file", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		os.Remove(path)
		return "", apperrors.NewStorageError("failed to store upload", err)
	case n > maxBytes:
		os.Remove(path)
		return "", ErrUploadTooLarge
	case closeErr != nil:
		os.Remove(path)
		return "", apperrors.NewStorageError("failed to store upload", closeErr)
	}

	m.logger.Info("Upload stored",
		slog.String("run_id", runID),
		slog.String("path", path),
		slog.Int64("size_bytes", n))
	return path, nil
}

// WriteArtifact writes data as the named artifact of runID and returns its path
func (m *Manager) WriteArtifact(runID, name string, data []byte) (string, error) {
	if !artifactNames[name] {
		return "", apperrors.NewAppValidationError(fmt.Sprintf("unknown artifact %q", name))
	}

	dir := m.paths.RunDir(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create run directory", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to write %s", name), err)
	}
	return path, nil
}

// RunArtifact resolves the path of an existing artifact of runID
func (m *Manager) RunArtifact(runID, name string) (string, error) {
	if err := ValidateRunID(runID); err != nil {
		return "", err
	}
	if !artifactNames[name] {
		return "", apperrors.NewNotFoundError("artifact")
	}

	path := filepath.Join(m.paths.RunDir(runID), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", apperrors.NewNotFoundError("run artifact").
			WithContext("run_id", runID).
			WithContext("artifact", name)
	}
	return path, nil
}

// RemoveRun deletes the output and upload directories of runID
func (m *Manager) RemoveRun(runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}

	var errs []error
	for _, dir := range []string{m.paths.RunDir(runID), m.paths.UploadDir(runID)} {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return apperrors.NewStorageError("failed to remove run", err)
	}

	m.logger.Debug("Run removed", slog.String("run_id", runID))
	return nil
}

// CleanupRuns removes run and upload directories older than maxAge and
// returns how many directories were deleted
func (m *Manager) CleanupRuns(maxAge time.Duration) (int, error) {
	cutoff := m.now().Add(-maxAge)
	removed := 0
	var errs []error

	for _, root := range []string{m.paths.OutputsDir, m.paths.UploadsDir} {
		expired, err := FindExpiredDirectories(root, cutoff)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, dir := range expired {
			if ValidateRunID(dir.Name) != nil {
				continue
			}
			if err := os.RemoveAll(dir.Path); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}

	m.logger.Info("Expired runs cleaned up",
		slog.Int("removed", removed),
		slog.Duration("max_age", maxAge))

	if err := errors.Join(errs...); err != nil {
		return removed, apperrors.NewStorageError("failed to clean up runs", err)
	}
	return removed, nil
}
