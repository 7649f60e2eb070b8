package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Artifact file names inside a run directory. The names are constant; the
// run directory is unique per invocation.
const (
	CleanedFileName = "cleaned_data.csv"
	HeatmapFileName = "missing_heatmap.png"
	PreviewFileName = "preview.html"
	ReportFileName  = "report.md"
	LogFileName     = "datacleaner.log"
)

// Paths contains all the application paths.
//
// Layout under BaseDir:
//
//	data/
//	  uploads/<runID>/<file>   (inputs received over HTTP)
//	  outputs/<runID>/         (cleaned_data.csv, missing_heatmap.png, preview.html, report.md)
//	logs/
type Paths struct {
	BaseDir    string
	DataDir    string
	UploadsDir string
	OutputsDir string
	LogsDir    string
}

// NewPaths resolves cfg into absolute directories
func NewPaths(cfg PathsConfig) (*Paths, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		exeDir, err := executableDir()
		if err != nil {
			return nil, err
		}
		baseDir = exeDir
	}

	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	dataDir := resolve(baseDir, cfg.DataDir)
	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		UploadsDir: filepath.Join(dataDir, "uploads"),
		OutputsDir: filepath.Join(dataDir, "outputs"),
		LogsDir:    resolve(baseDir, cfg.LogsDir),
	}, nil
}

// executableDir returns the directory containing the running binary
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.UploadsDir,
		p.OutputsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RunDir returns the output directory of a cleaning run
func (p *Paths) RunDir(runID string) string {
	return filepath.Join(p.OutputsDir, runID)
}

// OutputPath returns the cleaned CSV path of a run
func (p *Paths) OutputPath(runID string) string {
	return filepath.Join(p.RunDir(runID), CleanedFileName)
}

// HeatmapPath returns the heatmap PNG path of a run
func (p *Paths) HeatmapPath(runID string) string {
	return filepath.Join(p.RunDir(runID), HeatmapFileName)
}

// PreviewPath returns the preview HTML path of a run
func (p *Paths) PreviewPath(runID string) string {
	return filepath.Join(p.RunDir(runID), PreviewFileName)
}

// ReportPath returns the report markdown path of a run
func (p *Paths) ReportPath(runID string) string {
	return filepath.Join(p.RunDir(runID), ReportFileName)
}

// UploadDir returns the directory holding a run's uploaded input
func (p *Paths) UploadDir(runID string) string {
	return filepath.Join(p.UploadsDir, runID)
}

// UploadPath returns where an uploaded file for a run is stored.
// Only the base name of filename is used.
func (p *Paths) UploadPath(runID, filename string) string {
	return filepath.Join(p.UploadDir(runID), filepath.Base(filename))
}

// GetLogPath returns the path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("uploads_dir", p.UploadsDir),
		slog.String("outputs_dir", p.OutputsDir),
		slog.String("logs_dir", p.LogsDir),
	)
}
