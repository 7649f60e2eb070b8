package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"datacleaner/internal/config"
	"datacleaner/internal/dataprocessing"
	apperrors "datacleaner/internal/errors"
	"datacleaner/internal/exporter"
	"datacleaner/internal/files"
	"datacleaner/internal/infrastructure"
	"datacleaner/internal/validation"
	"datacleaner/pkg/contracts/domain"
)

// CleaningService runs the cleaning pipeline and stores its artifacts
type CleaningService struct {
	manager   *files.Manager
	validator *validation.FileValidator
	writer    *exporter.CSVWriter
	tracer    trace.Tracer
	metrics   *infrastructure.CleaningMetrics
	progress  ProgressReporter
	logger    *slog.Logger
	now       func() time.Time
}

// CleaningOption configures optional collaborators of a CleaningService
type CleaningOption func(*CleaningService)

// WithTracer sets the tracer used for run and stage spans
func WithTracer(tracer trace.Tracer) CleaningOption {
	return func(s *CleaningService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments runs are recorded on
func WithMetrics(metrics *infrastructure.CleaningMetrics) CleaningOption {
	return func(s *CleaningService) {
		s.metrics = metrics
	}
}

// WithProgress sets the progress sink
func WithProgress(progress ProgressReporter) CleaningOption {
	return func(s *CleaningService) {
		if progress != nil {
			s.progress = progress
		}
	}
}

// NewCleaningService creates a cleaning service writing into manager's run directories
func NewCleaningService(manager *files.Manager, logger *slog.Logger, opts ...CleaningOption) *CleaningService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "cleaning_service"))

	s := &CleaningService{
		manager:   manager,
		validator: validation.NewFileValidator(logger),
		writer:    exporter.NewCSVWriter(logger),
		tracer:    tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		progress:  NopProgress{},
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean runs the pipeline on the file at inputPath in a new run directory
func (s *CleaningService) Clean(ctx context.Context, inputPath string) (*domain.CleaningResult, error) {
	return s.CleanRun(ctx, files.NewRunID(), inputPath)
}

// CleanRun runs the pipeline under a run ID the caller already allocated,
// e.g. to store an upload first. On failure the run's directories are removed
// and no result is returned.
func (s *CleaningService) CleanRun(ctx context.Context, runID, inputPath string) (*domain.CleaningResult, error) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, "cleaning.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("input.path", inputPath),
		))
	defer span.End()

	logger := infrastructure.LoggerWithContext(ctx, s.logger).With(slog.String("run_id", runID))

	result, err := s.run(ctx, logger, runID, inputPath, started)
	duration := s.now().Sub(started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordRun(ctx, string(apperrors.TypeOf(err)), duration)

		if apperrors.TypeOf(err) != apperrors.ErrTypeMissingInput {
			if rmErr := s.manager.RemoveRun(runID); rmErr != nil {
				logger.Warn("Failed to remove artifacts of failed run", slog.String("error", rmErr.Error()))
			}
		}
		logger.Error("Cleaning run failed",
			slog.String("error_code", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		s.progress.RunFailed(ctx, runID, err)
		return nil, err
	}

	result.Duration = duration
	s.metrics.RecordRun(ctx, "success", duration)
	span.SetAttributes(
		attribute.Int("rows.before", result.Before.Rows),
		attribute.Int("rows.after", result.After.Rows),
	)
	logger.Info("Cleaning run completed",
		slog.String("shape_before", result.Before.Shape()),
		slog.String("shape_after", result.After.Shape()),
		slog.Int("duplicates_removed", result.Removed.Duplicates),
		slog.Int("outliers_removed", result.Removed.Outliers),
		slog.Int("rows_removed", result.Removed.Total()),
		slog.Int("cells_imputed", result.ImputedCells),
		slog.Duration("duration", duration))
	s.progress.RunCompleted(ctx, result)
	return result, nil
}

func (s *CleaningService) run(ctx context.Context, logger *slog.Logger, runID, inputPath string, started time.Time) (*domain.CleaningResult, error) {
	if inputPath == "" {
		return nil, apperrors.NewMissingInputError()
	}
	if err := files.ValidateRunID(runID); err != nil {
		return nil, err
	}

	// Load
	var original *dataprocessing.Table
	err := s.stage(ctx, domain.StageLoad, func(context.Context) error {
		if err := s.validator.ValidateInputFile(inputPath); err != nil {
			return apperrors.NewParsingError("invalid input file", err)
		}
		t, err := dataprocessing.ParseFile(inputPath)
		if err != nil {
			return apperrors.NewParsingError("failed to parse input", err)
		}
		original = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.progress.StageCompleted(ctx, runID, domain.StageLoad, original.NumRows(), original.NumCols())

	before := dataprocessing.TakeSnapshot(original)
	logger.Debug("Input loaded",
		slog.String("path", inputPath),
		slog.String("shape", before.Shape()),
		slog.Int("missing", before.Missing),
		slog.Int("duplicates", before.Duplicates))

	cleaned := original.Clone()
	result := &domain.CleaningResult{
		RunID:     runID,
		InputPath: inputPath,
		Before:    before,
		StartedAt: started,
	}

	// Deduplicate
	err = s.stage(ctx, domain.StageDeduplicate, func(ctx context.Context) error {
		result.Removed.Duplicates = dataprocessing.Deduplicate(cleaned)
		s.metrics.RecordRemoved(ctx, string(domain.StageDeduplicate), result.Removed.Duplicates)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.progress.StageCompleted(ctx, runID, domain.StageDeduplicate, cleaned.NumRows(), cleaned.NumCols())

	// Impute
	err = s.stage(ctx, domain.StageImpute, func(ctx context.Context) error {
		numeric := dataprocessing.ImputeNumeric(cleaned)
		categorical := dataprocessing.ImputeCategorical(cleaned)
		result.ImputedCells = numeric + categorical.Filled
		result.DegenerateColumns = categorical.Degenerate
		s.metrics.RecordImputed(ctx, result.ImputedCells)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(result.DegenerateColumns) > 0 {
		logger.Warn("Columns without any values left missing",
			slog.Any("columns", result.DegenerateColumns))
	}
	s.progress.StageCompleted(ctx, runID, domain.StageImpute, cleaned.NumRows(), cleaned.NumCols())

	// Trim outliers
	err = s.stage(ctx, domain.StageTrim, func(ctx context.Context) error {
		result.Removed.Outliers = dataprocessing.TrimOutliers(cleaned)
		s.metrics.RecordRemoved(ctx, string(domain.StageTrim), result.Removed.Outliers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.progress.StageCompleted(ctx, runID, domain.StageTrim, cleaned.NumRows(), cleaned.NumCols())

	result.After = dataprocessing.TakeSnapshot(cleaned)

	// Render
	err = s.stage(ctx, domain.StageRender, func(context.Context) error {
		png, err := exporter.RenderMissingHeatmap(original.MissingMatrix(), original.Names())
		if err != nil {
			return apperrors.NewRenderError("failed to render heatmap", err)
		}
		result.HeatmapPNG = png
		result.PreviewHTML = exporter.RenderPreview(cleaned)
		result.Report = exporter.RenderReport(exporter.ReportData{
			Before:            result.Before,
			After:             result.After,
			Removed:           result.Removed,
			ImputedCells:      result.ImputedCells,
			DegenerateColumns: result.DegenerateColumns,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.progress.StageCompleted(ctx, runID, domain.StageRender, cleaned.NumRows(), cleaned.NumCols())

	// Persist
	err = s.stage(ctx, domain.StagePersist, func(context.Context) error {
		return s.persist(runID, cleaned, result)
	})
	if err != nil {
		return nil, err
	}
	s.progress.StageCompleted(ctx, runID, domain.StagePersist, cleaned.NumRows(), cleaned.NumCols())

	return result, nil
}

// stage checks for cancellation, then runs fn inside a child span
func (s *CleaningService) stage(ctx context.Context, stage domain.Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewCancelledError(err).WithContext("stage", string(stage))
	}

	ctx, span := s.tracer.Start(ctx, "cleaning."+string(stage))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *CleaningService) persist(runID string, cleaned *dataprocessing.Table, result *domain.CleaningResult) error {
	paths := s.manager.Paths()
	if err := s.validator.ValidateOutputDirectory(paths.RunDir(runID)); err != nil {
		return apperrors.NewStorageError("run directory is not writable", err)
	}

	outputPath := paths.OutputPath(runID)
	if err := s.writer.WriteTable(outputPath, cleaned); err != nil {
		return apperrors.NewStorageError("failed to write cleaned data", err)
	}
	result.OutputPath = outputPath

	heatmapPath, err := s.manager.WriteArtifact(runID, config.HeatmapFileName, result.HeatmapPNG)
	if err != nil {
		return err
	}
	result.HeatmapPath = heatmapPath

	if _, err := s.manager.WriteArtifact(runID, config.PreviewFileName, []byte(result.PreviewHTML)); err != nil {
		return err
	}
	if _, err := s.manager.WriteArtifact(runID, config.ReportFileName, []byte(result.Report)); err != nil {
		return err
	}
	return nil
}
