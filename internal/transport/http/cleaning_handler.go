package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"datacleaner/internal/config"
	apierrors "datacleaner/internal/errors"
	"datacleaner/internal/files"
	"datacleaner/pkg/contracts/domain"
)

// uploadField is the multipart field carrying the input file
const uploadField = "file"

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file
const multipartMemory = 8 << 20

// CleanResponse is the JSON body of a successful POST /clean
type CleanResponse struct {
	RunID             string               `json:"run_id"`
	Report            string               `json:"report"`
	Before            domain.Snapshot      `json:"before"`
	After             domain.Snapshot      `json:"after"`
	Removed           domain.RemovalCounts `json:"removed"`
	ImputedCells      int                  `json:"imputed_cells"`
	DegenerateColumns []string             `json:"degenerate_columns,omitempty"`
	PreviewHTML       string               `json:"preview_html"`
	HeatmapURL        string               `json:"heatmap_url"`
	DownloadURL       string               `json:"download_url"`
	DurationMS        int64                `json:"duration_ms"`
}

// CleaningHandler serves the cleaning endpoints
type CleaningHandler struct {
	service      CleaningServiceInterface
	store        RunStore
	maxUpload    int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCleaningHandler creates a new cleaning handler
func NewCleaningHandler(service CleaningServiceInterface, store RunStore, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CleaningHandler {
	return &CleaningHandler{
		service:      service,
		store:        store,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("component", "cleaning_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the cleaning routes. limit wraps only the upload route;
// it may be nil.
func (h *CleaningHandler) Routes(limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/clean", h.Clean)
	})

	r.Route("/runs/{runID}", func(r chi.Router) {
		r.Use(h.RunCtx)
		r.Get("/download", h.Download)
		r.Get("/heatmap.png", h.Heatmap)
		r.Get("/preview", h.Preview)
		r.Get("/report", h.Report)
	})

	return r
}

// RunCtx rejects run IDs that are not canonical UUIDs
func (h *CleaningHandler) RunCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := files.ValidateRunID(chi.URLParam(r, "runID")); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Clean handles POST /clean
func (h *CleaningHandler) Clean(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	// multipart framing adds a little on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartMemory)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			h.errorHandler.HandleError(w, r, apierrors.NewMissingInputError())
		default:
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadField, err.Error()))
		}
		return
	}
	defer file.Close()

	runID := files.NewRunID()
	path, err := h.store.SaveUpload(runID, header.Filename, file, h.maxUpload)
	if err != nil {
		if errors.Is(err, files.ErrUploadTooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "cleaning upload",
		slog.String("run_id", runID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	result, err := h.service.CleanRun(ctx, runID, path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	base := "/api/runs/" + url.PathEscape(result.RunID)
	render.JSON(w, r, CleanResponse{
		RunID:             result.RunID,
		Report:            result.Report,
		Before:            result.Before,
		After:             result.After,
		Removed:           result.Removed,
		ImputedCells:      result.ImputedCells,
		DegenerateColumns: result.DegenerateColumns,
		PreviewHTML:       result.PreviewHTML,
		HeatmapURL:        base + "/heatmap.png",
		DownloadURL:       base + "/download",
		DurationMS:        result.Duration.Milliseconds(),
	})
}

// Download handles GET /runs/{runID}/download
func (h *CleaningHandler) Download(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", config.CleanedFileName))
	h.serveArtifact(w, r, config.CleanedFileName, "text/csv; charset=utf-8")
}

// Heatmap handles GET /runs/{runID}/heatmap.png
func (h *CleaningHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, config.HeatmapFileName, "image/png")
}

// Preview handles GET /runs/{runID}/preview
func (h *CleaningHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, config.PreviewFileName, "text/html; charset=utf-8")
}

// Report handles GET /runs/{runID}/report
func (h *CleaningHandler) Report(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, config.ReportFileName, "text/markdown; charset=utf-8")
}

func (h *CleaningHandler) serveArtifact(w http.ResponseWriter, r *http.Request, name, contentType string) {
	runID := chi.URLParam(r, "runID")
	path, err := h.store.RunArtifact(runID, name)
	if err != nil {
		w.Header().Del("Content-Disposition")
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}
