// Package http implements the HTTP handlers of datacleaner.
//
// Handlers are thin: they decode the request, call a service and render the
// result with chi/render. Every error goes through errors.ErrorHandler so
// clients always receive RFC 7807 problem details with an error_code member.
//
// Routes, mounted under /api by the app package:
//
//	POST /clean                       multipart upload (field "file"), runs the pipeline
//	GET  /runs/{runID}/download       cleaned CSV as an attachment
//	GET  /runs/{runID}/heatmap.png    missing value heatmap of the input
//	GET  /runs/{runID}/preview        first rows of the result as an HTML fragment
//	GET  /runs/{runID}/report         report markdown
//	GET  /health, /version
package http
