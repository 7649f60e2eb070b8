// Package app wires configuration, logging, telemetry, storage, the cleaning
// pipeline and the HTTP surface into a single Application.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, an optional YAML file and CLEANER_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Resolve and create the data, uploads, outputs and logs directories
//  4. Build the run store, retention janitor, progress hub and cleaning service
//  5. Mount the chi router and create the HTTP server
//
// # Graceful Shutdown
//
// Serve returns once its context is cancelled. In-flight requests are
// drained within the configured shutdown timeout, the janitor waits for a
// running sweep, WebSocket clients are closed and telemetry is flushed.
//
// The package never calls os.Exit; errors are returned to cmd/datacleaner.
package app
