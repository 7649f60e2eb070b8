// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logs, panic recovery, OpenTelemetry spans and metrics,
// CORS, security headers and the upload rate limiter.
package middleware
