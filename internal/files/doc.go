// Package files manages the on-disk layout of cleaning runs.
//
// Every run gets a UUID and its own directory under the outputs root, so
// concurrent runs never overwrite each other's artifacts. Uploaded inputs
// live in a sibling directory keyed by the same ID. The Janitor removes
// both once they are older than the configured retention age.
package files
