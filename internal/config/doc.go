// Package config provides configuration loading and the on-disk directory
// layout for the data cleaner.
//
// # Configuration Sources
//
// Configuration is assembled in three layers, later layers winning:
//
//	1. Default() values
//	2. A YAML file (explicit --config path, else config.yaml or configs/config.yaml)
//	3. Environment variables prefixed with CLEANER_
//
// Examples:
//
//	CLEANER_SERVER_PORT=9090
//	CLEANER_LOGGING_LEVEL=debug
//	CLEANER_RETENTION_MAX_AGE=6h
//	CLEANER_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:8080
//
// The merged struct is checked with validator tags before it is returned.
//
// # Path Management
//
// Paths resolves the data and log directories against BaseDir (the
// executable directory when unset) and names every per-run artifact:
//
//	paths, _ := cfg.ResolvePaths()
//	out := paths.OutputPath(runID) // <data>/outputs/<runID>/cleaned_data.csv
package config
