// Package services implements the business logic layer of datacleaner.
// It sits between the outer surfaces (HTTP handlers, CLI) and the table
// operations in dataprocessing, so both surfaces run exactly the same pipeline.
//
// # Cleaning pipeline
//
// CleaningService.Clean runs these stages in order, checking the context
// between each:
//
//	load         parse the input file into a Table
//	deduplicate  drop rows equal to an earlier row
//	impute       numeric nulls to the column mean, the rest to the column mode
//	trim_outliers drop rows beyond 3 sigma, one numeric column at a time
//	render       heatmap of the original input, preview and report
//	persist      write every artifact into the run directory
//
// Every failure is an *errors.AppError carrying its kind. Present turns a
// result or error into the four fields shown to a person.
//
// # Progress
//
// A ProgressReporter is told about each finished stage and the final
// outcome. The WebSocket adapter implements it to feed browsers.
package services
