// Package dataprocessing holds the in-memory table and the cleaning stages
// applied to it.
//
// # Components
//
//  1. Parser: reads CSV, TSV or XLSX input into a Table, inferring column kinds
//  2. Processor: deduplication, mean/mode imputation and 3σ outlier trimming
//  3. Analytics: row/column/missing/duplicate snapshots of a Table
//
// # Data Flow
//
//	file → ParseFile → Table ─┬→ TakeSnapshot (before)
//	                          └→ Clone → Deduplicate → ImputeNumeric → ImputeCategorical
//	                                   → TrimOutliers → TakeSnapshot (after)
//
// Every stage mutates the Table it is given and reports what it changed.
// Callers that need the original keep a Clone.
package dataprocessing
