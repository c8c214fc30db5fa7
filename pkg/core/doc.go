// Package core defines the shared language of the Rosa question pipeline.
//
// This package contains:
//   - Filter entities (Condition, FilterObject) exchanged between pipeline stages
//   - The traffic Record and the RecordSource interface
//   - The vehicles table schema shared by the translator and the executor
//   - The typed error taxonomy surfaced to callers
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
