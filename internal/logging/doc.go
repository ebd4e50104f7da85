// Package logging builds slog loggers with a human-readable console handler
// and a JSON handler, plus standardized attribute helpers and context-derived
// fields (job id, stage, correlation id) shared across the pipeline.
package logging
