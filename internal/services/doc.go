// Package services defines shared utilities consumed by the pipeline stages and
// the synthesis integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and narration
//     sources for logging.
//   - Structured error markers plus the Wrap helper that keep the failure class
//     reachable through errors.Is, and ExitCode which maps that class onto a
//     process exit status.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
