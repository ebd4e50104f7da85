// Package preflight runs startup checks for directories, external binaries,
// and the transcription endpoint so problems surface before processing
// begins.
package preflight
