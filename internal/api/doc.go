// Package api defines the transport-friendly representations of queue jobs
// and daemon status shared by the IPC protocol and CLI output.
//
// Keep wire-facing shapes here so the JSON contract stays stable while the
// internal queue models evolve.
package api
