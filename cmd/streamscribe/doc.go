// Package main hosts the StreamScribe CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot transcription with a terminal
// progress bar, queue management over the daemon's JSON-RPC socket (with a
// direct store fallback when the daemon is down), daemon lifecycle control,
// log tailing, and configuration scaffolding. It centralizes configuration
// resolution and socket discovery so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
