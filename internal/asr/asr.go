// Package asr sends audio chunks to a speech-to-text backend.
package asr

import "context"

// Options are per-request transcription parameters. Zero-value fields are
// omitted from the request so servers fall back to their own defaults.
type Options struct {
	Language                string
	Temperature             float64
	NoSpeechThreshold       float64
	ConditionOnPreviousText *bool
}

// Result is the transcription of one audio chunk.
type Result struct {
	Text     string
	Language string
	Duration float64
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error)
	Name() string
	Model() string
}
