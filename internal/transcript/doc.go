// Package transcript holds the transcript data model shared across the
// pipeline: timed segments, the chunk plan that windows an audio stream,
// the TXT/JSON/SRT output writers, and the resume marker that lets an
// interrupted job continue from the next chunk.
package transcript
