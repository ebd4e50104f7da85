// Package language normalizes user-supplied language hints into the ISO
// 639-1 codes the transcription endpoint understands and renders display
// names for status output.
package language
