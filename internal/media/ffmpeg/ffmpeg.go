// Package ffmpeg shells out to ffmpeg for audio chunk extraction.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Extractor pulls fixed windows of audio out of a remote stream as mono
// 16kHz PCM WAV files, the input format the transcription endpoint expects.
type Extractor struct {
	binary string
}

// NewExtractor builds an Extractor. Binary defaults to "ffmpeg".
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

// chunkArgs builds the ffmpeg invocation for one window. Seeking before
// the input keeps ffmpeg from reading the stream up to the start position.
func chunkArgs(source string, startSeconds, durationSeconds float64, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(startSeconds),
		"-i", source,
		"-t", formatSeconds(durationSeconds),
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		dest,
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// ExtractChunk writes one audio window from source to dest.
func (e *Extractor) ExtractChunk(ctx context.Context, source string, startSeconds, durationSeconds float64, dest string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("extract chunk: empty source")
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("extract chunk: invalid duration %.3f", durationSeconds)
	}
	cmd := exec.CommandContext(ctx, e.binary, chunkArgs(source, startSeconds, durationSeconds, dest)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract chunk: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
