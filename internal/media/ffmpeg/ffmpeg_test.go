package ffmpeg

import (
	"context"
	"strings"
	"testing"
)

func TestChunkArgs(t *testing.T) {
	args := chunkArgs("https://cdn.example.com/audio", 25, 30, "/tmp/chunk_0001.wav")
	joined := strings.Join(args, " ")

	// Seek must precede the input so ffmpeg skips ahead in the stream.
	ssIdx := strings.Index(joined, "-ss 25.000")
	inIdx := strings.Index(joined, "-i https://cdn.example.com/audio")
	if ssIdx < 0 || inIdx < 0 || ssIdx > inIdx {
		t.Errorf("seek not placed before input: %s", joined)
	}

	for _, want := range []string{
		"-t 30.000",
		"-vn",
		"-acodec pcm_s16le",
		"-ar 16000",
		"-ac 1",
		"-f wav",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "/tmp/chunk_0001.wav" {
		t.Errorf("dest not last: %v", args)
	}
}

func TestChunkArgsFractionalWindow(t *testing.T) {
	args := chunkArgs("src", 612.5, 3.25, "out.wav")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-ss 612.500") || !strings.Contains(joined, "-t 3.250") {
		t.Errorf("fractional seconds mishandled: %s", joined)
	}
}

func TestExtractChunkRejectsBadInput(t *testing.T) {
	extractor := NewExtractor("")
	if err := extractor.ExtractChunk(context.Background(), "", 0, 30, "out.wav"); err == nil {
		t.Error("empty source accepted")
	}
	if err := extractor.ExtractChunk(context.Background(), "src", 0, 0, "out.wav"); err == nil {
		t.Error("zero duration accepted")
	}
}

func TestNewExtractorDefaultBinary(t *testing.T) {
	if e := NewExtractor("  "); e.binary != "ffmpeg" {
		t.Errorf("binary = %q", e.binary)
	}
}
