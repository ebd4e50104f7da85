package ffprobe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResultDurationPrefersFormat(t *testing.T) {
	result := Result{
		Format:  Format{Duration: "123.5"},
		Streams: []Stream{{CodecType: "audio", Duration: "100.0"}},
	}
	if got := result.DurationSeconds(); got != 123.5 {
		t.Fatalf("DurationSeconds = %v, want 123.5", got)
	}
}

func TestResultDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "88.25"},
			{CodecType: "audio", Duration: "42.0"},
		},
	}
	if got := result.DurationSeconds(); got != 88.25 {
		t.Fatalf("DurationSeconds = %v, want 88.25", got)
	}
}

func TestAudioStreamCount(t *testing.T) {
	result := Result{Streams: []Stream{
		{CodecType: "audio"},
		{CodecType: "Audio"},
		{CodecType: "video"},
	}}
	if got := result.AudioStreamCount(); got != 2 {
		t.Fatalf("AudioStreamCount = %d, want 2", got)
	}
}

func TestInspectRunsStubBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub binary requires a shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := `#!/bin/sh
cat <<'EOF'
{"streams":[{"index":0,"codec_type":"audio","channels":2}],"format":{"duration":"61.7","format_name":"mp4"}}
EOF
`
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	duration, err := ProbeDuration(context.Background(), stub, "https://example.com/audio.m4a")
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if duration != 61.7 {
		t.Fatalf("duration = %v, want 61.7", duration)
	}
}

func TestInspectRejectsEmptySource(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty source")
	}
}
