package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"streamscribe/internal/services"
)

func TestPrettyHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("chunk transcribed",
		String(FieldComponent, "transcriber"),
		Int(FieldChunk, 3),
		Float64("start_seconds", 75),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO transcriber: chunk transcribed") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "chunk=3") || !strings.Contains(out, "start_seconds=75") {
		t.Fatalf("missing attrs in output: %q", out)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("metadata fetched", String("title", "A Long Title"))
	if !strings.Contains(buf.String(), `title="A Long Title"`) {
		t.Fatalf("expected quoted title, got %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record leaked through warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "WARN kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestWithContextAddsJobFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	ctx := services.WithJobID(context.Background(), 7)
	ctx = services.WithStage(ctx, "identifying")
	WithContext(ctx, logger).Info("stage started")

	out := buf.String()
	if !strings.Contains(out, "job_id=7") || !strings.Contains(out, "stage=identifying") {
		t.Fatalf("context fields missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled for all levels.
	logger.Error("discarded")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
