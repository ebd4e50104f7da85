package services_test

import (
	"context"
	"errors"
	"testing"

	"streamscribe/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobID(ctx, 42)
	ctx = services.WithStage(ctx, "transcribing")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("job id = %d, %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribing" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-1" {
		t.Fatalf("request id = %q, %v", rid, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
}

func TestWrapTagsSentinel(t *testing.T) {
	err := services.Wrap(services.ErrExternalTool, "transcribe", "extract chunk", "ffmpeg failed", errors.New("exit status 1"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if services.IsRetryable(err) {
		t.Fatal("external tool errors are not retryable")
	}
	if !services.IsRetryable(services.Wrap(services.ErrTimeout, "asr", "transcribe", "", nil)) {
		t.Fatal("timeouts should be retryable")
	}
}
