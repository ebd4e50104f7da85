package identify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"streamscribe/internal/logging"
	"streamscribe/internal/media/ytdlp"
	"streamscribe/internal/queue"
	"streamscribe/internal/services"
	"streamscribe/internal/testsupport"
)

type stubFetcher struct {
	info ytdlp.VideoInfo
	err  error
}

func (s stubFetcher) FetchInfo(ctx context.Context, url string) (ytdlp.VideoInfo, error) {
	return s.info, s.err
}

func TestExecutePopulatesJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")

	fetcher := stubFetcher{info: ytdlp.VideoInfo{
		VideoID:         "abc123",
		Title:           "Sample Talk",
		Uploader:        "Conference Channel",
		DurationSeconds: 615.5,
		AudioURL:        "https://cdn.example.com/audio",
	}}
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), fetcher)

	ctx := context.Background()
	if err := identifier.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := identifier.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if job.Status != queue.StatusIdentified {
		t.Errorf("status = %s", job.Status)
	}
	if job.Title != "Sample Talk" || job.VideoID != "abc123" || job.AudioURL == "" {
		t.Errorf("metadata not applied: %+v", job)
	}
	if !strings.HasSuffix(job.TextPath, ".txt") || !strings.HasSuffix(job.JSONPath, ".json") || !strings.HasSuffix(job.SRTPath, ".srt") {
		t.Errorf("output paths = %q %q %q", job.TextPath, job.JSONPath, job.SRTPath)
	}
	if !strings.HasPrefix(job.TextPath, cfg.Paths.OutputDir) {
		t.Errorf("text path %q outside output dir %q", job.TextPath, cfg.Paths.OutputDir)
	}
	if job.ProgressPercent != 100 {
		t.Errorf("progress = %v", job.ProgressPercent)
	}
}

func TestExecuteKeepsExistingOutputPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")
	job.TextPath = "/existing/talk.txt"
	job.JSONPath = "/existing/talk.json"
	job.SRTPath = "/existing/talk.srt"

	fetcher := stubFetcher{info: ytdlp.VideoInfo{
		Title: "Sample Talk", DurationSeconds: 60, AudioURL: "https://cdn.example.com/audio",
	}}
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), fetcher)

	if err := identifier.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if job.TextPath != "/existing/talk.txt" {
		t.Errorf("resume path replaced: %q", job.TextPath)
	}
}

func TestExecuteJobOutputDirOverridesConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")
	job.OutputDir = t.TempDir()

	fetcher := stubFetcher{info: ytdlp.VideoInfo{
		Title: "Sample", DurationSeconds: 60, AudioURL: "https://cdn.example.com/audio",
	}}
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), fetcher)

	if err := identifier.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(job.TextPath, job.OutputDir) {
		t.Errorf("text path %q ignores job output dir %q", job.TextPath, job.OutputDir)
	}
}

func TestExecuteWrapsFetchFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")

	fetcher := stubFetcher{err: errors.New("network unreachable")}
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), fetcher)

	err := identifier.Execute(context.Background(), job)
	if err == nil {
		t.Fatal("fetch failure not surfaced")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Errorf("error not marked external tool: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("yt-dlp"))
	store := testsupport.MustOpenStore(t, cfg)
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), stubFetcher{})

	if health := identifier.HealthCheck(context.Background()); !health.Ready {
		t.Errorf("stubbed binary reported unhealthy: %s", health.Detail)
	}

	cfg.YtDlp.Binary = "definitely-not-installed-anywhere"
	if health := identifier.HealthCheck(context.Background()); health.Ready {
		t.Error("missing binary reported healthy")
	}
}

func TestExecuteProbesMissingDuration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub binary requires a shell")
	}
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=live0001")

	binDir := t.TempDir()
	script := `#!/bin/sh
cat <<'JSON'
{"format":{"duration":"1834.2"}}
JSON
`
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	fetcher := stubFetcher{info: ytdlp.VideoInfo{
		VideoID:  "live0001",
		Title:    "Live Session",
		AudioURL: "https://cdn.example.com/live.m3u8",
	}}
	identifier := NewIdentifierWithDependencies(cfg, store, logging.NewNop(), fetcher)

	if err := identifier.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if job.DurationSeconds != 1834.2 {
		t.Errorf("duration = %v, want 1834.2", job.DurationSeconds)
	}
	if job.Status != queue.StatusIdentified {
		t.Errorf("status = %s", job.Status)
	}
}
