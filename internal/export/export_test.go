package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
	"streamscribe/internal/testsupport"
	"streamscribe/internal/transcript"
)

func newTranscribedJob(t *testing.T, store *queue.Store, outputDir string) *queue.Job {
	t.Helper()
	ctx := context.Background()
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")
	job.Status = queue.StatusTranscribed
	job.VideoID = "abc123"
	job.Title = "Sample Talk"
	job.Uploader = "Conference Channel"
	job.DurationSeconds = 100
	job.DetectedLanguage = "en"
	job.LastChunk = 1
	base := filepath.Join(outputDir, "sample")
	job.TextPath = base + ".txt"
	job.JSONPath = base + ".json"
	job.SRTPath = base + ".srt"
	if err := store.Update(ctx, job); err != nil {
		t.Fatal(err)
	}
	for i, text := range []string{"first chunk", "second chunk"} {
		seg := transcript.Segment{
			ChunkIndex: i,
			Start:      float64(i * 25),
			End:        float64(i*25 + 30),
			Text:       text,
			Language:   "en",
		}
		if err := store.InsertSegment(ctx, job.ID, seg); err != nil {
			t.Fatal(err)
		}
	}
	return job
}

func TestExecuteWritesOutputs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newTranscribedJob(t, store, cfg.Paths.OutputDir)

	// Leave a resume marker behind to verify cleanup.
	base := strings.TrimSuffix(job.TextPath, ".txt")
	markerPath := transcript.ResumePath(base)
	if err := transcript.WriteResume(markerPath, transcript.ResumeMarker{URL: job.URL, LastChunk: 1}); err != nil {
		t.Fatal(err)
	}

	exporter := NewExporter(cfg, store, logging.NewNop())
	ctx := context.Background()
	if err := exporter.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := exporter.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if job.Status != queue.StatusCompleted {
		t.Errorf("status = %s", job.Status)
	}

	data, err := os.ReadFile(job.JSONPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var doc transcript.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if doc.VideoInfo.Title != "Sample Talk" || doc.VideoInfo.VideoID != "abc123" {
		t.Errorf("video info = %+v", doc.VideoInfo)
	}
	if len(doc.Transcripts) != 2 {
		t.Errorf("transcripts = %d", len(doc.Transcripts))
	}
	if doc.ProcessingInfo.TotalChunks != 2 || doc.ProcessingInfo.ChunkDuration != 30 || doc.ProcessingInfo.OverlapDuration != 5 {
		t.Errorf("processing info = %+v", doc.ProcessingInfo)
	}

	srt, err := os.ReadFile(job.SRTPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(srt), "00:00:25,000 --> 00:00:55,000") {
		t.Errorf("srt missing second cue timing:\n%s", srt)
	}

	if _, err := os.Stat(markerPath); !os.IsNotExist(err) {
		t.Error("resume marker not removed after export")
	}
}

func TestExecuteRejectsEmptySegments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")
	job.JSONPath = filepath.Join(cfg.Paths.OutputDir, "empty.json")
	job.SRTPath = filepath.Join(cfg.Paths.OutputDir, "empty.srt")
	job.TextPath = filepath.Join(cfg.Paths.OutputDir, "empty.txt")

	exporter := NewExporter(cfg, store, logging.NewNop())
	if err := exporter.Execute(context.Background(), job); err == nil {
		t.Fatal("job without segments exported")
	}
}

func TestPrepareRejectsMissingPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")

	exporter := NewExporter(cfg, store, logging.NewNop())
	if err := exporter.Prepare(context.Background(), job); err == nil {
		t.Fatal("job without output paths accepted")
	}
}

func TestHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	exporter := NewExporter(cfg, store, logging.NewNop())

	if health := exporter.HealthCheck(context.Background()); !health.Ready {
		t.Errorf("unhealthy: %s", health.Detail)
	}
	cfg.Paths.OutputDir = ""
	if health := exporter.HealthCheck(context.Background()); health.Ready {
		t.Error("healthy without output dir")
	}
}
