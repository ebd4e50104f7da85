package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streamscribe/internal/asr"
	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
	"streamscribe/internal/testsupport"
	"streamscribe/internal/transcript"
)

type stubExtractor struct {
	calls []float64
	fail  map[int]bool
}

func (s *stubExtractor) ExtractChunk(ctx context.Context, source string, start, duration float64, dest string) error {
	index := len(s.calls)
	s.calls = append(s.calls, start)
	if s.fail != nil && s.fail[index] {
		return errors.New("ffmpeg exited 1")
	}
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

type stubProvider struct {
	transcribed int
	failAt      int
	cancelAfter int
	cancel      context.CancelFunc
	silentAt    int
}

func newStubProvider() *stubProvider {
	return &stubProvider{failAt: -1, cancelAfter: -1, silentAt: -1}
}

func (s *stubProvider) Transcribe(ctx context.Context, audioPath string, opts asr.Options) (*asr.Result, error) {
	index := s.transcribed
	s.transcribed++
	if s.cancelAfter >= 0 && index == s.cancelAfter && s.cancel != nil {
		s.cancel()
		return nil, ctx.Err()
	}
	if s.failAt >= 0 && index == s.failAt {
		return nil, errors.New("whisper API error (status 500)")
	}
	if s.silentAt >= 0 && index == s.silentAt {
		return &asr.Result{Text: "   "}, nil
	}
	return &asr.Result{Text: fmt.Sprintf("chunk %d text", index), Language: "en", Duration: 30}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "test" }

func newIdentifiedJob(t *testing.T, store *queue.Store, outputDir string, durationSeconds float64) *queue.Job {
	t.Helper()
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")
	job.Status = queue.StatusIdentified
	job.Title = "Sample Talk"
	job.DurationSeconds = durationSeconds
	job.AudioURL = "https://cdn.example.com/audio"
	base := filepath.Join(outputDir, "sample")
	job.TextPath = base + ".txt"
	job.JSONPath = base + ".json"
	job.SRTPath = base + ".srt"
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatalf("update job: %v", err)
	}
	return job
}

func TestExecuteTranscribesAllChunks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	// 100s at 30/5 gives windows starting at 0, 25, 50, 75.
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	extractor := &stubExtractor{}
	provider := newStubProvider()
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if job.Status != queue.StatusTranscribed {
		t.Errorf("status = %s", job.Status)
	}
	if job.LastChunk != 3 {
		t.Errorf("last chunk = %d, want 3", job.LastChunk)
	}
	if job.DetectedLanguage != "en" {
		t.Errorf("detected language = %q", job.DetectedLanguage)
	}
	wantStarts := []float64{0, 25, 50, 75}
	if len(extractor.calls) != len(wantStarts) {
		t.Fatalf("extracted %d chunks, want %d", len(extractor.calls), len(wantStarts))
	}
	for i, start := range wantStarts {
		if extractor.calls[i] != start {
			t.Errorf("chunk %d extracted at %v, want %v", i, extractor.calls[i], start)
		}
	}

	segments, err := store.SegmentsForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(segments) != 4 {
		t.Fatalf("persisted %d segments, want 4", len(segments))
	}

	data, err := os.ReadFile(job.TextPath)
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("txt has %d lines, want 4: %q", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "[00:00:25 - 00:00:55]") {
		t.Errorf("second line = %q", lines[1])
	}

	base := strings.TrimSuffix(job.TextPath, ".txt")
	marker, found, err := transcript.LoadResume(transcript.ResumePath(base))
	if err != nil || !found {
		t.Fatalf("resume marker missing: %v", err)
	}
	if marker.LastChunk != 3 || marker.TotalSeconds != 100 {
		t.Errorf("marker = %+v", marker)
	}
}

func TestExecuteResumesFromLastChunk(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)
	job.LastChunk = 1
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	extractor := &stubExtractor{}
	provider := newStubProvider()
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Only chunks 2 and 3 remain.
	if len(extractor.calls) != 2 {
		t.Fatalf("extracted %d chunks, want 2", len(extractor.calls))
	}
	if extractor.calls[0] != 50 {
		t.Errorf("first resumed chunk starts at %v, want 50", extractor.calls[0])
	}
}

func TestExecuteSkipsFailedChunk(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	extractor := &stubExtractor{}
	provider := newStubProvider()
	provider.failAt = 1
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if job.Status != queue.StatusTranscribed {
		t.Errorf("status = %s", job.Status)
	}
	segments, err := store.SegmentsForJob(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Errorf("persisted %d segments, want 3 (one skipped)", len(segments))
	}
	for _, seg := range segments {
		if seg.ChunkIndex == 1 {
			t.Errorf("failed chunk persisted: %+v", seg)
		}
	}
}

func TestExecuteSkipsSilentChunk(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	extractor := &stubExtractor{}
	provider := newStubProvider()
	provider.silentAt = 0
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := tr.Execute(ctx, job); err != nil {
		t.Fatal(err)
	}

	segments, err := store.SegmentsForJob(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Errorf("persisted %d segments, want 3", len(segments))
	}
	// The job still advances past the silent window.
	if job.LastChunk != 3 {
		t.Errorf("last chunk = %d", job.LastChunk)
	}
}

func TestExecuteSavesProgressOnCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	ctx, cancel := context.WithCancel(context.Background())
	extractor := &stubExtractor{}
	provider := newStubProvider()
	provider.cancelAfter = 2
	provider.cancel = cancel
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatal(err)
	}
	err := tr.Execute(ctx, job)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("execute returned %v, want context.Canceled", err)
	}

	// Chunks 0 and 1 completed before the interrupt.
	if job.LastChunk != 1 {
		t.Errorf("last chunk = %d, want 1", job.LastChunk)
	}
	base := strings.TrimSuffix(job.TextPath, ".txt")
	marker, found, loadErr := transcript.LoadResume(transcript.ResumePath(base))
	if loadErr != nil || !found {
		t.Fatalf("resume marker missing after interrupt: %v", loadErr)
	}
	if marker.LastChunk != 1 {
		t.Errorf("marker last chunk = %d, want 1", marker.LastChunk)
	}
	if marker.ProcessedSeconds != 55 {
		t.Errorf("processed seconds = %v, want 55", marker.ProcessedSeconds)
	}
}

func TestPrepareRejectsMissingAudioURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "https://www.youtube.com/watch?v=abc123")

	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), &stubExtractor{}, newStubProvider())
	if err := tr.Prepare(context.Background(), job); err == nil {
		t.Fatal("job without audio url accepted")
	}
}

func TestHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg"))
	store := testsupport.MustOpenStore(t, cfg)
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), &stubExtractor{}, newStubProvider())

	if health := tr.HealthCheck(context.Background()); !health.Ready {
		t.Errorf("unhealthy with stubbed ffmpeg: %s", health.Detail)
	}

	cfg.Whisper.Endpoint = ""
	if health := tr.HealthCheck(context.Background()); health.Ready {
		t.Error("healthy without endpoint")
	}
}

func TestPrepareClearsStaleSegmentsOnFreshStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	ctx := context.Background()
	stale := transcript.Segment{ChunkIndex: 0, Start: 0, End: 30, Text: "left over"}
	if err := store.InsertSegment(ctx, job.ID, stale); err != nil {
		t.Fatal(err)
	}

	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), &stubExtractor{}, newStubProvider())
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	count, err := store.SegmentCount(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("segment count = %d, want 0", count)
	}
}

func TestExecuteAbortsAfterConsecutiveChunkFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	extractor := &stubExtractor{fail: map[int]bool{0: true, 1: true, 2: true, 3: true}}
	provider := newStubProvider()
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	err := tr.Execute(ctx, job)
	if err == nil {
		t.Fatal("expected error after repeated chunk failures")
	}
	if !strings.Contains(err.Error(), "consecutive") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(extractor.calls) != maxConsecutiveChunkFailures {
		t.Errorf("extracted %d chunks, want %d", len(extractor.calls), maxConsecutiveChunkFailures)
	}
}

type recordingSink struct {
	total    int
	resumed  int
	produced []bool
	ended    bool
}

func (r *recordingSink) Begin(job *queue.Job, totalChunks, completedChunks int) {
	r.total = totalChunks
	r.resumed = completedChunks
}

func (r *recordingSink) ChunkDone(seg transcript.Segment, produced bool) {
	r.produced = append(r.produced, produced)
}

func (r *recordingSink) End() { r.ended = true }

func TestProgressSinkFiresPerWindow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := newIdentifiedJob(t, store, cfg.Paths.OutputDir, 100)

	extractor := &stubExtractor{}
	provider := newStubProvider()
	provider.failAt = 1
	provider.silentAt = 2
	tr := NewTranscriberWithDependencies(cfg, store, logging.NewNop(), extractor, provider)
	sink := &recordingSink{}
	tr.SetProgressSink(sink)

	ctx := context.Background()
	if err := tr.Prepare(ctx, job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Skipped and silent windows still advance the sink.
	want := []bool{true, false, false, true}
	if len(sink.produced) != len(want) {
		t.Fatalf("sink fired %d times, want %d", len(sink.produced), len(want))
	}
	for i, produced := range want {
		if sink.produced[i] != produced {
			t.Errorf("window %d produced = %v, want %v", i, sink.produced[i], produced)
		}
	}
	if !sink.ended {
		t.Error("sink End never called")
	}
}
