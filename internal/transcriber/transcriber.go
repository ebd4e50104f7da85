// Package transcriber runs the chunked transcription loop: extract an
// audio window with ffmpeg, send it to the speech-to-text endpoint,
// persist the segment, and append the live transcript line.
package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"streamscribe/internal/asr"
	"streamscribe/internal/config"
	"streamscribe/internal/fileutil"
	"streamscribe/internal/logging"
	"streamscribe/internal/media/ffmpeg"
	"streamscribe/internal/queue"
	"streamscribe/internal/services"
	"streamscribe/internal/stage"
	"streamscribe/internal/transcript"
)

// ChunkExtractor pulls one audio window out of a stream.
type ChunkExtractor interface {
	ExtractChunk(ctx context.Context, source string, startSeconds, durationSeconds float64, dest string) error
}

// ProgressSink receives per-chunk progress, typically a terminal progress
// bar. ChunkDone fires once per processed window; produced is false for
// windows that were skipped or held no speech.
type ProgressSink interface {
	Begin(job *queue.Job, totalChunks, completedChunks int)
	ChunkDone(seg transcript.Segment, produced bool)
	End()
}

// maxConsecutiveChunkFailures bounds how many bad chunks in a row the stage
// tolerates before failing the job. A run of failures usually means the
// stream URL has expired, not that a few windows are corrupt.
const maxConsecutiveChunkFailures = 3

// Transcriber is the workflow stage that turns an identified job's audio
// stream into persisted transcript segments.
type Transcriber struct {
	cfg       *config.Config
	store     *queue.Store
	logger    *slog.Logger
	extractor ChunkExtractor
	provider  asr.Provider
	sink      ProgressSink
}

// NewTranscriber constructs the transcription stage handler using default
// dependencies.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Transcriber {
	extractor := ffmpeg.NewExtractor(cfg.FFmpegBinary())
	provider := asr.NewWhisperClient(
		cfg.Whisper.Endpoint,
		cfg.Whisper.Model,
		time.Duration(cfg.Whisper.TimeoutSeconds)*time.Second,
	)
	return NewTranscriberWithDependencies(cfg, store, logger, extractor, provider)
}

// NewTranscriberWithDependencies allows injecting collaborators (used in tests).
func NewTranscriberWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, extractor ChunkExtractor, provider asr.Provider) *Transcriber {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "transcriber")
	}
	return &Transcriber{cfg: cfg, store: store, logger: stageLogger, extractor: extractor, provider: provider}
}

// SetProgressSink attaches a sink for interactive progress reporting.
func (t *Transcriber) SetProgressSink(sink ProgressSink) {
	t.sink = sink
}

func (t *Transcriber) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)
	if job.AudioURL == "" {
		return services.Wrap(
			services.ErrValidation, "transcribing", "validate inputs",
			"No audio stream URL present; rerun identification", nil)
	}
	if job.TextPath == "" {
		return services.Wrap(
			services.ErrValidation, "transcribing", "validate inputs",
			"No output paths assigned; rerun identification", nil)
	}
	if err := fileutil.EnsureDir(filepath.Dir(job.TextPath)); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcribing", "prepare output", "Failed to create output directory", err)
	}
	if err := fileutil.EnsureDir(t.chunkDir(job)); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcribing", "prepare workdir", "Failed to create chunk scratch directory", err)
	}
	// A job starting from chunk zero must not inherit segments from an
	// earlier attempt whose cursor was reset.
	if !job.HasChunkProgress() {
		if err := t.store.DeleteSegments(ctx, job.ID); err != nil {
			return services.Wrap(services.ErrTransient, "transcribing", "reset segments", "Failed to clear stale transcript segments", err)
		}
	}
	job.InitProgress("Transcribing", "Preparing chunked transcription")
	logger.Info("starting transcription",
		logging.String("title", job.Title),
		logging.Int("chunk_seconds", job.ChunkSeconds),
		logging.Int("overlap_seconds", job.OverlapSeconds),
		logging.Int("last_chunk", job.LastChunk),
	)
	return nil
}

func (t *Transcriber) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)

	plan, err := transcript.NewPlan(job.DurationSeconds, job.ChunkSeconds, job.OverlapSeconds)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcribing", "build plan", "Invalid chunking parameters", err)
	}

	total := plan.Count()
	startChunk := job.LastChunk + 1
	if startChunk > 0 {
		logger.Info("resuming transcription",
			logging.Int("next_chunk", startChunk),
			logging.Int("total_chunks", total),
		)
	}

	if t.sink != nil {
		t.sink.Begin(job, total, startChunk)
		defer t.sink.End()
	}

	chunkDir := t.chunkDir(job)
	defer os.RemoveAll(chunkDir)

	consecutiveFailures := 0
	for index := startChunk; index < total; index++ {
		if err := ctx.Err(); err != nil {
			t.saveCheckpoint(job, plan)
			return err
		}

		window := plan.Window(index)
		seg, err := t.processChunk(ctx, job, window, chunkDir)
		if err != nil {
			if ctx.Err() != nil {
				t.saveCheckpoint(job, plan)
				return ctx.Err()
			}
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutiveChunkFailures {
				t.saveCheckpoint(job, plan)
				return services.Wrap(
					services.ErrExternalTool, "transcribing", "process chunk",
					fmt.Sprintf("%d consecutive chunks failed; retry to re-resolve the stream", consecutiveFailures), err)
			}
			// A single bad chunk should not sink the whole job. Log it,
			// advance the cursor, and keep going.
			logger.Warn("chunk failed, skipping",
				logging.Int("chunk", index),
				logging.Error(err),
			)
		} else {
			consecutiveFailures = 0
			if seg != nil {
				if err := t.store.InsertSegment(ctx, job.ID, *seg); err != nil {
					return services.Wrap(services.ErrTransient, "transcribing", "persist segment", "Failed to persist transcript segment", err)
				}
				if err := transcript.AppendTextLine(job.TextPath, *seg); err != nil {
					logger.Warn("live transcript append failed", logging.Error(err))
				}
				if job.DetectedLanguage == "" && seg.Language != "" {
					job.DetectedLanguage = seg.Language
				}
			}
		}

		if t.sink != nil {
			var done transcript.Segment
			if seg != nil {
				done = *seg
			}
			t.sink.ChunkDone(done, err == nil && seg != nil)
		}

		job.LastChunk = index
		done := index + 1
		job.SetProgress("Transcribing", fmt.Sprintf("Transcribed chunk %d/%d", done, total), float64(done)/float64(total)*100)
		if err := t.store.Update(ctx, job); err != nil {
			logger.Warn("progress update failed", logging.Error(err))
		}
		if err := t.store.UpdateHeartbeat(ctx, job.ID); err != nil {
			logger.Warn("heartbeat update failed", logging.Error(err))
		}

		interval := t.cfg.Chunking.CheckpointInterval
		if interval > 0 && done%interval == 0 {
			t.saveCheckpoint(job, plan)
		}
	}

	job.Status = queue.StatusTranscribed
	job.SetProgressComplete("Transcribed", fmt.Sprintf("Transcribed %d chunks", total))
	t.saveCheckpoint(job, plan)

	logger.Info("transcription complete",
		logging.Int("total_chunks", total),
		logging.String("detected_language", job.DetectedLanguage),
	)
	return nil
}

// processChunk extracts one window and transcribes it. A nil segment with
// nil error means the chunk held no speech.
func (t *Transcriber) processChunk(ctx context.Context, job *queue.Job, window transcript.Window, chunkDir string) (*transcript.Segment, error) {
	wavPath := filepath.Join(chunkDir, fmt.Sprintf("chunk_%04d.wav", window.Index))
	defer os.Remove(wavPath)

	if err := t.extractor.ExtractChunk(ctx, job.AudioURL, window.Start, window.Duration, wavPath); err != nil {
		return nil, fmt.Errorf("extract chunk %d: %w", window.Index, err)
	}

	condition := false
	result, err := t.provider.Transcribe(ctx, wavPath, asr.Options{
		Language:                job.Language,
		Temperature:             t.cfg.Whisper.Temperature,
		NoSpeechThreshold:       t.cfg.Whisper.NoSpeechThreshold,
		ConditionOnPreviousText: &condition,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe chunk %d: %w", window.Index, err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil, nil
	}

	return &transcript.Segment{
		ChunkIndex: window.Index,
		Start:      window.Start,
		End:        window.End(),
		Text:       text,
		Language:   result.Language,
	}, nil
}

// saveCheckpoint writes the resume marker next to the text output. The
// database stays authoritative; the marker is a human-visible breadcrumb
// matching the original file layout.
func (t *Transcriber) saveCheckpoint(job *queue.Job, plan transcript.Plan) {
	processed := 0.0
	if job.LastChunk >= 0 {
		processed = plan.Window(job.LastChunk).End()
	}
	base := strings.TrimSuffix(job.TextPath, filepath.Ext(job.TextPath))
	marker := transcript.ResumeMarker{
		URL:              job.URL,
		LastChunk:        job.LastChunk,
		ProcessedSeconds: processed,
		TotalSeconds:     job.DurationSeconds,
		TextPath:         job.TextPath,
		JSONPath:         job.JSONPath,
		SRTPath:          job.SRTPath,
	}
	if err := transcript.WriteResume(transcript.ResumePath(base), marker); err != nil && t.logger != nil {
		t.logger.Warn("resume marker write failed", logging.Error(err))
	}
}

func (t *Transcriber) chunkDir(job *queue.Job) string {
	return filepath.Join(t.cfg.Paths.WorkDir, "chunks", fmt.Sprintf("job-%d", job.ID))
}

func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcriber"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	binary := strings.TrimSpace(t.cfg.FFmpegBinary())
	if binary == "" {
		return stage.Unhealthy(name, "ffmpeg binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg binary %q not found", binary))
	}
	if strings.TrimSpace(t.cfg.Whisper.Endpoint) == "" {
		return stage.Unhealthy(name, "transcription endpoint not configured")
	}
	if t.provider == nil {
		return stage.Unhealthy(name, "transcription provider unavailable")
	}
	return stage.Healthy(name)
}
