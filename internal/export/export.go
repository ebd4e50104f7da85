// Package export renders a job's persisted segments into the final JSON
// and SRT outputs and clears the resume marker.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"streamscribe/internal/config"
	"streamscribe/internal/fileutil"
	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
	"streamscribe/internal/services"
	"streamscribe/internal/stage"
	"streamscribe/internal/transcript"
)

// Exporter is the workflow stage that finalizes transcript outputs.
type Exporter struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter constructs the export stage handler.
func NewExporter(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Exporter {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "export")
	}
	return &Exporter{cfg: cfg, store: store, logger: stageLogger, now: time.Now}
}

func (e *Exporter) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)
	if job.JSONPath == "" || job.SRTPath == "" {
		return services.Wrap(
			services.ErrValidation, "exporting", "validate inputs",
			"No output paths assigned; rerun identification", nil)
	}
	job.InitProgress("Exporting", "Rendering transcript outputs")
	logger.Info("starting export", logging.String("title", job.Title))
	return nil
}

func (e *Exporter) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)

	segments, err := e.store.SegmentsForJob(ctx, job.ID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "exporting", "load segments", "Failed to load transcript segments", err)
	}
	if len(segments) == 0 {
		return services.Wrap(
			services.ErrValidation, "exporting", "validate segments",
			"No transcript segments to export; the video may contain no speech", nil)
	}

	if err := fileutil.EnsureDir(filepath.Dir(job.JSONPath)); err != nil {
		return services.Wrap(services.ErrConfiguration, "exporting", "prepare output", "Failed to create output directory", err)
	}

	doc := transcript.Document{
		VideoInfo: transcript.VideoInfo{
			URL:             job.URL,
			VideoID:         job.VideoID,
			Title:           job.Title,
			Uploader:        job.Uploader,
			DurationSeconds: job.DurationSeconds,
		},
		Transcripts: segments,
		ProcessingInfo: transcript.ProcessingInfo{
			Model:           job.Model,
			ChunkDuration:   job.ChunkSeconds,
			OverlapDuration: job.OverlapSeconds,
			TotalChunks:     len(segments),
			Language:        job.DetectedLanguage,
			ProcessedAt:     e.now().UTC(),
		},
	}
	if err := transcript.WriteJSON(job.JSONPath, doc); err != nil {
		return services.Wrap(services.ErrTransient, "exporting", "write json", "Failed to write JSON transcript", err)
	}

	if err := transcript.WriteSRT(job.SRTPath, segments); err != nil {
		return services.Wrap(services.ErrTransient, "exporting", "write srt", "Failed to write SRT subtitles", err)
	}
	if issues := transcript.ValidateSRT(job.SRTPath, job.DurationSeconds); len(issues) > 0 {
		logger.Warn("srt validation issues", logging.String("issues", strings.Join(issues, "; ")))
	}

	base := strings.TrimSuffix(job.TextPath, filepath.Ext(job.TextPath))
	if err := transcript.RemoveResume(transcript.ResumePath(base)); err != nil {
		logger.Warn("resume marker cleanup failed", logging.Error(err))
	}

	job.Status = queue.StatusCompleted
	job.SetProgressComplete("Completed", fmt.Sprintf("Exported %d segments", len(segments)))

	logger.Info("export complete",
		logging.Int("segments", len(segments)),
		logging.String("json", job.JSONPath),
		logging.String("srt", job.SRTPath),
	)
	return nil
}

func (e *Exporter) HealthCheck(ctx context.Context) stage.Health {
	const name = "export"
	if e.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(e.cfg.Paths.OutputDir) == "" {
		return stage.Unhealthy(name, "output directory not configured")
	}
	if e.store == nil {
		return stage.Unhealthy(name, "queue store unavailable")
	}
	return stage.Healthy(name)
}
