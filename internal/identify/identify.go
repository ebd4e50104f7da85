// Package identify resolves video metadata and a streamable audio URL for
// queued jobs before transcription begins.
package identify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"streamscribe/internal/config"
	"streamscribe/internal/logging"
	"streamscribe/internal/media/ffprobe"
	"streamscribe/internal/media/ytdlp"
	"streamscribe/internal/queue"
	"streamscribe/internal/services"
	"streamscribe/internal/stage"
	"streamscribe/internal/transcript"
)

// InfoFetcher resolves metadata for a video URL.
type InfoFetcher interface {
	FetchInfo(ctx context.Context, url string) (ytdlp.VideoInfo, error)
}

// Identifier fills in job metadata and output paths from yt-dlp.
type Identifier struct {
	cfg     *config.Config
	store   *queue.Store
	logger  *slog.Logger
	fetcher InfoFetcher
	now     func() time.Time
}

// NewIdentifier constructs the identification stage handler.
func NewIdentifier(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Identifier {
	fetcher := ytdlp.NewClient(
		cfg.YtDlpBinary(),
		time.Duration(cfg.YtDlp.TimeoutSeconds)*time.Second,
		cfg.YtDlp.RetryAttempts,
		logger,
	)
	return NewIdentifierWithDependencies(cfg, store, logger, fetcher)
}

// NewIdentifierWithDependencies allows injecting collaborators (used in tests).
func NewIdentifierWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, fetcher InfoFetcher) *Identifier {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "identify")
	}
	return &Identifier{cfg: cfg, store: store, logger: stageLogger, fetcher: fetcher, now: time.Now}
}

func (i *Identifier) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, i.logger)
	job.InitProgress("Identifying", "Extracting video information")
	logger.Info("starting identification", logging.String("url", job.URL))
	return nil
}

func (i *Identifier) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, i.logger)

	info, err := i.fetcher.FetchInfo(ctx, job.URL)
	if err != nil {
		return services.Wrap(
			services.ErrExternalTool, "identifying", "fetch info",
			"Failed to extract video information; check the URL and yt-dlp installation", err)
	}

	job.VideoID = info.VideoID
	job.Title = info.Title
	job.Uploader = info.Uploader
	job.DurationSeconds = info.DurationSeconds
	job.AudioURL = info.AudioURL

	// Some extractors omit the duration (live recordings, certain HLS
	// manifests). Chunk planning needs one, so probe the stream directly.
	if job.DurationSeconds <= 0 && job.AudioURL != "" {
		duration, probeErr := ffprobe.ProbeDuration(ctx, i.cfg.FFprobeBinary(), job.AudioURL)
		if probeErr != nil {
			return services.Wrap(
				services.ErrExternalTool, "identifying", "probe duration",
				"Stream metadata has no duration and ffprobe could not determine one", probeErr)
		}
		job.DurationSeconds = duration
		logger.Info("duration resolved via ffprobe", logging.Float64("duration_seconds", duration))
	}

	// Resumed jobs keep their original output paths so partial TXT output
	// continues in place; only fresh jobs get new ones.
	if job.TextPath == "" {
		outputDir := strings.TrimSpace(job.OutputDir)
		if outputDir == "" {
			outputDir = i.cfg.Paths.OutputDir
			job.OutputDir = outputDir
		}
		base := filepath.Join(outputDir, transcript.OutputBaseName(info.Title, i.now()))
		job.TextPath = base + ".txt"
		job.JSONPath = base + ".json"
		job.SRTPath = base + ".srt"
	}

	job.Status = queue.StatusIdentified
	job.SetProgressComplete("Identified", fmt.Sprintf("Identified %q (%s)", info.Title, formatDuration(info.DurationSeconds)))

	logger.Info("identification complete",
		logging.String("title", info.Title),
		logging.String("uploader", info.Uploader),
		logging.Float64("duration_seconds", info.DurationSeconds),
	)
	return nil
}

func (i *Identifier) HealthCheck(ctx context.Context) stage.Health {
	const name = "identify"
	if i.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	binary := strings.TrimSpace(i.cfg.YtDlpBinary())
	if binary == "" {
		return stage.Unhealthy(name, "yt-dlp binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("yt-dlp binary %q not found", binary))
	}
	return stage.Healthy(name)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return d.String()
}
