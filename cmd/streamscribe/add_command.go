package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"streamscribe/internal/config"
	"streamscribe/internal/language"
	"streamscribe/internal/queue"
)

type jobFlags struct {
	model         string
	chunkDuration int
	overlap       int
	outputDir     string
	language      string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Whisper model to request")
	cmd.Flags().IntVar(&f.chunkDuration, "chunk-duration", 0, "Chunk duration in seconds")
	cmd.Flags().IntVar(&f.overlap, "overlap", -1, "Chunk overlap in seconds")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for transcript outputs")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "Spoken language (code or English name, empty for auto-detect)")
}

func (f *jobFlags) params(cfg *config.Config, rawURL string) (queue.NewJobParams, error) {
	params := queue.NewJobParams{
		URL:            strings.TrimSpace(rawURL),
		Model:          cfg.Whisper.Model,
		ChunkSeconds:   cfg.Chunking.DurationSeconds,
		OverlapSeconds: cfg.Chunking.OverlapSeconds,
		Language:       language.Normalize(cfg.Whisper.Language),
		OutputDir:      cfg.Paths.OutputDir,
	}
	if err := validateStreamURL(params.URL); err != nil {
		return queue.NewJobParams{}, err
	}
	if model := strings.TrimSpace(f.model); model != "" {
		params.Model = model
	}
	if f.chunkDuration > 0 {
		params.ChunkSeconds = f.chunkDuration
	}
	if f.overlap >= 0 {
		params.OverlapSeconds = f.overlap
	}
	if f.overlap >= 0 || f.chunkDuration > 0 {
		if params.OverlapSeconds >= params.ChunkSeconds {
			return queue.NewJobParams{}, fmt.Errorf("overlap (%ds) must be shorter than the chunk duration (%ds)", params.OverlapSeconds, params.ChunkSeconds)
		}
	}
	if dir := strings.TrimSpace(f.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return queue.NewJobParams{}, fmt.Errorf("resolve output directory: %w", err)
		}
		params.OutputDir = expanded
	}
	if lang := strings.TrimSpace(f.language); lang != "" {
		params.Language = language.Normalize(lang)
	}
	return params, nil
}

func validateStreamURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("video URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q (expected http or https)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	flags := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Queue a video URL for background transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			params, err := flags.params(cfg, args[0])
			if err != nil {
				return err
			}
			return ctx.withQueue(func(q queueAPI) error {
				job, created, err := q.Add(cmd.Context(), params)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, map[string]any{"job": job, "created": created})
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Queued job #%d (%s)\n", job.ID, job.URL)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Job #%d for this URL is already queued; it will resume from chunk %d\n", job.ID, job.LastChunk+1)
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
