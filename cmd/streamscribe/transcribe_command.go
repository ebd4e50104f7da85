package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"streamscribe/internal/export"
	"streamscribe/internal/identify"
	"streamscribe/internal/language"
	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
	"streamscribe/internal/stage"
	"streamscribe/internal/transcriber"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	flags := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Transcribe a video URL in the foreground with a progress bar",
		Long: `Transcribe runs the full pipeline for one URL in the foreground:
identify the stream, transcribe it chunk by chunk, and write TXT, JSON, and
SRT outputs. Press Ctrl+C to stop at any time; completed chunks are saved and
re-running the same command resumes where it left off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			params, err := flags.params(cfg, args[0])
			if err != nil {
				return err
			}
			return runOneShot(cmd, ctx, params)
		},
	}
	flags.register(cmd)
	return cmd
}

func runOneShot(cmd *cobra.Command, ctx *commandContext, params queue.NewJobParams) error {
	cfg := ctx.configValue()
	out := cmd.OutOrStdout()

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Keep stdout clean for the progress bar; structured logs go to the
	// log directory instead.
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
	}
	defer store.Close()

	// Jobs left in a processing status by a previous interrupted run roll
	// back to their resumable statuses before we pick the job up again.
	if _, err := store.ResetStuckProcessing(signalCtx); err != nil {
		return fmt.Errorf("reset interrupted jobs: %w", err)
	}

	job, err := store.FindResumableByURL(signalCtx, params.URL)
	if err != nil {
		return err
	}
	if job != nil {
		if job.HasChunkProgress() {
			fmt.Fprintf(out, "Resuming job #%d from chunk %d\n", job.ID, job.LastChunk+2)
		} else {
			fmt.Fprintf(out, "Resuming job #%d\n", job.ID)
		}
	} else {
		job, err = store.NewJob(signalCtx, params)
		if err != nil {
			return err
		}
	}

	transcribeStage := transcriber.NewTranscriber(cfg, store, logger)
	transcribeStage.SetProgressSink(newProgressSink(out))

	runner := &oneShotRunner{store: store, out: out}
	runner.stages = oneShotStages(
		identify.NewIdentifier(cfg, store, logger),
		transcribeStage,
		export.NewExporter(cfg, store, logger),
	)

	if err := runner.run(signalCtx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nInterrupted. Completed chunks are saved; run the same command again to resume.")
			return nil
		}
		return err
	}

	fmt.Fprintln(out, "Transcription complete")
	if job.DetectedLanguage != "" {
		fmt.Fprintf(out, "  Language: %s (detected)\n", language.DisplayName(job.DetectedLanguage))
	}
	for _, output := range []struct {
		label string
		path  string
	}{
		{"Text", job.TextPath},
		{"JSON", job.JSONPath},
		{"SRT", job.SRTPath},
	} {
		if output.path != "" {
			fmt.Fprintf(out, "  %s: %s\n", output.label, output.path)
		}
	}
	return nil
}

type oneShotStage struct {
	name       string
	handler    stage.Handler
	start      queue.Status
	processing queue.Status
	done       queue.Status
	// interrupted is the status an interrupt rolls back to. Transcription
	// rolls all the way to pending: the stream URL resolved during
	// identification expires, so a later resume must re-identify first.
	// Completed chunks survive as persisted segments either way.
	interrupted queue.Status
}

func oneShotStages(identifier, transcribe, exporter stage.Handler) []oneShotStage {
	return []oneShotStage{
		{
			name:        "identifying",
			handler:     identifier,
			start:       queue.StatusPending,
			processing:  queue.StatusIdentifying,
			done:        queue.StatusIdentified,
			interrupted: queue.StatusPending,
		},
		{
			name:        "transcribing",
			handler:     transcribe,
			start:       queue.StatusIdentified,
			processing:  queue.StatusTranscribing,
			done:        queue.StatusTranscribed,
			interrupted: queue.StatusPending,
		},
		{
			name:        "exporting",
			handler:     exporter,
			start:       queue.StatusTranscribed,
			processing:  queue.StatusExporting,
			done:        queue.StatusCompleted,
			interrupted: queue.StatusTranscribed,
		},
	}
}

// persistTimeout bounds job-state writes that happen after an interrupt or
// failure, when the command context is no longer usable.
const persistTimeout = 5 * time.Second

// oneShotRunner drives a single job through the pipeline stages in the
// current process, persisting every transition so an interrupt at any point
// leaves a resumable job behind.
type oneShotRunner struct {
	store  *queue.Store
	out    io.Writer
	stages []oneShotStage
}

func (r *oneShotRunner) run(ctx context.Context, job *queue.Job) error {
	for {
		stg, ok := r.stageFor(job.Status)
		if !ok {
			return nil
		}

		job.Status = stg.processing
		job.ErrorMessage = ""
		if err := r.store.Update(ctx, job); err != nil {
			return fmt.Errorf("update job: %w", err)
		}

		if err := stg.handler.Prepare(ctx, job); err != nil {
			return r.fail(ctx, job, stg, err)
		}
		if err := r.store.Update(ctx, job); err != nil {
			return fmt.Errorf("update job: %w", err)
		}

		if err := stg.handler.Execute(ctx, job); err != nil {
			if ctx.Err() != nil {
				r.persistInterrupted(job, stg)
				return context.Canceled
			}
			return r.fail(ctx, job, stg, err)
		}

		if job.Status == stg.processing || job.Status == "" {
			job.Status = stg.done
		}
		if job.Status == queue.StatusCompleted {
			job.ProgressPercent = 100
		}
		if err := r.store.Update(ctx, job); err != nil {
			return fmt.Errorf("update job: %w", err)
		}
	}
}

func (r *oneShotRunner) stageFor(status queue.Status) (oneShotStage, bool) {
	for _, stg := range r.stages {
		if stg.start == status {
			return stg, true
		}
	}
	return oneShotStage{}, false
}

func (r *oneShotRunner) fail(ctx context.Context, job *queue.Job, stg oneShotStage, cause error) error {
	job.SetFailed(cause.Error())
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := r.store.Update(persistCtx, job); err != nil {
		return fmt.Errorf("%s failed: %w (job state not persisted: %v)", stg.name, cause, err)
	}
	return fmt.Errorf("%s failed: %w", stg.name, cause)
}

// persistInterrupted rolls the job back to the stage's interrupt status with
// a fresh context so the interrupt itself cannot block the save.
func (r *oneShotRunner) persistInterrupted(job *queue.Job, stg oneShotStage) {
	job.Status = stg.interrupted
	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.store.Update(persistCtx, job); err != nil {
		fmt.Fprintf(r.out, "warn: unable to save interrupted job state: %v\n", err)
	}
}
