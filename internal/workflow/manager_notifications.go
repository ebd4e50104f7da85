package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
)

func jobDisplayTitle(job *queue.Job) string {
	if title := strings.TrimSpace(job.Title); title != "" {
		return title
	}
	return strings.TrimSpace(job.URL)
}

func (m *Manager) onJobStarted(ctx context.Context, stg pipelineStage, job *queue.Job) {
	m.markQueueActive()
	if m.notifier == nil {
		return
	}
	// Identification has not fetched the title yet, so the started
	// notification fires when transcription begins.
	if stg.processingStatus != queue.StatusTranscribing {
		return
	}
	if err := m.notifier.NotifyJobStarted(ctx, jobDisplayTitle(job)); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send job start notification")
		} else {
			m.logger.Debug("job start notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) onJobCompleted(ctx context.Context, job *queue.Job) {
	if m.notifier == nil {
		return
	}
	chunks, err := m.store.SegmentCount(ctx, job.ID)
	if err != nil {
		// Fall back to the chunk cursor; it overcounts skipped chunks
		// but keeps the notification useful.
		chunks = 0
		if job.HasChunkProgress() {
			chunks = job.LastChunk + 1
		}
	}
	duration := time.Duration(0)
	if !job.CreatedAt.IsZero() {
		duration = time.Since(job.CreatedAt)
	}
	if err := m.notifier.NotifyJobCompleted(ctx, jobDisplayTitle(job), chunks, duration); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send job completion notification")
		} else {
			m.logger.Debug("job completion notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) notifyStageError(ctx context.Context, stageName string, job *queue.Job, stageErr error) {
	if m.notifier == nil || stageErr == nil {
		return
	}
	reason := strings.TrimSpace(stageErr.Error())
	if reason == "" {
		reason = stageName + " failed"
	}
	if err := m.notifier.NotifyJobFailed(ctx, jobDisplayTitle(job), reason); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send job failure notification")
		} else {
			m.logger.Debug("job failure notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) markQueueActive() {
	m.mu.Lock()
	if !m.queueActive {
		m.queueActive = true
		m.queueStart = time.Now()
	}
	m.mu.Unlock()
}

func (m *Manager) checkQueueCompletion(ctx context.Context) {
	if m.notifier == nil {
		return
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not check queue completion")
		} else {
			m.logger.Warn("queue stats unavailable for completion notification; notification skipped",
				logging.Error(err),
				logging.String(logging.FieldEventType, "queue_stats_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"),
			)
		}
		return
	}
	if active := countActiveJobs(stats); active > 0 {
		return
	}

	m.mu.Lock()
	if !m.queueActive {
		m.mu.Unlock()
		return
	}
	start := m.queueStart
	m.queueActive = false
	m.queueStart = time.Time{}
	m.mu.Unlock()

	duration := time.Duration(0)
	if !start.IsZero() {
		duration = time.Since(start)
	}
	processed := stats[queue.StatusCompleted]
	failed := stats[queue.StatusFailed]
	if err := m.notifier.NotifyQueueCompleted(ctx, processed, failed, duration); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send queue completion notification")
		} else {
			m.logger.Debug("queue completion notification failed", logging.Error(err))
		}
	}
}

func countActiveJobs(stats map[queue.Status]int) int {
	activeStatuses := []queue.Status{
		queue.StatusPending,
		queue.StatusIdentifying,
		queue.StatusIdentified,
		queue.StatusTranscribing,
		queue.StatusTranscribed,
		queue.StatusExporting,
	}
	total := 0
	for _, status := range activeStatuses {
		total += stats[status]
	}
	return total
}
