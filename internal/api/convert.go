package api

import (
	"sort"

	"streamscribe/internal/queue"
	"streamscribe/internal/workflow"
)

// FromQueueJob converts a queue record to its API representation.
func FromQueueJob(job *queue.Job) QueueJob {
	if job == nil {
		return QueueJob{}
	}

	dto := QueueJob{
		ID:               job.ID,
		URL:              job.URL,
		VideoID:          job.VideoID,
		Title:            job.Title,
		Uploader:         job.Uploader,
		DurationSeconds:  job.DurationSeconds,
		Status:           string(job.Status),
		Model:            job.Model,
		ChunkSeconds:     job.ChunkSeconds,
		OverlapSeconds:   job.OverlapSeconds,
		Language:         job.Language,
		DetectedLanguage: job.DetectedLanguage,
		OutputDir:        job.OutputDir,
		TextPath:         job.TextPath,
		JSONPath:         job.JSONPath,
		SRTPath:          job.SRTPath,
		LastChunk:        job.LastChunk,
		Progress: QueueProgress{
			Stage:   job.ProgressStage,
			Percent: job.ProgressPercent,
			Message: job.ProgressMessage,
		},
		ErrorMessage: job.ErrorMessage,
	}
	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		dto.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromWorkflowStatus converts a workflow summary to its API representation.
func FromWorkflowStatus(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:   summary.Running,
		LastError: summary.LastError,
	}
	if len(summary.QueueStats) > 0 {
		status.QueueStats = make(map[string]int, len(summary.QueueStats))
		for key, value := range summary.QueueStats {
			status.QueueStats[string(key)] = value
		}
	}
	if summary.LastJob != nil {
		job := FromQueueJob(summary.LastJob)
		status.LastJob = &job
	}
	if len(summary.StageHealth) > 0 {
		names := make([]string, 0, len(summary.StageHealth))
		for name := range summary.StageHealth {
			names = append(names, name)
		}
		sort.Strings(names)
		status.StageHealth = make([]StageHealth, 0, len(names))
		for _, name := range names {
			health := summary.StageHealth[name]
			status.StageHealth = append(status.StageHealth, StageHealth{
				Name:   name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
	}
	return status
}
