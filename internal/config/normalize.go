package config

import (
	"strings"
)

// normalize expands paths and fills in zero values before validation.
func (c *Config) normalize() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(valueOr(c.Paths.OutputDir, defaultOutputDir)); err != nil {
		return err
	}
	if c.Paths.WorkDir, err = expandPath(valueOr(c.Paths.WorkDir, defaultWorkDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	c.Whisper.Endpoint = strings.TrimSpace(c.Whisper.Endpoint)
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(valueOr(c.Whisper.Model, defaultWhisperModel)))
	c.Whisper.Language = strings.ToLower(strings.TrimSpace(c.Whisper.Language))
	if c.Whisper.TimeoutSeconds <= 0 {
		c.Whisper.TimeoutSeconds = defaultWhisperTimeout
	}

	c.YtDlp.Binary = strings.TrimSpace(c.YtDlp.Binary)
	if c.YtDlp.TimeoutSeconds <= 0 {
		c.YtDlp.TimeoutSeconds = defaultYtDlpTimeout
	}
	if c.YtDlp.RetryAttempts <= 0 {
		c.YtDlp.RetryAttempts = defaultYtDlpRetryAttempts
	}

	if c.Chunking.DurationSeconds == 0 {
		c.Chunking.DurationSeconds = defaultChunkDuration
	}
	if c.Chunking.CheckpointInterval <= 0 {
		c.Chunking.CheckpointInterval = defaultCheckpointInterval
	}

	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Format, defaultLogFormat)))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Level, defaultLogLevel)))

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}

	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
