package config

const (
	defaultOutputDir            = "~/transcripts"
	defaultWorkDir              = "~/.local/share/streamscribe/work"
	defaultLogDir               = "~/.local/share/streamscribe/logs"
	defaultWhisperEndpoint      = "http://127.0.0.1:9000/v1/audio/transcriptions"
	defaultWhisperModel         = "base"
	defaultWhisperTimeout       = 300
	defaultNoSpeechThreshold    = 0.6
	defaultYtDlpTimeout         = 120
	defaultYtDlpRetryAttempts   = 3
	defaultChunkDuration        = 30
	defaultChunkOverlap         = 5
	defaultCheckpointInterval   = 10
	defaultQueuePollInterval    = 5
	defaultErrorRetryInterval   = 10
	defaultHeartbeatInterval    = 15
	defaultHeartbeatTimeout     = 120
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
)

// KnownWhisperModels lists the model sizes accepted by whisper.model.
var KnownWhisperModels = []string{"tiny", "base", "small", "medium", "large"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Whisper: Whisper{
			Endpoint:          defaultWhisperEndpoint,
			Model:             defaultWhisperModel,
			TimeoutSeconds:    defaultWhisperTimeout,
			Temperature:       0,
			NoSpeechThreshold: defaultNoSpeechThreshold,
		},
		YtDlp: YtDlp{
			TimeoutSeconds: defaultYtDlpTimeout,
			RetryAttempts:  defaultYtDlpRetryAttempts,
		},
		Chunking: Chunking{
			DurationSeconds:    defaultChunkDuration,
			OverlapSeconds:     defaultChunkOverlap,
			CheckpointInterval: defaultCheckpointInterval,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Started:        true,
			Completed:      true,
			Errors:         true,
			Queue:          true,
		},
	}
}
