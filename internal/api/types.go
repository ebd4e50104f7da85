package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueJob describes a queue entry in a transport-friendly format.
type QueueJob struct {
	ID               int64         `json:"id"`
	URL              string        `json:"url"`
	VideoID          string        `json:"videoId,omitempty"`
	Title            string        `json:"title,omitempty"`
	Uploader         string        `json:"uploader,omitempty"`
	DurationSeconds  float64       `json:"durationSeconds,omitempty"`
	Status           string        `json:"status"`
	Model            string        `json:"model"`
	ChunkSeconds     int           `json:"chunkSeconds"`
	OverlapSeconds   int           `json:"overlapSeconds"`
	Language         string        `json:"language,omitempty"`
	DetectedLanguage string        `json:"detectedLanguage,omitempty"`
	OutputDir        string        `json:"outputDir,omitempty"`
	TextPath         string        `json:"textPath,omitempty"`
	JSONPath         string        `json:"jsonPath,omitempty"`
	SRTPath          string        `json:"srtPath,omitempty"`
	LastChunk        int           `json:"lastChunk"`
	Progress         QueueProgress `json:"progress"`
	ErrorMessage     string        `json:"errorMessage,omitempty"`
	CreatedAt        string        `json:"createdAt,omitempty"`
	UpdatedAt        string        `json:"updatedAt,omitempty"`
}

// QueueProgress captures stage progress information for a queue entry.
type QueueProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastJob     *QueueJob      `json:"lastJob,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	QueueDBPath  string             `json:"queueDbPath"`
	LockFilePath string             `json:"lockFilePath"`
	Workflow     WorkflowStatus     `json:"workflow"`
	Dependencies []DependencyStatus `json:"dependencies"`
}
