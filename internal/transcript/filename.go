package transcript

import (
	"fmt"
	"time"

	"streamscribe/internal/textutil"
)

const maxTitleRunes = 50

// OutputBaseName builds the shared base name for a job's output files
// from the video title and a UTC timestamp. Extensions (.txt, .json,
// .srt) are appended by the caller.
func OutputBaseName(title string, at time.Time) string {
	safe := textutil.TruncateRunes(textutil.SanitizeFileName(title), maxTitleRunes)
	if safe == "" {
		safe = "transcript"
	}
	return fmt.Sprintf("%s_%s", safe, at.UTC().Format("20060102_150405"))
}
