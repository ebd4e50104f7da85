package transcript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Segment is a single transcribed window of audio.
type Segment struct {
	ChunkIndex int     `json:"chunk"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Text       string  `json:"text"`
	Language   string  `json:"language,omitempty"`
}

// Validate checks the segment's timing invariant.
func (s Segment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("segment %d: negative start time %.3f", s.ChunkIndex, s.Start)
	}
	if s.End <= s.Start {
		return fmt.Errorf("segment %d: end time %.3f not after start time %.3f", s.ChunkIndex, s.End, s.Start)
	}
	return nil
}

// TextLine renders the live transcript line format:
// [HH:MM:SS - HH:MM:SS] text
func (s Segment) TextLine() string {
	return fmt.Sprintf("[%s - %s] %s", FormatClock(s.Start), FormatClock(s.End), s.Text)
}

// FormatClock formats seconds as HH:MM:SS, truncating sub-second precision.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatSRTTimestamp formats seconds in the SRT timestamp format HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000))
	total := millis / 1000
	millis %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total%3600)/60, total%60, millis)
}

// ParseSRTTimestamp converts an SRT timestamp (HH:MM:SS,mmm) back to seconds.
// A period is accepted in place of the comma.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ".", ","))
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
