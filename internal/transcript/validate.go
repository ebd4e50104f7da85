package transcript

import (
	"fmt"
	"math"
	"os"
	"strings"
)

func countSRTCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}
	blocks := strings.Split(content, "\n\n")
	count := 0
	for _, block := range blocks {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

func srtBounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range lines {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseSRTTimestamp(strings.TrimSpace(parts[0])); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseSRTTimestamp(strings.TrimSpace(parts[1])); err == nil {
			if end > last {
				last = end
			}
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// ValidateSRT checks a rendered SRT file for format issues.
// Returns a list of issues found; empty slice means validation passed.
func ValidateSRT(path string, videoSeconds float64) []string {
	var issues []string

	cues, err := countSRTCues(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("read_error: %v", err))
		return issues
	}
	if cues == 0 {
		issues = append(issues, "empty_subtitle_file")
		return issues
	}

	first, last, err := srtBounds(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	} else if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}

	if videoSeconds > 0 && last > videoSeconds+1 {
		issues = append(issues, fmt.Sprintf("duration_overrun: last=%.1fs video=%.1fs", last, videoSeconds))
	}

	return issues
}
