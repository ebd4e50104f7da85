package transcript

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatSRTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{30, "00:00:30,000"},
		{60, "00:01:00,000"},
		{90.5, "00:01:30,500"},
		{3661.042, "01:01:01,042"},
		// 4.8 has no exact binary representation; rounding must not
		// truncate it down to 799 milliseconds.
		{4.8, "00:00:04,800"},
		{59.9995, "00:01:00,000"},
		{-1, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatSRTTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatSRTTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseSRTTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 30, 90.5, 3661.042} {
		text := FormatSRTTimestamp(seconds)
		parsed, err := ParseSRTTimestamp(text)
		if err != nil {
			t.Fatalf("ParseSRTTimestamp(%q): %v", text, err)
		}
		if diff := parsed - seconds; diff > 0.001 || diff < -0.001 {
			t.Errorf("round trip %v -> %q -> %v", seconds, text, parsed)
		}
	}
}

func TestParseSRTTimestampRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "30", "00:30,000", "aa:bb:cc,ddd", "00:00:30"} {
		if _, err := ParseSRTTimestamp(value); err == nil {
			t.Errorf("ParseSRTTimestamp(%q) should fail", value)
		}
	}
}

func TestSegmentTextLine(t *testing.T) {
	seg := Segment{ChunkIndex: 1, Start: 25, End: 55, Text: "hello world"}
	want := "[00:00:25 - 00:00:55] hello world"
	if got := seg.TextLine(); got != want {
		t.Errorf("TextLine() = %q, want %q", got, want)
	}
}

func TestSegmentValidate(t *testing.T) {
	if err := (Segment{Start: 0, End: 30, Text: "ok"}).Validate(); err != nil {
		t.Errorf("valid segment rejected: %v", err)
	}
	if err := (Segment{Start: 30, End: 30}).Validate(); err == nil {
		t.Error("zero-length segment accepted")
	}
	if err := (Segment{Start: -1, End: 30}).Validate(); err == nil {
		t.Error("negative start accepted")
	}
	if err := (Segment{Start: 40, End: 30}).Validate(); err == nil {
		t.Error("inverted segment accepted")
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(3725.9); got != "01:02:05" {
		t.Errorf("FormatClock(3725.9) = %q, want 01:02:05", got)
	}
}

func TestSegmentJSONFields(t *testing.T) {
	seg := Segment{ChunkIndex: 2, Start: 50, End: 80, Text: "x", Language: "en"}
	data, err := json.Marshal(seg)
	if err != nil {
		t.Fatalf("marshal segment: %v", err)
	}
	for _, key := range []string{`"chunk":2`, `"start_time":50`, `"end_time":80`, `"language":"en"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("segment JSON missing %s: %s", key, data)
		}
	}
}
